package employee

import "time"

// Employee は勤怠で参照する社員です。解雇・復職の状態のみを扱います。
type Employee struct {
	ID        string
	IsActive  bool
	FiredAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
