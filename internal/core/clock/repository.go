package clock

import (
	"context"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
)

// EventRepository は打刻ログ永続化の抽象です。
type EventRepository interface {
	Append(ctx context.Context, event *Event) (*Event, error)
	// Latest は社員の最新イベントを返します。存在しない場合は ErrEventNotFound です。
	Latest(ctx context.Context, employeeID string) (*Event, error)
	// Recent は新しい順に最大 limit 件を返します。
	Recent(ctx context.Context, employeeID string, limit int) ([]*Event, error)
	// ListBetween は [from, to) のイベントを古い順に返します。
	ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*Event, error)
}

// EmployeeLocker は打刻の直列化に使う社員行ロックです。
type EmployeeLocker interface {
	LockByID(ctx context.Context, id string) (*employee.Employee, error)
}

// Accruer は退勤時に勤務時間を集計します。打刻と同じトランザクション内で呼ばれます。
type Accruer interface {
	Accrue(ctx context.Context, interval Interval) error
}
