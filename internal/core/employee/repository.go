package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	// LockByID は社員行を排他ロックして取得します。同一社員の打刻を直列化するために使います。
	LockByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
}
