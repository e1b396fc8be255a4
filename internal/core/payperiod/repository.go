package payperiod

import (
	"context"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
)

// Repository は支払期間永続化の抽象です。
type Repository interface {
	// Ensure は window に一致する期間を返し、存在しなければ active で作成します。
	// 同時に呼ばれても行は 1 つしか作られてはいけません。
	Ensure(ctx context.Context, window workcal.Window, now time.Time) (*PayPeriod, error)
	FindByID(ctx context.Context, id string) (*PayPeriod, error)
	Update(ctx context.Context, period *PayPeriod) (*PayPeriod, error)
	List(ctx context.Context, limit int) ([]*PayPeriod, error)
}
