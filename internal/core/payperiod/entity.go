package payperiod

import (
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
)

// Status は支払期間の状態を表します。
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusPaid   Status = "paid"
)

// PayPeriod は 7 日間の支払期間です。(StartDate, EndDate) ごとに 1 行だけ存在します。
type PayPeriod struct {
	ID          string
	StartDate   workcal.Date
	EndDate     workcal.Date
	Status      Status
	PaymentDate *workcal.Date
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Window は期間の暦日範囲を返します。
func (p *PayPeriod) Window() workcal.Window {
	return workcal.Window{Start: p.StartDate, End: p.EndDate}
}
