package timesheet

import (
	"context"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"github.com/shopspring/decimal"
)

// EntryFilter はエントリ一覧の条件です。空のフィールドは条件に含めません。
type EntryFilter struct {
	EmployeeID  string
	PayPeriodID string
	From        *workcal.Date
	To          *workcal.Date
}

// ReviewUpdate は submitted なエントリに対する一括レビューの内容です。
type ReviewUpdate struct {
	EmployeeID  string
	PayPeriodID string
	Status      EntryStatus
	ReviewerID  string
	Feedback    *string
	ReviewedAt  time.Time
}

// EntryRepository は日次エントリ永続化の抽象です。
type EntryRepository interface {
	// AddHours は key のエントリに hours を加算し、存在しなければ draft で作成します。
	AddHours(ctx context.Context, key EntryKey, hours decimal.Decimal, now time.Time) (*Entry, error)
	// SetHours は key のエントリの勤務時間を hours に置き換えます。状態は変更しません。
	SetHours(ctx context.Context, key EntryKey, hours decimal.Decimal, now time.Time) (*Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]*Entry, error)
	// SubmitPeriod は draft / denied のエントリを submitted にし、件数を返します。
	SubmitPeriod(ctx context.Context, employeeID, payPeriodID string, now time.Time) (int, error)
	// ReviewSubmitted は submitted のエントリだけを更新し、更新後の行を返します。
	ReviewSubmitted(ctx context.Context, update ReviewUpdate) ([]*Entry, error)
}

// WeeklyStatusRepository は週次状態永続化の抽象です。
type WeeklyStatusRepository interface {
	Upsert(ctx context.Context, status *WeeklyTimesheetStatus) (*WeeklyTimesheetStatus, error)
	Find(ctx context.Context, employeeID string, weekStart workcal.Date) (*WeeklyTimesheetStatus, error)
	ListByWeek(ctx context.Context, weekStart workcal.Date) ([]*WeeklyTimesheetStatus, error)
}

// NotificationRepository は通知記録の抽象です。
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) (*Notification, error)
	ExistsForEntry(ctx context.Context, entryID string, typ NotificationType) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit int) ([]*Notification, error)
}

// Repositories は Service が利用する永続化ポートの集合です。
type Repositories struct {
	Entries       EntryRepository
	Weekly        WeeklyStatusRepository
	Notifications NotificationRepository
	Events        EventReader
}

// EventReader は再集計で打刻ログを読むためのポートです。
type EventReader interface {
	ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*clock.Event, error)
}

// PeriodProvider は支払期間の解決を行います。
type PeriodProvider interface {
	GetOrCreateCurrent(ctx context.Context) (*payperiod.PayPeriod, error)
	GetByID(ctx context.Context, id string) (*payperiod.PayPeriod, error)
}

// StatusCache は状態参照のキャッシュです。エラーは呼び出し側で無視されます。
// Get はミス時に nil と現在の世代を返します。Set は Get で得た世代に書き込み、
// Invalidate は世代を進めるので、無効化前の世代への書き込みは読まれません。
type StatusCache interface {
	Get(ctx context.Context, employeeID string, weekStart workcal.Date) (*StatusView, int64, error)
	Set(ctx context.Context, employeeID string, generation int64, view *StatusView) error
	Invalidate(ctx context.Context, employeeID string, weekStart workcal.Date) error
}
