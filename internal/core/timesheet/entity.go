package timesheet

import (
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"github.com/shopspring/decimal"
)

// EntryStatus は日次エントリの承認状態です。
type EntryStatus string

const (
	EntryDraft     EntryStatus = "draft"
	EntrySubmitted EntryStatus = "submitted"
	EntryApproved  EntryStatus = "approved"
	EntryDenied    EntryStatus = "denied"
	EntryPaid      EntryStatus = "paid"
)

// Entry は社員・勤務日・支払期間ごとの勤務時間の集計です。
// 退勤の処理でのみ作成・加算され、削除されません。
type Entry struct {
	ID              string
	EmployeeID      string
	WorkDate        workcal.Date
	PayPeriodID     string
	HoursWorked     decimal.Decimal
	Status          EntryStatus
	ManagerFeedback *string
	SubmissionCount int
	ReviewerID      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EntryKey はエントリの一意キーです。
type EntryKey struct {
	EmployeeID  string
	WorkDate    workcal.Date
	PayPeriodID string
}

// WeeklyStatus は社員・週単位の承認状態です。
type WeeklyStatus string

const (
	WeeklyPending  WeeklyStatus = "Pending"
	WeeklyApproved WeeklyStatus = "Approved"
	WeeklyDenied   WeeklyStatus = "Denied"
)

// WeeklyTimesheetStatus は週次の承認状態の集約レコードです。
// エントリの状態より古いことがあります。
type WeeklyTimesheetStatus struct {
	EmployeeID    string
	WeekStartDate workcal.Date
	Status        WeeklyStatus
	UpdatedAt     time.Time
}

// NotificationType は通知の種別です。
type NotificationType string

const (
	NotificationApproval NotificationType = "approval"
	NotificationDenial   NotificationType = "denial"
	NotificationReminder NotificationType = "reminder"
)

// Notification は承認・却下・催促が発生したことの記録です。配信は行いません。
type Notification struct {
	ID               string
	EmployeeID       string
	TimesheetEntryID string
	Type             NotificationType
	Message          string
	Read             bool
	CreatedAt        time.Time
}

// Status は「今週のタイムシートの状態」の表示値です。
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// StatusView は GetStatus の結果です。Degraded は永続化層の障害で既定値を返したことを示します。
type StatusView struct {
	Status    Status
	WeekStart workcal.Date
	Degraded  bool
}

// EntryList は期間内のエントリ一覧です。
type EntryList struct {
	PayPeriodID string
	Window      workcal.Window
	Entries     []*Entry
	TotalHours  decimal.Decimal
}

// WeeklySummary は manager 向けの社員別週次サマリです。
type WeeklySummary struct {
	EmployeeID  string
	PayPeriodID string
	WeekStart   workcal.Date
	TotalHours  decimal.Decimal
	EntryCount  int
	Status      Status
}

// DayTotal は再集計後の日別の勤務時間です。
type DayTotal struct {
	WorkDate workcal.Date
	Hours    decimal.Decimal
}

// RebuildResult は打刻ログからの再集計結果です。
type RebuildResult struct {
	EmployeeID  string
	PayPeriodID string
	Days        []DayTotal
	TotalHours  decimal.Decimal
}

// PeriodReport は期間の全社員分のエントリとサマリです。
type PeriodReport struct {
	Period    *payperiod.PayPeriod
	Summaries []*WeeklySummary
	Entries   []*Entry
}
