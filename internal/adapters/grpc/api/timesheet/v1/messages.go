// Package timesheetv1 は timesheet.v1.TimesheetService の電文と登録情報を定義します。
// 電文は JSON コーデックで送受信されます。
package timesheetv1

// ClockEvent は打刻イベントです。OccurredAt は RFC 3339 形式です。
type ClockEvent struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	OccurredAt string `json:"occurred_at"`
}

// PayPeriod は支払期間です。日付は YYYY-MM-DD 形式です。
type PayPeriod struct {
	ID          string `json:"id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	PaymentDate string `json:"payment_date,omitempty"`
}

// TimesheetEntry は日次の勤務時間エントリです。
type TimesheetEntry struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	WorkDate        string `json:"work_date"`
	PayPeriodID     string `json:"pay_period_id"`
	HoursWorked     string `json:"hours_worked"`
	Status          string `json:"status"`
	ManagerFeedback string `json:"manager_feedback,omitempty"`
	SubmissionCount int32  `json:"submission_count"`
	ReviewerID      string `json:"reviewer_id,omitempty"`
	ReviewedAt      string `json:"reviewed_at,omitempty"`
}

// WeeklyTimesheet は社員別の週次サマリです。
type WeeklyTimesheet struct {
	EmployeeID  string `json:"employee_id"`
	PayPeriodID string `json:"pay_period_id"`
	WeekStart   string `json:"week_start"`
	TotalHours  string `json:"total_hours"`
	EntryCount  int32  `json:"entry_count"`
	Status      string `json:"status"`
}

// Employee は勤怠で参照する社員です。
type Employee struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
	FiredAt  string `json:"fired_at,omitempty"`
}

// DayTotal は再集計後の日別時間です。
type DayTotal struct {
	WorkDate string `json:"work_date"`
	Hours    string `json:"hours"`
}

// Notification は承認・却下・催促の通知です。
type Notification struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	TimesheetEntryID string `json:"timesheet_entry_id"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	Read             bool   `json:"read"`
	CreatedAt        string `json:"created_at"`
}

type ClockInRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

func (r *ClockInRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type ClockInResponse struct {
	Event *ClockEvent `json:"event"`
}

type ClockOutRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

func (r *ClockOutRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type ClockOutResponse struct {
	In    *ClockEvent `json:"in"`
	Out   *ClockEvent `json:"out"`
	Hours string      `json:"hours"`
}

type GetClockStatusRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

func (r *GetClockStatusRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type GetClockStatusResponse struct {
	IsClockedIn  bool          `json:"is_clocked_in"`
	LastEvent    *ClockEvent   `json:"last_event,omitempty"`
	RecentEvents []*ClockEvent `json:"recent_events"`
}

type GetCurrentPayPeriodRequest struct{}

type PayPeriodResponse struct {
	PayPeriod *PayPeriod `json:"pay_period"`
}

type ListTimesheetEntriesRequest struct {
	EmployeeID  string `json:"employee_id,omitempty"`
	PayPeriodID string `json:"pay_period_id,omitempty"`
}

func (r *ListTimesheetEntriesRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type ListTimesheetEntriesResponse struct {
	PayPeriodID string            `json:"pay_period_id"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Entries     []*TimesheetEntry `json:"entries"`
	TotalHours  string            `json:"total_hours"`
}

type SubmitTimesheetRequest struct {
	EmployeeID  string `json:"employee_id,omitempty"`
	PayPeriodID string `json:"pay_period_id"`
}

func (r *SubmitTimesheetRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type SubmitTimesheetResponse struct {
	Submitted int32 `json:"submitted"`
}

type GetTimesheetStatusRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

func (r *GetTimesheetStatusRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type GetTimesheetStatusResponse struct {
	Status    string `json:"status"`
	WeekStart string `json:"week_start"`
	Degraded  bool   `json:"degraded,omitempty"`
}

type ListWeeklyTimesheetsRequest struct {
	PayPeriodID string `json:"pay_period_id,omitempty"`
}

type ListWeeklyTimesheetsResponse struct {
	Timesheets []*WeeklyTimesheet `json:"timesheets"`
}

// ReviewWeeklyTimesheetRequest は承認・却下の共通リクエストです。EmployeeID は審査対象の社員です。
type ReviewWeeklyTimesheetRequest struct {
	EmployeeID  string  `json:"employee_id"`
	PayPeriodID string  `json:"pay_period_id,omitempty"`
	Feedback    *string `json:"feedback,omitempty"`
}

func (r *ReviewWeeklyTimesheetRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type ReviewWeeklyTimesheetResponse struct {
	Entries []*TimesheetEntry `json:"entries"`
}

type EmployeeLifecycleRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *EmployeeLifecycleRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type EmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type RebuildTimesheetRequest struct {
	EmployeeID  string `json:"employee_id"`
	PayPeriodID string `json:"pay_period_id"`
}

func (r *RebuildTimesheetRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type RebuildTimesheetResponse struct {
	EmployeeID  string      `json:"employee_id"`
	PayPeriodID string      `json:"pay_period_id"`
	Days        []*DayTotal `json:"days"`
	TotalHours  string      `json:"total_hours"`
}

type ClosePayPeriodRequest struct {
	PayPeriodID string `json:"pay_period_id"`
}

type MarkPayPeriodPaidRequest struct {
	PayPeriodID string `json:"pay_period_id"`
	PaymentDate string `json:"payment_date"`
}

type ListNotificationsRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	UnreadOnly bool   `json:"unread_only,omitempty"`
}

func (r *ListNotificationsRequest) GetEmployeeID() string {
	if r == nil {
		return ""
	}
	return r.EmployeeID
}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}
