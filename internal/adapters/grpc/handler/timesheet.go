package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	timesheetv1 "github.com/ogurasousui/timesheet-engine/internal/adapters/grpc/api/timesheet/v1"
	"github.com/ogurasousui/timesheet-engine/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TimesheetGrpcHandler は TimesheetService の gRPC 実装です。
type TimesheetGrpcHandler struct {
	clock      clock.UseCase
	timesheets timesheet.UseCase
	periods    payperiod.UseCase
	employees  employee.UseCase
}

var _ timesheetv1.TimesheetServiceServer = (*TimesheetGrpcHandler)(nil)

// NewTimesheetGrpcHandler は TimesheetGrpcHandler を生成します。
func NewTimesheetGrpcHandler(clk clock.UseCase, timesheets timesheet.UseCase, periods payperiod.UseCase, employees employee.UseCase) *TimesheetGrpcHandler {
	return &TimesheetGrpcHandler{clock: clk, timesheets: timesheets, periods: periods, employees: employees}
}

// ClockIn は出勤を打刻します。
func (h *TimesheetGrpcHandler) ClockIn(ctx context.Context, req *timesheetv1.ClockInRequest) (*timesheetv1.ClockInResponse, error) {
	employeeID, err := subject(ctx, req.GetEmployeeID())
	if err != nil {
		return nil, err
	}

	event, err := h.clock.ClockIn(ctx, employeeID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.ClockInResponse{Event: toAPIEvent(event)}, nil
}

// ClockOut は退勤を打刻し、勤務時間を計上します。
func (h *TimesheetGrpcHandler) ClockOut(ctx context.Context, req *timesheetv1.ClockOutRequest) (*timesheetv1.ClockOutResponse, error) {
	employeeID, err := subject(ctx, req.GetEmployeeID())
	if err != nil {
		return nil, err
	}

	interval, err := h.clock.ClockOut(ctx, employeeID)
	if err != nil {
		return nil, toStatusError(err)
	}
	hours, err := timesheet.IntervalHours(interval.In.OccurredAt, interval.Out.OccurredAt)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &timesheetv1.ClockOutResponse{
		In:    toAPIEvent(&interval.In),
		Out:   toAPIEvent(&interval.Out),
		Hours: hours.StringFixed(3),
	}, nil
}

// GetClockStatus は打刻状態を返します。
func (h *TimesheetGrpcHandler) GetClockStatus(ctx context.Context, req *timesheetv1.GetClockStatusRequest) (*timesheetv1.GetClockStatusResponse, error) {
	employeeID, err := subject(ctx, req.GetEmployeeID())
	if err != nil {
		return nil, err
	}

	st, err := h.clock.GetStatus(ctx, employeeID)
	if err != nil {
		return nil, toStatusError(err)
	}

	recent := make([]*timesheetv1.ClockEvent, 0, len(st.RecentEvents))
	for _, event := range st.RecentEvents {
		recent = append(recent, toAPIEvent(event))
	}
	return &timesheetv1.GetClockStatusResponse{
		IsClockedIn:  st.IsClockedIn,
		LastEvent:    toAPIEvent(st.LastEvent),
		RecentEvents: recent,
	}, nil
}

// GetCurrentPayPeriod は現在の支払期間を返し、無ければ作成します。
func (h *TimesheetGrpcHandler) GetCurrentPayPeriod(ctx context.Context, _ *timesheetv1.GetCurrentPayPeriodRequest) (*timesheetv1.PayPeriodResponse, error) {
	if _, err := actorFrom(ctx); err != nil {
		return nil, err
	}

	period, err := h.periods.GetOrCreateCurrent(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.PayPeriodResponse{PayPeriod: toAPIPeriod(period)}, nil
}

// ListTimesheetEntries は期間内のエントリを返します。
func (h *TimesheetGrpcHandler) ListTimesheetEntries(ctx context.Context, req *timesheetv1.ListTimesheetEntriesRequest) (*timesheetv1.ListTimesheetEntriesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	employeeID, err := subject(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	list, err := h.timesheets.ListEntries(ctx, employeeID, req.PayPeriodID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.ListTimesheetEntriesResponse{
		PayPeriodID: list.PayPeriodID,
		StartDate:   list.Window.Start.String(),
		EndDate:     list.Window.End.String(),
		Entries:     toAPIEntries(list.Entries),
		TotalHours:  list.TotalHours.StringFixed(3),
	}, nil
}

// SubmitTimesheet は期間のエントリを提出します。
func (h *TimesheetGrpcHandler) SubmitTimesheet(ctx context.Context, req *timesheetv1.SubmitTimesheetRequest) (*timesheetv1.SubmitTimesheetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	employeeID, err := subject(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	n, err := h.timesheets.Submit(ctx, employeeID, req.PayPeriodID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.SubmitTimesheetResponse{Submitted: int32(n)}, nil
}

// GetTimesheetStatus は今週のタイムシートの状態を返します。
func (h *TimesheetGrpcHandler) GetTimesheetStatus(ctx context.Context, req *timesheetv1.GetTimesheetStatusRequest) (*timesheetv1.GetTimesheetStatusResponse, error) {
	employeeID, err := subject(ctx, req.GetEmployeeID())
	if err != nil {
		return nil, err
	}

	view, err := h.timesheets.GetStatus(ctx, employeeID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.GetTimesheetStatusResponse{
		Status:    string(view.Status),
		WeekStart: view.WeekStart.String(),
		Degraded:  view.Degraded,
	}, nil
}

// ListWeeklyTimesheetsAllEmployees は全社員の週次サマリを返します。
func (h *TimesheetGrpcHandler) ListWeeklyTimesheetsAllEmployees(ctx context.Context, req *timesheetv1.ListWeeklyTimesheetsRequest) (*timesheetv1.ListWeeklyTimesheetsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := h.timesheets.ListWeekly(ctx, actor, req.PayPeriodID)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*timesheetv1.WeeklyTimesheet, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, &timesheetv1.WeeklyTimesheet{
			EmployeeID:  s.EmployeeID,
			PayPeriodID: s.PayPeriodID,
			WeekStart:   s.WeekStart.String(),
			TotalHours:  s.TotalHours.StringFixed(3),
			EntryCount:  int32(s.EntryCount),
			Status:      string(s.Status),
		})
	}
	return &timesheetv1.ListWeeklyTimesheetsResponse{Timesheets: out}, nil
}

// ApproveWeeklyTimesheet は提出済みエントリを承認します。
func (h *TimesheetGrpcHandler) ApproveWeeklyTimesheet(ctx context.Context, req *timesheetv1.ReviewWeeklyTimesheetRequest) (*timesheetv1.ReviewWeeklyTimesheetResponse, error) {
	return h.review(ctx, req, h.timesheets.Approve)
}

// DenyWeeklyTimesheet は提出済みエントリを却下します。
func (h *TimesheetGrpcHandler) DenyWeeklyTimesheet(ctx context.Context, req *timesheetv1.ReviewWeeklyTimesheetRequest) (*timesheetv1.ReviewWeeklyTimesheetResponse, error) {
	return h.review(ctx, req, h.timesheets.Deny)
}

func (h *TimesheetGrpcHandler) review(ctx context.Context, req *timesheetv1.ReviewWeeklyTimesheetRequest, apply func(context.Context, timesheet.ReviewInput) ([]*timesheet.Entry, error)) (*timesheetv1.ReviewWeeklyTimesheetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := apply(ctx, timesheet.ReviewInput{
		Actor:       actor,
		EmployeeID:  req.EmployeeID,
		PayPeriodID: req.PayPeriodID,
		Feedback:    req.Feedback,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.ReviewWeeklyTimesheetResponse{Entries: toAPIEntries(entries)}, nil
}

// FireEmployee は社員を解雇状態にします。
func (h *TimesheetGrpcHandler) FireEmployee(ctx context.Context, req *timesheetv1.EmployeeLifecycleRequest) (*timesheetv1.EmployeeResponse, error) {
	return h.lifecycle(ctx, req, h.employees.FireEmployee)
}

// ReinstateEmployee は社員を復職させます。
func (h *TimesheetGrpcHandler) ReinstateEmployee(ctx context.Context, req *timesheetv1.EmployeeLifecycleRequest) (*timesheetv1.EmployeeResponse, error) {
	return h.lifecycle(ctx, req, h.employees.ReinstateEmployee)
}

func (h *TimesheetGrpcHandler) lifecycle(ctx context.Context, req *timesheetv1.EmployeeLifecycleRequest, apply func(context.Context, apperr.Actor, string) (*employee.Employee, error)) (*timesheetv1.EmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := apply(ctx, actor, req.EmployeeID)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := &timesheetv1.Employee{ID: emp.ID, IsActive: emp.IsActive}
	if emp.FiredAt != nil {
		out.FiredAt = formatTime(*emp.FiredAt)
	}
	return &timesheetv1.EmployeeResponse{Employee: out}, nil
}

// RebuildTimesheet は打刻ログから期間の勤務時間を再集計します。
func (h *TimesheetGrpcHandler) RebuildTimesheet(ctx context.Context, req *timesheetv1.RebuildTimesheetRequest) (*timesheetv1.RebuildTimesheetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.timesheets.Rebuild(ctx, actor, req.EmployeeID, req.PayPeriodID)
	if err != nil {
		return nil, toStatusError(err)
	}

	days := make([]*timesheetv1.DayTotal, 0, len(result.Days))
	for _, day := range result.Days {
		days = append(days, &timesheetv1.DayTotal{WorkDate: day.WorkDate.String(), Hours: day.Hours.StringFixed(3)})
	}
	return &timesheetv1.RebuildTimesheetResponse{
		EmployeeID:  result.EmployeeID,
		PayPeriodID: result.PayPeriodID,
		Days:        days,
		TotalHours:  result.TotalHours.StringFixed(3),
	}, nil
}

// ClosePayPeriod は支払期間を締めます。
func (h *TimesheetGrpcHandler) ClosePayPeriod(ctx context.Context, req *timesheetv1.ClosePayPeriodRequest) (*timesheetv1.PayPeriodResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	period, err := h.periods.Close(ctx, actor, req.PayPeriodID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.PayPeriodResponse{PayPeriod: toAPIPeriod(period)}, nil
}

// MarkPayPeriodPaid は支払期間を支払済みにします。
func (h *TimesheetGrpcHandler) MarkPayPeriodPaid(ctx context.Context, req *timesheetv1.MarkPayPeriodPaidRequest) (*timesheetv1.PayPeriodResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	paymentDate, err := workcal.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("payment_date: %v", err))
	}

	period, err := h.periods.MarkPaid(ctx, actor, req.PayPeriodID, paymentDate)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &timesheetv1.PayPeriodResponse{PayPeriod: toAPIPeriod(period)}, nil
}

// ListNotifications は社員宛ての通知を返します。
func (h *TimesheetGrpcHandler) ListNotifications(ctx context.Context, req *timesheetv1.ListNotificationsRequest) (*timesheetv1.ListNotificationsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	employeeID, err := subject(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	notifications, err := h.timesheets.ListNotifications(ctx, employeeID, req.UnreadOnly)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*timesheetv1.Notification, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, &timesheetv1.Notification{
			ID:               n.ID,
			EmployeeID:       n.EmployeeID,
			TimesheetEntryID: n.TimesheetEntryID,
			Type:             string(n.Type),
			Message:          n.Message,
			Read:             n.Read,
			CreatedAt:        formatTime(n.CreatedAt),
		})
	}
	return &timesheetv1.ListNotificationsResponse{Notifications: out}, nil
}

func actorFrom(ctx context.Context) (apperr.Actor, error) {
	actor, ok := interceptor.ActorFromContext(ctx)
	if !ok {
		return apperr.Actor{}, status.Error(codes.Unauthenticated, "caller identity is required")
	}
	return actor, nil
}

// subject は操作対象の社員 ID を決定します。未指定なら呼び出し元自身です。
func subject(ctx context.Context, requested string) (string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(requested) == "" {
		return actor.EmployeeID, nil
	}
	return requested, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toAPIEvent(event *clock.Event) *timesheetv1.ClockEvent {
	if event == nil {
		return nil
	}
	return &timesheetv1.ClockEvent{
		ID:         event.ID,
		EmployeeID: event.EmployeeID,
		Type:       string(event.Type),
		OccurredAt: formatTime(event.OccurredAt),
	}
}

func toAPIPeriod(period *payperiod.PayPeriod) *timesheetv1.PayPeriod {
	if period == nil {
		return nil
	}
	out := &timesheetv1.PayPeriod{
		ID:        period.ID,
		StartDate: period.StartDate.String(),
		EndDate:   period.EndDate.String(),
		Status:    string(period.Status),
	}
	if period.PaymentDate != nil {
		out.PaymentDate = period.PaymentDate.String()
	}
	return out
}

func toAPIEntries(entries []*timesheet.Entry) []*timesheetv1.TimesheetEntry {
	out := make([]*timesheetv1.TimesheetEntry, 0, len(entries))
	for _, e := range entries {
		entry := &timesheetv1.TimesheetEntry{
			ID:              e.ID,
			EmployeeID:      e.EmployeeID,
			WorkDate:        e.WorkDate.String(),
			PayPeriodID:     e.PayPeriodID,
			HoursWorked:     e.HoursWorked.StringFixed(3),
			Status:          string(e.Status),
			SubmissionCount: int32(e.SubmissionCount),
		}
		if e.ManagerFeedback != nil {
			entry.ManagerFeedback = *e.ManagerFeedback
		}
		if e.ReviewerID != nil {
			entry.ReviewerID = *e.ReviewerID
		}
		if e.ReviewedAt != nil {
			entry.ReviewedAt = formatTime(*e.ReviewedAt)
		}
		out = append(out, entry)
	}
	return out
}
