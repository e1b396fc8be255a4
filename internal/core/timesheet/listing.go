package timesheet

import (
	"context"
	"sort"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/shopspring/decimal"
)

// ListEntries は社員の期間内エントリを勤務日順に返します。期間 ID が空なら現在の期間です。
func (s *Service) ListEntries(ctx context.Context, employeeID, payPeriodID string) (*EntryList, error) {
	empID, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}
	if payPeriodID != "" {
		if payPeriodID, err = payperiod.NormalizeID(payPeriodID); err != nil {
			return nil, err
		}
	}

	var list *EntryList
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		period, err := s.resolvePeriod(txCtx, payPeriodID)
		if err != nil {
			return err
		}

		entries, err := s.entries.List(txCtx, EntryFilter{EmployeeID: empID, PayPeriodID: period.ID})
		if err != nil {
			return err
		}

		list = &EntryList{
			PayPeriodID: period.ID,
			Window:      period.Window(),
			Entries:     entries,
			TotalHours:  sumHours(entries),
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return list, nil
}

// ListWeekly は期間内の全社員の週次サマリを社員 ID 順に返します。manager 専用です。
func (s *Service) ListWeekly(ctx context.Context, actor apperr.Actor, payPeriodID string) ([]*WeeklySummary, error) {
	report, err := s.Report(ctx, actor, payPeriodID)
	if err != nil {
		return nil, err
	}
	return report.Summaries, nil
}

// Report は期間の全エントリと社員別サマリを返します。manager 専用です。
func (s *Service) Report(ctx context.Context, actor apperr.Actor, payPeriodID string) (*PeriodReport, error) {
	if err := actor.RequireManager(); err != nil {
		return nil, err
	}
	if payPeriodID != "" {
		var err error
		if payPeriodID, err = payperiod.NormalizeID(payPeriodID); err != nil {
			return nil, err
		}
	}

	var report *PeriodReport
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		period, err := s.resolvePeriod(txCtx, payPeriodID)
		if err != nil {
			return err
		}

		entries, err := s.entries.List(txCtx, EntryFilter{PayPeriodID: period.ID})
		if err != nil {
			return err
		}
		statuses, err := s.weekly.ListByWeek(txCtx, period.StartDate)
		if err != nil {
			return err
		}

		report = &PeriodReport{
			Period:    period,
			Summaries: summarize(period, entries, statuses),
			Entries:   entries,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return report, nil
}

// ListNotifications は社員の通知を新しい順に返します。
func (s *Service) ListNotifications(ctx context.Context, employeeID string, unreadOnly bool) ([]*Notification, error) {
	empID, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}

	var notifications []*Notification
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.notifications.ListByEmployee(txCtx, empID, unreadOnly, defaultNotificationLimit)
		if err != nil {
			return err
		}
		notifications = found
		return nil
	}); err != nil {
		return nil, err
	}
	return notifications, nil
}

func summarize(period *payperiod.PayPeriod, entries []*Entry, statuses []*WeeklyTimesheetStatus) []*WeeklySummary {
	byEmployee := make(map[string][]*Entry)
	for _, entry := range entries {
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], entry)
	}
	explicit := make(map[string]WeeklyStatus, len(statuses))
	for _, status := range statuses {
		explicit[status.EmployeeID] = status.Status
		if _, ok := byEmployee[status.EmployeeID]; !ok {
			byEmployee[status.EmployeeID] = nil
		}
	}

	summaries := make([]*WeeklySummary, 0, len(byEmployee))
	for empID, group := range byEmployee {
		status := ResolveStatus(group)
		if weekly, ok := explicit[empID]; ok {
			status = weekly.View()
		}
		summaries = append(summaries, &WeeklySummary{
			EmployeeID:  empID,
			PayPeriodID: period.ID,
			WeekStart:   period.StartDate,
			TotalHours:  sumHours(group),
			EntryCount:  len(group),
			Status:      status,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}

func sumHours(entries []*Entry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.HoursWorked)
	}
	return total
}
