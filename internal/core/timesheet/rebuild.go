package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"github.com/shopspring/decimal"
)

// Rebuild は打刻ログから期間内の日次エントリの勤務時間を再計算して上書きします。
// 退勤が期間内にある区間だけを数え、エントリの状態は変更しません。manager 専用です。
func (s *Service) Rebuild(ctx context.Context, actor apperr.Actor, employeeID, payPeriodID string) (*RebuildResult, error) {
	if err := actor.RequireManager(); err != nil {
		return nil, err
	}
	empID, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}
	periodID, err := payperiod.NormalizeID(payPeriodID)
	if err != nil {
		return nil, err
	}

	var result *RebuildResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		period, err := s.periods.GetByID(txCtx, periodID)
		if err != nil {
			return err
		}

		from, to := s.calendar.Bounds(period.Window())
		events, err := s.events.ListBetween(txCtx, empID, from.Add(-MaxIntervalDuration), to)
		if err != nil {
			return err
		}

		totals, err := s.dailyTotals(events, period.Window())
		if err != nil {
			return err
		}

		existing, err := s.entries.List(txCtx, EntryFilter{EmployeeID: empID, PayPeriodID: period.ID})
		if err != nil {
			return err
		}
		for _, entry := range existing {
			if _, ok := totals[entry.WorkDate]; !ok {
				totals[entry.WorkDate] = decimal.Zero
			}
		}

		now := s.clock.Now()
		result = &RebuildResult{EmployeeID: empID, PayPeriodID: period.ID, TotalHours: decimal.Zero}
		for date, hours := range totals {
			if _, err := s.entries.SetHours(txCtx, EntryKey{
				EmployeeID:  empID,
				WorkDate:    date,
				PayPeriodID: period.ID,
			}, hours, now); err != nil {
				return err
			}
			result.Days = append(result.Days, DayTotal{WorkDate: date, Hours: hours})
			result.TotalHours = result.TotalHours.Add(hours)
		}
		sort.Slice(result.Days, func(i, j int) bool {
			return result.Days[i].WorkDate.Before(result.Days[j].WorkDate)
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if len(result.Days) > 0 {
		s.invalidate(ctx, empID, s.calendar.WeekOf(result.Days[0].WorkDate).Start)
	}
	s.logger.InfoContext(ctx, "timesheet rebuilt",
		slog.String("employee_id", empID),
		slog.String("pay_period_id", result.PayPeriodID),
		slog.Int("days", len(result.Days)),
		slog.String("total_hours", result.TotalHours.StringFixed(hoursScale)),
	)
	return result, nil
}

// dailyTotals は時刻順のイベントを IN/OUT で組にし、出勤日ごとに合計します。
func (s *Service) dailyTotals(events []*clock.Event, window workcal.Window) (map[workcal.Date]decimal.Decimal, error) {
	totals := make(map[workcal.Date]decimal.Decimal)
	var open *clock.Event
	for _, event := range events {
		switch event.Type {
		case clock.EventIn:
			if open != nil {
				return nil, fmt.Errorf("%w: consecutive IN events %s and %s", ErrUnpairedEvent, open.ID, event.ID)
			}
			open = event
		case clock.EventOut:
			outDate := s.calendar.CivilDate(event.OccurredAt)
			if open == nil {
				if window.Contains(outDate) {
					return nil, fmt.Errorf("%w: OUT event %s has no matching IN", ErrUnpairedEvent, event.ID)
				}
				continue
			}
			in := open
			open = nil
			if !window.Contains(outDate) {
				continue
			}
			hours, err := IntervalHours(in.OccurredAt, event.OccurredAt)
			if err != nil {
				return nil, err
			}
			workDate := s.calendar.CivilDate(in.OccurredAt)
			totals[workDate] = totals[workDate].Add(hours)
		default:
			return nil, fmt.Errorf("%w: %q", clock.ErrInvalidEventType, event.Type)
		}
	}
	return totals, nil
}
