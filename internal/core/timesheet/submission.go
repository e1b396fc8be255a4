package timesheet

import (
	"context"
	"log/slog"

	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
)

// Submit は社員の期間内エントリを submitted にし、週次状態を Pending にします。
// 対象が 0 件でも成功で、却下後の再提出にも使われます。
func (s *Service) Submit(ctx context.Context, employeeID, payPeriodID string) (int, error) {
	empID, err := employee.NormalizeID(employeeID)
	if err != nil {
		return 0, err
	}
	periodID, err := payperiod.NormalizeID(payPeriodID)
	if err != nil {
		return 0, err
	}

	var (
		transitioned int
		period       *payperiod.PayPeriod
	)
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.periods.GetByID(txCtx, periodID)
		if err != nil {
			return err
		}
		period = found

		now := s.clock.Now()
		count, err := s.entries.SubmitPeriod(txCtx, empID, period.ID, now)
		if err != nil {
			return err
		}

		if _, err := s.weekly.Upsert(txCtx, &WeeklyTimesheetStatus{
			EmployeeID:    empID,
			WeekStartDate: period.StartDate,
			Status:        WeeklyPending,
			UpdatedAt:     now,
		}); err != nil {
			return err
		}

		transitioned = count
		return nil
	}); err != nil {
		return 0, err
	}

	s.invalidate(ctx, empID, period.StartDate)
	s.logger.InfoContext(ctx, "timesheet submitted",
		slog.String("employee_id", empID),
		slog.String("pay_period_id", period.ID),
		slog.Int("entries", transitioned),
	)
	return transitioned, nil
}
