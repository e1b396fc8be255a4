package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/shopspring/decimal"
)

const (
	// MaxIntervalDuration を超える勤務区間は打刻順序の破損として扱います。
	MaxIntervalDuration = 24 * time.Hour

	hoursScale = 3
)

var microsecondsPerHour = decimal.NewFromInt(int64(time.Hour / time.Microsecond))

// IntervalHours は区間の長さを小数 3 桁の時間で返します。
// 0 以下または 24 時間を超える区間は ErrImplausibleInterval です。
func IntervalHours(in, out time.Time) (decimal.Decimal, error) {
	d := out.Sub(in)
	if d <= 0 || d > MaxIntervalDuration {
		return decimal.Zero, fmt.Errorf("%w: %s to %s (%s)", ErrImplausibleInterval, in.Format(time.RFC3339), out.Format(time.RFC3339), d)
	}
	return decimal.NewFromInt(d.Microseconds()).Div(microsecondsPerHour).Round(hoursScale), nil
}

// Accrue は退勤 1 回につき 1 度だけ呼ばれ、日次エントリに勤務時間を加算します。
// 勤務日は出勤時刻の暦日、期間は退勤時点で有効な期間です。
// 呼び出し元のトランザクション内で実行されます。
func (s *Service) Accrue(ctx context.Context, interval clock.Interval) error {
	if interval.In.EmployeeID != interval.EmployeeID || interval.Out.EmployeeID != interval.EmployeeID {
		return ErrEmployeeMismatch
	}
	if interval.In.Type != clock.EventIn || interval.Out.Type != clock.EventOut {
		return fmt.Errorf("%w: expected IN/OUT pair, got %s/%s", ErrUnpairedEvent, interval.In.Type, interval.Out.Type)
	}

	hours, err := IntervalHours(interval.In.OccurredAt, interval.Out.OccurredAt)
	if err != nil {
		s.logger.ErrorContext(ctx, "rejecting implausible interval",
			slog.String("employee_id", interval.EmployeeID),
			slog.String("in_event_id", interval.In.ID),
			slog.String("out_event_id", interval.Out.ID),
		)
		return err
	}

	workDate := s.calendar.CivilDate(interval.In.OccurredAt)

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		period, err := s.periods.GetOrCreateCurrent(txCtx)
		if err != nil {
			return err
		}

		entry, err := s.entries.AddHours(txCtx, EntryKey{
			EmployeeID:  interval.EmployeeID,
			WorkDate:    workDate,
			PayPeriodID: period.ID,
		}, hours, s.clock.Now())
		if err != nil {
			return err
		}

		s.logger.DebugContext(txCtx, "hours accrued",
			slog.String("employee_id", entry.EmployeeID),
			slog.String("work_date", workDate.String()),
			slog.String("pay_period_id", period.ID),
			slog.String("added", hours.StringFixed(hoursScale)),
			slog.String("total", entry.HoursWorked.StringFixed(hoursScale)),
		)
		return nil
	})
}
