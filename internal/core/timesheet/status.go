package timesheet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
)

// GetStatus は今週のタイムシート状態を返します。
// 永続化層の障害はエラーにせず、active と Degraded を返します。
func (s *Service) GetStatus(ctx context.Context, employeeID string) (*StatusView, error) {
	empID, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}

	week := s.calendar.WeekContaining(s.clock.Now())

	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		cached, gen, err := s.cache.Get(ctx, empID, week.Start)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "status cache read failed",
				slog.String("employee_id", empID),
				slog.Any("error", err),
			)
		case cached != nil:
			return cached, nil
		default:
			generation, cacheable = gen, true
		}
	}

	var status Status
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resolved, err := s.resolveStatus(txCtx, empID, week)
		if err != nil {
			return err
		}
		status = resolved
		return nil
	}); err != nil {
		s.logger.WarnContext(ctx, "timesheet status degraded",
			slog.String("employee_id", empID),
			slog.String("week_start", week.Start.String()),
			slog.Any("error", err),
		)
		return &StatusView{Status: StatusActive, WeekStart: week.Start, Degraded: true}, nil
	}

	view := &StatusView{Status: status, WeekStart: week.Start}
	if cacheable {
		if err := s.cache.Set(ctx, empID, generation, view); err != nil {
			s.logger.WarnContext(ctx, "status cache write failed",
				slog.String("employee_id", empID),
				slog.Any("error", err),
			)
		}
	}
	return view, nil
}

func (s *Service) resolveStatus(ctx context.Context, employeeID string, week workcal.Window) (Status, error) {
	weekly, err := s.weekly.Find(ctx, employeeID, week.Start)
	switch {
	case err == nil:
		return weekly.Status.View(), nil
	case !errors.Is(err, ErrWeeklyStatusNotFound):
		return "", err
	}

	entries, err := s.entries.List(ctx, EntryFilter{
		EmployeeID: employeeID,
		From:       &week.Start,
		To:         &week.End,
	})
	if err != nil {
		return "", err
	}
	return ResolveStatus(entries), nil
}

// View は週次状態を表示値に変換します。
func (w WeeklyStatus) View() Status {
	switch w {
	case WeeklyPending:
		return StatusPending
	case WeeklyApproved:
		return StatusApproved
	case WeeklyDenied:
		return StatusDenied
	default:
		return StatusActive
	}
}

// ResolveStatus は週のエントリ集合から表示値を導出します。
// paid は approved として数えます。
func ResolveStatus(entries []*Entry) Status {
	var draft, submitted, approved, denied int
	for _, entry := range entries {
		switch entry.Status {
		case EntryDraft:
			draft++
		case EntrySubmitted:
			submitted++
		case EntryApproved, EntryPaid:
			approved++
		case EntryDenied:
			denied++
		}
	}

	total := len(entries)
	switch {
	case total == 0 || draft == total:
		return StatusActive
	case submitted > 0:
		return StatusPending
	case approved == total:
		return StatusApproved
	case denied == total:
		return StatusDenied
	default:
		return StatusActive
	}
}
