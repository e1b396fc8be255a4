package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
)

// ReviewInput は承認・却下の入力です。PayPeriodID が空なら現在の期間を対象にします。
type ReviewInput struct {
	Actor       apperr.Actor
	EmployeeID  string
	PayPeriodID string
	Feedback    *string
}

type reviewDecision struct {
	entryStatus     EntryStatus
	requireFeedback bool
	weekly          WeeklyStatus
	notification    NotificationType
}

var (
	approveDecision = reviewDecision{entryStatus: EntryApproved, weekly: WeeklyApproved, notification: NotificationApproval}
	denyDecision    = reviewDecision{entryStatus: EntryDenied, requireFeedback: true, weekly: WeeklyDenied, notification: NotificationDenial}
)

// Approve は submitted のエントリをすべて approved にします。draft は変更しません。
func (s *Service) Approve(ctx context.Context, in ReviewInput) ([]*Entry, error) {
	return s.review(ctx, in, approveDecision)
}

// Deny は submitted のエントリをすべて denied にします。空でない Feedback が必要です。
func (s *Service) Deny(ctx context.Context, in ReviewInput) ([]*Entry, error) {
	return s.review(ctx, in, denyDecision)
}

func (s *Service) review(ctx context.Context, in ReviewInput, decision reviewDecision) ([]*Entry, error) {
	if err := in.Actor.RequireManager(); err != nil {
		return nil, err
	}

	empID, err := employee.NormalizeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	feedback, err := normalizeFeedback(in.Feedback)
	if err != nil {
		return nil, err
	}
	if decision.requireFeedback && feedback == nil {
		return nil, ErrFeedbackRequired
	}

	var (
		reviewed []*Entry
		period   *payperiod.PayPeriod
	)
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.resolvePeriod(txCtx, in.PayPeriodID)
		if err != nil {
			return err
		}
		period = found

		now := s.clock.Now()
		entries, err := s.entries.ReviewSubmitted(txCtx, ReviewUpdate{
			EmployeeID:  empID,
			PayPeriodID: period.ID,
			Status:      decision.entryStatus,
			ReviewerID:  in.Actor.EmployeeID,
			Feedback:    feedback,
			ReviewedAt:  now,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrNothingToReview
		}

		for _, entry := range entries {
			if _, err := s.notifications.Create(txCtx, &Notification{
				EmployeeID:       empID,
				TimesheetEntryID: entry.ID,
				Type:             decision.notification,
				Message:          reviewMessage(entry, decision, feedback),
				CreatedAt:        now,
			}); err != nil {
				return err
			}
		}

		if _, err := s.weekly.Upsert(txCtx, &WeeklyTimesheetStatus{
			EmployeeID:    empID,
			WeekStartDate: period.StartDate,
			Status:        decision.weekly,
			UpdatedAt:     now,
		}); err != nil {
			return err
		}

		reviewed = entries
		return nil
	}); err != nil {
		return nil, err
	}

	s.invalidate(ctx, empID, period.StartDate)
	s.logger.InfoContext(ctx, "timesheet reviewed",
		slog.String("employee_id", empID),
		slog.String("pay_period_id", period.ID),
		slog.String("decision", string(decision.entryStatus)),
		slog.String("reviewer_id", in.Actor.EmployeeID),
		slog.Int("entries", len(reviewed)),
	)
	return reviewed, nil
}

func normalizeFeedback(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxFeedbackLength {
		return nil, ErrInvalidFeedback
	}
	return &trimmed, nil
}

func reviewMessage(entry *Entry, decision reviewDecision, feedback *string) string {
	hours := entry.HoursWorked.StringFixed(hoursScale)
	switch decision.entryStatus {
	case EntryApproved:
		return fmt.Sprintf("Your timesheet for %s (%s hours) was approved.", entry.WorkDate, hours)
	default:
		return fmt.Sprintf("Your timesheet for %s (%s hours) was denied: %s", entry.WorkDate, hours, *feedback)
	}
}
