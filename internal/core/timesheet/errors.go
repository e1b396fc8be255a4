package timesheet

import (
	"fmt"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
)

var (
	ErrNothingToReview      = fmt.Errorf("timesheet: nothing to review: %w", apperr.ErrIllegalState)
	ErrImplausibleInterval  = fmt.Errorf("timesheet: implausible work interval: %w", apperr.ErrDataIntegrity)
	ErrUnpairedEvent        = fmt.Errorf("timesheet: unpaired clock event: %w", apperr.ErrDataIntegrity)
	ErrEntryNotFound        = fmt.Errorf("timesheet: entry not found: %w", apperr.ErrNotFound)
	ErrWeeklyStatusNotFound = fmt.Errorf("timesheet: weekly status not found: %w", apperr.ErrNotFound)
	ErrInvalidFeedback      = fmt.Errorf("timesheet: invalid feedback: %w", apperr.ErrValidation)
	ErrFeedbackRequired     = fmt.Errorf("timesheet: feedback is required to deny: %w", apperr.ErrValidation)
	ErrEmployeeMismatch     = fmt.Errorf("timesheet: interval belongs to another employee: %w", apperr.ErrValidation)
)
