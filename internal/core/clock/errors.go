package clock

import (
	"fmt"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
)

var (
	ErrAlreadyClockedIn = fmt.Errorf("clock: already clocked in: %w", apperr.ErrIllegalState)
	ErrNotClockedIn     = fmt.Errorf("clock: not clocked in: %w", apperr.ErrIllegalState)
	ErrEventNotFound    = fmt.Errorf("clock: event not found: %w", apperr.ErrNotFound)
	ErrInvalidEventType = fmt.Errorf("clock: invalid event type: %w", apperr.ErrValidation)
	ErrOutOfOrder       = fmt.Errorf("clock: event is not after the previous event: %w", apperr.ErrDataIntegrity)
)
