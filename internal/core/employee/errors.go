package employee

import (
	"fmt"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
)

var (
	ErrInvalidID        = fmt.Errorf("employee: invalid id: %w", apperr.ErrValidation)
	ErrEmployeeNotFound = fmt.Errorf("employee: not found: %w", apperr.ErrNotFound)
	ErrEmployeeInactive = fmt.Errorf("employee: inactive: %w", apperr.ErrIllegalState)
	ErrAlreadyFired     = fmt.Errorf("employee: already fired: %w", apperr.ErrIllegalState)
	ErrAlreadyActive    = fmt.Errorf("employee: already active: %w", apperr.ErrIllegalState)
)
