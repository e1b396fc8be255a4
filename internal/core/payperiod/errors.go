package payperiod

import (
	"fmt"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
)

var (
	ErrInvalidID          = fmt.Errorf("payperiod: invalid id: %w", apperr.ErrValidation)
	ErrInvalidPaymentDate = fmt.Errorf("payperiod: invalid payment date: %w", apperr.ErrValidation)
	ErrInvalidPageSize    = fmt.Errorf("payperiod: invalid page size: %w", apperr.ErrValidation)
	ErrPeriodNotFound     = fmt.Errorf("payperiod: not found: %w", apperr.ErrNotFound)
	ErrInvalidTransition  = fmt.Errorf("payperiod: invalid status transition: %w", apperr.ErrIllegalState)
)
