package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData      = errors.New("data conflicts with existing data")
	ErrDataNotFound      = errors.New("data not found")
	ErrValidation        = errors.New("invalid request")
	ErrNotAllowed        = errors.New("actor is not allowed to perform operation")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrCatalogMismatch   = errors.New("order item does not match catalog")
	ErrInvalidAddOn      = errors.New("selected add-on does not match catalog modifier")
	ErrRateLimited       = errors.New("tenant request rate limit exceeded")
	ErrCircuitOpen       = errors.New("provider circuit is open")
	ErrRetryLimited      = errors.New("notification retry attempt limit reached")
	ErrRetryTooSoon      = errors.New("notification retry cooldown has not elapsed")
	ErrInternalError     = errors.New("internal error")
)

// scheduling rejection codes
const (
	ScheduleTooSoon      = "TOO_SOON"
	ScheduleDifferentDay = "DIFFERENT_DAY"
	ScheduleUnaligned    = "UNALIGNED"
)

// SchedulingError is typed rejection of a requested pickup time
type SchedulingError struct {
	Code string
}

func (e SchedulingError) Error() string {
	return fmt.Sprintf("scheduling rejected: %s", e.Code)
}

// NewSchedulingError creates scheduling rejection with given code
func NewSchedulingError(code string) SchedulingError {
	return SchedulingError{Code: code}
}
