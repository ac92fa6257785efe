package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound unknown professional, client, service or booking
	ErrNotFound = errors.New("not found")

	// ErrInvalidAvailability malformed weekly schedule
	ErrInvalidAvailability = errors.New("invalid availability")

	// ErrInvalidArgument bad slot duration, date range or request field
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfAvailability requested interval lies outside working hours
	ErrOutOfAvailability = errors.New("interval is outside of availability")

	// ErrSlotUnavailable interval overlaps an active booking; retryable with another time
	ErrSlotUnavailable = errors.New("slot is unavailable")

	// ErrIllegalTransition transition is not in the lifecycle table for this actor
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrTerminalStateViolation booking is already completed, cancelled or rejected
	ErrTerminalStateViolation = errors.New("booking is in a terminal state")

	// ErrTooEarly completion attempted before the scheduled end
	ErrTooEarly = errors.New("too early to complete booking")

	// ErrConcurrencyConflict concurrent write collision; retryable after re-read
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrAccessDenied actor does not own the resource
	ErrAccessDenied = errors.New("access denied")

	// ErrNotEligible booking cannot be reviewed by this client
	ErrNotEligible = errors.New("booking is not eligible for review")
)

// TransitionError carries the attempted transition for diagnostics.
// It unwraps to ErrIllegalTransition.
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
	Role Role
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s by %s", ErrIllegalTransition, e.From, e.To, e.Role)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// IsRetryable reports whether the caller may retry (possibly with another time)
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrConcurrencyConflict)
}
