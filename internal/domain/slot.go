package domain

import (
	"fmt"
	"time"
)

// Slot is a derived candidate bookable interval. It is never persisted.
type Slot struct {
	ProfessionalID int64
	Start          time.Time
	End            time.Time
}

// Equal slots share professional and start; duration is implied by granularity
func (s Slot) Equal(other Slot) bool {
	return s.ProfessionalID == other.ProfessionalID && s.Start.Equal(other.Start)
}

// Duration of the slot
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// DateRange is an inclusive range of calendar days
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days returns the number of calendar days covered by the range
func (r DateRange) Days() int {
	from := StartOfDay(r.From)
	to := StartOfDay(r.To.In(r.From.Location()))
	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Validate checks From <= To and the span limit (maxDays <= 0 disables the limit)
func (r DateRange) Validate(maxDays int) error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: date range bounds are required", ErrInvalidArgument)
	}
	if StartOfDay(r.To.In(r.From.Location())).Before(StartOfDay(r.From)) {
		return fmt.Errorf("%w: date range end is before start", ErrInvalidArgument)
	}
	if maxDays > 0 && r.Days() > maxDays {
		return fmt.Errorf("%w: date range exceeds %d days", ErrInvalidArgument, maxDays)
	}
	return nil
}
