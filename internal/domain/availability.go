package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeRange is a half-open [Start, End) interval of local time of day
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate checks format and Start < End
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start %q: %v", ErrInvalidAvailability, r.Start, err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("%w: end %q: %v", ErrInvalidAvailability, r.End, err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: range %s-%s: start must be before end", ErrInvalidAvailability, r.Start, r.End)
	}
	return nil
}

// Minutes returns the length of the range in minutes
func (r TimeRange) Minutes() int {
	return r.End.Minutes() - r.Start.Minutes()
}

// WeeklyAvailability is the recurring weekly schedule of a professional.
// It is always replaced wholesale.
type WeeklyAvailability struct {
	ProfessionalID int64
	Days           map[time.Weekday][]TimeRange
	BlockedDates   []time.Time // whole days without slots (vacations, days off)
	UpdatedAt      time.Time
}

// Validate checks that ranges of every day are well-formed, sorted by start and non-overlapping.
// Touching ranges (09:00-12:00, 12:00-13:00) are allowed.
// Blocked dates are normalized to midnight UTC, deduplicated and sorted.
func (a *WeeklyAvailability) Validate() error {
	if a.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professional id must be positive", ErrInvalidAvailability)
	}

	for day, ranges := range a.Days {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidAvailability, int(day))
		}
		for i, r := range ranges {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			if i == 0 {
				continue
			}
			prev := ranges[i-1]
			if r.Start.IsBefore(prev.Start) {
				return fmt.Errorf("%w: %s: ranges are not sorted by start", ErrInvalidAvailability, day)
			}
			if r.Start.IsBefore(prev.End) {
				return fmt.Errorf("%w: %s: range %s-%s overlaps %s-%s",
					ErrInvalidAvailability, day, r.Start, r.End, prev.Start, prev.End)
			}
		}
	}

	a.BlockedDates = normalizeDates(a.BlockedDates)
	return nil
}

// RangesFor returns ranges of the weekday (nil for a day off)
func (a *WeeklyAvailability) RangesFor(day time.Weekday) []TimeRange {
	if a == nil {
		return nil
	}
	return a.Days[day]
}

// IsBlocked reports whether the calendar date of t is a blocked day
func (a *WeeklyAvailability) IsBlocked(t time.Time) bool {
	if a == nil {
		return false
	}
	y, m, d := t.Date()
	for _, b := range a.BlockedDates {
		by, bm, bd := b.Date()
		if by == y && bm == m && bd == d {
			return true
		}
	}
	return false
}

// Contains reports whether [start, end) lies fully inside one range of its weekday
// and is not on a blocked date. Both instants are interpreted in loc.
func (a *WeeklyAvailability) Contains(start, end time.Time, loc *time.Location) bool {
	if a == nil || !start.Before(end) {
		return false
	}
	start = start.In(loc)
	end = end.In(loc)

	if a.IsBlocked(start) {
		return false
	}

	dayStart := StartOfDay(start)
	offStart := start.Sub(dayStart)
	offEnd := end.Sub(dayStart)

	for _, r := range a.RangesFor(start.Weekday()) {
		rStart := time.Duration(r.Start.Minutes()) * time.Minute
		rEnd := time.Duration(r.End.Minutes()) * time.Minute
		if offStart >= rStart && offEnd <= rEnd {
			return true
		}
	}
	return false
}

// StartOfDay returns local midnight of t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func normalizeDates(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return nil
	}
	seen := make(map[time.Time]struct{}, len(dates))
	result := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		y, m, day := d.Date()
		norm := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		result = append(result, norm)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a lowercase English weekday name ("monday")
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidAvailability, s)
	}
	return wd, nil
}

// WeekdayName is the inverse of ParseWeekday
func WeekdayName(wd time.Weekday) string {
	for name, d := range weekdayNames {
		if d == wd {
			return name
		}
	}
	return ""
}
