package slots

import (
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Generator materializes weekly availability into concrete bookable slots.
// All day boundaries are computed in the service location.
type Generator struct {
	loc          *time.Location
	minNotice    time.Duration
	maxRangeDays int
}

// NewGenerator создает генератор. minNotice - минимальное время до начала слота,
// maxRangeDays - максимальная длина запрашиваемого диапазона (0 - без ограничения).
func NewGenerator(loc *time.Location, minNotice time.Duration, maxRangeDays int) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc, minNotice: minNotice, maxRangeDays: maxRangeDays}
}

// Location часовой пояс сервиса
func (g *Generator) Location() *time.Location {
	return g.loc
}

// Validate проверяет параметры генерации
func (g *Generator) Validate(dateRange domain.DateRange, duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("%w: slot duration must be positive", domain.ErrInvalidArgument)
	}
	if duration%time.Minute != 0 {
		return fmt.Errorf("%w: slot duration must be a whole number of minutes", domain.ErrInvalidArgument)
	}
	return domain.DateRange{From: dateRange.From.In(g.loc), To: dateRange.To.In(g.loc)}.Validate(g.maxRangeDays)
}

// Generate returns a lazy, finite, restartable sequence of free slots ordered by start.
//
// For every calendar day of dateRange (inclusive, blocked dates skipped) each weekday
// range is cut into consecutive sub-intervals of exactly duration; a shorter trailing
// remainder is discarded. Sub-intervals overlapping an active booking or starting
// not strictly after now+minNotice are excluded.
//
// Bookings are copied, so later changes to the slice do not affect the sequence.
func (g *Generator) Generate(
	avail *domain.WeeklyAvailability,
	booked []*domain.Booking,
	dateRange domain.DateRange,
	duration time.Duration,
	now time.Time,
) (iter.Seq[domain.Slot], error) {
	if err := g.Validate(dateRange, duration); err != nil {
		return nil, err
	}
	if avail == nil {
		return func(func(domain.Slot) bool) {}, nil
	}

	busy := activeIntervals(avail.ProfessionalID, booked)
	earliest := now.Add(g.minNotice)
	first := domain.StartOfDay(dateRange.From.In(g.loc))
	last := domain.StartOfDay(dateRange.To.In(g.loc))

	// Снимок расписания: последующие изменения avail не влияют на последовательность
	days := make(map[time.Weekday][]domain.TimeRange, len(avail.Days))
	for wd, ranges := range avail.Days {
		days[wd] = append([]domain.TimeRange(nil), ranges...)
	}
	blocked := &domain.WeeklyAvailability{BlockedDates: append([]time.Time(nil), avail.BlockedDates...)}
	professionalID := avail.ProfessionalID

	return func(yield func(domain.Slot) bool) {
		cursor := 0
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if blocked.IsBlocked(day) {
				continue
			}

			for _, r := range days[day.Weekday()] {
				rangeEnd := r.End.On(day)

				for start := r.Start.On(day); !start.Add(duration).After(rangeEnd); start = start.Add(duration) {
					end := start.Add(duration)

					if !start.After(earliest) {
						continue
					}

					var conflict bool
					cursor, conflict = busy.overlaps(cursor, start, end)
					if conflict {
						continue
					}

					if !yield(domain.Slot{ProfessionalID: professionalID, Start: start, End: end}) {
						return
					}
				}
			}
		}
	}, nil
}

type interval struct {
	start time.Time
	end   time.Time
}

// intervals занятые интервалы, отсортированные по началу
type intervals []interval

func activeIntervals(professionalID int64, booked []*domain.Booking) intervals {
	result := make(intervals, 0, len(booked))
	for _, b := range booked {
		if b == nil || !b.IsActive() || b.ProfessionalID != professionalID {
			continue
		}
		result = append(result, interval{start: b.ScheduledStart, end: b.ScheduledEnd})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].start.Before(result[j].start) })
	return result
}

// overlaps проверяет пересечение [start, end) с занятыми интервалами.
// Граничащие интервалы не пересекаются. from - индекс, с которого начинать поиск;
// слоты приходят по возрастанию, поэтому интервалы, закончившиеся до start, больше не нужны.
func (iv intervals) overlaps(from int, start, end time.Time) (int, bool) {
	for from < len(iv) && !iv[from].end.After(start) {
		from++
	}
	for i := from; i < len(iv) && iv[i].start.Before(end); i++ {
		if iv[i].end.After(start) {
			return from, true
		}
	}
	return from, false
}
