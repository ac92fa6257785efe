// Package views содержит чистые проекции над снимком бронирований:
// группировку для календаря, разбиение на предстоящие/прошедшие и статистику.
// Функции не изменяют входные данные.
package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Grouping способ группировки календаря
type Grouping string

const (
	GroupDay   Grouping = "day"
	GroupWeek  Grouping = "week"
	GroupMonth Grouping = "month"
)

// ParseGrouping converts a query value; empty means day
func ParseGrouping(s string) (Grouping, error) {
	switch g := Grouping(s); g {
	case "":
		return GroupDay, nil
	case GroupDay, GroupWeek, GroupMonth:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown grouping %q", domain.ErrInvalidArgument, s)
	}
}

// Bucket группа бронирований календаря
type Bucket struct {
	Key      string    // 2026-03-02, 2026-W10, 2026-03
	Start    time.Time // начало периода в loc
	Bookings []domain.Booking
}

// Group groups bookings by the given period in loc
func Group(bookings []domain.Booking, g Grouping, loc *time.Location) []Bucket {
	switch g {
	case GroupWeek:
		return GroupByWeek(bookings, loc)
	case GroupMonth:
		return GroupByMonth(bookings, loc)
	default:
		return GroupByDay(bookings, loc)
	}
}

// GroupByDay groups bookings by calendar day of ScheduledStart
func GroupByDay(bookings []domain.Booking, loc *time.Location) []Bucket {
	return groupBy(bookings, loc, func(t time.Time) (string, time.Time) {
		start := domain.StartOfDay(t)
		return start.Format(domain.DateFormat), start
	})
}

// GroupByWeek groups bookings by ISO week (weeks start on Monday)
func GroupByWeek(bookings []domain.Booking, loc *time.Location) []Bucket {
	return groupBy(bookings, loc, func(t time.Time) (string, time.Time) {
		year, week := t.ISOWeek()
		offset := (int(t.Weekday()) + 6) % 7 // дней с понедельника
		start := domain.StartOfDay(t).AddDate(0, 0, -offset)
		return fmt.Sprintf("%04d-W%02d", year, week), start
	})
}

// GroupByMonth groups bookings by calendar month
func GroupByMonth(bookings []domain.Booking, loc *time.Location) []Bucket {
	return groupBy(bookings, loc, func(t time.Time) (string, time.Time) {
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start.Format("2006-01"), start
	})
}

func groupBy(bookings []domain.Booking, loc *time.Location, period func(time.Time) (string, time.Time)) []Bucket {
	if loc == nil {
		loc = time.UTC
	}

	sorted := sortedByStart(bookings)
	index := make(map[string]int)
	buckets := make([]Bucket, 0)

	for _, b := range sorted {
		key, start := period(b.ScheduledStart.In(loc))
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Start: start})
		}
		buckets[i].Bookings = append(buckets[i].Bookings, b)
	}

	// бронирования уже отсортированы, поэтому и группы упорядочены по началу
	return buckets
}

// Partition splits bookings into upcoming (active, start after now; ascending)
// and past (everything else; most recent first).
func Partition(bookings []domain.Booking, now time.Time) (upcoming, past []domain.Booking) {
	upcoming = make([]domain.Booking, 0)
	past = make([]domain.Booking, 0)

	for _, b := range sortedByStart(bookings) {
		if b.IsActive() && b.ScheduledStart.After(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}

	sort.SliceStable(past, func(i, j int) bool {
		return past[i].ScheduledStart.After(past[j].ScheduledStart)
	})
	return upcoming, past
}

// Window полуинтервал [From, To) по ScheduledStart. Нулевая граница не ограничивает.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies in the window
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// Stats статистика дашборда
type Stats struct {
	Total           int
	ByStatus        map[domain.BookingStatus]int
	RevenueByStatus map[domain.BookingStatus]decimal.Decimal
	Revenue         decimal.Decimal // только completed
	CompletionRate  float64         // completed / (completed + cancelled + rejected)
	UpcomingCount   int             // active
}

// Aggregate counts bookings and sums prices per status over the window
func Aggregate(bookings []domain.Booking, window Window) Stats {
	stats := Stats{
		ByStatus:        make(map[domain.BookingStatus]int, len(domain.AllStatuses)),
		RevenueByStatus: make(map[domain.BookingStatus]decimal.Decimal, len(domain.AllStatuses)),
		Revenue:         decimal.Zero,
	}
	for _, s := range domain.AllStatuses {
		stats.ByStatus[s] = 0
		stats.RevenueByStatus[s] = decimal.Zero
	}

	for _, b := range bookings {
		if !window.Contains(b.ScheduledStart) {
			continue
		}
		stats.Total++
		stats.ByStatus[b.Status]++
		if b.IsActive() {
			stats.UpcomingCount++
		}
		if b.Price != nil {
			stats.RevenueByStatus[b.Status] = stats.RevenueByStatus[b.Status].Add(*b.Price)
		}
	}

	stats.Revenue = stats.RevenueByStatus[domain.StatusCompleted]

	closed := stats.ByStatus[domain.StatusCompleted] + stats.ByStatus[domain.StatusCancelled] + stats.ByStatus[domain.StatusRejected]
	if closed > 0 {
		stats.CompletionRate = float64(stats.ByStatus[domain.StatusCompleted]) / float64(closed)
	}

	return stats
}

func sortedByStart(bookings []domain.Booking) []domain.Booking {
	sorted := make([]domain.Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledStart.Before(sorted[j].ScheduledStart)
	})
	return sorted
}

// SortByStart returns a copy of bookings ordered by ScheduledStart
func SortByStart(bookings []domain.Booking) []domain.Booking {
	return sortedByStart(bookings)
}
