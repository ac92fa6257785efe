package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
)

// BookingRepository хранилище бронирований в памяти процесса.
// Возвращает ошибки пакета booking, чтобы use case не зависели от выбора хранилища.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking
	now      func() time.Time
}

func NewBookingRepository(now func() time.Time) *BookingRepository {
	if now == nil {
		now = time.Now
	}
	return &BookingRepository{
		bookings: make(map[uuid.UUID]domain.Booking),
		now:      now,
	}
}

func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingRepo.ErrExecQuery, booking.ID)
	}

	now := r.now()
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings[booking.ID] = clone(*booking)

	return booking, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	result := clone(b)
	return &result, nil
}

func (r *BookingRepository) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if !filter.Match(&b) {
			continue
		}
		c := clone(b)
		result = append(result, &c)
	}
	sortByStart(result)
	return result, nil
}

func (r *BookingRepository) GetActiveOverlapping(_ context.Context, professionalID int64, start, end time.Time) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.ProfessionalID != professionalID || !b.IsActive() || !b.Overlaps(start, end) {
			continue
		}
		c := clone(b)
		result = append(result, &c)
	}
	sortByStart(result)
	return result, nil
}

func (r *BookingRepository) UpdateStatus(_ context.Context, booking *domain.Booking, expectedVersion int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bookings[booking.ID]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if current.Version != expectedVersion {
		return nil, fmt.Errorf("%w: booking %s expected version %d, got %d",
			bookingRepo.ErrVersionConflict, booking.ID, expectedVersion, current.Version)
	}

	current.Status = booking.Status
	current.CancellationReason = booking.CancellationReason
	current.CancelledBy = booking.CancelledBy
	current.UpdatedAt = booking.UpdatedAt
	current.Version++
	r.bookings[booking.ID] = clone(current)

	result := clone(current)
	return &result, nil
}

func (r *BookingRepository) MarkReviewed(_ context.Context, id uuid.UUID, clientID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.ClientID != clientID || b.Status != domain.StatusCompleted || b.ReviewedAt != nil {
		return bookingRepo.ErrNotReviewable
	}

	b.ReviewedAt = &at
	b.UpdatedAt = at
	r.bookings[id] = clone(b)
	return nil
}

// clone глубокая копия указателей, чтобы вызывающий код не менял хранилище
func clone(b domain.Booking) domain.Booking {
	if b.CancellationReason != nil {
		v := *b.CancellationReason
		b.CancellationReason = &v
	}
	if b.CancelledBy != nil {
		v := *b.CancelledBy
		b.CancelledBy = &v
	}
	if b.Price != nil {
		v := *b.Price
		b.Price = &v
	}
	if b.ReviewedAt != nil {
		v := *b.ReviewedAt
		b.ReviewedAt = &v
	}
	return b
}

func sortByStart(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].ScheduledStart.Equal(bookings[j].ScheduledStart) {
			return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
		}
		return bookings[i].ScheduledStart.Before(bookings[j].ScheduledStart)
	})
}
