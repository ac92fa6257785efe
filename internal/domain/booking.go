package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// ParseBookingStatus converts a query/body value to BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidArgument, s)
	}
	return status, nil
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsActive returns true if the status holds the professional's time
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no transitions leave the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// Booking represents an appointment of a client with a professional
type Booking struct {
	ID             uuid.UUID
	ClientID       int64
	ProfessionalID int64
	ServiceID      int64
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Status         BookingStatus

	CancellationReason *string
	CancelledBy        *Role
	Price              *decimal.Decimal
	ReviewedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version increments on every persisted status change
	Version int64
}

// IsActive returns true if the booking is pending or confirmed
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// Overlaps reports half-open interval overlap with [start, end); touching is not overlap
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.ScheduledStart.Before(end) && start.Before(b.ScheduledEnd)
}

// Duration of the appointment
func (b *Booking) Duration() time.Duration {
	return b.ScheduledEnd.Sub(b.ScheduledStart)
}

// IsReviewed returns true once the client left a review
func (b *Booking) IsReviewed() bool {
	return b.ReviewedAt != nil
}

// IsParticipant returns true if the user is the booking's client or professional
func (b *Booking) IsParticipant(userID int64) bool {
	return b.ClientID == userID || b.ProfessionalID == userID
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	ProfessionalID *int64         // Фильтр по специалисту (опционально)
	ClientID       *int64         // Фильтр по клиенту (опционально)
	Status         *BookingStatus // Фильтр по статусу (опционально)
	From           *time.Time     // Начало периода по ScheduledStart, включительно
	To             *time.Time     // Конец периода по ScheduledStart, не включительно
	ActiveOnly     bool           // Только pending и confirmed
}

// Match applies the filter to a single booking
func (f BookingsFilter) Match(b *Booking) bool {
	if f.ProfessionalID != nil && b.ProfessionalID != *f.ProfessionalID {
		return false
	}
	if f.ClientID != nil && b.ClientID != *f.ClientID {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.From != nil && b.ScheduledStart.Before(*f.From) {
		return false
	}
	if f.To != nil && !b.ScheduledStart.Before(*f.To) {
		return false
	}
	if f.ActiveOnly && !b.IsActive() {
		return false
	}
	return true
}
