package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrPublish ошибка публикации события
var ErrPublish = errors.New("events: publish failed")

// Event изменение статуса бронирования. OldStatus пуст для созданного бронирования.
type Event struct {
	BookingID      uuid.UUID            `json:"bookingId"`
	ProfessionalID int64                `json:"professionalId"`
	ClientID       int64                `json:"clientId"`
	OldStatus      domain.BookingStatus `json:"oldStatus,omitempty"`
	NewStatus      domain.BookingStatus `json:"newStatus"`
	Role           domain.Role          `json:"role"`
	Notify         []domain.Role        `json:"notify,omitempty"` // кого уведомить
	OccurredAt     time.Time            `json:"occurredAt"`
}

// IsCreation returns true for the event emitted on booking creation
func (e Event) IsCreation() bool {
	return e.OldStatus == ""
}

// Publisher получатель событий
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Fanout рассылает событие всем издателям. Ошибка одного не прерывает остальных.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
