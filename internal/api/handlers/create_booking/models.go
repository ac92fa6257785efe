package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID       int64      `json:"clientId" validate:"omitempty,gt=0"` // Для клиента берётся из заголовков
	ProfessionalID int64      `json:"professionalId" validate:"required,gt=0"`
	ServiceID      int64      `json:"serviceId" validate:"required,gt=0"`
	Start          time.Time  `json:"start" validate:"required"` // RFC3339
	End            *time.Time `json:"end,omitempty"`             // По умолчанию start + длительность услуги
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) *createBooking.Request {
	clientID := r.ClientID
	if clientID == 0 && actor.Role() == domain.RoleClient {
		clientID = actor.UserID()
	}

	req := &createBooking.Request{
		Actor:          actor,
		ClientID:       clientID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		Start:          r.Start,
	}
	if r.End != nil {
		req.End = *r.End
	}
	return req
}
