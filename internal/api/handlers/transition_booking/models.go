package transition_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	transitionBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_booking"
)

// TransitionBookingRequest HTTP request model
type TransitionBookingRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed rejected cancelled completed"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionBookingRequest) ToUseCaseRequest(bookingID uuid.UUID, actor domain.Actor) *transitionBooking.Request {
	return &transitionBooking.Request{
		BookingID: bookingID,
		To:        domain.BookingStatus(r.Status),
		Actor:     actor,
		Reason:    r.Reason,
	}
}
