package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidBody         = "некорректное тело запроса"
	msgMissingActor        = "отсутствуют данные пользователя"
	msgForbidden           = "нельзя создать бронирование за другого клиента"
	msgNotFound            = "клиент, специалист или услуга не найдены"
	msgOutOfAvailability   = "выбранное время вне рабочего графика специалиста"
	msgSlotUnavailable     = "выбранное время уже занято"
	msgConcurrencyConflict = "расписание специалиста изменяется, повторите запрос"
	msgInvalidInput        = "некорректные параметры бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if errs := handlers.ValidateStruct(&req); errs != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", errs)
		handlers.RespondBadRequest(w, handlers.FormatValidationErrors(errs))
		return
	}

	booking, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%d, client_id=%d", actor.UserID(), req.ClientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Not found: professional_id=%d, service_id=%d, error=%v",
				req.ProfessionalID, req.ServiceID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrOutOfAvailability):
			h.logger.Warn("POST /bookings - Out of availability: professional_id=%d, start=%s",
				req.ProfessionalID, req.Start)
			handlers.RespondBadRequest(w, msgOutOfAvailability)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: professional_id=%d, start=%s",
				req.ProfessionalID, req.Start)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("POST /bookings - Concurrency conflict: professional_id=%d", req.ProfessionalID)
			handlers.RespondConflict(w, msgConcurrencyConflict)

		case errors.Is(err, domain.ErrInvalidArgument):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: professional_id=%d, error=%v",
				req.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, professional_id=%d, status=%s",
		booking.ID, booking.ProfessionalID, booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
