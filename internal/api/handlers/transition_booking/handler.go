package transition_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidBody         = "некорректное тело запроса"
	msgMissingActor        = "отсутствуют данные пользователя"
	msgNotFound            = "бронирование не найдено"
	msgForbidden           = "доступ запрещен"
	msgIllegalTransition   = "действие недоступно для текущего статуса"
	msgTerminalState       = "бронирование уже завершено или отменено"
	msgTooEarly            = "бронирование можно завершить только после окончания визита"
	msgConcurrencyConflict = "бронирование было изменено, повторите запрос"
	msgInvalidInput        = "некорректные параметры запроса"
)

type Handler struct {
	useCase TransitionBookingUseCase
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req TransitionBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if errs := handlers.ValidateStruct(&req); errs != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Validation failed: %v", errs)
		handlers.RespondBadRequest(w, handlers.FormatValidationErrors(errs))
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, actor))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%s, user_id=%d",
				bookingID, actor.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrTerminalStateViolation):
			h.logger.Warn("PATCH /bookings/{id}/status - Terminal state: booking_id=%s, to=%s", bookingID, req.Status)
			handlers.RespondUnprocessable(w, msgTerminalState)

		case errors.Is(err, domain.ErrTooEarly):
			h.logger.Warn("PATCH /bookings/{id}/status - Too early: booking_id=%s", bookingID)
			handlers.RespondUnprocessable(w, msgTooEarly)

		case errors.Is(err, domain.ErrIllegalTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Illegal transition: booking_id=%s, %v", bookingID, err)
			handlers.RespondUnprocessable(w, msgIllegalTransition)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("PATCH /bookings/{id}/status - Concurrency conflict: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgConcurrencyConflict)

		case errors.Is(err, domain.ErrInvalidArgument):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to change status: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status changed: booking_id=%s, status=%s, user_id=%d",
		bookingID, result.Booking.Status, actor.UserID())
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(result.Booking))
}
