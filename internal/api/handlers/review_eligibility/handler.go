package review_eligibility

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingActor     = "отсутствуют данные пользователя"
	msgOnlyClient       = "отзыв может оставить только клиент"
	msgNotFound         = "бронирование не найдено"
	msgNotEligible      = "для этого бронирования нельзя оставить отзыв"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleEligibility GET /api/v1/bookings/{bookingId}/review-eligibility
func (h *Handler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/review-eligibility - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id}/review-eligibility - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	// Не клиент отзыв оставить не может, бронирование не раскрываем
	if actor.Role() != domain.RoleClient {
		handlers.RespondJSON(w, http.StatusOK, EligibilityResponse{BookingID: bookingID.String()})
		return
	}

	eligible, err := h.service.IsEligible(r.Context(), bookingID, actor.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.Warn("GET /bookings/{id}/review-eligibility - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /bookings/{id}/review-eligibility - Failed to check eligibility: booking_id=%s, error=%v",
			bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{id}/review-eligibility - booking_id=%s, client_id=%d, eligible=%t",
		bookingID, actor.UserID(), eligible)
	handlers.RespondJSON(w, http.StatusOK, EligibilityResponse{
		BookingID: bookingID.String(),
		Eligible:  eligible,
	})
}

// HandleMarkReviewed POST /api/v1/bookings/{bookingId}/review
func (h *Handler) HandleMarkReviewed(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/review - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	if actor.Role() != domain.RoleClient {
		h.logger.Warn("POST /bookings/{id}/review - Not a client: booking_id=%s, role=%s", bookingID, actor.Role())
		handlers.RespondForbidden(w, msgOnlyClient)
		return
	}

	if err := h.service.MarkReviewed(r.Context(), bookingID, actor.UserID()); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings/{id}/review - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrNotEligible):
			h.logger.Warn("POST /bookings/{id}/review - Not eligible: booking_id=%s, client_id=%d", bookingID, actor.UserID())
			handlers.RespondUnprocessable(w, msgNotEligible)

		default:
			h.logger.Error("POST /bookings/{id}/review - Failed to mark reviewed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/review - Booking reviewed: booking_id=%s, client_id=%d", bookingID, actor.UserID())
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
