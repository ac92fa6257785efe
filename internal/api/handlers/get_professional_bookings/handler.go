package get_professional_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidStatus         = "некорректный статус"
	msgMissingActor          = "отсутствуют данные пользователя"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/bookings
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/bookings - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	status, err := handlers.OptionalStatus(r)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/bookings - Invalid status: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /professionals/{id}/bookings - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	req := &models.GetBookingsRequest{
		Actor:  actor,
		UserID: professionalID,
		Status: status,
	}

	result, err := h.service.GetForProfessional(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("GET /professionals/{id}/bookings - Access denied: professional_id=%d, user_id=%d",
				professionalID, actor.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidArgument):
			h.logger.Warn("GET /professionals/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /professionals/{id}/bookings - Failed to get bookings: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/bookings - Bookings retrieved successfully: professional_id=%d, count=%d",
		professionalID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
