package get_client_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgInvalidStatus   = "некорректный статус"
	msgMissingActor    = "отсутствуют данные пользователя"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/clients/{clientId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathInt64(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /clients/{id}/bookings - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	status, err := handlers.OptionalStatus(r)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/bookings - Invalid status: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/{id}/bookings - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	result, err := h.service.GetForClient(r.Context(), &models.GetBookingsRequest{
		Actor:  actor,
		UserID: clientID,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			h.logger.Warn("GET /clients/{id}/bookings - Access denied: client_id=%d, user_id=%d", clientID, actor.UserID())
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /clients/{id}/bookings - Failed to get bookings: client_id=%d, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clients/{id}/bookings - Bookings retrieved successfully: client_id=%d, count=%d",
		clientID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
