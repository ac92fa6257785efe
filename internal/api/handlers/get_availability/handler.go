package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgNotFound              = "расписание специалиста не задано"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/availability - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	result, err := h.service.Get(r.Context(), professionalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.Warn("GET /professionals/{id}/availability - Availability not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /professionals/{id}/availability - Failed to get availability: professional_id=%d, error=%v",
			professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /professionals/{id}/availability - Availability retrieved successfully: professional_id=%d", professionalID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
