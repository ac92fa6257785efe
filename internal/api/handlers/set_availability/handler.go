package set_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidBody           = "некорректное тело запроса"
	msgMissingActor          = "отсутствуют данные пользователя"
	msgForbidden             = "только специалист может изменить своё расписание"
	msgProfessionalNotFound  = "специалист не найден"
	msgInvalidAvailability   = "некорректное расписание: интервалы должны быть непустыми и не пересекаться"
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

// Handle PUT /api/v1/professionals/{professionalId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("PUT /professionals/{id}/availability - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /professionals/{id}/availability - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req models.SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /professionals/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if errs := handlers.ValidateStruct(&req); errs != nil {
		h.logger.Warn("PUT /professionals/{id}/availability - Validation failed: %v", errs)
		handlers.RespondBadRequest(w, handlers.FormatValidationErrors(errs))
		return
	}

	req.Actor = actor
	req.ProfessionalID = professionalID

	result, err := h.service.Set(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("PUT /professionals/{id}/availability - Access denied: professional_id=%d, user_id=%d",
				professionalID, actor.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidAvailability):
			h.logger.Warn("PUT /professionals/{id}/availability - Invalid availability: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidAvailability)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PUT /professionals/{id}/availability - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("PUT /professionals/{id}/availability - Failed to set availability: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /professionals/{id}/availability - Availability updated: professional_id=%d, user_id=%d",
		professionalID, actor.UserID())
	handlers.RespondJSON(w, http.StatusOK, result)
}
