package get_dashboard

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingActor          = "отсутствуют данные пользователя"
	msgForbidden             = "доступ запрещен"
	msgInvalidInput          = "некорректный период"
)

type Handler struct {
	service  DashboardService
	location *time.Location
	logger   Logger
}

func NewHandler(service DashboardService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/dashboard
// Query params: from, to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/dashboard - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /professionals/{id}/dashboard - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	from, errFrom := handlers.OptionalDate(r, "from", h.location)
	to, errTo := handlers.OptionalDate(r, "to", h.location)
	if err := errors.Join(errFrom, errTo); err != nil {
		h.logger.Warn("GET /professionals/{id}/dashboard - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetDashboard(r.Context(), &models.DashboardRequest{
		Actor:          actor,
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("GET /professionals/{id}/dashboard - Access denied: professional_id=%d, user_id=%d",
				professionalID, actor.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidArgument):
			h.logger.Warn("GET /professionals/{id}/dashboard - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /professionals/{id}/dashboard - Failed to build dashboard: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/dashboard - Dashboard built: professional_id=%d, total=%d",
		professionalID, result.Stats.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
