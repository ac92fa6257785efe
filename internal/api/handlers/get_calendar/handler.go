package get_calendar

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
	msgMissingDates          = "параметры from и to обязательны"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingActor          = "отсутствуют данные пользователя"
	msgForbidden             = "доступ запрещен"
	msgInvalidInput          = "некорректный период или группировка (day, week, month)"

	defaultGroupBy = "day"
)

type Handler struct {
	service  CalendarService
	location *time.Location
	logger   Logger
}

func NewHandler(service CalendarService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/calendar
// Query params: from, to (required, YYYY-MM-DD), groupBy (day|week|month, default day)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/calendar - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /professionals/{id}/calendar - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	fromStr, toStr := handlers.QueryParam(r, "from"), handlers.QueryParam(r, "to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /professionals/{id}/calendar - Missing dates: professional_id=%d", professionalID)
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	from, errFrom := handlers.ParseDate(fromStr, h.location)
	to, errTo := handlers.ParseDate(toStr, h.location)
	if err := errors.Join(errFrom, errTo); err != nil {
		h.logger.Warn("GET /professionals/{id}/calendar - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	groupBy := handlers.QueryParam(r, "groupBy")
	if groupBy == "" {
		groupBy = defaultGroupBy
	}

	result, err := h.service.GetCalendar(r.Context(), &models.CalendarRequest{
		Actor:          actor,
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
		GroupBy:        groupBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("GET /professionals/{id}/calendar - Access denied: professional_id=%d, user_id=%d",
				professionalID, actor.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidArgument):
			h.logger.Warn("GET /professionals/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /professionals/{id}/calendar - Failed to build calendar: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/calendar - Calendar built: professional_id=%d, group_by=%s, buckets=%d",
		professionalID, groupBy, len(result.Buckets))
	handlers.RespondJSON(w, http.StatusOK, result)
}
