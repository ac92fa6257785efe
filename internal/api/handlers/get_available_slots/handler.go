package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgMissingDates          = "параметры from и to обязательны"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration       = "некорректная длительность слота"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgAvailabilityNotFound  = "расписание специалиста не задано"
	msgServiceNotFound       = "услуга не найдена"
	msgInvalidInput          = "некорректный период или длительность"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/available-slots
// Query params: from, to (required, YYYY-MM-DD), durationMinutes, serviceId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/available-slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	fromStr, toStr := handlers.QueryParam(r, "from"), handlers.QueryParam(r, "to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /professionals/{id}/available-slots - Missing dates: professional_id=%d", professionalID)
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	from, err := handlers.ParseDate(fromStr, h.location)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/available-slots - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseDate(toStr, h.location)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/available-slots - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	useCaseReq := &getAvailableSlots.Request{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	}

	if s := handlers.QueryParam(r, "durationMinutes"); s != "" {
		duration, err := strconv.Atoi(s)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/available-slots - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		useCaseReq.DurationMinutes = &duration
	}

	if s := handlers.QueryParam(r, "serviceId"); s != "" {
		serviceID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/available-slots - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		useCaseReq.ServiceID = &serviceID
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrAvailabilityNotFound):
			h.logger.Warn("GET /professionals/{id}/available-slots - Availability not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgAvailabilityNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /professionals/{id}/available-slots - Service not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, domain.ErrInvalidArgument):
			h.logger.Warn("GET /professionals/{id}/available-slots - Invalid input: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /professionals/{id}/available-slots - Failed to get slots: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/available-slots - Slots retrieved successfully: professional_id=%d, slots_count=%d",
		professionalID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
