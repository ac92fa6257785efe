package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeRange диапазон рабочего времени "09:00"-"12:00"
type TimeRange struct {
	Start types.TimeString `json:"start" validate:"required"`
	End   types.TimeString `json:"end" validate:"required"`
}

// Request модели

// SetAvailabilityRequest запрос на замену недельного расписания
type SetAvailabilityRequest struct {
	Actor          domain.Actor           `json:"-"`
	ProfessionalID int64                  `json:"-"`
	Days           map[string][]TimeRange `json:"days" validate:"required,dive,keys,oneof=sunday monday tuesday wednesday thursday friday saturday,endkeys,dive"`
	BlockedDates   []string               `json:"blockedDates" validate:"omitempty,dive,datetime=2006-01-02"`
}

// ToDomain конвертирует request в domain модель (без валидации пересечений)
func (r *SetAvailabilityRequest) ToDomain() (*domain.WeeklyAvailability, error) {
	avail := &domain.WeeklyAvailability{
		ProfessionalID: r.ProfessionalID,
		Days:           make(map[time.Weekday][]domain.TimeRange, len(r.Days)),
	}

	for name, ranges := range r.Days {
		wd, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		converted := make([]domain.TimeRange, 0, len(ranges))
		for _, tr := range ranges {
			converted = append(converted, domain.TimeRange{Start: tr.Start, End: tr.End})
		}
		avail.Days[wd] = converted
	}

	for _, s := range r.BlockedDates {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("%w: blocked date %q", domain.ErrInvalidAvailability, s)
		}
		avail.BlockedDates = append(avail.BlockedDates, d)
	}

	return avail, nil
}

// Response модели

// AvailabilityResponse недельное расписание специалиста
type AvailabilityResponse struct {
	ProfessionalID int64                  `json:"professionalId"`
	Days           map[string][]TimeRange `json:"days"`
	BlockedDates   []string               `json:"blockedDates"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.WeeklyAvailability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	resp := &AvailabilityResponse{
		ProfessionalID: a.ProfessionalID,
		Days:           make(map[string][]TimeRange, len(a.Days)),
		BlockedDates:   make([]string, 0, len(a.BlockedDates)),
		UpdatedAt:      a.UpdatedAt,
	}

	for wd, ranges := range a.Days {
		items := make([]TimeRange, 0, len(ranges))
		for _, r := range ranges {
			items = append(items, TimeRange{Start: r.Start, End: r.End})
		}
		resp.Days[domain.WeekdayName(wd)] = items
	}

	for _, d := range a.BlockedDates {
		resp.BlockedDates = append(resp.BlockedDates, d.Format(domain.DateFormat))
	}
	sort.Strings(resp.BlockedDates)

	return resp
}
