package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// GetBookingsRequest запрос на получение бронирований специалиста или клиента
type GetBookingsRequest struct {
	Actor  domain.Actor
	UserID int64   // ID специалиста или клиента
	Status *string // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBookingsRequest) ToDomainFilter(byProfessional bool) (domain.BookingsFilter, error) {
	var filter domain.BookingsFilter
	userID := r.UserID
	if byProfessional {
		filter.ProfessionalID = &userID
	} else {
		filter.ClientID = &userID
	}

	// Конвертируем статус если указан
	if r.Status != nil && *r.Status != "" {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 string           `json:"id"`
	ClientID           int64            `json:"clientId"`
	ProfessionalID     int64            `json:"professionalId"`
	ServiceID          int64            `json:"serviceId"`
	ScheduledStart     time.Time        `json:"scheduledStart"`
	ScheduledEnd       time.Time        `json:"scheduledEnd"`
	DurationMinutes    int              `json:"durationMinutes"`
	Status             string           `json:"status"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	CancellationReason *string          `json:"cancellationReason,omitempty"`
	CancelledBy        *string          `json:"cancelledBy,omitempty"`
	ReviewedAt         *time.Time       `json:"reviewedAt,omitempty"`
	Version            int64            `json:"version"`

	// Переходы, доступные текущему пользователю
	AllowedTransitions []string `json:"allowedTransitions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID.String(),
		ClientID:           b.ClientID,
		ProfessionalID:     b.ProfessionalID,
		ServiceID:          b.ServiceID,
		ScheduledStart:     b.ScheduledStart,
		ScheduledEnd:       b.ScheduledEnd,
		DurationMinutes:    int(b.Duration() / time.Minute),
		Status:             string(b.Status),
		Price:              b.Price,
		CancellationReason: b.CancellationReason,
		ReviewedAt:         b.ReviewedAt,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		role := string(*b.CancelledBy)
		resp.CancelledBy = &role
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// StatusStrings конвертирует статусы в строки
func StatusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, string(s))
	}
	return result
}
