package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/internal/views"
)

// Request модели

// CalendarRequest запрос календаря специалиста
type CalendarRequest struct {
	Actor          domain.Actor
	ProfessionalID int64
	From           time.Time // Первый день, включительно
	To             time.Time // Последний день, включительно
	GroupBy        string    // day, week, month
}

// DashboardRequest запрос дашборда специалиста. Нулевые границы не ограничивают период.
type DashboardRequest struct {
	Actor          domain.Actor
	ProfessionalID int64
	From           *time.Time
	To             *time.Time
}

// Response модели

// BucketResponse группа календаря
type BucketResponse struct {
	Key      string                          `json:"key"`
	Start    time.Time                       `json:"start"`
	Bookings []bookingModels.BookingResponse `json:"bookings"`
}

// CalendarResponse календарь специалиста
type CalendarResponse struct {
	ProfessionalID int64            `json:"professionalId"`
	GroupBy        string           `json:"groupBy"`
	Buckets        []BucketResponse `json:"buckets"`
}

// StatsResponse статистика по статусам
type StatsResponse struct {
	Total           int                        `json:"total"`
	ByStatus        map[string]int             `json:"byStatus"`
	RevenueByStatus map[string]decimal.Decimal `json:"revenueByStatus"`
	Revenue         decimal.Decimal            `json:"revenue"`
	CompletionRate  float64                    `json:"completionRate"`
	ActiveCount     int                        `json:"activeCount"`
}

// DashboardResponse дашборд специалиста
type DashboardResponse struct {
	ProfessionalID int64                           `json:"professionalId"`
	Stats          StatsResponse                   `json:"stats"`
	Upcoming       []bookingModels.BookingResponse `json:"upcoming"`
	Past           []bookingModels.BookingResponse `json:"past"`
}

// Методы конвертации

// FromBuckets конвертирует группы календаря в DTO
func FromBuckets(buckets []views.Bucket) []BucketResponse {
	result := make([]BucketResponse, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, BucketResponse{
			Key:      b.Key,
			Start:    b.Start,
			Bookings: FromBookings(b.Bookings),
		})
	}
	return result
}

// FromBookings конвертирует срез бронирований в DTO
func FromBookings(bookings []domain.Booking) []bookingModels.BookingResponse {
	result := make([]bookingModels.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, *bookingModels.FromDomainBooking(&bookings[i]))
	}
	return result
}

// FromStats конвертирует статистику в DTO
func FromStats(s views.Stats) StatsResponse {
	resp := StatsResponse{
		Total:           s.Total,
		ByStatus:        make(map[string]int, len(s.ByStatus)),
		RevenueByStatus: make(map[string]decimal.Decimal, len(s.RevenueByStatus)),
		Revenue:         s.Revenue,
		CompletionRate:  s.CompletionRate,
		ActiveCount:     s.UpcomingCount,
	}
	for status, n := range s.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for status, sum := range s.RevenueByStatus {
		resp.RevenueByStatus[string(status)] = sum
	}
	return resp
}
