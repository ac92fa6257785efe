package get_available_slots

import (
	"context"
	"iter"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveOverlapping(ctx context.Context, professionalID int64, start, end time.Time) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	Get(ctx context.Context, professionalID int64) (*domain.WeeklyAvailability, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalog.Service, error)
}

// SlotGenerator генератор свободных слотов
type SlotGenerator interface {
	Location() *time.Location
	Validate(dateRange domain.DateRange, duration time.Duration) error
	Generate(
		avail *domain.WeeklyAvailability,
		booked []*domain.Booking,
		dateRange domain.DateRange,
		duration time.Duration,
		now time.Time,
	) (iter.Seq[domain.Slot], error)
}

// Metrics интерфейс метрик генерации слотов
type Metrics interface {
	SlotsGenerated(count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
