package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveOverlapping(ctx context.Context, professionalID int64, start, end time.Time) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	Get(ctx context.Context, professionalID int64) (*domain.WeeklyAvailability, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalog.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка по ключу (в процессе или распределённая)
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics интерфейс метрик создания бронирований
type Metrics interface {
	BookingCreated(outcome string)
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
