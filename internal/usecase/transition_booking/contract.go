package transition_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	"github.com/m04kA/SMC-AppointmentService/internal/lifecycle"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking, expectedVersion int64) (*domain.Booking, error)
}

// StateMachine правила переходов статусов
type StateMachine interface {
	Decide(b *domain.Booking, to domain.BookingStatus, actor domain.Actor, now time.Time) (lifecycle.Decision, error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics интерфейс метрик переходов
type Metrics interface {
	Transition(from, to, outcome string)
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
