package availability

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	Get(ctx context.Context, professionalID int64) (*domain.WeeklyAvailability, error)
	Upsert(ctx context.Context, avail *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
