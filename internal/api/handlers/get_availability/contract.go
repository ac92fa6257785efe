package get_availability

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

type AvailabilityService interface {
	Get(ctx context.Context, professionalID int64) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
