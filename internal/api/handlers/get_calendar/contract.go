package get_calendar

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

type CalendarService interface {
	GetCalendar(ctx context.Context, req *models.CalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
