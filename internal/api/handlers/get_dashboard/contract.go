package get_dashboard

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, req *models.DashboardRequest) (*models.DashboardResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
