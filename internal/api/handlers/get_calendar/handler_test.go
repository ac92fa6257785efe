package get_calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct {
	mock.Mock
}

func (m *mockService) GetCalendar(ctx context.Context, req *models.CalendarRequest) (*models.CalendarResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.CalendarResponse)
	return resp, args.Error(1)
}

func newRequest(query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/professionals/7/calendar?"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"professionalId": "7"})
	return r.WithContext(middleware.WithActor(r.Context(), domain.ProfessionalActor{ID: 7}))
}

func TestHandler_DefaultGrouping(t *testing.T) {
	svc := &mockService{}
	svc.On("GetCalendar", mock.Anything, mock.MatchedBy(func(req *models.CalendarRequest) bool {
		return req.GroupBy == "day" && req.ProfessionalID == 7 &&
			req.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	})).Return(&models.CalendarResponse{ProfessionalID: 7, GroupBy: "day", Buckets: []models.BucketResponse{}}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, time.UTC, nopLogger{}).Handle(w, newRequest("from=2026-03-01&to=2026-03-31"))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"missing from", "to=2026-03-31", nil, http.StatusBadRequest},
		{"bad date", "from=2026-3-1&to=2026-03-31", nil, http.StatusBadRequest},
		{"bad grouping", "from=2026-03-01&to=2026-03-31&groupBy=year", calendar.ErrInvalidInput, http.StatusBadRequest},
		{"foreign calendar", "from=2026-03-01&to=2026-03-31", calendar.ErrAccessDenied, http.StatusForbidden},
		{"internal", "from=2026-03-01&to=2026-03-31", calendar.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetCalendar", mock.Anything, mock.Anything).Return(nil, tt.err).Maybe()

			w := httptest.NewRecorder()
			NewHandler(svc, time.UTC, nopLogger{}).Handle(w, newRequest(tt.query))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
