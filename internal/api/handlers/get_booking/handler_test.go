package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/lifecycle"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// newRouter собирает handler поверх настоящего сервиса и хранилища в памяти
func newRouter(t *testing.T) (*mux.Router, uuid.UUID) {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.NewBookingRepository(func() time.Time { return now })

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(context.Background(), &domain.Booking{
		ID:             uuid.New(),
		ClientID:       11,
		ProfessionalID: 7,
		ServiceID:      3,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Status:         domain.StatusPending,
	})
	require.NoError(t, err)

	svc := bookings.NewService(repo, lifecycle.New(), nopLogger{})

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	return r, created.ID
}

func doGet(r http.Handler, id string, userID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderUserRole, role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ProfessionalSeesAllowedTransitions(t *testing.T) {
	r, id := newRouter(t)

	w := doGet(r, id.String(), "7", "professional")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Contains(t, resp.AllowedTransitions, "confirmed")
	assert.Contains(t, resp.AllowedTransitions, "rejected")
}

func TestHandler_Errors(t *testing.T) {
	r, id := newRouter(t)

	tests := []struct {
		name   string
		id     string
		userID string
		role   string
		status int
	}{
		{"stranger client", id.String(), "99", "client", http.StatusForbidden},
		{"unknown booking", uuid.New().String(), "11", "client", http.StatusNotFound},
		{"malformed id", "123", "11", "client", http.StatusBadRequest},
		{"no identity", id.String(), "", "", http.StatusUnauthorized},
		{"admin", id.String(), "1", "admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, doGet(r, tt.id, tt.userID, tt.role).Code)
		})
	}
}
