package create_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

const validBody = `{"professionalId":7,"serviceId":3,"start":"2026-03-02T09:00:00Z"}`

func newRequest(body string, actor domain.Actor) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), actor))
	}
	return r
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID:             uuid.New(),
		ClientID:       11,
		ProfessionalID: 7,
		ServiceID:      3,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Status:         domain.StatusPending,
	}

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		// clientId по умолчанию берётся у клиента из заголовков
		return req.ClientID == 11 && req.ProfessionalID == 7 && req.ServiceID == 3 &&
			req.Start.Equal(start) && req.End.IsZero()
	})).Return(booking, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, newRequest(validBody, domain.ClientActor{ID: 11}))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), booking.ID.String())
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	uc.AssertExpectations(t)
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"professionalId":`},
		{"unknown field", `{"professionalId":7,"serviceId":3,"start":"2026-03-02T09:00:00Z","notes":"x"}`},
		{"missing professional", `{"serviceId":3,"start":"2026-03-02T09:00:00Z"}`},
		{"missing start", `{"professionalId":7,"serviceId":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest(tt.body, domain.ClientActor{ID: 11}))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_MissingActor(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(&mockUseCase{}, nopLogger{}).Handle(w, newRequest(validBody, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"slot unavailable", createBooking.ErrSlotUnavailable, http.StatusConflict},
		{"concurrency conflict", createBooking.ErrConcurrencyConflict, http.StatusConflict},
		{"out of availability", createBooking.ErrOutOfAvailability, http.StatusBadRequest},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"service not found", createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"professional not found", createBooking.ErrProfessionalNotFound, http.StatusNotFound},
		{"access denied", createBooking.ErrAccessDenied, http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest(validBody, domain.ClientActor{ID: 11}))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
