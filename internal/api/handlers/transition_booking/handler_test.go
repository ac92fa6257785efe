package transition_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	transitionBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*transitionBooking.Response)
	return resp, args.Error(1)
}

func newRequest(bookingID, body string, actor domain.Actor) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/status", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), actor))
	}
	return r
}

func TestHandler_Success(t *testing.T) {
	id := uuid.New()
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *transitionBooking.Request) bool {
		return req.BookingID == id && req.To == domain.StatusCancelled &&
			req.Reason != nil && *req.Reason == "заболел" && req.Actor.UserID() == 11
	})).Return(&transitionBooking.Response{
		Booking: &domain.Booking{ID: id, Status: domain.StatusCancelled, Version: 2},
	}, nil)

	w := httptest.NewRecorder()
	body := `{"status":"cancelled","reason":"заболел"}`
	NewHandler(uc, nopLogger{}).Handle(w, newRequest(id.String(), body, domain.ClientActor{ID: 11}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
	uc.AssertExpectations(t)
}

func TestHandler_BadRequests(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		name      string
		bookingID string
		body      string
	}{
		{"invalid id", "42", `{"status":"confirmed"}`},
		{"unknown status", id, `{"status":"archived"}`},
		{"pending is not a target", id, `{"status":"pending"}`},
		{"reason too long", id, `{"status":"cancelled","reason":"` + strings.Repeat("a", 501) + `"}`},
		{"empty body", id, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest(tt.bookingID, tt.body, domain.ProfessionalActor{ID: 7}))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", transitionBooking.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", transitionBooking.ErrAccessDenied, http.StatusForbidden},
		{"illegal transition", &domain.TransitionError{From: domain.StatusConfirmed, To: domain.StatusConfirmed, Role: domain.RoleProfessional}, http.StatusUnprocessableEntity},
		{"terminal", domain.ErrTerminalStateViolation, http.StatusUnprocessableEntity},
		{"too early", domain.ErrTooEarly, http.StatusUnprocessableEntity},
		{"conflict", transitionBooking.ErrConcurrencyConflict, http.StatusConflict},
		{"invalid input", transitionBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest(id.String(), `{"status":"confirmed"}`, domain.ProfessionalActor{ID: 7}))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
