package set_availability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct {
	mock.Mock
}

func (m *mockService) Set(ctx context.Context, req *models.SetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AvailabilityResponse)
	return resp, args.Error(1)
}

const validBody = `{"days":{"monday":[{"start":"09:00","end":"12:00"},{"start":"13:00","end":"17:00"}]},"blockedDates":["2026-03-09"]}`

func newRequest(body string, actor domain.Actor) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/professionals/7/availability", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"professionalId": "7"})
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

func TestHandler_Success(t *testing.T) {
	svc := &mockService{}
	svc.On("Set", mock.Anything, mock.MatchedBy(func(req *models.SetAvailabilityRequest) bool {
		return req.ProfessionalID == 7 && req.Actor.UserID() == 7 &&
			len(req.Days["monday"]) == 2 && len(req.BlockedDates) == 1
	})).Return(&models.AvailabilityResponse{ProfessionalID: 7}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, newRequest(validBody, domain.ProfessionalActor{ID: 7}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"professionalId":7`)
	svc.AssertExpectations(t)
}

func TestHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown weekday", `{"days":{"funday":[{"start":"09:00","end":"12:00"}]}}`},
		{"missing days", `{"blockedDates":[]}`},
		{"bad blocked date", `{"days":{"monday":[]},"blockedDates":["09.03.2026"]}`},
		{"bad time", `{"days":{"monday":[{"start":"9am","end":"12:00"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(w, newRequest(tt.body, domain.ProfessionalActor{ID: 7}))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"access denied", availability.ErrAccessDenied, http.StatusForbidden},
		{"overlapping ranges", fmt.Errorf("%w: ranges overlap", domain.ErrInvalidAvailability), http.StatusBadRequest},
		{"professional not found", availability.ErrProfessionalNotFound, http.StatusNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Set", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(w, newRequest(validBody, domain.ProfessionalActor{ID: 8}))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
