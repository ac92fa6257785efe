package get_professional_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct {
	mock.Mock
}

func (m *mockService) GetForProfessional(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingListResponse)
	return resp, args.Error(1)
}

func newRequest(id, query string, actor domain.Actor) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/professionals/"+id+"/bookings?"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"professionalId": id})
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), actor))
	}
	return r
}

func TestHandler_StatusFilter(t *testing.T) {
	svc := &mockService{}
	svc.On("GetForProfessional", mock.Anything, mock.MatchedBy(func(req *models.GetBookingsRequest) bool {
		return req.UserID == 7 && req.Status != nil && *req.Status == "confirmed"
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b1", Status: "confirmed"}}}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, newRequest("7", "status=confirmed", domain.ProfessionalActor{ID: 7}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"b1"`)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		query  string
		actor  domain.Actor
		err    error
		status int
	}{
		{"invalid id", "x", "", domain.ProfessionalActor{ID: 7}, nil, http.StatusBadRequest},
		{"unknown status", "7", "status=archived", domain.ProfessionalActor{ID: 7}, nil, http.StatusBadRequest},
		{"missing actor", "7", "", nil, nil, http.StatusUnauthorized},
		{"foreign list", "7", "", domain.ProfessionalActor{ID: 8}, bookings.ErrAccessDenied, http.StatusForbidden},
		{"internal", "7", "", domain.ProfessionalActor{ID: 7}, bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetForProfessional", mock.Anything, mock.Anything).Return(nil, tt.err).Maybe()

			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(w, newRequest(tt.id, tt.query, tt.actor))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
