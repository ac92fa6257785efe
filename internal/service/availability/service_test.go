package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetUser(ctx context.Context, userID int64) (*userservice.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*userservice.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func newService(t *testing.T) (*Service, *mockUsers) {
	t.Helper()
	users := &mockUsers{}
	users.On("GetUser", mock.Anything, int64(10)).Return(&userservice.User{ID: 10, Role: "professional"}, nil).Maybe()
	users.On("GetUser", mock.Anything, int64(404)).Return(nil, userservice.ErrUserNotFound).Maybe()
	users.On("GetUser", mock.Anything, int64(500)).Return(nil, errors.New("timeout")).Maybe()

	repo := memory.NewAvailabilityRepository(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})
	return NewService(repo, users, nopLogger{}), users
}

func validRequest(professionalID int64) *models.SetAvailabilityRequest {
	return &models.SetAvailabilityRequest{
		Actor:          domain.ProfessionalActor{ID: professionalID},
		ProfessionalID: professionalID,
		Days: map[string][]models.TimeRange{
			"monday":    {{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "18:00"}},
			"wednesday": {{Start: "10:00", End: "14:00"}},
		},
		BlockedDates: []string{"2026-03-09", "2026-03-08", "2026-03-09"},
	}
}

func TestService_SetAndGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 10)
	require.ErrorIs(t, err, domain.ErrNotFound)

	saved, err := svc.Set(ctx, validRequest(10))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-08", "2026-03-09"}, saved.BlockedDates)

	got, err := svc.Get(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got.Days["monday"], 2)
	assert.Equal(t, []models.TimeRange{{Start: "10:00", End: "14:00"}}, got.Days["wednesday"])
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got.UpdatedAt)

	// Замена целиком: вторник вместо понедельника и среды
	req := validRequest(10)
	req.Days = map[string][]models.TimeRange{"tuesday": {{Start: "08:00", End: "09:00"}}}
	req.BlockedDates = nil
	_, err = svc.Set(ctx, req)
	require.NoError(t, err)

	got, err = svc.Get(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got.Days, 1)
	assert.Empty(t, got.BlockedDates)
}

func TestService_SetValidation(t *testing.T) {
	tests := []struct {
		name string
		days map[string][]models.TimeRange
	}{
		{"overlapping", map[string][]models.TimeRange{"monday": {{Start: "09:00", End: "12:00"}, {Start: "11:00", End: "13:00"}}}},
		{"unsorted", map[string][]models.TimeRange{"monday": {{Start: "13:00", End: "14:00"}, {Start: "09:00", End: "10:00"}}}},
		{"start after end", map[string][]models.TimeRange{"monday": {{Start: "12:00", End: "09:00"}}}},
		{"empty range", map[string][]models.TimeRange{"monday": {{Start: "09:00", End: "09:00"}}}},
		{"bad time", map[string][]models.TimeRange{"monday": {{Start: "25:00", End: "26:00"}}}},
		{"unknown weekday", map[string][]models.TimeRange{"funday": {{Start: "09:00", End: "10:00"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			req := validRequest(10)
			req.Days = tt.days
			_, err := svc.Set(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrInvalidAvailability)
		})
	}
}

func TestService_SetAccessAndLookup(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req := validRequest(10)
	req.Actor = domain.ProfessionalActor{ID: 11}
	_, err := svc.Set(ctx, req)
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	req.Actor = domain.ClientActor{ID: 10}
	_, err = svc.Set(ctx, req)
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	req.Actor = domain.AdminActor{ID: 1}
	_, err = svc.Set(ctx, req)
	require.NoError(t, err)

	_, err = svc.Set(ctx, validRequest(404))
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Set(ctx, validRequest(500))
	require.ErrorIs(t, err, ErrInternal)
}
