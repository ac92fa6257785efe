package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const professionalID int64 = 10

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func day(d, h int) time.Time {
	return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) *Service {
	t.Helper()
	clk := clock.NewManual(day(4, 12))
	repo := memory.NewBookingRepository(clk.Now)

	seed := []struct {
		start  time.Time
		status domain.BookingStatus
		price  string
		prof   int64
	}{
		{day(2, 10), domain.StatusCompleted, "1000", professionalID},
		{day(3, 10), domain.StatusCancelled, "500", professionalID},
		{day(3, 14), domain.StatusCompleted, "1500", professionalID},
		{day(5, 9), domain.StatusConfirmed, "2000", professionalID},
		{day(10, 9), domain.StatusPending, "700", professionalID},
		{day(5, 9), domain.StatusConfirmed, "9999", 20},
	}
	for _, s := range seed {
		_, err := repo.Create(context.Background(), &domain.Booking{
			ID:             uuid.New(),
			ClientID:       1,
			ProfessionalID: s.prof,
			ScheduledStart: s.start,
			ScheduledEnd:   s.start.Add(time.Hour),
			Status:         s.status,
			Price:          ptr.Ptr(decimal.RequireFromString(s.price)),
		})
		require.NoError(t, err)
	}

	return NewService(repo, time.UTC, clk, nopLogger{})
}

func TestService_GetCalendar(t *testing.T) {
	svc := newService(t)
	actor := domain.ProfessionalActor{ID: professionalID}

	resp, err := svc.GetCalendar(context.Background(), &models.CalendarRequest{
		Actor: actor, ProfessionalID: professionalID, From: day(2, 0), To: day(8, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, "day", resp.GroupBy)

	keys := make([]string, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		keys = append(keys, b.Key)
	}
	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-05"}, keys)
	assert.Len(t, resp.Buckets[1].Bookings, 2)

	resp, err = svc.GetCalendar(context.Background(), &models.CalendarRequest{
		Actor: actor, ProfessionalID: professionalID, From: day(1, 0), To: day(31, 0), GroupBy: "week",
	})
	require.NoError(t, err)
	require.Len(t, resp.Buckets, 2)
	assert.Equal(t, "2026-W10", resp.Buckets[0].Key)
	assert.Len(t, resp.Buckets[0].Bookings, 4)
	assert.Equal(t, "2026-W11", resp.Buckets[1].Key)
}

func TestService_GetCalendarErrors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetCalendar(ctx, &models.CalendarRequest{
		Actor: domain.ProfessionalActor{ID: 20}, ProfessionalID: professionalID, From: day(2, 0), To: day(8, 0),
	})
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.GetCalendar(ctx, &models.CalendarRequest{
		Actor: domain.AdminActor{ID: 1}, ProfessionalID: professionalID, From: day(2, 0), To: day(8, 0), GroupBy: "year",
	})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.GetCalendar(ctx, &models.CalendarRequest{
		Actor: domain.AdminActor{ID: 1}, ProfessionalID: professionalID, From: day(8, 0), To: day(2, 0),
	})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestService_GetDashboard(t *testing.T) {
	svc := newService(t)

	resp, err := svc.GetDashboard(context.Background(), &models.DashboardRequest{
		Actor: domain.ProfessionalActor{ID: professionalID}, ProfessionalID: professionalID,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Stats.Total)
	assert.Equal(t, 2, resp.Stats.ByStatus["completed"])
	assert.True(t, resp.Stats.Revenue.Equal(decimal.RequireFromString("2500")))
	assert.InDelta(t, 2.0/3.0, resp.Stats.CompletionRate, 1e-9)
	assert.Equal(t, 2, resp.Stats.ActiveCount)

	require.Len(t, resp.Upcoming, 2)
	assert.Equal(t, day(5, 9), resp.Upcoming[0].ScheduledStart)
	require.Len(t, resp.Past, 3)
	assert.Equal(t, day(3, 14), resp.Past[0].ScheduledStart)
}

func TestService_GetDashboardWindow(t *testing.T) {
	svc := newService(t)

	resp, err := svc.GetDashboard(context.Background(), &models.DashboardRequest{
		Actor: domain.AdminActor{ID: 1}, ProfessionalID: professionalID,
		From: ptr.Ptr(day(3, 0)), To: ptr.Ptr(day(4, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 0.5, resp.Stats.CompletionRate)
}
