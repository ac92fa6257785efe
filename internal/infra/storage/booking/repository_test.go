package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

var (
	start = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end   = start.Add(30 * time.Minute)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func bookingRow(id uuid.UUID, status domain.BookingStatus, version int64) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		id.String(), int64(1), int64(10), int64(100), start, end, string(status),
		nil, nil, "1500.00", nil, version, start.Add(-time.Hour), start.Add(-time.Hour),
	)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, client_id")).
		WillReturnRows(bookingRow(id, domain.StatusConfirmed, 3))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, int64(3), got.Version)
	require.NotNil(t, got.Price)
	assert.True(t, decimal.RequireFromString("1500").Equal(*got.Price))
	assert.Nil(t, got.CancelledBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetActiveOverlappingLocksRowsInTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`ORDER BY scheduled_start ASC$`).
		WillReturnRows(sqlmock.NewRows(columns))

	mock.ExpectBegin()
	mock.ExpectQuery(`ORDER BY scheduled_start ASC FOR UPDATE$`).
		WillReturnRows(bookingRow(uuid.New(), domain.StatusPending, 1))
	mock.ExpectRollback()

	got, err := repo.GetActiveOverlapping(context.Background(), 10, start, end)
	require.NoError(t, err)
	assert.Empty(t, got)

	tx, err := db.Begin()
	require.NoError(t, err)
	got, err = repo.GetActiveOverlapping(dbmetrics.WithTx(context.Background(), tx), 10, start, end)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, tx.Rollback())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SerializationFailureKeepsDriverError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery("FROM bookings").
		WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})

	_, err := repo.GetActiveOverlapping(context.Background(), 10, start, end)
	require.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	created := start.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(1), created, created))

	got, err := repo.Create(context.Background(), &domain.Booking{
		ID:             uuid.New(),
		ClientID:       1,
		ProfessionalID: 10,
		ServiceID:      100,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	id := uuid.New()
	booking := &domain.Booking{ID: id, Status: domain.StatusConfirmed, UpdatedAt: start}

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(4)))

		got, err := NewRepository(db).UpdateStatus(context.Background(), booking, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.Version)
		assert.Equal(t, int64(0), booking.Version)
	})

	t.Run("version changed", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, client_id")).
			WillReturnRows(bookingRow(id, domain.StatusCancelled, 4))

		_, err := NewRepository(db).UpdateStatus(context.Background(), booking, 3)
		require.ErrorIs(t, err, ErrVersionConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, client_id")).WillReturnError(sql.ErrNoRows)

		_, err := NewRepository(db).UpdateStatus(context.Background(), booking, 3)
		require.ErrorIs(t, err, ErrBookingNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_MarkReviewed(t *testing.T) {
	id := uuid.New()

	t.Run("marked", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET reviewed_at")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewRepository(db).MarkReviewed(context.Background(), id, 1, end))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not reviewable", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET reviewed_at")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewRepository(db).MarkReviewed(context.Background(), id, 1, end)
		require.ErrorIs(t, err, ErrNotReviewable)
	})
}
