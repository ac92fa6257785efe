package create_booking

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit() error {
	t.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	begun int
}

func (b *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begun++
	return b.tx, nil
}

// conflictingBookings возвращает ошибку сериализации Postgres первые failures вызовов
// поиска пересечений, как это делает SELECT ... FOR UPDATE под нагрузкой
type conflictingBookings struct {
	BookingRepository
	failures int
	calls    int
}

func (r *conflictingBookings) GetActiveOverlapping(ctx context.Context, professionalID int64, start, end time.Time) ([]*domain.Booking, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - execute query: %w",
			bookingRepo.ErrExecQuery, &pq.Error{Code: "40001", Message: "could not serialize access"})
	}
	return r.BookingRepository.GetActiveOverlapping(ctx, professionalID, start, end)
}

func TestExecute_QuerySerializationFailureIsRetried(t *testing.T) {
	f := newFixture(t, false)
	repo := &conflictingBookings{BookingRepository: f.bookings, failures: 1}
	beginner := &fakeBeginner{tx: &fakeTx{}}
	f.uc.bookingRepo = repo
	f.uc.txManager = txmanager.NewTransactionManager(beginner)

	created, err := f.uc.Execute(context.Background(), request(at(10, 0), at(10, 30)))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, 2, beginner.begun)
	assert.Equal(t, 1, beginner.tx.rollbacks)
	assert.Equal(t, 1, beginner.tx.commits)
}

func TestExecute_PersistentSerializationFailureIsConflict(t *testing.T) {
	f := newFixture(t, false)
	repo := &conflictingBookings{BookingRepository: f.bookings, failures: maxAttempts}
	f.uc.bookingRepo = repo
	f.uc.txManager = txmanager.NewTransactionManager(&fakeBeginner{tx: &fakeTx{}})

	_, err := f.uc.Execute(context.Background(), request(at(10, 0), at(10, 30)))
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, maxAttempts, repo.calls)
	assert.Empty(t, f.publisher.events)
}
