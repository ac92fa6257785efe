package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"client_id",
	"professional_id",
	"service_id",
	"scheduled_start",
	"scheduled_end",
	"status",
	"cancellation_reason",
	"cancelled_by",
	"price",
	"reviewed_at",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"client_id",
			"professional_id",
			"service_id",
			"scheduled_start",
			"scheduled_end",
			"status",
			"price",
		).
		Values(
			booking.ID,
			booking.ClientID,
			booking.ProfessionalID,
			booking.ServiceID,
			booking.ScheduledStart,
			booking.ScheduledEnd,
			booking.Status,
			booking.Price,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования по фильтру, отсортированные по scheduled_start
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_start": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_start": *filter.To})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("scheduled_start ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveOverlapping получает активные бронирования специалиста, пересекающиеся с [start, end).
// В транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetActiveOverlapping(ctx context.Context, professionalID int64, start, end time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"scheduled_start": end}).
		Where(squirrel.Gt{"scheduled_end": start}).
		OrderBy("scheduled_start ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus сохраняет новый статус с проверкой версии.
// При успехе версия увеличивается на 1.
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking, expectedVersion int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", booking.Status).
		Set("cancellation_reason", booking.CancellationReason).
		Set("cancelled_by", booking.CancelledBy).
		Set("updated_at", booking.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": booking.ID}).
		Where(squirrel.Eq{"version": expectedVersion}).
		Suffix("RETURNING version").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	var version int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// Строка не обновлена: либо её нет, либо версия изменилась
		if _, getErr := r.GetByID(ctx, booking.ID); errors.Is(getErr, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: booking %s expected version %d", ErrVersionConflict, booking.ID, expectedVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	updated := *booking
	updated.Version = version
	return &updated, nil
}

// MarkReviewed отмечает завершённое бронирование клиента как оценённое
func (r *Repository) MarkReviewed(ctx context.Context, id uuid.UUID, clientID int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("reviewed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.Eq{"status": domain.StatusCompleted}).
		Where(squirrel.Eq{"reviewed_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReviewed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReviewed - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReviewed - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotReviewable
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var booking domain.Booking
	var (
		cancellationReason sql.NullString
		cancelledBy        sql.NullString
		price              decimal.NullDecimal
		reviewedAt         sql.NullTime
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ProfessionalID,
		&booking.ServiceID,
		&booking.ScheduledStart,
		&booking.ScheduledEnd,
		&booking.Status,
		&cancellationReason,
		&cancelledBy,
		&price,
		&reviewedAt,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}
	if cancelledBy.Valid {
		role := domain.Role(cancelledBy.String)
		booking.CancelledBy = &role
	}
	if price.Valid {
		booking.Price = &price.Decimal
	}
	if reviewedAt.Valid {
		booking.ReviewedAt = &reviewedAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
