package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "weekly_availability"

// Repository репозиторий недельного расписания специалистов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает расписание специалиста
func (r *Repository) Get(ctx context.Context, professionalID int64) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"professional_id",
		"days",
		"blocked_dates",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID})

	// В транзакции создания бронирования расписание не должно меняться до коммита
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		avail     domain.WeeklyAvailability
		days      []byte
		blocked   pq.StringArray
		updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&avail.ProfessionalID,
		&days,
		&blocked,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan availability: %w", ErrScanRow, err)
	}

	if avail.Days, err = decodeDays(days); err != nil {
		return nil, err
	}
	if avail.BlockedDates, err = decodeDates(blocked); err != nil {
		return nil, err
	}
	avail.UpdatedAt = updatedAt.Time

	return &avail, nil
}

// Upsert заменяет расписание специалиста целиком
func (r *Repository) Upsert(ctx context.Context, avail *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, err := encodeDays(avail.Days)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"professional_id",
			"days",
			"blocked_dates",
			"updated_at",
		).
		Values(
			avail.ProfessionalID,
			days,
			encodeDates(avail.BlockedDates),
			squirrel.Expr("NOW()"),
		).
		Suffix("ON CONFLICT (professional_id) DO UPDATE SET " +
			"days = EXCLUDED.days, blocked_dates = EXCLUDED.blocked_dates, updated_at = EXCLUDED.updated_at " +
			"RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	saved := *avail
	saved.UpdatedAt = updatedAt.Time
	return &saved, nil
}
