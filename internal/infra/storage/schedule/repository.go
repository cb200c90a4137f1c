package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

// Repository репозиторий расписания бизнеса: недельные часы работы и исключения по датам
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyHours получает часы работы на день недели (0 = воскресенье)
func (r *Repository) GetWeeklyHours(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklyHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_closed",
	).
		From("weekly_hours").
		Where(squirrel.Eq{"business_id": businessID, "day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - build select query: %v", ErrBuildQuery, err)
	}

	var hours domain.WeeklyHours
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.BusinessID,
		&hours.DayOfWeek,
		&hours.OpenTime,
		&hours.CloseTime,
		&hours.IsClosed,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - scan hours: %v", ErrScanRow, err)
	}

	return &hours, nil
}

// UpsertWeeklyHours создает или заменяет часы работы на день недели
func (r *Repository) UpsertWeeklyHours(ctx context.Context, hours *domain.WeeklyHours) (*domain.WeeklyHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_hours").
		Columns("business_id", "day_of_week", "open_time", "close_time", "is_closed").
		Values(hours.BusinessID, hours.DayOfWeek, hours.OpenTime, hours.CloseTime, hours.IsClosed).
		Suffix(`ON CONFLICT (business_id, day_of_week) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			is_closed = EXCLUDED.is_closed`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeeklyHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: UpsertWeeklyHours - execute insert: %v", ErrExecQuery, err)
	}

	return hours, nil
}

// GetExceptionsByDate получает все исключения бизнеса на дату в порядке создания (по id)
func (r *Repository) GetExceptionsByDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"exception_date",
		"is_closed",
		"open_time",
		"close_time",
		"reason",
		"created_at",
	).
		From("date_exceptions").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"exception_date": date.Format(domain.DateFormat)}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.DateException, 0)
	for rows.Next() {
		var exception domain.DateException
		var createdAt sql.NullTime

		if err := rows.Scan(
			&exception.ID,
			&exception.BusinessID,
			&exception.ExceptionDate,
			&exception.IsClosed,
			&exception.OpenTime,
			&exception.CloseTime,
			&exception.Reason,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByDate - scan exception: %v", ErrScanRow, err)
		}

		exception.CreatedAt = createdAt.Time
		exceptions = append(exceptions, &exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// CreateException создает исключение расписания
func (r *Repository) CreateException(ctx context.Context, exception *domain.DateException) (*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("date_exceptions").
		Columns("business_id", "exception_date", "is_closed", "open_time", "close_time", "reason").
		Values(
			exception.BusinessID,
			exception.ExceptionDate.Format(domain.DateFormat),
			exception.IsClosed,
			exception.OpenTime,
			exception.CloseTime,
			exception.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exception.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	exception.CreatedAt = createdAt.Time
	return exception, nil
}

// DeleteException удаляет исключение бизнеса
func (r *Repository) DeleteException(ctx context.Context, businessID, exceptionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_exceptions").
		Where(squirrel.Eq{"id": exceptionID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}
