package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/pgerr"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

const bookingsTable = "bookings"

var bookingColumns = []string{
	"id",
	"customer_id",
	"business_id",
	"service_id",
	"start_time",
	"end_time",
	"status",
	"payment_method",
	"payment_status",
	"original_price",
	"discount_amount",
	"platform_fee",
	"final_total",
	"voucher_code_used",
	"decline_reason",
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
// Пересечение с активным бронированием бизнеса отклоняется ограничением bookings_no_overlap.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"customer_id",
			"business_id",
			"service_id",
			"start_time",
			"end_time",
			"status",
			"payment_method",
			"payment_status",
			"original_price",
			"discount_amount",
			"platform_fee",
			"final_total",
			"voucher_code_used",
		).
		Values(
			booking.CustomerID,
			booking.BusinessID,
			booking.ServiceID,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.PaymentMethod,
			booking.PaymentStatus,
			booking.OriginalPrice,
			booking.DiscountAmount,
			booking.PlatformFee,
			booking.FinalTotal,
			booking.VoucherCodeUsed,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	switch {
	case err == nil:
	case pgerr.IsExclusionViolation(err):
		return nil, ErrSlotTaken
	case pgerr.IsSerializationFailure(err):
		return nil, fmt.Errorf("%w: Create: %v", ErrSerialization, err)
	default:
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetInPeriod получает бронирования бизнеса, пересекающиеся с [filter.From, filter.To).
// Без явного списка статусов возвращает только бронирования, занимающие слот
// (все, кроме cancelled и declined).
//
// Внутри транзакции строки блокируются (FOR UPDATE) - так settlement
// проверяет пересечение перед вставкой.
func (r *Repository) GetInPeriod(ctx context.Context, filter domain.BookingPeriodFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyPeriodFilter(psqlbuilder.Select(bookingColumns...).From(bookingsTable), filter).
		OrderBy("start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetInPeriod - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: GetInPeriod: %v", ErrSerialization, err)
		}
		return nil, fmt.Errorf("%w: GetInPeriod - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountInPeriod считает бронирования бизнеса, пересекающиеся с периодом
func (r *Repository) CountInPeriod(ctx context.Context, filter domain.BookingPeriodFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyPeriodFilter(psqlbuilder.Select("COUNT(*)").From(bookingsTable), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountInPeriod - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountInPeriod - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountUpcomingByWeekday считает предстоящие бронирования (start_time >= from),
// которые в часовом поясе бизнеса приходятся на указанный день недели (0 = воскресенье)
func (r *Repository) CountUpcomingByWeekday(
	ctx context.Context,
	businessID int64,
	dayOfWeek int,
	from time.Time,
	timezone string,
	statuses []domain.BookingStatus,
) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(bookingsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Eq{"status": statusStrings(statuses)}).
		Where(squirrel.Expr("EXTRACT(DOW FROM start_time AT TIME ZONE ?) = ?", timezone, dayOfWeek)).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountUpcomingByWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUpcomingByWeekday - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to.
// Если статус уже не from (параллельное изменение), возвращает ErrStatusMismatch.
// reason сохраняется в decline_reason, если передан.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to domain.BookingStatus,
	reason *string,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(bookingsTable).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if reason != nil {
		updateBuilder = updateBuilder.Set("decline_reason", *reason)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsSerializationFailure(err) {
			return fmt.Errorf("%w: UpdateStatus: %v", ErrSerialization, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusMismatch
	}

	return nil
}

// applyPeriodFilter добавляет условия фильтра периода
func applyPeriodFilter(b squirrel.SelectBuilder, filter domain.BookingPeriodFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"business_id": filter.BusinessID}).
		Where(squirrel.Lt{"start_time": filter.To}).
		Where(squirrel.Gt{"end_time": filter.From})

	if len(filter.Statuses) > 0 {
		return b.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}

	return b.Where(squirrel.NotEq{"status": statusStrings(domain.SlotReleasingStatuses)})
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

// scanBooking сканирует одну строку в domain.Booking
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.BusinessID,
		&booking.ServiceID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.PaymentStatus,
		&booking.OriginalPrice,
		&booking.DiscountAmount,
		&booking.PlatformFee,
		&booking.FinalTotal,
		&booking.VoucherCodeUsed,
		&booking.DeclineReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результат запроса в список бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
