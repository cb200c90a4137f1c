package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/pgerr"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

// walletBalanceCheck имя CHECK ограничения wallet_balance >= 0
const walletBalanceCheck = "businesses_wallet_balance_check"

// Repository репозиторий бизнесов и их кошельков
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бизнес по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"wallet_balance",
		"commission_rate",
		"accepts_cash",
		"timezone",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var business domain.Business
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&business.ID,
		&business.OwnerID,
		&business.Name,
		&business.WalletBalance,
		&business.CommissionRate,
		&business.AcceptsCash,
		&business.Timezone,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan business: %v", ErrScanRow, err)
	}

	business.CreatedAt = createdAt.Time
	business.UpdatedAt = updatedAt.Time

	return &business, nil
}

// DebitWallet списывает amount с кошелька, только если баланс не уйдет в минус.
// Проверка и списание - один UPDATE, поэтому параллельные списания не могут
// увести баланс ниже нуля. Возвращает новый баланс.
func (r *Repository) DebitWallet(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("businesses").
		Set("wallet_balance", squirrel.Expr("wallet_balance - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": businessID}).
		Where(squirrel.GtOrEq{"wallet_balance": amount}).
		Suffix("RETURNING wallet_balance").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DebitWallet - build update query: %v", ErrBuildQuery, err)
	}

	var balance domain.Money
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, sql.ErrNoRows), pgerr.IsCheckViolation(err, walletBalanceCheck):
		return 0, ErrInsufficientBalance
	case pgerr.IsSerializationFailure(err):
		return 0, fmt.Errorf("%w: DebitWallet: %v", ErrSerialization, err)
	default:
		return 0, fmt.Errorf("%w: DebitWallet - execute update: %v", ErrExecQuery, err)
	}
}

// CreditWallet зачисляет amount на кошелек. Возвращает новый баланс.
func (r *Repository) CreditWallet(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("businesses").
		Set("wallet_balance", squirrel.Expr("wallet_balance + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": businessID}).
		Suffix("RETURNING wallet_balance").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CreditWallet - build update query: %v", ErrBuildQuery, err)
	}

	var balance domain.Money
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrBusinessNotFound
	case pgerr.IsSerializationFailure(err):
		return 0, fmt.Errorf("%w: CreditWallet: %v", ErrSerialization, err)
	default:
		return 0, fmt.Errorf("%w: CreditWallet - execute update: %v", ErrExecQuery, err)
	}
}

// RecordTransaction записывает движение по кошельку в журнал
func (r *Repository) RecordTransaction(ctx context.Context, tx *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("wallet_transactions").
		Columns("business_id", "booking_id", "amount", "kind").
		Values(tx.BusinessID, tx.BookingID, tx.Amount, tx.Kind).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: RecordTransaction - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&tx.ID, &createdAt); err != nil {
		if pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: RecordTransaction: %v", ErrSerialization, err)
		}
		return nil, fmt.Errorf("%w: RecordTransaction - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	return tx, nil
}
