package settlement

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// BookingStore операции с бронированиями, используемые внутри транзакции
type BookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetInPeriod(ctx context.Context, filter domain.BookingPeriodFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, reason *string) error
}

// WalletStore операции с кошельком бизнеса
type WalletStore interface {
	DebitWallet(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error)
	CreditWallet(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error)
	RecordTransaction(ctx context.Context, tx *domain.WalletTransaction) (*domain.WalletTransaction, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
