package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/booking"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
	"github.com/m04kA/SMC-MarketplaceService/pkg/txmanager"
)

// CashBookingResult результат вставки наличного бронирования со списанием комиссии
type CashBookingResult struct {
	Booking       *domain.Booking
	WalletBalance domain.Money // баланс кошелька после списания
}

// Repository выполняет операции, которые меняют бронирование и кошелек бизнеса
// одной сериализуемой транзакцией. Промежуточное состояние (бронирование без
// списания или возврат без смены статуса) снаружи не наблюдается.
type Repository struct {
	bookings  BookingStore
	wallets   WalletStore
	txManager TransactionManager
}

// NewRepository создает репозиторий расчетов
func NewRepository(bookings BookingStore, wallets WalletStore, txManager TransactionManager) *Repository {
	return &Repository{
		bookings:  bookings,
		wallets:   wallets,
		txManager: txManager,
	}
}

// InsertBooking вставляет бронирование без движения по кошельку (оплата digital_wallet)
func (r *Repository) InsertBooking(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	var created *domain.Booking

	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := r.ensureSlotFree(txCtx, booking); err != nil {
			return err
		}

		var err error
		created, err = r.bookings.Create(txCtx, booking)
		return err
	})
	if err != nil {
		return nil, mapError("InsertBooking", err)
	}

	return created, nil
}

// InsertCashBookingAndDebit вставляет наличное бронирование и списывает комиссию
// с кошелька бизнеса. Либо происходят оба действия, либо ни одного.
func (r *Repository) InsertCashBookingAndDebit(ctx context.Context, booking *domain.Booking) (*CashBookingResult, error) {
	result := &CashBookingResult{}

	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := r.ensureSlotFree(txCtx, booking); err != nil {
			return err
		}

		if booking.PlatformFee > 0 {
			balance, err := r.wallets.DebitWallet(txCtx, booking.BusinessID, booking.PlatformFee)
			if err != nil {
				return err
			}
			result.WalletBalance = balance
		}

		created, err := r.bookings.Create(txCtx, booking)
		if err != nil {
			return err
		}
		result.Booking = created

		if booking.PlatformFee > 0 {
			if _, err := r.wallets.RecordTransaction(txCtx, &domain.WalletTransaction{
				BusinessID: created.BusinessID,
				BookingID:  ptr.Ptr(created.ID),
				Amount:     -booking.PlatformFee,
				Kind:       domain.WalletCommissionDebit,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, mapError("InsertCashBookingAndDebit", err)
	}

	return result, nil
}

// Transition переводит бронирование из текущего статуса в to без движения по кошельку
func (r *Repository) Transition(ctx context.Context, booking *domain.Booking, to domain.BookingStatus, reason *string) error {
	if err := r.bookings.UpdateStatus(ctx, booking.ID, booking.Status, to, reason); err != nil {
		return mapError("Transition", err)
	}
	return nil
}

// TransitionAndRefund переводит наличное бронирование в declined/cancelled
// и возвращает удержанную комиссию на кошелек бизнеса одной транзакцией.
// Возвращает баланс кошелька после возврата.
func (r *Repository) TransitionAndRefund(
	ctx context.Context,
	booking *domain.Booking,
	to domain.BookingStatus,
	reason *string,
) (domain.Money, error) {
	if booking.PlatformFee <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance domain.Money

	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := r.bookings.UpdateStatus(txCtx, booking.ID, booking.Status, to, reason); err != nil {
			return err
		}

		var err error
		balance, err = r.wallets.CreditWallet(txCtx, booking.BusinessID, booking.PlatformFee)
		if err != nil {
			return err
		}

		_, err = r.wallets.RecordTransaction(txCtx, &domain.WalletTransaction{
			BusinessID: booking.BusinessID,
			BookingID:  ptr.Ptr(booking.ID),
			Amount:     booking.PlatformFee,
			Kind:       domain.WalletCommissionRefund,
		})
		return err
	})
	if err != nil {
		return 0, mapError("TransitionAndRefund", err)
	}

	return balance, nil
}

// TopUp зачисляет подтвержденное пополнение на кошелек бизнеса
func (r *Repository) TopUp(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance domain.Money

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		balance, err = r.wallets.CreditWallet(txCtx, businessID, amount)
		if err != nil {
			return err
		}

		_, err = r.wallets.RecordTransaction(txCtx, &domain.WalletTransaction{
			BusinessID: businessID,
			Amount:     amount,
			Kind:       domain.WalletTopUp,
		})
		return err
	})
	if err != nil {
		return 0, mapError("TopUp", err)
	}

	return balance, nil
}

// ensureSlotFree блокирует пересекающиеся бронирования бизнеса и проверяет, что их нет
func (r *Repository) ensureSlotFree(ctx context.Context, booking *domain.Booking) error {
	overlapping, err := r.bookings.GetInPeriod(ctx, domain.BookingPeriodFilter{
		BusinessID: booking.BusinessID,
		From:       booking.StartTime,
		To:         booking.EndTime,
	})
	if err != nil {
		return err
	}

	if len(overlapping) > 0 {
		return ErrSlotTaken
	}

	return nil
}

// mapError переводит ошибки репозиториев и менеджера транзакций в ошибки settlement
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken), errors.Is(err, bookingRepo.ErrSlotTaken):
		return ErrSlotTaken
	case errors.Is(err, bookingRepo.ErrStatusMismatch):
		return ErrStatusChanged
	case errors.Is(err, businessRepo.ErrInsufficientBalance):
		return ErrInsufficientBalance
	case errors.Is(err, businessRepo.ErrBusinessNotFound):
		return ErrBusinessNotFound
	case errors.Is(err, bookingRepo.ErrSerialization),
		errors.Is(err, businessRepo.ErrSerialization),
		errors.Is(err, txmanager.ErrSerialization):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
	}
}
