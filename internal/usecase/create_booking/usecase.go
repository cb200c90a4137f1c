package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/lock"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/settlement"
)

// UseCase use case для создания бронирования
type UseCase struct {
	businessRepo   BusinessRepository
	serviceRepo    ServiceRepository
	settlementRepo SettlementRepository
	locker         SlotLocker
	lockTTL        time.Duration
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	settlementRepo SettlementRepository,
	locker SlotLocker,
	lockTTL time.Duration,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:   businessRepo,
		serviceRepo:    serviceRepo,
		settlementRepo: settlementRepo,
		locker:         locker,
		lockTTL:        lockTTL,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования.
// Для наличной оплаты вставка бронирования и списание комиссии выполняются
// одной сериализуемой транзакцией в settlement репозитории.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, business=%d, service=%d, start=%s, payment=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.StartTime.Format(time.RFC3339), req.PaymentMethod)

	// 1. Валидация входных данных
	method, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	if req.StartTime.Before(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: start %s is in the past", req.StartTime.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 2. Блокируем слот, чтобы параллельный запрос на тот же слот не дошел до БД
	release, err := uc.lockSlot(ctx, req.BusinessID, req.StartTime)
	if err != nil {
		return nil, err
	}
	defer release()

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	service, err := uc.serviceRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service, req); err != nil {
		uc.logger.Warn("CreateBooking: service id=%d rejected for business id=%d: %v", req.ServiceID, req.BusinessID, err)
		return nil, err
	}

	// 5. Считаем комиссию и итоговую сумму от цены из каталога
	originalPrice, err := resolvePrice(service, req.OriginalPrice)
	if err != nil {
		uc.logger.Warn("CreateBooking: service id=%d: %v", req.ServiceID, err)
		return nil, err
	}

	fee, total, err := calculatePricing(originalPrice, req.DiscountAmount, business.CommissionRate)
	if err != nil {
		uc.logger.Warn("CreateBooking: pricing failed: %v", err)
		return nil, err
	}

	booking := &domain.Booking{
		CustomerID:      req.CustomerID,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		PaymentMethod:   method,
		OriginalPrice:   originalPrice,
		DiscountAmount:  req.DiscountAmount,
		PlatformFee:     fee,
		FinalTotal:      total,
		VoucherCodeUsed: req.VoucherCode,
	}

	// 6. Вставка в зависимости от способа оплаты
	var created *domain.Booking
	switch method {
	case domain.PaymentCash:
		created, err = uc.createCash(ctx, business, booking)
	default:
		created, err = uc.createDigital(ctx, booking)
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveBookingCreated(string(created.PaymentMethod), string(created.Status))

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s, fee=%s",
		created.ID, created.Status, created.PlatformFee)

	return toResponse(created), nil
}

// createCash вставляет наличное бронирование со списанием комиссии с кошелька бизнеса
func (uc *UseCase) createCash(ctx context.Context, business *domain.Business, booking *domain.Booking) (*domain.Booking, error) {
	if !business.AcceptsCash {
		uc.logger.Warn("CreateBooking: business id=%d does not accept cash", business.ID)
		return nil, ErrCashNotAccepted
	}

	// Предварительная проверка; окончательная - условное списание в транзакции
	if !business.CanCoverFee(booking.PlatformFee) {
		uc.logger.Warn("CreateBooking: business id=%d wallet %s does not cover fee %s",
			business.ID, business.WalletBalance, booking.PlatformFee)
		return nil, ErrInsufficientBalance
	}

	booking.Status = domain.StatusPendingApproval
	booking.PaymentStatus = domain.PaymentUnpaid

	result, err := uc.settlementRepo.InsertCashBookingAndDebit(ctx, booking)
	if err != nil {
		return nil, uc.mapSettlementError(err)
	}

	if booking.PlatformFee > 0 {
		uc.metrics.ObserveWalletMovement(string(domain.WalletCommissionDebit), int64(booking.PlatformFee))
		uc.logger.Info("CreateBooking: debited %s from business id=%d, balance=%s",
			booking.PlatformFee, business.ID, result.WalletBalance)
	}

	return result.Booking, nil
}

// createDigital вставляет бронирование, оплаченное через внешний платежный сервис
func (uc *UseCase) createDigital(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid

	created, err := uc.settlementRepo.InsertBooking(ctx, booking)
	if err != nil {
		return nil, uc.mapSettlementError(err)
	}

	return created, nil
}

func (uc *UseCase) mapSettlementError(err error) error {
	switch {
	case errors.Is(err, settlement.ErrSlotTaken), errors.Is(err, settlement.ErrConcurrentUpdate):
		uc.logger.Warn("CreateBooking: slot is not available: %v", err)
		return ErrSlotNotAvailable
	case errors.Is(err, settlement.ErrInsufficientBalance):
		uc.logger.Warn("CreateBooking: insufficient wallet balance at debit")
		return ErrInsufficientBalance
	case errors.Is(err, settlement.ErrBusinessNotFound):
		return ErrBusinessNotFound
	default:
		uc.logger.Error("CreateBooking: failed to insert booking: %v", err)
		return fmt.Errorf("%w: failed to insert booking: %v", ErrInternal, err)
	}
}

// lockSlot берет блокировку слота. Если Redis недоступен, продолжаем без нее:
// пересечения все равно отсекает ограничение в БД.
func (uc *UseCase) lockSlot(ctx context.Context, businessID int64, start time.Time) (func(), error) {
	key := lock.SlotKey(businessID, start)

	token, ok, err := uc.locker.Lock(ctx, key, uc.lockTTL)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot lock %s unavailable, continuing without it: %v", key, err)
		return func() {}, nil
	}
	if !ok {
		uc.logger.Warn("CreateBooking: slot %s is locked by another request", key)
		return nil, ErrSlotLocked
	}

	return func() {
		if err := uc.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			uc.logger.Warn("CreateBooking: failed to release slot lock %s: %v", key, err)
		}
	}, nil
}
