package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/booking"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/settlement"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo    BookingRepository
	businessRepo   BusinessRepository
	serviceRepo    ServiceRepository
	settlementRepo SettlementRepository
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	settlementRepo SettlementRepository,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		businessRepo:   businessRepo,
		serviceRepo:    serviceRepo,
		settlementRepo: settlementRepo,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование по ID.
// Бронирование видят клиент и владелец бизнеса.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, business, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID && !business.IsOwner(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// Accept подтверждает бронирование, ожидающее одобрения владельца.
// Комиссия за наличное бронирование уже списана при создании, кошелек не меняется.
func (s *Service) Accept(ctx context.Context, bookingID int64, approverID int64) (*models.BookingResponse, error) {
	s.logger.Info("Accept: booking id=%d by user=%d", bookingID, approverID)

	booking, business, err := s.load(ctx, "Accept", bookingID)
	if err != nil {
		return nil, err
	}

	// Подтверждает только владелец бизнеса
	if !business.IsOwner(approverID) {
		s.logger.Warn("Accept: user=%d is not owner of business=%d", approverID, business.ID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusPendingApproval {
		s.logger.Warn("Accept: booking id=%d has status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusConfirmed)
	}

	if err := s.settlementRepo.Transition(ctx, booking, domain.StatusConfirmed, nil); err != nil {
		return nil, s.mapSettlementError("Accept", bookingID, err)
	}

	booking.Status = domain.StatusConfirmed

	s.logger.Info("Accept: booking id=%d confirmed", bookingID)
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus переводит бронирование в declined, cancelled, completed или no_show.
// Отклонение и отмена наличного бронирования возвращают удержанную комиссию
// на кошелек бизнеса в той же транзакции, что и смена статуса.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	// 1. Валидация статуса и причины
	to, reason, err := validateUpdateStatus(req)
	if err != nil {
		s.logger.Warn("UpdateStatus: validation failed for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	// 2. Получаем бронирование и бизнес
	booking, business, err := s.load(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем права на переход
	if !canAct(booking, business, req.UserID, to) {
		s.logger.Warn("UpdateStatus: user=%d may not move booking id=%d from %s to %s",
			req.UserID, bookingID, booking.Status, to)
		return nil, ErrAccessDenied
	}

	// 4. Проверяем переход по жизненному циклу
	if !booking.CanTransitionTo(to) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
			booking.Status, to, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	// 5. Завершить услугу можно не раньше start + min(20, длительность)
	if to == domain.StatusCompleted {
		if err := s.checkCompletionGuard(ctx, booking); err != nil {
			return nil, err
		}
	}

	// 6. Смена статуса, с возвратом комиссии если она была удержана
	if (to == domain.StatusDeclined || to == domain.StatusCancelled) && booking.HeldCommission() {
		balance, err := s.settlementRepo.TransitionAndRefund(ctx, booking, to, reason)
		if err != nil {
			return nil, s.mapSettlementError("UpdateStatus", bookingID, err)
		}
		s.metrics.ObserveWalletMovement(string(domain.WalletCommissionRefund), int64(booking.PlatformFee))
		s.logger.Info("UpdateStatus: refunded %s to business=%d, balance=%s",
			booking.PlatformFee, booking.BusinessID, balance)
	} else {
		if err := s.settlementRepo.Transition(ctx, booking, to, reason); err != nil {
			return nil, s.mapSettlementError("UpdateStatus", bookingID, err)
		}
	}

	booking.Status = to
	if reason != nil {
		booking.DeclineReason = reason
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, to)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

// load получает бронирование и его бизнес
func (s *Service) load(ctx context.Context, op string, bookingID int64) (*domain.Booking, *domain.Business, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	business, err := s.businessRepo.GetByID(ctx, booking.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, booking.BusinessID)
			return nil, nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: repository error for business id=%d: %v", op, booking.BusinessID, err)
		return nil, nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, business, nil
}

// checkCompletionGuard проверяет минимальное время до завершения услуги
func (s *Service) checkCompletionGuard(ctx context.Context, booking *domain.Booking) error {
	duration := booking.DurationMinutes()

	service, err := s.serviceRepo.GetServiceByID(ctx, booking.ServiceID)
	switch {
	case err == nil:
		duration = service.DurationMinutes
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		// услугу удалили из каталога, берем длительность самого бронирования
		s.logger.Warn("UpdateStatus: service id=%d not found, using booked duration", booking.ServiceID)
	default:
		s.logger.Error("UpdateStatus: failed to get service id=%d: %v", booking.ServiceID, err)
		return fmt.Errorf("%w: UpdateStatus - failed to get service: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	if !domain.CanComplete(booking.StartTime, duration, now) {
		allowedAt := domain.CompletionAllowedAt(booking.StartTime, duration)
		s.logger.Warn("UpdateStatus: booking id=%d can be completed after %s", booking.ID, allowedAt)
		return fmt.Errorf("%w: allowed after %s", ErrTooEarlyToComplete, allowedAt.Format("15:04"))
	}

	return nil
}

func (s *Service) mapSettlementError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, settlement.ErrStatusChanged), errors.Is(err, settlement.ErrConcurrentUpdate):
		s.logger.Warn("%s: booking id=%d changed concurrently: %v", op, bookingID, err)
		return ErrStatusChanged
	case errors.Is(err, settlement.ErrBusinessNotFound):
		return ErrBusinessNotFound
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// validateUpdateStatus проверяет целевой статус и причину
func validateUpdateStatus(req *models.UpdateStatusRequest) (domain.BookingStatus, *string, error) {
	to, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	switch to {
	case domain.StatusDeclined, domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow:
	default:
		// confirmed выставляется только через Accept
		return "", nil, fmt.Errorf("%w: %q cannot be set directly", ErrInvalidStatus, req.Status)
	}

	// Причина сохраняется только для отклонения и отмены
	if req.Reason == nil || (to != domain.StatusDeclined && to != domain.StatusCancelled) {
		return to, nil, nil
	}

	reason := strings.TrimSpace(*req.Reason)
	if len(reason) > domain.MaxDeclineReasonLength {
		return "", nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxDeclineReasonLength)
	}
	if reason == "" {
		return to, nil, nil
	}

	return to, &reason, nil
}

// canAct проверяет, может ли пользователь выполнить переход.
// Отклонение, завершение и неявку отмечает владелец. Ожидающее бронирование
// отменяет клиент, подтвержденное - клиент или владелец.
func canAct(booking *domain.Booking, business *domain.Business, userID int64, to domain.BookingStatus) bool {
	isOwner := business.IsOwner(userID)
	isCustomer := booking.CustomerID == userID

	switch to {
	case domain.StatusDeclined, domain.StatusCompleted, domain.StatusNoShow:
		return isOwner
	case domain.StatusCancelled:
		if booking.Status == domain.StatusPendingApproval {
			return isCustomer
		}
		return isCustomer || isOwner
	default:
		return false
	}
}
