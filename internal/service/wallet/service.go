package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/settlement"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wallet/models"
)

// Service сервис кошелька бизнеса
type Service struct {
	settlementRepo SettlementRepository
	admins         map[int64]struct{}
	metrics        MetricsRecorder
	logger         Logger
}

// NewService создает сервис кошелька. adminIDs - пользователи, которым
// разрешено зачислять подтвержденные пополнения.
func NewService(settlementRepo SettlementRepository, adminIDs []int64, metrics MetricsRecorder, logger Logger) *Service {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Service{
		settlementRepo: settlementRepo,
		admins:         admins,
		metrics:        metrics,
		logger:         logger,
	}
}

// TopUp зачисляет пополнение на кошелек бизнеса
func (s *Service) TopUp(ctx context.Context, req *models.TopUpRequest) (*models.TopUpResponse, error) {
	s.logger.Info("TopUp: business=%d, amount=%d by user=%d", req.BusinessID, req.Amount, req.UserID)

	if _, ok := s.admins[req.UserID]; !ok {
		s.logger.Warn("TopUp: user=%d is not an admin", req.UserID)
		return nil, ErrAccessDenied
	}

	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	balance, err := s.settlementRepo.TopUp(ctx, req.BusinessID, domain.Money(req.Amount))
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrBusinessNotFound):
			s.logger.Warn("TopUp: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		case errors.Is(err, settlement.ErrInvalidAmount):
			return nil, ErrInvalidAmount
		case errors.Is(err, settlement.ErrConcurrentUpdate):
			s.logger.Warn("TopUp: concurrent update of business=%d wallet: %v", req.BusinessID, err)
			return nil, ErrConcurrentUpdate
		default:
			s.logger.Error("TopUp: repository error: %v", err)
			return nil, fmt.Errorf("%w: TopUp - repository error: %v", ErrInternal, err)
		}
	}

	s.metrics.ObserveWalletMovement(string(domain.WalletTopUp), req.Amount)

	s.logger.Info("TopUp: business=%d balance is %s", req.BusinessID, balance)
	return &models.TopUpResponse{
		BusinessID:    req.BusinessID,
		Amount:        req.Amount,
		WalletBalance: int64(balance),
	}, nil
}
