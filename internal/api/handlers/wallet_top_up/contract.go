package wallet_top_up

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/wallet/models"
)

type WalletService interface {
	TopUp(ctx context.Context, req *models.TopUpRequest) (*models.TopUpResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
