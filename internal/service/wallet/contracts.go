package wallet

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// SettlementRepository зачисление пополнений на кошелек
type SettlementRepository interface {
	TopUp(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error)
}

// MetricsRecorder метрики движений по кошельку
type MetricsRecorder interface {
	ObserveWalletMovement(kind string, amountMinor int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
