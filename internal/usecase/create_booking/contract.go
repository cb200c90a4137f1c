package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/settlement"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SettlementRepository атомарные операции вставки бронирования
type SettlementRepository interface {
	// InsertBooking вставляет бронирование без движения по кошельку
	InsertBooking(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// InsertCashBookingAndDebit вставляет бронирование и списывает комиссию одной транзакцией
	InsertCashBookingAndDebit(ctx context.Context, booking *domain.Booking) (*settlement.CashBookingResult, error)
}

// SlotLocker короткая блокировка слота на время вставки
type SlotLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// MetricsRecorder бизнес-метрики создания бронирований
type MetricsRecorder interface {
	ObserveBookingCreated(paymentMethod, status string)
	ObserveWalletMovement(kind string, amountMinor int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
