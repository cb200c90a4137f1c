package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SettlementRepository переходы статуса, в т.ч. с возвратом комиссии
type SettlementRepository interface {
	Transition(ctx context.Context, booking *domain.Booking, to domain.BookingStatus, reason *string) error
	TransitionAndRefund(ctx context.Context, booking *domain.Booking, to domain.BookingStatus, reason *string) (domain.Money, error)
}

// MetricsRecorder метрики движений по кошельку
type MetricsRecorder interface {
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
