package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	// GetWeeklyHours получает часы работы на день недели (0 = воскресенье)
	GetWeeklyHours(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklyHours, error)
	// GetExceptionsByDate получает исключения на дату в порядке создания
	GetExceptionsByDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.DateException, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetInPeriod получает бронирования бизнеса, пересекающиеся с периодом, кроме отмененных и отклоненных
	GetInPeriod(ctx context.Context, filter domain.BookingPeriodFilter) ([]*domain.Booking, error)
}

// LocationResolver возвращает часовой пояс бизнеса
type LocationResolver interface {
	Location(tz string) *time.Location
}

// MetricsRecorder бизнес-метрики расчета слотов
type MetricsRecorder interface {
	ObserveSlotResolution(outcome string)
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
