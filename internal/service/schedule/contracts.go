package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	UpsertWeeklyHours(ctx context.Context, hours *domain.WeeklyHours) (*domain.WeeklyHours, error)
	CreateException(ctx context.Context, exception *domain.DateException) (*domain.DateException, error)
	DeleteException(ctx context.Context, businessID, exceptionID int64) error
}

// BookingRepository интерфейс подсчета бронирований
type BookingRepository interface {
	CountInPeriod(ctx context.Context, filter domain.BookingPeriodFilter) (int, error)
	CountUpcomingByWeekday(
		ctx context.Context,
		businessID int64,
		dayOfWeek int,
		from time.Time,
		timezone string,
		statuses []domain.BookingStatus,
	) (int, error)
}

// LocationResolver часовой пояс бизнеса
type LocationResolver interface {
	Location(tz string) *time.Location
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
