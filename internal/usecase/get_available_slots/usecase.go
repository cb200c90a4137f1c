package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
)

// UseCase use case расчета слотов для бронирования
type UseCase struct {
	businessRepo   BusinessRepository
	serviceRepo    ServiceRepository
	scheduleRepo   ScheduleRepository
	bookingRepo    BookingRepository
	locations      LocationResolver
	metrics        MetricsRecorder
	cadenceMinutes int
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// cadenceMinutes - шаг нарезки слотов, не зависит от длительности услуги.
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	locations LocationResolver,
	metrics MetricsRecorder,
	cadenceMinutes int,
	logger Logger,
) *UseCase {
	if cadenceMinutes <= 0 {
		cadenceMinutes = domain.DefaultSlotCadenceMinutes
	}

	return &UseCase{
		businessRepo:   businessRepo,
		serviceRepo:    serviceRepo,
		scheduleRepo:   scheduleRepo,
		bookingRepo:    bookingRepo,
		locations:      locations,
		metrics:        metrics,
		cadenceMinutes: cadenceMinutes,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case расчета слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	resp, err := uc.execute(ctx, req)
	switch {
	case err != nil:
		uc.metrics.ObserveSlotResolution(outcomeError)
	case len(resp.Slots) == 0:
		uc.metrics.ObserveSlotResolution(outcomeClosed)
	default:
		uc.metrics.ObserveSlotResolution(outcomeSlots)
	}

	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес (нужен часовой пояс)
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем услугу: длительность задает ширину слота
	service, err := uc.serviceRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service, req.BusinessID); err != nil {
		uc.logger.Warn("GetAvailableSlots: service id=%d rejected: %v", req.ServiceID, err)
		return nil, err
	}

	// Все интервалы считаем в часовом поясе бизнеса
	loc := uc.locations.Location(business.Timezone)
	day := domain.DayBounds(req.Date, loc)
	now := uc.timeProvider.Now().In(loc)

	resp := &Response{
		Date:            day.Start,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []domain.TimeSlot{},
	}

	// 4. Получаем исключения на дату
	exceptions, err := uc.scheduleRepo.GetExceptionsByDate(ctx, req.BusinessID, day.Start)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	// 5. Закрытие на весь день важнее всего остального
	for _, e := range exceptions {
		if e.IsWholeDayClosure() {
			uc.logger.Info("GetAvailableSlots: business=%d closed on %s by exception id=%d",
				req.BusinessID, day.Start.Format(domain.DateFormat), e.ID)
			return resp, nil
		}
	}

	// 6. Определяем окно работы: особые часы или недельное расписание
	window, open, err := uc.resolveWindow(ctx, req.BusinessID, day, exceptions, loc)
	if err != nil {
		return nil, err
	}
	if !open {
		uc.logger.Info("GetAvailableSlots: business=%d is closed on %s",
			req.BusinessID, day.Start.Format(domain.DateFormat))
		return resp, nil
	}

	// 7. Блэкауты внутри окна
	blackouts := uc.collectBlackouts(day, exceptions, loc)

	// 8. Активные бронирования за день
	bookings, err := uc.bookingRepo.GetInPeriod(ctx, domain.BookingPeriodFilter{
		BusinessID: req.BusinessID,
		From:       day.Start,
		To:         day.End,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Нарезаем слоты и отмечаем занятые
	resp.Slots = tileSlots(window, service.DurationMinutes, uc.cadenceMinutes, busyWindows(bookings, blackouts), now)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(resp.Slots), req.BusinessID, req.ServiceID, day.Start.Format(domain.DateFormat))

	return resp, nil
}

// resolveWindow возвращает окно работы на день. open=false - бизнес закрыт.
func (uc *UseCase) resolveWindow(
	ctx context.Context,
	businessID int64,
	day domain.Window,
	exceptions []*domain.DateException,
	loc *time.Location,
) (domain.Window, bool, error) {
	overrides := make([]*domain.DateException, 0)
	for _, e := range exceptions {
		if e.IsOpenOverride() {
			overrides = append(overrides, e)
		}
	}

	if len(overrides) > 1 {
		uc.logger.Warn("GetAvailableSlots: business=%d has %d open overrides on %s, using id=%d",
			businessID, len(overrides), day.Start.Format(domain.DateFormat), overrides[0].ID)
	}

	for _, o := range overrides {
		window, err := domain.ToWindow(day.Start, *o.OpenTime, *o.CloseTime, loc)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: malformed override id=%d ignored: %v", o.ID, err)
			continue
		}
		// Особые часы полностью заменяют недельное расписание
		return window, !window.IsEmpty(), nil
	}

	hours, err := uc.scheduleRepo.GetWeeklyHours(ctx, businessID, int(day.Start.Weekday()))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrHoursNotFound) {
			return domain.Window{}, false, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get weekly hours: %v", err)
		return domain.Window{}, false, fmt.Errorf("%w: failed to get weekly hours: %v", ErrInternal, err)
	}

	if hours.IsClosed {
		return domain.Window{}, false, nil
	}

	window, err := domain.ToWindow(day.Start, hours.OpenTime, hours.CloseTime, loc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: malformed weekly hours for day=%d: %v", hours.DayOfWeek, err)
		return domain.Window{}, false, fmt.Errorf("%w: malformed weekly hours: %v", ErrInternal, err)
	}

	// close <= open (в т.ч. через полночь) не поддерживается
	return window, !window.IsEmpty(), nil
}

// collectBlackouts переводит блэкауты дня в интервалы
func (uc *UseCase) collectBlackouts(day domain.Window, exceptions []*domain.DateException, loc *time.Location) []domain.Window {
	blackouts := make([]domain.Window, 0)
	for _, e := range exceptions {
		if !e.IsBlackout() {
			continue
		}
		window, err := domain.ToWindow(day.Start, *e.OpenTime, *e.CloseTime, loc)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: malformed blackout id=%d ignored: %v", e.ID, err)
			continue
		}
		blackouts = append(blackouts, window)
	}
	return blackouts
}
