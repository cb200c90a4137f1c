package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// Service сервис управления расписанием бизнеса
type Service struct {
	businessRepo BusinessRepository
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	locations    LocationResolver
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	businessRepo BusinessRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	locations LocationResolver,
	logger Logger,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		locations:    locations,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetWeeklyHours устанавливает часы работы на день недели.
// Доступно только владельцу бизнеса.
func (s *Service) SetWeeklyHours(ctx context.Context, req *models.SetWeeklyHoursRequest) (*models.WeeklyHoursResponse, error) {
	s.logger.Info("SetWeeklyHours: business=%d, day=%d by user=%d", req.BusinessID, req.DayOfWeek, req.UserID)

	hours, err := validateWeeklyHours(req)
	if err != nil {
		s.logger.Warn("SetWeeklyHours: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.authorize(ctx, "SetWeeklyHours", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	saved, err := s.scheduleRepo.UpsertWeeklyHours(ctx, hours)
	if err != nil {
		s.logger.Error("SetWeeklyHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetWeeklyHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetWeeklyHours: saved hours for business=%d, day=%d", req.BusinessID, req.DayOfWeek)
	return models.FromDomainWeeklyHours(saved), nil
}

// AddException создает исключение расписания на дату.
// Возвращает созданное исключение и число активных бронирований на эту дату,
// о которых стоит предупредить владельца.
func (s *Service) AddException(ctx context.Context, req *models.AddExceptionRequest) (*models.AddExceptionResponse, error) {
	s.logger.Info("AddException: business=%d, date=%s by user=%d", req.BusinessID, req.Date, req.UserID)

	// 1. Валидация формы исключения
	exception, err := validateException(req)
	if err != nil {
		s.logger.Warn("AddException: validation failed: %v", err)
		return nil, err
	}

	// 2. Права доступа
	business, err := s.authorize(ctx, "AddException", req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Считаем затронутые бронирования на локальный день бизнеса
	loc := s.locations.Location(business.Timezone)
	day := domain.DayBounds(exception.ExceptionDate, loc)

	conflicts, err := s.bookingRepo.CountInPeriod(ctx, domain.BookingPeriodFilter{
		BusinessID: req.BusinessID,
		From:       day.Start,
		To:         day.End,
		Statuses:   domain.UpcomingStatuses,
	})
	if err != nil {
		s.logger.Error("AddException: failed to count bookings: %v", err)
		return nil, fmt.Errorf("%w: AddException - count bookings: %v", ErrInternal, err)
	}

	// 4. Создаем исключение
	created, err := s.scheduleRepo.CreateException(ctx, exception)
	if err != nil {
		s.logger.Error("AddException: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddException - repository error: %v", ErrInternal, err)
	}

	if conflicts > 0 {
		s.logger.Warn("AddException: exception id=%d affects %d active bookings", created.ID, conflicts)
	}

	s.logger.Info("AddException: created exception id=%d", created.ID)
	return &models.AddExceptionResponse{
		Exception:           models.FromDomainException(created),
		ConflictingBookings: conflicts,
	}, nil
}

// RemoveException удаляет исключение расписания
func (s *Service) RemoveException(ctx context.Context, businessID, exceptionID, userID int64) error {
	s.logger.Info("RemoveException: business=%d, exception=%d by user=%d", businessID, exceptionID, userID)

	if _, err := s.authorize(ctx, "RemoveException", businessID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteException(ctx, businessID, exceptionID); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("RemoveException: exception id=%d not found", exceptionID)
			return ErrExceptionNotFound
		}
		s.logger.Error("RemoveException: repository error: %v", err)
		return fmt.Errorf("%w: RemoveException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveException: deleted exception id=%d", exceptionID)
	return nil
}

// CheckExistingBookings считает активные бронирования (pending_approval, confirmed)
// на дату или на предстоящие дни недели. Используется перед изменением расписания.
func (s *Service) CheckExistingBookings(ctx context.Context, req *models.CheckExistingRequest) (*models.CheckExistingResponse, error) {
	s.logger.Info("CheckExistingBookings: business=%d by user=%d", req.BusinessID, req.UserID)

	if (req.Date == nil) == (req.DayOfWeek == nil) {
		s.logger.Warn("CheckExistingBookings: exactly one of date and dayOfWeek is required")
		return nil, fmt.Errorf("%w: exactly one of date and dayOfWeek is required", ErrInvalidInput)
	}
	if req.DayOfWeek != nil && (*req.DayOfWeek < 0 || *req.DayOfWeek > 6) {
		return nil, fmt.Errorf("%w: dayOfWeek must be in [0, 6]", ErrInvalidInput)
	}

	business, err := s.authorize(ctx, "CheckExistingBookings", req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}

	loc := s.locations.Location(business.Timezone)
	resp := &models.CheckExistingResponse{
		BusinessID: req.BusinessID,
		Date:       req.Date,
		DayOfWeek:  req.DayOfWeek,
	}

	if req.Date != nil {
		date, err := time.ParseInLocation(domain.DateFormat, *req.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}

		day := domain.DayBounds(date, loc)
		resp.Count, err = s.bookingRepo.CountInPeriod(ctx, domain.BookingPeriodFilter{
			BusinessID: req.BusinessID,
			From:       day.Start,
			To:         day.End,
			Statuses:   domain.UpcomingStatuses,
		})
		if err != nil {
			s.logger.Error("CheckExistingBookings: repository error: %v", err)
			return nil, fmt.Errorf("%w: CheckExistingBookings - repository error: %v", ErrInternal, err)
		}
	} else {
		resp.Count, err = s.bookingRepo.CountUpcomingByWeekday(
			ctx,
			req.BusinessID,
			*req.DayOfWeek,
			s.timeProvider.Now(),
			loc.String(),
			domain.UpcomingStatuses,
		)
		if err != nil {
			s.logger.Error("CheckExistingBookings: repository error: %v", err)
			return nil, fmt.Errorf("%w: CheckExistingBookings - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("CheckExistingBookings: business=%d has %d active bookings", req.BusinessID, resp.Count)
	return resp, nil
}

// Вспомогательные методы

// authorize получает бизнес и проверяет, что пользователь его владелец
func (s *Service) authorize(ctx context.Context, op string, businessID, userID int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}

	if !business.IsOwner(userID) {
		s.logger.Warn("%s: user=%d is not owner of business=%d", op, userID, businessID)
		return nil, ErrAccessDenied
	}

	return business, nil
}

// validateWeeklyHours проверяет день недели и часы работы
func validateWeeklyHours(req *models.SetWeeklyHoursRequest) (*domain.WeeklyHours, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be in [0, 6]", ErrInvalidInput)
	}

	hours := &domain.WeeklyHours{
		BusinessID: req.BusinessID,
		DayOfWeek:  req.DayOfWeek,
		IsClosed:   req.IsClosed,
	}

	if req.IsClosed {
		return hours, nil
	}

	if req.OpenTime == nil || req.CloseTime == nil {
		return nil, fmt.Errorf("%w: openTime and closeTime are required for an open day", ErrInvalidInput)
	}
	if err := validateRange(*req.OpenTime, *req.CloseTime); err != nil {
		return nil, err
	}

	hours.OpenTime = *req.OpenTime
	hours.CloseTime = *req.CloseTime
	return hours, nil
}

// validateException проверяет дату и форму исключения
func validateException(req *models.AddExceptionRequest) (*domain.DateException, error) {
	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxExceptionReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxExceptionReasonLength)
	}

	hasOpen, hasClose := req.OpenTime != nil, req.CloseTime != nil
	if hasOpen != hasClose {
		return nil, fmt.Errorf("%w: openTime and closeTime must be set together", ErrInvalidInput)
	}
	if !req.IsClosed && !hasOpen {
		return nil, fmt.Errorf("%w: opening hours are required unless the day is closed", ErrInvalidInput)
	}
	if hasOpen {
		if err := validateRange(*req.OpenTime, *req.CloseTime); err != nil {
			return nil, err
		}
	}

	return &domain.DateException{
		BusinessID:    req.BusinessID,
		ExceptionDate: date,
		IsClosed:      req.IsClosed,
		OpenTime:      req.OpenTime,
		CloseTime:     req.CloseTime,
		Reason:        reason,
	}, nil
}

func validateRange(openAt, closeAt types.TimeString) error {
	if err := openAt.Validate(); err != nil {
		return fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
	}
	if err := closeAt.Validate(); err != nil {
		return fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
	}
	if !openAt.IsBefore(closeAt) {
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}
	return nil
}
