package bookings

import (
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings: booking not found: %w", domain.ErrNotFound)

	// ErrBusinessNotFound возвращается, когда бизнес бронирования не найден
	ErrBusinessNotFound = fmt.Errorf("bookings: business not found: %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав на действие
	ErrAccessDenied = fmt.Errorf("bookings: access denied: %w", domain.ErrForbidden)

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = fmt.Errorf("bookings: invalid booking status: %w", domain.ErrInvalidInput)

	// ErrInvalidTransition возвращается, когда переход не разрешен из текущего статуса
	ErrInvalidTransition = fmt.Errorf("bookings: transition is not allowed: %w", domain.ErrConflict)

	// ErrStatusChanged возвращается, когда статус изменился параллельно
	ErrStatusChanged = fmt.Errorf("bookings: booking status changed concurrently: %w", domain.ErrConflict)

	// ErrTooEarlyToComplete возвращается при попытке завершить услугу раньше допустимого времени
	ErrTooEarlyToComplete = fmt.Errorf("bookings: too early to complete the booking: %w", domain.ErrInvalidInput)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("bookings: %w", domain.ErrDataAccess)
)
