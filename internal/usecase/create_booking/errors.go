package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("create_booking: business not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому бизнесу
	ErrServiceNotFound = fmt.Errorf("create_booking: service not found: %w", domain.ErrNotFound)

	// ErrCashNotAccepted возвращается, когда бизнес не принимает оплату наличными
	ErrCashNotAccepted = fmt.Errorf("create_booking: business does not accept cash: %w", domain.ErrInvalidInput)

	// ErrStartInPast возвращается, когда начало бронирования уже прошло
	ErrStartInPast = fmt.Errorf("create_booking: booking start is in the past: %w", domain.ErrInvalidInput)

	// ErrInsufficientBalance возвращается, когда кошелек бизнеса не покрывает комиссию
	ErrInsufficientBalance = fmt.Errorf("create_booking: business wallet does not cover the commission: %w", domain.ErrInsufficientWalletBalance)

	// ErrSlotNotAvailable возвращается, когда интервал уже занят (проверка при записи)
	ErrSlotNotAvailable = fmt.Errorf("create_booking: slot is not available: %w", domain.ErrConflict)

	// ErrSlotLocked возвращается, когда этот слот прямо сейчас бронирует другой запрос
	ErrSlotLocked = fmt.Errorf("create_booking: slot is being booked by another request: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrInvalidInput)

	// ErrPriceMismatch возвращается, когда цена из запроса расходится с ценой услуги в каталоге
	ErrPriceMismatch = fmt.Errorf("%w: price does not match the catalog price", ErrInvalidInput)

	// ErrDurationMismatch возвращается, когда интервал бронирования не равен длительности услуги
	ErrDurationMismatch = fmt.Errorf("%w: interval does not match the service duration", ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_booking: %w", domain.ErrDataAccess)
)
