package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("schedule: business not found: %w", domain.ErrNotFound)

	// ErrExceptionNotFound возвращается, когда исключение расписания не найдено
	ErrExceptionNotFound = fmt.Errorf("schedule: date exception not found: %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец бизнеса
	ErrAccessDenied = fmt.Errorf("schedule: access denied: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("schedule: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("schedule: %w", domain.ErrDataAccess)
)
