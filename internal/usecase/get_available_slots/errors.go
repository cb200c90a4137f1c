package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("get_available_slots: business not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому бизнесу
	ErrServiceNotFound = fmt.Errorf("get_available_slots: service not found: %w", domain.ErrNotFound)

	// ErrInvalidDuration возвращается, когда у услуги некорректная длительность
	ErrInvalidDuration = fmt.Errorf("get_available_slots: invalid service duration: %w", domain.ErrInvalidInput)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при ошибках хранилища; пустой список слотов в этом случае не возвращается
	ErrInternal = fmt.Errorf("get_available_slots: %w", domain.ErrDataAccess)
)
