package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateService проверяет принадлежность услуги бизнесу и ее длительность
func validateService(service *domain.Service, businessID int64) error {
	if service.BusinessID != businessID {
		return ErrServiceNotFound
	}

	if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: %d minutes", ErrInvalidDuration, service.DurationMinutes)
	}

	return nil
}
