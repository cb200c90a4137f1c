package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.PaymentMethod, error) {
	if req.CustomerID <= 0 {
		return "", fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return "", fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return "", fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return "", fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.StartTime.Before(req.EndTime) {
		return "", fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	method, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	if req.OriginalPrice < 0 || req.DiscountAmount < 0 {
		return "", fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}

	if req.VoucherCode != nil {
		code := strings.TrimSpace(*req.VoucherCode)
		if code == "" || len(code) > domain.MaxVoucherCodeLength {
			return "", fmt.Errorf("%w: invalid voucher code", ErrInvalidInput)
		}
	}

	return method, nil
}

// validateService проверяет, что услуга принадлежит бизнесу
// и интервал бронирования совпадает с ее длительностью
func validateService(service *domain.Service, req *Request) error {
	if service.BusinessID != req.BusinessID {
		return ErrServiceNotFound
	}
	if req.EndTime.Sub(req.StartTime) != time.Duration(service.DurationMinutes)*time.Minute {
		return ErrDurationMismatch
	}
	return nil
}

// resolvePrice возвращает цену услуги из каталога.
// Цена из запроса необязательна, но если передана, должна совпадать с каталожной.
func resolvePrice(service *domain.Service, requested domain.Money) (domain.Money, error) {
	price := service.EffectivePrice()
	if requested != 0 && requested != price {
		return 0, fmt.Errorf("%w: got %s, catalog %s", ErrPriceMismatch, requested, price)
	}
	return price, nil
}

// calculatePricing считает комиссию платформы и итоговую сумму.
// Комиссия берется с цены до скидки.
func calculatePricing(original, discount domain.Money, commissionRate float64) (fee, total domain.Money, err error) {
	if discount > original {
		return 0, 0, fmt.Errorf("%w: discount %s exceeds price %s", ErrInvalidInput, discount, original)
	}
	return domain.Commission(original, commissionRate), original - discount, nil
}
