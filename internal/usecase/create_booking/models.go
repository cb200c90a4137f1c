package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID     int64        // ID клиента
	BusinessID     int64        // ID бизнеса
	ServiceID      int64        // ID услуги
	StartTime      time.Time    // Начало выбранного слота
	EndTime        time.Time    // Конец выбранного слота
	PaymentMethod  string       // cash или digital_wallet
	OriginalPrice  domain.Money // Ожидаемая цена до скидки, 0 - не проверять
	DiscountAmount domain.Money // Скидка (по ваучеру)
	VoucherCode    *string      // Примененный ваучер (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	CustomerID    int64
	BusinessID    int64
	ServiceID     int64
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	PaymentMethod string
	PaymentStatus string

	OriginalPrice  domain.Money
	DiscountAmount domain.Money
	PlatformFee    domain.Money
	FinalTotal     domain.Money
	VoucherCode    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		CustomerID:     b.CustomerID,
		BusinessID:     b.BusinessID,
		ServiceID:      b.ServiceID,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		PaymentMethod:  string(b.PaymentMethod),
		PaymentStatus:  string(b.PaymentStatus),
		OriginalPrice:  b.OriginalPrice,
		DiscountAmount: b.DiscountAmount,
		PlatformFee:    b.PlatformFee,
		FinalTotal:     b.FinalTotal,
		VoucherCode:    b.VoucherCodeUsed,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
