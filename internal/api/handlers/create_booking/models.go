package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	createBooking "github.com/m04kA/SMC-MarketplaceService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model.
// Суммы в минимальных единицах валюты. Цена всегда берется из каталога;
// originalPrice можно не передавать, а переданный должен с ней совпадать.
type CreateBookingRequest struct {
	BusinessID     int64     `json:"businessId"`
	ServiceID      int64     `json:"serviceId"`
	StartTime      time.Time `json:"startTime"` // RFC 3339
	EndTime        time.Time `json:"endTime"`
	PaymentMethod  string    `json:"paymentMethod"` // cash | digital_wallet
	OriginalPrice  int64     `json:"originalPrice,omitempty"`
	DiscountAmount int64     `json:"discountAmount,omitempty"`
	VoucherCode    *string   `json:"voucherCode,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customerId"`
	BusinessID     int64     `json:"businessId"`
	ServiceID      int64     `json:"serviceId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentStatus  string    `json:"paymentStatus"`
	OriginalPrice  int64     `json:"originalPrice"`
	DiscountAmount int64     `json:"discountAmount"`
	PlatformFee    int64     `json:"platformFee"`
	FinalTotal     int64     `json:"finalTotal"`
	VoucherCode    *string   `json:"voucherCode,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) *createBooking.Request {
	return &createBooking.Request{
		CustomerID:     customerID,
		BusinessID:     r.BusinessID,
		ServiceID:      r.ServiceID,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		PaymentMethod:  r.PaymentMethod,
		OriginalPrice:  domain.Money(r.OriginalPrice),
		DiscountAmount: domain.Money(r.DiscountAmount),
		VoucherCode:    r.VoucherCode,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		CustomerID:     resp.CustomerID,
		BusinessID:     resp.BusinessID,
		ServiceID:      resp.ServiceID,
		StartTime:      resp.StartTime,
		EndTime:        resp.EndTime,
		Status:         resp.Status,
		PaymentMethod:  resp.PaymentMethod,
		PaymentStatus:  resp.PaymentStatus,
		OriginalPrice:  int64(resp.OriginalPrice),
		DiscountAmount: int64(resp.DiscountAmount),
		PlatformFee:    int64(resp.PlatformFee),
		FinalTotal:     int64(resp.FinalTotal),
		VoucherCode:    resp.VoucherCode,
		CreatedAt:      resp.CreatedAt,
		UpdatedAt:      resp.UpdatedAt,
	}
}
