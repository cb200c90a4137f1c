package models

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	UserID int64   `json:"userId"`
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования.
// Денежные суммы в минимальных единицах валюты.
type BookingResponse struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customerId"`
	BusinessID    int64     `json:"businessId"`
	ServiceID     int64     `json:"serviceId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`

	OriginalPrice  int64   `json:"originalPrice"`
	DiscountAmount int64   `json:"discountAmount"`
	PlatformFee    int64   `json:"platformFee"`
	FinalTotal     int64   `json:"finalTotal"`
	VoucherCode    *string `json:"voucherCode,omitempty"`
	DeclineReason  *string `json:"declineReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:             b.ID,
		CustomerID:     b.CustomerID,
		BusinessID:     b.BusinessID,
		ServiceID:      b.ServiceID,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		PaymentMethod:  string(b.PaymentMethod),
		PaymentStatus:  string(b.PaymentStatus),
		OriginalPrice:  int64(b.OriginalPrice),
		DiscountAmount: int64(b.DiscountAmount),
		PlatformFee:    int64(b.PlatformFee),
		FinalTotal:     int64(b.FinalTotal),
		VoucherCode:    b.VoucherCodeUsed,
		DeclineReason:  b.DeclineReason,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
