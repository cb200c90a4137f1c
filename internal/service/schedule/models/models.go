package models

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// Request модели

// SetWeeklyHoursRequest запрос на установку часов работы на день недели
type SetWeeklyHoursRequest struct {
	UserID     int64             `json:"-"`
	BusinessID int64             `json:"-"`
	DayOfWeek  int               `json:"-"`
	OpenTime   *types.TimeString `json:"openTime,omitempty"`
	CloseTime  *types.TimeString `json:"closeTime,omitempty"`
	IsClosed   bool              `json:"isClosed"`
}

// AddExceptionRequest запрос на создание исключения расписания.
// Без времени и с isClosed - закрыт весь день, со временем и isClosed - перерыв,
// со временем без isClosed - особые часы работы на дату.
type AddExceptionRequest struct {
	UserID     int64             `json:"-"`
	BusinessID int64             `json:"-"`
	Date       string            `json:"date"` // YYYY-MM-DD
	IsClosed   bool              `json:"isClosed"`
	OpenTime   *types.TimeString `json:"openTime,omitempty"`
	CloseTime  *types.TimeString `json:"closeTime,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// CheckExistingRequest запрос на подсчет активных бронирований.
// Задается ровно одно из Date и DayOfWeek.
type CheckExistingRequest struct {
	UserID     int64
	BusinessID int64
	Date       *string
	DayOfWeek  *int
}

// Response модели

// WeeklyHoursResponse часы работы на день недели
type WeeklyHoursResponse struct {
	BusinessID int64   `json:"businessId"`
	DayOfWeek  int     `json:"dayOfWeek"`
	OpenTime   *string `json:"openTime,omitempty"`
	CloseTime  *string `json:"closeTime,omitempty"`
	IsClosed   bool    `json:"isClosed"`
}

// ExceptionResponse исключение расписания
type ExceptionResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	Date       string    `json:"date"`
	IsClosed   bool      `json:"isClosed"`
	OpenTime   *string   `json:"openTime,omitempty"`
	CloseTime  *string   `json:"closeTime,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AddExceptionResponse созданное исключение и число затронутых активных бронирований
type AddExceptionResponse struct {
	Exception           *ExceptionResponse `json:"exception"`
	ConflictingBookings int                `json:"conflictingBookings"`
}

// CheckExistingResponse число активных бронирований
type CheckExistingResponse struct {
	BusinessID int64   `json:"businessId"`
	Date       *string `json:"date,omitempty"`
	DayOfWeek  *int    `json:"dayOfWeek,omitempty"`
	Count      int     `json:"count"`
}

// FromDomainWeeklyHours конвертирует domain модель в DTO
func FromDomainWeeklyHours(h *domain.WeeklyHours) *WeeklyHoursResponse {
	resp := &WeeklyHoursResponse{
		BusinessID: h.BusinessID,
		DayOfWeek:  h.DayOfWeek,
		IsClosed:   h.IsClosed,
	}
	if !h.OpenTime.IsZero() {
		resp.OpenTime = timeString(&h.OpenTime)
	}
	if !h.CloseTime.IsZero() {
		resp.CloseTime = timeString(&h.CloseTime)
	}
	return resp
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.DateException) *ExceptionResponse {
	return &ExceptionResponse{
		ID:         e.ID,
		BusinessID: e.BusinessID,
		Date:       e.ExceptionDate.Format(domain.DateFormat),
		IsClosed:   e.IsClosed,
		OpenTime:   timeString(e.OpenTime),
		CloseTime:  timeString(e.CloseTime),
		Reason:     e.Reason,
		CreatedAt:  e.CreatedAt,
	}
}

func timeString(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
