package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingApproval BookingStatus = "pending_approval"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusCompleted       BookingStatus = "completed"
	StatusCancelled       BookingStatus = "cancelled"
	StatusDeclined        BookingStatus = "declined"
	StatusNoShow          BookingStatus = "no_show"
)

// PaymentMethod is the payment method declared by the customer
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
)

// PaymentStatus represents whether the booking is paid
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// transitions allowed booking status transitions
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingApproval: {StatusConfirmed, StatusDeclined, StatusCancelled},
	StatusConfirmed:       {StatusCompleted, StatusCancelled, StatusNoShow},
}

// Booking represents a service booking in the marketplace
type Booking struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	ServiceID  int64
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus

	OriginalPrice   Money
	DiscountAmount  Money
	PlatformFee     Money // комиссия платформы, для cash списывается с кошелька бизнеса
	FinalTotal      Money
	VoucherCodeUsed *string
	DeclineReason   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch status := BookingStatus(s); status {
	case StatusPendingApproval, StatusConfirmed, StatusCompleted,
		StatusCancelled, StatusDeclined, StatusNoShow:
		return status, true
	default:
		return "", false
	}
}

// ParsePaymentMethod validates a payment method string
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch method := PaymentMethod(s); method {
	case PaymentCash, PaymentDigitalWallet:
		return method, true
	default:
		return "", false
	}
}

// CanTransition reports whether from -> to is allowed by the booking lifecycle
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// OccupiesSlot returns true if the booking still holds its interval.
// Only cancelled and declined bookings release the slot.
func (s BookingStatus) OccupiesSlot() bool {
	return s != StatusCancelled && s != StatusDeclined
}

// CanTransitionTo reports whether the booking can move to the given status
func (b *Booking) CanTransitionTo(to BookingStatus) bool {
	return CanTransition(b.Status, to)
}

// HeldCommission returns true if a commission was debited from the business wallet
// for this booking and has not been returned yet
func (b *Booking) HeldCommission() bool {
	return b.PaymentMethod == PaymentCash && b.PlatformFee > 0 && b.Status.OccupiesSlot()
}

// DurationMinutes returns the booked interval length
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// CompletionAllowedAt returns the earliest moment the booking may be marked completed:
// start + min(CompletionGuardMaxMinutes, durationMinutes)
func CompletionAllowedAt(start time.Time, durationMinutes int) time.Time {
	guard := durationMinutes
	if guard > CompletionGuardMaxMinutes {
		guard = CompletionGuardMaxMinutes
	}
	if guard < 0 {
		guard = 0
	}
	return start.Add(time.Duration(guard) * time.Minute)
}

// CanComplete checks the completion time guard
func CanComplete(start time.Time, durationMinutes int, now time.Time) bool {
	return !now.Before(CompletionAllowedAt(start, durationMinutes))
}

// Overlaps checks strict half-open interval intersection: touching endpoints do not overlap
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BookingPeriodFilter фильтр бронирований бизнеса за период
type BookingPeriodFilter struct {
	BusinessID int64
	From       time.Time       // включительно
	To         time.Time       // не включительно
	Statuses   []BookingStatus // пусто - все, кроме освобождающих слот
}
