package domain

// Default configuration values
const (
	DefaultSlotCadenceMinutes = 30
	DefaultTimezone           = "UTC"
)

// Business rules
const (
	// CompletionGuardMaxMinutes upper bound of the wait after start before a booking can be completed
	CompletionGuardMaxMinutes = 20

	MaxServiceDurationMinutes = 24 * 60
	MaxDeclineReasonLength    = 500
	MaxExceptionReasonLength  = 500
	MaxVoucherCodeLength      = 64
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SlotReleasingStatuses statuses that no longer occupy the booked interval
var SlotReleasingStatuses = []BookingStatus{
	StatusCancelled,
	StatusDeclined,
}

// UpcomingStatuses bookings that still have to be served
var UpcomingStatuses = []BookingStatus{
	StatusPendingApproval,
	StatusConfirmed,
}
