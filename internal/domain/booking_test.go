package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPendingApproval, StatusConfirmed, true},
		{StatusPendingApproval, StatusDeclined, true},
		{StatusPendingApproval, StatusCancelled, true},
		{StatusPendingApproval, StatusCompleted, false},
		{StatusPendingApproval, StatusNoShow, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusDeclined, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusDeclined, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	for _, s := range []BookingStatus{StatusCompleted, StatusCancelled, StatusDeclined, StatusNoShow} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, StatusPendingApproval.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestBookingStatus_OccupiesSlot(t *testing.T) {
	assert.True(t, StatusPendingApproval.OccupiesSlot())
	assert.True(t, StatusConfirmed.OccupiesSlot())
	assert.True(t, StatusCompleted.OccupiesSlot())
	assert.True(t, StatusNoShow.OccupiesSlot())
	assert.False(t, StatusCancelled.OccupiesSlot())
	assert.False(t, StatusDeclined.OccupiesSlot())
}

func TestCompletionAllowedAt(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		duration int
		want     time.Time
	}{
		{name: "long service capped at 20", duration: 90, want: start.Add(20 * time.Minute)},
		{name: "exactly 20", duration: 20, want: start.Add(20 * time.Minute)},
		{name: "short service uses duration", duration: 15, want: start.Add(15 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionAllowedAt(start, tt.duration))
		})
	}
}

func TestCanComplete_Boundary(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	assert.False(t, CanComplete(start, 60, start.Add(20*time.Minute-time.Second)))
	assert.True(t, CanComplete(start, 60, start.Add(20*time.Minute)))
	assert.True(t, CanComplete(start, 60, start.Add(time.Hour)))
	assert.True(t, CanComplete(start, 10, start.Add(10*time.Minute)))
}

func TestOverlaps_HalfOpen(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC) }

	assert.True(t, Overlaps(at(11, 30), at(12, 0), at(11, 20), at(11, 40)))
	assert.False(t, Overlaps(at(11, 30), at(12, 0), at(11, 0), at(11, 30)))
	assert.False(t, Overlaps(at(11, 30), at(12, 0), at(12, 0), at(12, 30)))
	assert.True(t, Overlaps(at(9, 0), at(17, 0), at(10, 0), at(11, 0)))
}

func TestBooking_HeldCommission(t *testing.T) {
	b := &Booking{PaymentMethod: PaymentCash, PlatformFee: 150, Status: StatusPendingApproval}
	assert.True(t, b.HeldCommission())

	b.Status = StatusDeclined
	assert.False(t, b.HeldCommission())

	digital := &Booking{PaymentMethod: PaymentDigitalWallet, PlatformFee: 150, Status: StatusConfirmed}
	assert.False(t, digital.HeldCommission())
}

func TestCommission(t *testing.T) {
	assert.Equal(t, Money(1500), Commission(10000, 0.15))
	assert.Equal(t, Money(0), Commission(10000, 0))
	// 333 * 0.1 = 33.3 -> 33, 335 * 0.1 = 33.5 -> 34
	assert.Equal(t, Money(33), Commission(333, 0.1))
	assert.Equal(t, Money(34), Commission(335, 0.1))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "12.50", Money(1250).String())
	assert.Equal(t, "-0.05", Money(-5).String())
}

func TestDateException_Shapes(t *testing.T) {
	openAt := ptrTime("10:00")
	closeAt := ptrTime("12:00")

	closure := DateException{IsClosed: true}
	blackout := DateException{IsClosed: true, OpenTime: openAt, CloseTime: closeAt}
	override := DateException{IsClosed: false, OpenTime: openAt, CloseTime: closeAt}
	malformed := DateException{IsClosed: false}

	assert.True(t, closure.IsWholeDayClosure())
	assert.False(t, closure.IsBlackout())

	assert.True(t, blackout.IsBlackout())
	assert.False(t, blackout.IsWholeDayClosure())

	assert.True(t, override.IsOpenOverride())
	assert.False(t, override.IsBlackout())

	assert.False(t, malformed.IsOpenOverride())
	assert.False(t, malformed.IsWholeDayClosure())
}
