package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// tileSlots нарезает окно работы на слоты шириной durationMinutes с шагом cadenceMinutes.
// Слот попадает в список, только если целиком помещается до закрытия (конец ровно в
// момент закрытия допустим). Слот недоступен, если пересекается с занятым интервалом
// или начинается раньше now.
func tileSlots(
	window domain.Window,
	durationMinutes int,
	cadenceMinutes int,
	busy []domain.Window,
	now time.Time,
) []domain.TimeSlot {
	duration := time.Duration(durationMinutes) * time.Minute
	cadence := time.Duration(cadenceMinutes) * time.Minute

	slots := make([]domain.TimeSlot, 0)
	if duration <= 0 || cadence <= 0 {
		return slots
	}

	for step := window.Start; !step.Add(duration).After(window.End); step = step.Add(cadence) {
		end := step.Add(duration)

		slots = append(slots, domain.TimeSlot{
			StartTime:   step,
			EndTime:     end,
			IsAvailable: !step.Before(now) && !overlapsAny(step, end, busy),
		})
	}

	return slots
}

// overlapsAny проверяет строгое пересечение [start, end) хотя бы с одним интервалом.
// Интервалы, которые только касаются границей, не пересекаются.
func overlapsAny(start, end time.Time, busy []domain.Window) bool {
	for _, w := range busy {
		if w.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// busyWindows собирает занятые интервалы: бронирования и блэкауты
func busyWindows(bookings []*domain.Booking, blackouts []domain.Window) []domain.Window {
	busy := make([]domain.Window, 0, len(bookings)+len(blackouts))
	for _, b := range bookings {
		if !b.Status.OccupiesSlot() {
			continue
		}
		busy = append(busy, domain.Window{Start: b.StartTime, End: b.EndTime})
	}
	return append(busy, blackouts...)
}
