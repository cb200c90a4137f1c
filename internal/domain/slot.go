package domain

import "time"

// TimeSlot is a derived, never persisted candidate booking interval
type TimeSlot struct {
	StartTime   time.Time
	EndTime     time.Time
	IsAvailable bool
}

