package domain

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// WeeklyHours represents regular opening hours of a business for one weekday
type WeeklyHours struct {
	BusinessID int64
	DayOfWeek  int // 0 = Sunday ... 6 = Saturday
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	IsClosed   bool
}

// DateException represents a date-specific change of the schedule.
//
// Shapes:
//   - whole-day closure: IsClosed && OpenTime == nil
//   - blackout:          IsClosed && OpenTime != nil && CloseTime != nil
//   - open override:     !IsClosed && OpenTime != nil && CloseTime != nil
type DateException struct {
	ID            int64
	BusinessID    int64
	ExceptionDate time.Time
	IsClosed      bool
	OpenTime      *types.TimeString
	CloseTime     *types.TimeString
	Reason        string
	CreatedAt     time.Time
}

// IsWholeDayClosure returns true if the exception closes the entire day
func (e *DateException) IsWholeDayClosure() bool {
	return e.IsClosed && e.OpenTime == nil
}

// IsBlackout returns true if the exception carves out an unavailable sub-interval
func (e *DateException) IsBlackout() bool {
	return e.IsClosed && e.OpenTime != nil && e.CloseTime != nil
}

// IsOpenOverride returns true if the exception replaces the weekly hours for the date
func (e *DateException) IsOpenOverride() bool {
	return !e.IsClosed && e.OpenTime != nil && e.CloseTime != nil
}

// Window is a half-open time interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// IsEmpty returns true if the window has no duration
func (w Window) IsEmpty() bool {
	return !w.Start.Before(w.End)
}

// Overlaps checks strict half-open intersection
func (w Window) Overlaps(start, end time.Time) bool {
	return Overlaps(w.Start, w.End, start, end)
}

// ToWindow places open/close times of day on the given date
func ToWindow(date time.Time, openAt, closeAt types.TimeString, loc *time.Location) (Window, error) {
	start, err := openAt.OnDate(date, loc)
	if err != nil {
		return Window{}, err
	}
	end, err := closeAt.OnDate(date, loc)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// DayBounds returns [00:00, next day 00:00) of the date in loc
func DayBounds(date time.Time, loc *time.Location) Window {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}
