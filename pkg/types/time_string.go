package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// timeLayout формат времени суток HH:MM
const timeLayout = "15:04"

const minutesPerDay = 24 * 60

// EndOfDay конец суток. PostgreSQL TIME допускает 24:00:00,
// так задается закрытие в полночь.
const EndOfDay TimeString = "24:00"

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM" (без даты и часового пояса).
// Хранится в PostgreSQL как TIME.
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)

	if s == string(EndOfDay) || s == string(EndOfDay)+":00" {
		return EndOfDay, nil
	}

	// PostgreSQL возвращает TIME в формате HH:MM:SS
	if len(s) == len("15:04:05") {
		parsed, err := time.Parse("15:04:05", s)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		return NewTimeString(parsed), nil
	}

	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return NewTimeString(parsed), nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero проверяет, что время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes возвращает количество минут с начала суток (1440 для EndOfDay)
func (t TimeString) Minutes() (int, error) {
	if t == EndOfDay {
		return minutesPerDay, nil
	}
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// OnDate переносит время суток на календарную дату в указанном часовом поясе.
// EndOfDay дает полночь следующего дня.
func (t TimeString) OnDate(date time.Time, loc *time.Location) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = date.Location()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
