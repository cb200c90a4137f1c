package timezone

import (
	"fmt"
	"time"
)

// Resolver переводит IANA-имя часового пояса бизнеса в *time.Location.
// Пустое или неизвестное имя заменяется поясом по умолчанию.
type Resolver struct {
	fallback *time.Location
}

// NewResolver создает резолвер с поясом по умолчанию из конфигурации
func NewResolver(defaultTZ string) (*Resolver, error) {
	loc, err := time.LoadLocation(defaultTZ)
	if err != nil {
		return nil, fmt.Errorf("timezone: load default %q: %w", defaultTZ, err)
	}
	return &Resolver{fallback: loc}, nil
}

// IsValid проверяет, что tz - известный IANA пояс
func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location возвращает пояс бизнеса или пояс по умолчанию
func (r *Resolver) Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return r.fallback
}
