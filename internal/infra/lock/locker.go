package lock

import (
	"context"
	"fmt"
	"time"
)

// Locker короткая эксклюзивная блокировка по ключу.
// Lock возвращает токен владельца; снять блокировку может только он.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// SlotKey ключ блокировки слота бизнеса: booking:{businessId}:{start unix}
func SlotKey(businessID int64, start time.Time) string {
	return fmt.Sprintf("booking:%d:%d", businessID, start.Unix())
}

// NoopLock используется, когда Redis выключен: блокировка всегда успешна,
// единственным арбитром остается ограничение bookings_no_overlap в БД
type NoopLock struct{}

// NewNoopLock создает пустую блокировку
func NewNoopLock() *NoopLock {
	return &NoopLock{}
}

// Lock всегда успешен
func (NoopLock) Lock(context.Context, string, time.Duration) (string, bool, error) {
	return "", true, nil
}

// Unlock ничего не делает
func (NoopLock) Unlock(context.Context, string, string) error {
	return nil
}
