package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:"

// ErrNotOwner возвращается при попытке снять чужую или истекшую блокировку
var ErrNotOwner = errors.New("lock: not owner or lock expired")

// unlockScript удаляет ключ, только если значение совпадает с токеном владельца
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock блокировка на SET NX с TTL
type RedisLock struct {
	client redis.UniversalClient
}

// NewRedisLock создает блокировку поверх готового клиента
func NewRedisLock(client redis.UniversalClient) *RedisLock {
	return &RedisLock{client: client}
}

// NewRedisClient создает клиента и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	const op = "lock.NewRedisClient"

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}

// Lock пытается занять ключ на ttl. ok=false - ключ уже занят другим владельцем.
// token нужен для Unlock.
func (r *RedisLock) Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	const op = "lock.RedisLock.Lock"

	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// Unlock снимает блокировку, если она все еще принадлежит владельцу token
func (r *RedisLock) Unlock(ctx context.Context, key, token string) error {
	const op = "lock.RedisLock.Unlock"

	deleted, err := unlockScript.Run(ctx, r.client, []string{keyPrefix + key}, token).Int()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	return nil
}
