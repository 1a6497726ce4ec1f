// Package lock serializa operaciones por clave: con Redis (redislock) entre réplicas,
// o con un mutex en proceso cuando no hay Redis configurado.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ purchasing.Locker = (*RedisLocker)(nil)

// RedisLocker lock distribuido sobre bsm/redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker construye el locker. ttl es la vida máxima del lock si el proceso muere sin liberarlo.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		// Espera breve a que termine otra recepción de la misma orden
		retry: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
	}
}

// Acquire obtiene el lock de la clave; domain.ErrInvalidState si sigue tomado tras los reintentos.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("%w: operación en curso sobre %s", domain.ErrInvalidState, key)
		}
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
