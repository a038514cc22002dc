package limiter

import (
	"TaskTracker/internal/errs"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis хранит счетчики попыток: INCR с TTL окна блокировки.
type Redis struct {
	client      redis.UniversalClient
	maxAttempts int
	cooldown    time.Duration
}

func NewRedis(client redis.UniversalClient, maxAttempts int, cooldown time.Duration) *Redis {
	return &Redis{client: client, maxAttempts: maxAttempts, cooldown: cooldown}
}

func (limiter *Redis) Allow(ctx context.Context, key string) error {
	count, err := limiter.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return errs.Internal("ошибка чтения счетчика попыток", err)
	}

	if count >= limiter.maxAttempts {
		return errs.ErrTooManyRequests
	}
	return nil
}

func (limiter *Redis) Failure(ctx context.Context, key string) error {
	count, err := limiter.client.Incr(ctx, key).Result()
	if err != nil {
		return errs.Internal("ошибка увеличения счетчика попыток", err)
	}

	// TTL ставится только на первой попытке, чтобы окно не продлевалось.
	if count == 1 {
		if err := limiter.client.Expire(ctx, key, limiter.cooldown).Err(); err != nil {
			return errs.Internal("ошибка установки TTL счетчика", err)
		}
	}

	return nil
}

func (limiter *Redis) Success(ctx context.Context, key string) error {
	if err := limiter.client.Del(ctx, key).Err(); err != nil {
		return errs.Internal("ошибка сброса счетчика попыток", err)
	}
	return nil
}
