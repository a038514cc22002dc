// Package limiter ограничивает число неудачных попыток входа.
package limiter

import (
	"context"
	"strings"
)

// Limiter учитывает неудачные попытки входа по ключу (логин + IP).
type Limiter interface {
	// Allow возвращает ошибку TooManyRequests, если ключ заблокирован.
	Allow(ctx context.Context, key string) error
	// Failure регистрирует неудачную попытку.
	Failure(ctx context.Context, key string) error
	// Success сбрасывает счетчик после успешного входа.
	Success(ctx context.Context, key string) error
}

// LoginKey строит ключ попыток входа; логин приводится к нижнему регистру.
func LoginKey(identifier string, ip string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(identifier)) + ":" + ip
}

// Noop используется, когда Redis не настроен.
type Noop struct{}

func (Noop) Allow(context.Context, string) error   { return nil }
func (Noop) Failure(context.Context, string) error { return nil }
func (Noop) Success(context.Context, string) error { return nil }
