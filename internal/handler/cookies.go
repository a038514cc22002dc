package handler

import (
	"TaskTracker/internal/model"
	"TaskTracker/internal/security"
	"net/http"
	"time"
)

// CookieConfig задает атрибуты cookie сессии. Secure отключают только для локальной разработки.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (config CookieConfig) setSession(writer http.ResponseWriter, tokens *model.TokensPair) {
	http.SetCookie(writer, config.cookie(security.AccessTokenCookie, tokens.AccessToken, config.AccessTTL))
	http.SetCookie(writer, config.cookie(security.RefreshTokenCookie, tokens.RefreshToken, config.RefreshTTL))
}

func (config CookieConfig) clearSession(writer http.ResponseWriter) {
	for _, name := range []string{security.AccessTokenCookie, security.RefreshTokenCookie} {
		cookie := config.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(writer, cookie)
	}
}

func (config CookieConfig) cookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
