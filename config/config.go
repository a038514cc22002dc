package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Redis    RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Address      string `yaml:"address" env:"SERVER_ADDRESS"`
	BasePath     string `yaml:"base_path" env:"SERVER_BASE_PATH"`
	CookieSecure bool   `yaml:"cookie_secure" env:"COOKIE_SECURE"`
}

type DatabaseConfig struct {
	Driver           string `yaml:"driver" env:"DATABASE_DRIVER"`
	ConnectionString string `yaml:"connection_string" env:"DATABASE_CONNECTION_URL"`
	RunMigrations    bool   `yaml:"run_migrations" env:"DATABASE_RUN_MIGRATIONS"`
}

type JWTConfig struct {
	AccessTokenSecret  string `yaml:"access_token_secret" env:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiry  string `yaml:"access_token_expiry" env:"ACCESS_TOKEN_EXPIRY"`
	RefreshTokenSecret string `yaml:"refresh_token_secret" env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpiry string `yaml:"refresh_token_expiry" env:"REFRESH_TOKEN_EXPIRY"`
	Issuer             string `yaml:"issuer" env:"JWT_ISSUER"`
}

type WebhookConfig struct {
	URL     string `yaml:"url" env:"WEBHOOK_URL"`
	Timeout string `yaml:"timeout" env:"WEBHOOK_TIMEOUT"`
}

type RedisConfig struct {
	Addr             string `yaml:"addr" env:"REDIS_ADDR"`
	Password         string `yaml:"password" env:"REDIS_PASSWORD"`
	DB               int    `yaml:"db" env:"REDIS_DB"`
	MaxLoginAttempts int    `yaml:"max_login_attempts" env:"MAX_LOGIN_ATTEMPTS"`
	LoginCooldown    string `yaml:"login_cooldown" env:"LOGIN_COOLDOWN"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
// Секреты пустые, их задает оператор.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":8000",
			BasePath:     "/api/v1",
			CookieSecure: true,
		},
		Database: DatabaseConfig{
			Driver:        "postgres",
			RunMigrations: true,
		},
		JWT: JWTConfig{
			AccessTokenExpiry:  "15m",
			RefreshTokenExpiry: "10d",
			Issuer:             "TaskTracker",
		},
		Webhook: WebhookConfig{
			Timeout: "5s",
		},
		Redis: RedisConfig{
			MaxLoginAttempts: 5,
			LoginCooldown:    "15m",
		},
	}
}

// Validate проверяет, что конфигурация пригодна для запуска.
func (cfg *Config) Validate() error {
	var problems []error

	if cfg.JWT.AccessTokenSecret == "" {
		problems = append(problems, errors.New("не задан ACCESS_TOKEN_SECRET"))
	}
	if cfg.JWT.RefreshTokenSecret == "" {
		problems = append(problems, errors.New("не задан REFRESH_TOKEN_SECRET"))
	}
	if cfg.JWT.AccessTokenSecret != "" && cfg.JWT.AccessTokenSecret == cfg.JWT.RefreshTokenSecret {
		problems = append(problems, errors.New("секреты access и refresh токенов должны различаться"))
	}
	if _, err := cfg.JWT.AccessTTL(); err != nil {
		problems = append(problems, err)
	}
	if _, err := cfg.JWT.RefreshTTL(); err != nil {
		problems = append(problems, err)
	}
	if cfg.Database.ConnectionString == "" {
		problems = append(problems, errors.New("не задан DATABASE_CONNECTION_URL"))
	}
	if cfg.Redis.Addr != "" {
		if _, err := ParseExpiry(cfg.Redis.LoginCooldown); err != nil {
			problems = append(problems, fmt.Errorf("LOGIN_COOLDOWN: %w", err))
		}
	}

	return errors.Join(problems...)
}

func (jwtConfig JWTConfig) AccessTTL() (time.Duration, error) {
	ttl, err := ParseExpiry(jwtConfig.AccessTokenExpiry)
	if err != nil {
		return 0, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	return ttl, nil
}

func (jwtConfig JWTConfig) RefreshTTL() (time.Duration, error) {
	ttl, err := ParseExpiry(jwtConfig.RefreshTokenExpiry)
	if err != nil {
		return 0, fmt.Errorf("REFRESH_TOKEN_EXPIRY: %w", err)
	}
	return ttl, nil
}

// WebhookTimeout возвращает таймаут отправки webhook, 5s при пустом значении.
func (webhook WebhookConfig) WebhookTimeout() time.Duration {
	timeout, err := ParseExpiry(webhook.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return timeout
}

// ParseExpiry разбирает длительность в формате Go ("15m", "1h30m") либо в днях ("10d").
func ParseExpiry(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("пустая длительность")
	}

	var ttl time.Duration
	if days, ok := strings.CutSuffix(value, "d"); ok {
		count, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("неверная длительность %q: %w", value, err)
		}
		ttl = time.Duration(count) * 24 * time.Hour
	} else {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("неверная длительность %q: %w", value, err)
		}
		ttl = parsed
	}

	if ttl <= 0 {
		return 0, fmt.Errorf("длительность %q должна быть положительной", value)
	}
	return ttl, nil
}
