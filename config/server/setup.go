package server

import (
	"TaskTracker/config"
	"TaskTracker/internal"
	"TaskTracker/internal/limiter"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	return logger, nil
}

// SetupDatabase подключается к БД и, если включено, применяет миграции.
func SetupDatabase(ctx context.Context, databaseConfig config.DatabaseConfig) (*internal.Database, error) {
	database, err := internal.NewDatabaseConnection(ctx, databaseConfig.Driver, databaseConfig.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения: %w", err)
	}

	if databaseConfig.RunMigrations {
		if err := database.Migrate(ctx); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("ошибка миграции: %w", err)
		}
	}

	return database, nil
}

// SetupLimiter возвращает ограничитель попыток входа на Redis. Без REDIS_ADDR ограничений нет.
func SetupLimiter(ctx context.Context, redisConfig config.RedisConfig, logger *zap.Logger) (limiter.Limiter, func() error, error) {
	if redisConfig.Addr == "" {
		logger.Warn("REDIS_ADDR не задан, ограничение попыток входа отключено")
		return limiter.Noop{}, func() error { return nil }, nil
	}

	cooldown, err := config.ParseExpiry(redisConfig.LoginCooldown)
	if err != nil {
		return nil, nil, fmt.Errorf("невалидный LOGIN_COOLDOWN: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis недоступен: %w", err)
	}

	return limiter.NewRedis(client, redisConfig.MaxLoginAttempts, cooldown), client.Close, nil
}

func SetupServer(serverConfig config.ServerConfig) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, router
}
