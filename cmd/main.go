package main

import (
	"TaskTracker/config"
	"TaskTracker/config/server"
	"TaskTracker/internal/handler"
	"TaskTracker/internal/notifier"
	"TaskTracker/internal/repository"
	"TaskTracker/internal/security"
	"TaskTracker/internal/service"
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	envPath := flag.String("env", ".env", "путь к .env файлу")
	flag.Parse()

	logger, err := server.SetupLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*configPath, *envPath, logger); err != nil {
		logger.Fatal("сервер остановлен с ошибкой", zap.Error(err))
	}
}

func run(configPath string, envPath string, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}

	database, err := server.SetupDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	loginLimiter, closeLimiter, err := server.SetupLimiter(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	tokenConfig, err := security.NewTokenConfig(cfg.JWT)
	if err != nil {
		return err
	}
	tokenManager := security.NewTokenManager(tokenConfig)

	userRepository := repository.NewUserRepository(database)
	taskRepository := repository.NewTaskRepository(database)
	webhookNotifier := notifier.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.WebhookTimeout(), logger)

	authenticationService := service.NewAuthenticationService(userRepository, tokenManager, loginLimiter, webhookNotifier, logger)
	taskService := service.NewTaskService(service.NewOwnershipGuard(taskRepository))
	sessionVerifier := security.NewSessionVerifier(tokenManager, userRepository, logger)

	cookies := handler.CookieConfig{
		Secure:     cfg.Server.CookieSecure,
		AccessTTL:  tokenManager.AccessTTL(),
		RefreshTTL: tokenManager.RefreshTTL(),
	}

	httpServer, router := server.SetupServer(cfg.Server)
	handler.Routes{
		BasePath:     cfg.Server.BasePath,
		Auth:         handler.NewAuthenticationHandler(authenticationService, cookies, logger),
		Tasks:        handler.NewTaskHandler(taskService, logger),
		System:       handler.NewSystemHandler(database, logger),
		Authenticate: sessionVerifier.Middleware,
		Logger:       logger,
	}.Mount(router)

	return runServer(ctx, httpServer, logger)
}

func runServer(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("сервер запущен", zap.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-signalChannel:
		logger.Info("получен сигнал остановки работы сервера", zap.String("signal", sig.String()))
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		logger.Error("ошибка при остановке сервера", zap.Error(err))
		return err
	}
	logger.Info("сервер успешно остановлен")
	return nil
}
