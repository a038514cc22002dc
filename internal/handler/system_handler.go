package handler

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/response"
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Pinger проверяет доступность хранилища для /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	database Pinger
	logger   *zap.Logger
}

func NewSystemHandler(database Pinger, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{database: database, logger: logger}
}

func (handler *SystemHandler) Welcome(writer http.ResponseWriter, _ *http.Request) {
	response.JSON(writer, http.StatusOK, struct{}{}, "Welcome to the Task Tracker API")
}

func (handler *SystemHandler) Health(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	if err := handler.database.PingContext(ctx); err != nil {
		response.Error(writer, handler.logger, errs.Internal("база данных недоступна", err))
		return
	}
	response.JSON(writer, http.StatusOK, map[string]string{"status": "ok"}, "healthy")
}
