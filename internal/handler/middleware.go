package handler

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/response"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logging пишет в лог метаданные запроса. Тело и заголовки не логируются.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(wrapped, request)

			logger.Info("http",
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.Int("status", wrapped.Status()),
				zap.Duration("dur", time.Since(start)),
				zap.String("peer", request.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(request.Context())),
			)
		})
	}
}

// Recover превращает панику обработчика в ответ 500 с общим сообщением.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if reason := recover(); reason != nil {
					if reason == http.ErrAbortHandler {
						panic(reason)
					}
					logger.Error("panic",
						zap.Any("reason", reason),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", request.URL.Path),
					)
					response.Error(writer, logger, errs.ErrInternal)
				}
			}()
			next.ServeHTTP(writer, request)
		})
	}
}
