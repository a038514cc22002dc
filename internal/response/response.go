// Package response формирует единый конверт JSON-ответов и ошибок.
package response

import (
	"TaskTracker/internal/errs"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// APIResponse это успешный ответ
// swagger:model
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// APIError это ответ с ошибкой. Внутренние детали сюда не попадают.
// swagger:model
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func JSON(writer http.ResponseWriter, status int, data any, message string) {
	write(writer, status, &APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error переводит ошибку в статус по ее виду. Внутренние ошибки логируются целиком,
// клиент получает только общее сообщение.
func Error(writer http.ResponseWriter, logger *zap.Logger, err error) {
	kind := errs.KindOf(err)
	status := kind.HTTPStatus()

	if kind == errs.KindInternal {
		logger.Error("внутренняя ошибка", zap.Error(err))
	} else {
		logger.Debug("ошибка запроса", zap.Int("status", status), zap.Error(err))
	}

	details := errs.PublicDetails(err)
	if details == nil {
		details = []string{}
	}

	write(writer, status, &APIError{
		StatusCode: status,
		Message:    errs.PublicMessage(err),
		Success:    false,
		Errors:     details,
	})
}

func write(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}
