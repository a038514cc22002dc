package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const EventRefreshTokenReuse = "refresh_token_reuse"

// SecurityEvent описывает тело webhook о подозрительном событии сессии.
type SecurityEvent struct {
	UserID    string `json:"userId"`
	Event     string `json:"event"`
	IPAddress string `json:"ipAddress"`
	TimeStamp string `json:"timestamp"`
}

// WebhookNotifier отправляет события безопасности на настроенный URL.
// Пустой URL отключает отправку.
type WebhookNotifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Notify отправляет событие в фоне и не задерживает запрос; ошибка только логируется.
func (notifier *WebhookNotifier) Notify(ctx context.Context, userID string, event string, ipAddress string) {
	if notifier == nil || notifier.url == "" {
		return
	}

	payload := &SecurityEvent{
		UserID:    userID,
		Event:     event,
		IPAddress: ipAddress,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := notifier.Send(ctx, payload); err != nil {
			notifier.logger.Warn("ошибка отправки webhook", zap.String("event", event), zap.Error(err))
		}
	}()
}

func (notifier *WebhookNotifier) Send(ctx context.Context, payload *SecurityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, notifier.timeout)
	defer cancel()

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, notifier.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := notifier.client.Do(request)
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook ответил статусом %d", response.StatusCode)
	}

	notifier.logger.Debug("webhook успешно отправлен", zap.String("event", payload.Event))
	return nil
}
