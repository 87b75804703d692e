package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nightlife/internal/middleware"

	"github.com/hibiken/asynq"
)

// HandlersRegistry maps task types to handlers.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{mux: asynq.NewServeMux()}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}

// PushHandler forwards push payloads to the configured gateway.
type PushHandler struct {
	url    string
	client *http.Client
}

// NewPushHandler returns a handler posting to url. An empty url drops deliveries.
func NewPushHandler(url string) *PushHandler {
	return &PushHandler{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

// ProcessTask implements asynq.Handler.
func (h *PushHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p PushPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode push payload: %v: %w", err, asynq.SkipRetry)
	}
	if h.url == "" {
		middleware.Logger.DebugContext(ctx, "push gateway not configured, dropping",
			slog.String("notification_id", p.NotificationID.String()))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(t.Payload()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-ID", p.NotificationID.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	middleware.Logger.InfoContext(ctx, "push delivered",
		slog.String("notification_id", p.NotificationID.String()),
		slog.String("user_id", p.UserID.String()))
	return nil
}
