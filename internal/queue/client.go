package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// RedisOpt converts REDIS_URL (URL or host:port) into asynq connection options.
func RedisOpt(redisURL string) (asynq.RedisConnOpt, error) {
	if strings.Contains(redisURL, "://") {
		opt, err := asynq.ParseRedisURI(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", redisURL, err)
		}
		return opt, nil
	}
	return asynq.RedisClientOpt{Addr: redisURL}, nil
}

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
}

// NewClient connects an asynq client.
func NewClient(opt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueuePush schedules one push delivery. Deliveries are not retried.
func (c *Client) EnqueuePush(ctx context.Context, payload PushPayload) error {
	return c.enqueue(ctx, TypePushNotification, payload, asynq.MaxRetry(0), asynq.Timeout(30*time.Second))
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if _, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
