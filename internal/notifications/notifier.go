// Package notifications publishes user notification events over Redis pub/sub.
package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notifier publishes notification payloads to per-user Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier. A nil client turns publishing into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel returns the pub/sub channel for a user.
func UserChannel(userID uuid.UUID) string {
	return "notifications:user:" + userID.String()
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uuid.UUID, payload []byte) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}
