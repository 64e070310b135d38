package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing audit events.
type Publisher interface {
	// Publish adds an event to the audit stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, event AuditEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, event AuditEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: type=%s err=%v", event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamAudit,
		Values: values,
	}).Result()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: type=%s err=%v", event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	return messageID, nil
}

// TryPublish publishes best-effort: failures are logged, never propagated.
// The request path must not depend on the audit stream being available.
func TryPublish(ctx context.Context, p Publisher, event AuditEvent) {
	if p == nil {
		return
	}
	if _, err := p.Publish(ctx, event); err != nil {
		log.Printf("[Audit] dropped event type=%s user=%d err=%v", event.Type, event.UserID, err)
	}
}
