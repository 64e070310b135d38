// Package worker drains the audit stream and turns events into the
// audit log lines the application promises for every state change.
package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"socialstories/internal/queue"
)

const (
	readCount = 32
	readBlock = 5 * time.Second
)

// AuditWorker consumes audit events from the stream in a consumer group.
type AuditWorker struct {
	consumer queue.Consumer
	name     string
}

// NewAuditWorker creates a worker with a host-scoped consumer name so
// multiple instances can share the group.
func NewAuditWorker(consumer queue.Consumer) *AuditWorker {
	host, err := os.Hostname()
	if err != nil {
		host = "audit-worker"
	}
	return &AuditWorker{
		consumer: consumer,
		name:     fmt.Sprintf("%s-%d", host, os.Getpid()),
	}
}

// Run blocks until ctx is cancelled, reading and acknowledging audit events.
// Intended to be started as a goroutine from server wiring.
func (w *AuditWorker) Run(ctx context.Context) error {
	if err := w.consumer.EnsureGroup(ctx, queue.StreamAudit, queue.ConsumerGroupAudit); err != nil {
		return err
	}

	log.Printf("[AuditWorker] started: consumer=%s", w.name)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[AuditWorker] stopping: consumer=%s", w.name)
			return nil
		default:
		}

		messages, err := w.consumer.Read(ctx, queue.StreamAudit, queue.ConsumerGroupAudit, w.name, readCount, readBlock)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("[AuditWorker] read error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if len(messages) == 0 {
			continue
		}

		ids := make([]string, 0, len(messages))
		for _, m := range messages {
			w.logEvent(m.Event)
			ids = append(ids, m.ID)
		}

		if err := w.consumer.Ack(ctx, queue.StreamAudit, queue.ConsumerGroupAudit, ids...); err != nil {
			log.Printf("[AuditWorker] ack error: %v", err)
		}
	}
}

// logEvent writes one audit line per event.
func (w *AuditWorker) logEvent(e queue.AuditEvent) {
	at := time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339)
	switch e.Type {
	case queue.EventStoryCreated, queue.EventStoryUpdated, queue.EventStoryDeleted:
		log.Printf("[Audit] %s at=%s user=%d story=%d title=%q", e.Type, at, e.UserID, e.StoryID, e.StoryTitle)
	default:
		log.Printf("[Audit] %s at=%s user=%d username=%q", e.Type, at, e.UserID, e.Username)
	}
}
