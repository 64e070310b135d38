package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the audit stream. Every state-changing operation in the
// application emits exactly one of these.
const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventUserLoggedOut  = "user_logged_out"
	EventAccountUpdated = "account_updated"
	EventStoryCreated   = "story_created"
	EventStoryUpdated   = "story_updated"
	EventStoryDeleted   = "story_deleted"
)

// Stream and consumer group names.
const (
	StreamAudit        = "stream:audit"
	ConsumerGroupAudit = "audit_workers"
)

// AuditEvent records who did what. All audit events share this structure.
type AuditEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`

	// Story events
	StoryID    int64  `json:"story_id,omitempty"`
	StoryTitle string `json:"story_title,omitempty"`
}

// NewUserEvent creates an audit event for an account-level action.
func NewUserEvent(eventType string, userID int64, username string) AuditEvent {
	return AuditEvent{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		Username:  username,
	}
}

// NewStoryEvent creates an audit event for a story mutation.
func NewStoryEvent(eventType string, userID, storyID int64, title string) AuditEvent {
	return AuditEvent{
		Type:       eventType,
		Timestamp:  time.Now().Unix(),
		UserID:     userID,
		StoryID:    storyID,
		StoryTitle: title,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized to JSON
// in a "data" field.
func (e AuditEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseAuditEvent parses an AuditEvent from Redis stream message values.
func ParseAuditEvent(values map[string]interface{}) (AuditEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return AuditEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event AuditEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return AuditEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
