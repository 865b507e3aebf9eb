package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventTaskCreated      EventType = "task.created"
	EventTaskUpdated      EventType = "task.updated"
	EventTaskDeleted      EventType = "task.deleted"
	EventDailyLogUpserted EventType = "dailylog.upserted"
	EventUserSynced       EventType = "user.synced"
)

type Event struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

func NewEvent(t EventType, userID string, payload any) Event {
	return Event{
		Type:       t,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// EventPublisher delivers domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
