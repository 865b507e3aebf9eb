package services

import (
	"context"
	"log/slog"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

// SnapshotQueue schedules a recount of the tasksCompleted snapshot of (userID, date).
type SnapshotQueue interface {
	Enqueue(userID, date string)
}

// publish is best effort: a broken broker never fails the write that produced the event.
func publish(ctx context.Context, publisher domain.EventPublisher, logger *slog.Logger, event domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event", "type", event.Type, "user_id", event.UserID, "error", err)
	}
}
