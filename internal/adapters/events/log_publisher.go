package events

import (
	"context"
	"log/slog"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.EventPublisher = (*LogPublisher)(nil)

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.DebugContext(ctx, "domain event", "type", event.Type, "user_id", event.UserID)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
