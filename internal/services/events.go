package services

import (
	"context"
	"log/slog"

	"focolare/internal/amqp"
)

// Publisher is the slice of the AMQP client the services need. Nil means
// messaging is disabled (tests, single-process deployments).
type Publisher interface {
	PublishActivity(ctx context.Context, msg *amqp.ActivityMessage) error
}

// publishActivity sends one event best-effort. The originating write has
// already been committed, so a broker failure is logged, never surfaced.
func publishActivity(ctx context.Context, events Publisher, msg *amqp.ActivityMessage) {
	if events == nil {
		return
	}
	if err := events.PublishActivity(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish activity message",
			"kind", msg.Kind,
			"group_id", msg.GroupID,
			"error", err)
	}
}
