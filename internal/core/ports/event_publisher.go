package ports

import (
	"context"

	"delivertrack/internal/core/domain/events"
)

// EventPublisher fans tracking events out to whoever listens on the order's room.
// Publishing is fire-and-forget for the core: handlers log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
