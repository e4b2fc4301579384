package commands

import (
	"context"
	"log/slog"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/ports"
)

// eventSink publishes events once their transaction has committed. A failed publish never
// fails the command: the state change is already durable.
type eventSink struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func newEventSink(publisher ports.EventPublisher, logger *slog.Logger) eventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return eventSink{publisher: publisher, logger: logger}
}

func (s eventSink) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"type", event.Type(),
			"order_id", event.OrderID().String(),
			"error", err)
	}
}
