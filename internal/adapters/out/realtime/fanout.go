package realtime

import (
	"context"
	"errors"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/ports"
)

// Fanout publishes every event to each publisher in turn. All publishers are tried;
// their errors are joined.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, event events.Event) error {
	var err error
	for _, p := range f {
		if p == nil {
			continue
		}
		err = errors.Join(err, p.Publish(ctx, event))
	}
	return err
}
