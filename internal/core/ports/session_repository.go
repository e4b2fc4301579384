package ports

import (
	"context"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/session"
)

// SessionRepository defines the persistence contract for delivery sessions.
// Sessions are keyed by order id and are never deleted.
type SessionRepository interface {
	// Add persists a new session. An order can hold at most one session.
	Add(ctx context.Context, aggregate *session.DeliverySession) error

	// Update persists the current location, new route entries and the end time.
	// The route is append-only, so implementations may store only the new tail.
	Update(ctx context.Context, aggregate *session.DeliverySession) error

	// Get retrieves the session of an order.
	// Returns errs.ErrObjectNotFound when the order has no session.
	Get(ctx context.Context, orderID kernel.ID) (*session.DeliverySession, error)
}
