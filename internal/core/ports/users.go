package ports

import (
	"context"

	"delivertrack/internal/core/domain/model/user"
)

// PartnerDirectory lists the delivery partners a vendor can assign.
type PartnerDirectory interface {
	ListDeliveryPartners(ctx context.Context) ([]*user.User, error)
}

// CurrentUserStore keeps the single signed-in user of the dashboard under one key.
type CurrentUserStore interface {
	// Save replaces the stored user.
	Save(ctx context.Context, u *user.User) error

	// Load returns the stored user.
	// Returns errs.ErrObjectNotFound when nobody is signed in or the record is unreadable.
	Load(ctx context.Context) (*user.User, error)

	// Clear removes the stored user. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
