// Package ports defines the contracts between the delivertrack core and its adapters:
// repositories and the unit of work for orders and delivery sessions, the delivery
// partner directory, the current-user store and the real-time event publisher.
package ports

import (
	"context"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// List methods return orders in storage order and never return nil slices.
type OrderRepository interface {
	// Add persists a new order. The id must not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	// Returns errs.ErrObjectNotFound when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id.
	// Returns errs.ErrObjectNotFound when the id does not resolve.
	Get(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetByVendor returns every order placed by the vendor.
	GetByVendor(ctx context.Context, vendorID kernel.ID) ([]*order.Order, error)

	// GetByCustomer returns every order addressed to the customer.
	GetByCustomer(ctx context.Context, customerID kernel.ID) ([]*order.Order, error)

	// GetByDeliveryPartner returns every order assigned to the partner.
	GetByDeliveryPartner(ctx context.Context, partnerID kernel.ID) ([]*order.Order, error)
}
