package memory

import (
	"context"
	"errors"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/core/ports"
)

// SeedOrders returns the demo orders with timestamps relative to now.
func SeedOrders(now time.Time) ([]*order.Order, error) {
	id := kernel.MustIDFromString
	partner := func(s string) *kernel.ID {
		v := id(s)
		return &v
	}

	specs := []struct {
		id, vendor, customer string
		partner              *kernel.ID
		status               order.Status
		pickup, delivery     string
		created, updated     time.Duration
	}{
		{"ord-1", "v-1", "c-1", nil, order.Pending,
			"123 Vendor St, New York, NY", "456 Customer Ave, New York, NY", 2 * time.Hour, 2 * time.Hour},
		{"ord-2", "v-1", "c-2", partner("d-1"), order.Assigned,
			"789 Vendor Blvd, New York, NY", "101 Customer Rd, New York, NY", 4 * time.Hour, 3 * time.Hour},
		{"ord-3", "v-2", "c-1", partner("d-2"), order.InTransit,
			"321 Shop St, New York, NY", "456 Customer Ave, New York, NY", 5 * time.Hour, time.Hour},
		{"ord-4", "v-1", "c-3", partner("d-1"), order.Delivered,
			"123 Vendor St, New York, NY", "555 Customer Ct, New York, NY", 24 * time.Hour, 20 * time.Hour},
	}

	orders := make([]*order.Order, 0, len(specs))
	for _, s := range specs {
		o, err := order.RestoreOrder(
			id(s.id), id(s.vendor), id(s.customer), s.partner, s.status,
			s.pickup, s.delivery, now.Add(-s.created), now.Add(-s.updated),
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// SeedSessions returns the demo session of ord-3: six route points one minute apart
// heading north-west, started ten minutes ago.
func SeedSessions(now time.Time) ([]*session.DeliverySession, error) {
	route := make([]kernel.Location, 0, 6)
	for i := range 6 {
		loc, err := kernel.NewLocation(
			40.7128+0.001*float64(i),
			-74.006-0.002*float64(i),
			now.Add(-time.Duration(5-i)*time.Minute),
		)
		if err != nil {
			return nil, err
		}
		route = append(route, loc)
	}

	current, err := kernel.NewLocation(session.OriginLat, session.OriginLng, now)
	if err != nil {
		return nil, err
	}
	started := now.Add(-10 * time.Minute)

	s, err := session.RestoreDeliverySession(
		kernel.MustIDFromString("ord-3"),
		kernel.MustIDFromString("d-2"),
		&current,
		route,
		&started,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return []*session.DeliverySession{s}, nil
}

// SeedDeliveryPartners returns the partners offered for assignment.
func SeedDeliveryPartners() []*user.User {
	specs := []struct{ id, name, email string }{
		{"d-1", "John Delivery", "john.delivery@example.com"},
		{"d-2", "Alice Driver", "alice.driver@example.com"},
		{"d-3", "Bob Courier", "bob.courier@example.com"},
	}

	partners := make([]*user.User, 0, len(specs))
	for _, s := range specs {
		u, err := user.NewUser(kernel.MustIDFromString(s.id), s.name, s.email, user.Delivery)
		if err != nil {
			panic(err)
		}
		partners = append(partners, u)
	}
	return partners
}

// Seed writes the demo orders and sessions through a unit of work, so it works with any
// storage backend.
func Seed(ctx context.Context, factory ports.UnitOfWorkFactory, now time.Time) error {
	orders, err := SeedOrders(now)
	if err != nil {
		return err
	}
	sessions, err := SeedSessions(now)
	if err != nil {
		return err
	}

	uow := factory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	for _, o := range orders {
		if err = orderRepo.Add(ctx, o); err != nil {
			return err
		}
	}
	sessionRepo := uow.SessionRepository()
	for _, s := range sessions {
		if err = sessionRepo.Add(ctx, s); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// NewSeededStore returns a store holding the demo data.
func NewSeededStore(ctx context.Context, now time.Time) (*Store, error) {
	store := NewStore()
	if err := Seed(ctx, NewUnitOfWorkFactory(store), now); err != nil {
		return nil, errors.Join(errors.New("seed in-memory store"), err)
	}
	return store, nil
}
