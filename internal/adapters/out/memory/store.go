// Package memory keeps orders and delivery sessions in process memory.
//
// A Store is guarded by a single-slot semaphore. A unit of work holds the slot from Begin
// until Commit or Rollback, so transactions are serialised and see each other's effects
// only once committed. Repositories obtained outside a transaction take the slot for the
// span of each call. Aggregates are copied in and out, so a caller mutating an aggregate
// never changes stored state without going through Add or Update.
package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/domain/model/session"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

// Store holds the in-memory state shared by every unit of work created from it.
type Store struct {
	slot  chan struct{}
	state state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		slot:  make(chan struct{}, 1),
		state: newState(),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.slot
}

type state struct {
	orders     []orderRecord
	orderIndex map[string]int
	sessions   map[string]sessionRecord
}

func newState() state {
	return state{
		orders:     make([]orderRecord, 0),
		orderIndex: make(map[string]int),
		sessions:   make(map[string]sessionRecord),
	}
}

// clone copies the state deeply enough that edits to the copy never reach the original.
// Records are values, and a stored route slice is never written after it is stored.
func (st state) clone() state {
	out := state{
		orders:     slices.Clone(st.orders),
		orderIndex: make(map[string]int, len(st.orderIndex)),
		sessions:   make(map[string]sessionRecord, len(st.sessions)),
	}
	for k, v := range st.orderIndex {
		out.orderIndex[k] = v
	}
	for k, v := range st.sessions {
		out.sessions[k] = v
	}
	return out
}

type orderRecord struct {
	id                kernel.ID
	vendorID          kernel.ID
	customerID        kernel.ID
	deliveryPartnerID *kernel.ID
	status            order.Status
	pickupAddress     string
	deliveryAddress   string
	createdAt         time.Time
	updatedAt         time.Time
}

func orderRecordFromDomain(o *order.Order) orderRecord {
	return orderRecord{
		id:                o.ID(),
		vendorID:          o.VendorID(),
		customerID:        o.CustomerID(),
		deliveryPartnerID: o.DeliveryPartnerID(),
		status:            o.Status(),
		pickupAddress:     o.PickupAddress(),
		deliveryAddress:   o.DeliveryAddress(),
		createdAt:         o.CreatedAt(),
		updatedAt:         o.UpdatedAt(),
	}
}

func (r orderRecord) toDomain() (*order.Order, error) {
	return order.RestoreOrder(
		r.id,
		r.vendorID,
		r.customerID,
		r.deliveryPartnerID,
		r.status,
		r.pickupAddress,
		r.deliveryAddress,
		r.createdAt,
		r.updatedAt,
	)
}

type sessionRecord struct {
	orderID           kernel.ID
	deliveryPartnerID kernel.ID
	currentLocation   *kernel.Location
	route             []kernel.Location
	startedAt         *time.Time
	endedAt           *time.Time
}

func sessionRecordFromDomain(s *session.DeliverySession) sessionRecord {
	return sessionRecord{
		orderID:           s.OrderID(),
		deliveryPartnerID: s.DeliveryPartnerID(),
		currentLocation:   s.CurrentLocation(),
		route:             s.Route(),
		startedAt:         s.StartedAt(),
		endedAt:           s.EndedAt(),
	}
}

func (r sessionRecord) toDomain() (*session.DeliverySession, error) {
	return session.RestoreDeliverySession(
		r.orderID,
		r.deliveryPartnerID,
		r.currentLocation,
		r.route,
		r.startedAt,
		r.endedAt,
	)
}
