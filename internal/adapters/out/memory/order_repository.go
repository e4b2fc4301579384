package memory

import (
	"context"
	"fmt"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/pkg/errs"
)

// OrderRepository implements ports.OrderRepository over a Store.
type OrderRepository struct {
	store *Store
	inTx  bool
}

func (r *OrderRepository) with(ctx context.Context, fn func(st *state) error) error {
	if !r.inTx {
		if err := r.store.acquire(ctx); err != nil {
			return err
		}
		defer r.store.release()
	}
	return fn(&r.store.state)
}

func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.with(ctx, func(st *state) error {
		key := aggregate.ID().String()
		if _, ok := st.orderIndex[key]; ok {
			return errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("order %s already exists", key))
		}
		st.orderIndex[key] = len(st.orders)
		st.orders = append(st.orders, orderRecordFromDomain(aggregate))
		return nil
	})
}

func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.with(ctx, func(st *state) error {
		i, ok := st.orderIndex[aggregate.ID().String()]
		if !ok {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}
		st.orders[i] = orderRecordFromDomain(aggregate)
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	var result *order.Order
	err := r.with(ctx, func(st *state) error {
		i, ok := st.orderIndex[id.String()]
		if !ok {
			return errs.NewObjectNotFoundError("order", id)
		}
		o, err := st.orders[i].toDomain()
		result = o
		return err
	})
	return result, err
}

func (r *OrderRepository) GetByVendor(ctx context.Context, vendorID kernel.ID) ([]*order.Order, error) {
	return r.filter(ctx, func(rec orderRecord) bool { return rec.vendorID.IsEqual(vendorID) })
}

func (r *OrderRepository) GetByCustomer(ctx context.Context, customerID kernel.ID) ([]*order.Order, error) {
	return r.filter(ctx, func(rec orderRecord) bool { return rec.customerID.IsEqual(customerID) })
}

func (r *OrderRepository) GetByDeliveryPartner(ctx context.Context, partnerID kernel.ID) ([]*order.Order, error) {
	return r.filter(ctx, func(rec orderRecord) bool {
		return rec.deliveryPartnerID != nil && rec.deliveryPartnerID.IsEqual(partnerID)
	})
}

func (r *OrderRepository) filter(ctx context.Context, match func(orderRecord) bool) ([]*order.Order, error) {
	result := make([]*order.Order, 0)
	err := r.with(ctx, func(st *state) error {
		for _, rec := range st.orders {
			if !match(rec) {
				continue
			}
			o, err := rec.toDomain()
			if err != nil {
				return err
			}
			result = append(result, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
