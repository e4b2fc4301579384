package queries

import (
	"errors"
	"fmt"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/errs"
	"delivertrack/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// OrdersFilter selects which party an orders listing is scoped to.
type OrdersFilter string

const (
	ByVendor          OrdersFilter = "vendor"
	ByCustomer        OrdersFilter = "customer"
	ByDeliveryPartner OrdersFilter = "deliveryPartner"
)

// GetOrdersQuery lists every order of one vendor, customer or delivery partner.
//
// Example:
//
//	query, err := NewGetOrdersQuery(ByVendor, kernel.MustIDFromString("v-1"))
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	filter OrdersFilter
	id     kernel.ID

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates the query. The filter must be known and the id valid.
func NewGetOrdersQuery(filter OrdersFilter, id kernel.ID) (GetOrdersQuery, error) {
	var filterErr error
	switch filter {
	case ByVendor, ByCustomer, ByDeliveryPartner:
	default:
		filterErr = errs.NewValueIsInvalidErrorWithCause("filter", fmt.Errorf("%q is not a known filter", string(filter)))
	}

	if err := errors.Join(filterErr, id.Validate()); err != nil {
		return GetOrdersQuery{}, err
	}

	return GetOrdersQuery{filter: filter, id: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) Filter() OrdersFilter {
	return q.filter
}

func (q GetOrdersQuery) ID() kernel.ID {
	return q.id
}
