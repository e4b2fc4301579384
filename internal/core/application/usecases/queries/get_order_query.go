package queries

import (
	"context"
	"errors"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrGetDeliverySessionQueryIsNotConstructed = errors.New(
		"GetDeliverySessionQuery must be created via NewGetDeliverySessionQuery constructor",
	)
)

// GetOrderQuery fetches one order by id.
type GetOrderQuery struct {
	orderID kernel.ID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.ID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.ID {
	return q.orderID
}

// GetOrderQueryHandler resolves a single order.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

// Handle returns the order or an errs.ErrObjectNotFound error.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.reader.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}
	return NewOrderResponse(o), nil
}

// GetDeliverySessionQuery fetches the delivery session of an order.
type GetDeliverySessionQuery struct {
	orderID kernel.ID
	guard   guard.ConstructorGuard
}

func NewGetDeliverySessionQuery(orderID kernel.ID) (GetDeliverySessionQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDeliverySessionQuery{}, err
	}
	return GetDeliverySessionQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliverySessionQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliverySessionQueryIsNotConstructed)
}

func (q GetDeliverySessionQuery) OrderID() kernel.ID {
	return q.orderID
}

// GetDeliverySessionQueryHandler resolves the session of an order.
type GetDeliverySessionQueryHandler struct {
	reader SessionReader
}

func NewGetDeliverySessionQueryHandler(reader SessionReader) GetDeliverySessionQueryHandler {
	return GetDeliverySessionQueryHandler{reader: reader}
}

// Handle returns the session or an errs.ErrObjectNotFound error when the order has none.
func (h GetDeliverySessionQueryHandler) Handle(
	ctx context.Context,
	query GetDeliverySessionQuery,
) (DeliverySessionResponse, error) {
	if err := query.Validate(); err != nil {
		return DeliverySessionResponse{}, err
	}

	s, err := h.reader.SessionRepository().Get(ctx, query.OrderID())
	if err != nil {
		return DeliverySessionResponse{}, err
	}
	return NewDeliverySessionResponse(s), nil
}
