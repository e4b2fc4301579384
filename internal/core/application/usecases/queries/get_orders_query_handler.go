package queries

import (
	"context"

	"delivertrack/internal/core/domain/model/order"
)

// GetOrdersQueryHandler lists orders through the order repository, in storage order.
type GetOrdersQueryHandler struct {
	reader OrderReader
}

func NewGetOrdersQueryHandler(reader OrderReader) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{reader: reader}
}

// Handle returns the matching orders. The result is empty, never nil, when nothing matches.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repo := h.reader.OrderRepository()

	var (
		orders []*order.Order
		err    error
	)
	switch query.Filter() {
	case ByVendor:
		orders, err = repo.GetByVendor(ctx, query.ID())
	case ByCustomer:
		orders, err = repo.GetByCustomer(ctx, query.ID())
	case ByDeliveryPartner:
		orders, err = repo.GetByDeliveryPartner(ctx, query.ID())
	}
	if err != nil {
		return nil, err
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, NewOrderResponse(o))
	}
	return result, nil
}
