package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/ports"
	"delivertrack/internal/pkg/errs"
)

// CompleteDeliveryCommandHandler moves an order to delivered and closes its session when
// there is one. The previous status is not checked.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	events     eventSink
}

func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		events:     newEventSink(publisher, logger),
	}
}

// Handle completes the order.
// Returns errs.ErrObjectNotFound for an unknown order and order.ErrOrderHasNoDeliveryPartner
// when the order was never assigned.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()
	if err = o.Complete(now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	sessionRepo := uow.SessionRepository()
	s, err := sessionRepo.Get(ctx, cmd.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	default:
		s.Close(now)
		if err = sessionRepo.Update(ctx, s); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.publish(ctx, events.DeliveryStatusChanged{Order: o.ID(), Status: o.Status()})
	return nil
}
