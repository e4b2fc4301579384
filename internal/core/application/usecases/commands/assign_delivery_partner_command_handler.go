package commands

import (
	"context"
	"log/slog"
	"time"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/ports"
)

// AssignDeliveryPartnerCommandHandler attaches a delivery partner to an order and moves
// it to assigned. Reassignment is allowed whatever the current status.
//
// Example:
//
//	handler := NewAssignDeliveryPartnerCommandHandler(uowFactory, hub, logger)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type AssignDeliveryPartnerCommandHandler struct {
	uowFactory OrderUoWFactory
	events     eventSink
}

// NewAssignDeliveryPartnerCommandHandler creates the handler. publisher may be nil when
// nobody listens for status changes.
func NewAssignDeliveryPartnerCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignDeliveryPartnerCommandHandler {
	return AssignDeliveryPartnerCommandHandler{
		uowFactory: uowFactory,
		events:     newEventSink(publisher, logger),
	}
}

// Handle loads the order, assigns the partner and stores the result. On success a
// deliveryStatusChange event is published to the order's room.
func (h AssignDeliveryPartnerCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryPartnerCommand) error {
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

	if err = o.AssignDeliveryPartner(cmd.DeliveryPartnerID(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.publish(ctx, events.DeliveryStatusChanged{Order: o.ID(), Status: o.Status()})
	return nil
}
