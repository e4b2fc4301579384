package commands

import (
	"context"
	"log/slog"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/ports"
)

// UpdateLocationCommandHandler appends a sample to a delivery session's route and makes
// it the current location. Samples are not deduplicated and their timestamps are not
// required to increase.
type UpdateLocationCommandHandler struct {
	uowFactory SessionUoWFactory
	events     eventSink
}

func NewUpdateLocationCommandHandler(
	uowFactory SessionUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{
		uowFactory: uowFactory,
		events:     newEventSink(publisher, logger),
	}
}

// Handle records the sample and publishes a locationUpdate event for the order.
// Returns errs.ErrObjectNotFound when the order has no session.
func (h UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) error {
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

	sessionRepo := uow.SessionRepository()
	s, err := sessionRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = s.RecordLocation(cmd.Location()); err != nil {
		return err
	}

	if err = sessionRepo.Update(ctx, s); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.publish(ctx, events.LocationUpdated{Order: cmd.OrderID(), Location: cmd.Location()})
	return nil
}
