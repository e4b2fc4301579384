package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/core/ports"
	"delivertrack/internal/pkg/errs"
)

// StartDeliveryCommandHandler opens the delivery session of an order.
//
// Starting is idempotent per order: when a session already exists it is returned as is
// and neither the order nor the session changes. Otherwise the order moves to in_transit
// and a session seeded at the origin is created in the same transaction. A concurrent
// start that stores its session first wins, and the loser returns that session.
type StartDeliveryCommandHandler struct {
	uowFactory UoWFactory
	events     eventSink
}

func NewStartDeliveryCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		events:     newEventSink(publisher, logger),
	}
}

// Handle returns the order's session, creating it when needed.
// Returns errs.ErrObjectNotFound when the order does not exist.
func (h StartDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd StartDeliveryCommand,
) (*session.DeliverySession, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sessionRepo := uow.SessionRepository()
	existing, err := sessionRepo.Get(ctx, cmd.OrderID())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err = o.StartDelivery(cmd.DeliveryPartnerID(), now); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	seed, err := kernel.NewLocation(session.OriginLat, session.OriginLng, now)
	if err != nil {
		return nil, err
	}
	s, err := session.NewDeliverySession(o.ID(), cmd.DeliveryPartnerID(), seed)
	if err != nil {
		return nil, err
	}
	if err = sessionRepo.Add(ctx, s); err != nil {
		if errors.Is(err, session.ErrDeliverySessionAlreadyExists) {
			_ = uow.Rollback(ctx)
			return h.existingSession(ctx, cmd.OrderID())
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.publish(ctx, events.DeliveryStatusChanged{Order: o.ID(), Status: o.Status()})
	return s, nil
}

func (h StartDeliveryCommandHandler) existingSession(
	ctx context.Context,
	orderID kernel.ID,
) (*session.DeliverySession, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.SessionRepository().Get(ctx, orderID)
}
