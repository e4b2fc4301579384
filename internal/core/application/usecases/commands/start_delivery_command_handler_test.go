package commands_test

import (
	"errors"
	"testing"

	"delivertrack/internal/core/application/usecases/commands"
	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartDeliveryCommandHandler_Handle_CreatesSeededSession(t *testing.T) {
	ctx := t.Context()
	o := newAssignedOrder("ord-2", "d-1")
	cmd, _ := commands.NewStartDeliveryCommand(o.ID(), kernel.MustIDFromString("d-1"))

	sessions := new(MockSessionRepository)
	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SessionRepository").Return(sessions).Once(),
		sessions.On("Get", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("delivery session", o.ID())).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orders.On("Update", ctx, o).Return(nil).Once(),
		sessions.On("Add", ctx, mock.AnythingOfType("*session.DeliverySession")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, events.DeliveryStatusChanged{Order: o.ID(), Status: order.InTransit}).
			Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartDeliveryCommandHandler(factory, publisher, nil)
	s, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.InTransit, o.Status())
	require.Equal(t, 1, s.RouteLen())
	current := s.CurrentLocation()
	require.NotNil(t, current)
	assert.True(t, current.IsEqual(s.Route()[0]))
	assert.InDelta(t, session.OriginLat, current.Lat(), 1e-9)
	assert.InDelta(t, session.OriginLng, current.Lng(), 1e-9)
	require.NotNil(t, s.StartedAt())
	assert.Nil(t, s.EndedAt())

	uow.AssertExpectations(t)
	orders.AssertExpectations(t)
	sessions.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestStartDeliveryCommandHandler_Handle_ExistingSessionIsReturnedUnchanged(t *testing.T) {
	ctx := t.Context()
	existing := newSession("ord-3", "d-1")
	cmd, _ := commands.NewStartDeliveryCommand(existing.OrderID(), kernel.MustIDFromString("d-2"))

	sessions := new(MockSessionRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SessionRepository").Return(sessions).Once(),
		sessions.On("Get", ctx, existing.OrderID()).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockEventPublisher)

	h := commands.NewStartDeliveryCommandHandler(factory, publisher, nil)
	s, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Same(t, existing, s)
	assert.Equal(t, "d-1", s.DeliveryPartnerID().String())
	assert.Equal(t, 1, s.RouteLen())

	uow.AssertNotCalled(t, "OrderRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestStartDeliveryCommandHandler_Handle_UnknownOrder(t *testing.T) {
	ctx := t.Context()
	id := kernel.MustIDFromString("missing")
	cmd, _ := commands.NewStartDeliveryCommand(id, kernel.MustIDFromString("d-1"))

	sessions := new(MockSessionRepository)
	sessions.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("delivery session", id)).Once()
	orders := new(MockOrderRepository)
	orders.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(sessions).Once()
	uow.On("OrderRepository").Return(orders).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartDeliveryCommandHandler(factory, nil, nil)
	s, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Nil(t, s)
	sessions.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestStartDeliveryCommandHandler_Handle_SessionLookupError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewStartDeliveryCommand(kernel.MustIDFromString("ord-2"), kernel.MustIDFromString("d-1"))

	sessions := new(MockSessionRepository)
	sessions.On("Get", ctx, cmd.OrderID()).Return(nil, errors.New("connection reset")).Once()
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(sessions).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartDeliveryCommandHandler(factory, nil, nil)
	_, err := h.Handle(ctx, cmd)
	require.EqualError(t, err, "connection reset")
	uow.AssertNotCalled(t, "OrderRepository")
}

func TestStartDeliveryCommandHandler_Handle_ConcurrentStartReturnsStoredSession(t *testing.T) {
	ctx := t.Context()
	o := newAssignedOrder("ord-2", "d-1")
	stored := newSession("ord-2", "d-1")
	cmd, _ := commands.NewStartDeliveryCommand(o.ID(), kernel.MustIDFromString("d-1"))

	sessions := new(MockSessionRepository)
	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SessionRepository").Return(sessions).Once(),
		sessions.On("Get", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("delivery session", o.ID())).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orders.On("Update", ctx, o).Return(nil).Once(),
		sessions.On("Add", ctx, mock.AnythingOfType("*session.DeliverySession")).
			Return(session.ErrDeliverySessionAlreadyExists).Once(),
	)
	uow.On("Rollback", ctx).Return(nil)

	rereadSessions := new(MockSessionRepository)
	reread := new(MockUoW)
	mock.InOrder(
		reread.On("Begin", ctx).Return(nil).Once(),
		reread.On("SessionRepository").Return(rereadSessions).Once(),
		rereadSessions.On("Get", ctx, o.ID()).Return(stored, nil).Once(),
		reread.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	factory.On("Create").Return(reread).Once()
	publisher := new(MockEventPublisher)

	h := commands.NewStartDeliveryCommandHandler(factory, publisher, nil)
	s, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Same(t, stored, s)

	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", ctx)
	reread.AssertExpectations(t)
	rereadSessions.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
