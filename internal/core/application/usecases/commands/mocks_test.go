package commands_test

import (
	"context"
	"time"

	"delivertrack/internal/core/application/usecases/commands"
	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetByVendor(ctx context.Context, id kernel.ID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCustomer(ctx context.Context, id kernel.ID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByDeliveryPartner(ctx context.Context, id kernel.ID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Add(ctx context.Context, s *session.DeliverySession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *session.DeliverySession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id kernel.ID) (*session.DeliverySession, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*session.DeliverySession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) SessionRepository() ports.SessionRepository {
	args := m.Called()
	return args.Get(0).(ports.SessionRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockSessionUoWFactory struct{ mock.Mock }

func (m *MockSessionUoWFactory) Create() commands.SessionUoW {
	args := m.Called()
	return args.Get(0).(commands.SessionUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockCurrentUserStore struct{ mock.Mock }

func (m *MockCurrentUserStore) Save(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockCurrentUserStore) Load(ctx context.Context) (*user.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCurrentUserStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newPendingOrder(id string) *order.Order {
	o, err := order.NewOrder(
		kernel.MustIDFromString(id),
		kernel.MustIDFromString("v-1"),
		kernel.MustIDFromString("c-1"),
		"123 Vendor St, New York, NY",
		"456 Customer Ave, New York, NY",
		time.Now().Add(-time.Hour),
	)
	if err != nil {
		panic(err)
	}
	return o
}

func newAssignedOrder(id string, partner string) *order.Order {
	o := newPendingOrder(id)
	if err := o.AssignDeliveryPartner(kernel.MustIDFromString(partner), time.Now().Add(-time.Minute)); err != nil {
		panic(err)
	}
	return o
}

func newSession(orderID string, partner string) *session.DeliverySession {
	seed, err := kernel.NewLocation(session.OriginLat, session.OriginLng, time.Now().Add(-time.Minute))
	if err != nil {
		panic(err)
	}
	s, err := session.NewDeliverySession(kernel.MustIDFromString(orderID), kernel.MustIDFromString(partner), seed)
	if err != nil {
		panic(err)
	}
	return s
}
