package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"delivertrack/internal/adapters/out/memory"
	postgres_adapter "delivertrack/internal/adapters/out/postgres"
	"delivertrack/internal/core/application/usecases/commands"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/ports"
	"delivertrack/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type uowFactory struct{ inner ports.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type sessionUoWFactory struct{ inner ports.UnitOfWorkFactory }

func (f sessionUoWFactory) Create() commands.SessionUoW { return f.inner.Create() }

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work with a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(dsn, nil)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, delivery_session_locations, delivery_sessions").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSeedThroughUnitOfWork() {
	ctx := context.Background()

	empty, err := postgres_adapter.IsEmpty(ctx, suite.db)
	suite.Require().NoError(err)
	suite.True(empty)

	suite.Require().NoError(memory.Seed(ctx, suite.factory, time.Now()))

	empty, err = postgres_adapter.IsEmpty(ctx, suite.db)
	suite.Require().NoError(err)
	suite.False(empty)

	repo := suite.factory.Create().OrderRepository()
	byVendor, err := repo.GetByVendor(ctx, kernel.MustIDFromString("v-1"))
	suite.Require().NoError(err)
	suite.Len(byVendor, 3)

	s, err := suite.factory.Create().SessionRepository().Get(ctx, kernel.MustIDFromString("ord-3"))
	suite.Require().NoError(err)
	suite.Equal(6, s.RouteLen())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsOrderAndSessionChanges() {
	ctx := context.Background()
	suite.Require().NoError(memory.Seed(ctx, suite.factory, time.Now()))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o, err := uow.OrderRepository().Get(ctx, kernel.MustIDFromString("ord-3"))
	suite.Require().NoError(err)
	suite.Require().NoError(o.Complete(time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))

	s, err := uow.SessionRepository().Get(ctx, kernel.MustIDFromString("ord-3"))
	suite.Require().NoError(err)
	s.Close(time.Now())
	suite.Require().NoError(uow.SessionRepository().Update(ctx, s))

	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, kernel.MustIDFromString("ord-3"))
	suite.Require().NoError(err)
	suite.Equal(order.InTransit, stored.Status())

	storedSession, err := suite.factory.Create().SessionRepository().Get(ctx, kernel.MustIDFromString("ord-3"))
	suite.Require().NoError(err)
	suite.Nil(storedSession.EndedAt())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitMakesChangesVisible() {
	ctx := context.Background()
	suite.Require().NoError(memory.Seed(ctx, suite.factory, time.Now()))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	o, err := uow.OrderRepository().Get(ctx, kernel.MustIDFromString("ord-1"))
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignDeliveryPartner(kernel.MustIDFromString("d-3"), time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	byPartner, err := suite.factory.Create().OrderRepository().GetByDeliveryPartner(ctx, kernel.MustIDFromString("d-3"))
	suite.Require().NoError(err)
	suite.Require().Len(byPartner, 1)
	suite.Equal("ord-1", byPartner[0].ID().String())

	_, err = suite.factory.Create().SessionRepository().Get(ctx, kernel.MustIDFromString("ord-1"))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentLocationUpdatesKeepEverySample() {
	ctx := context.Background()
	suite.Require().NoError(memory.Seed(ctx, suite.factory, time.Now()))
	id := kernel.MustIDFromString("ord-3")
	h := commands.NewUpdateLocationCommandHandler(sessionUoWFactory{suite.factory}, nil, nil)

	const writers = 8
	start := make(chan struct{})
	errc := make(chan error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			loc, err := kernel.NewLocation(40.7+float64(i)*0.001, -74.0, time.Now())
			if err != nil {
				errc <- err
				return
			}
			cmd, err := commands.NewUpdateLocationCommand(id, loc)
			if err != nil {
				errc <- err
				return
			}
			errc <- h.Handle(ctx, cmd)
		}()
	}
	close(start)
	wg.Wait()
	close(errc)
	for err := range errc {
		suite.Require().NoError(err)
	}

	s, err := suite.factory.Create().SessionRepository().Get(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(6+writers, s.RouteLen())
	suite.Require().NotNil(s.CurrentLocation())
	suite.True(s.CurrentLocation().IsEqual(s.Route()[s.RouteLen()-1]))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentStartsShareOneSession() {
	ctx := context.Background()
	suite.Require().NoError(memory.Seed(ctx, suite.factory, time.Now()))
	id := kernel.MustIDFromString("ord-2")
	h := commands.NewStartDeliveryCommandHandler(uowFactory{suite.factory}, nil, nil)

	const starters = 4
	start := make(chan struct{})
	type result struct {
		routeLen  int
		startedAt time.Time
		err       error
	}
	results := make(chan result, starters)
	var wg sync.WaitGroup
	for range starters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			cmd, err := commands.NewStartDeliveryCommand(id, kernel.MustIDFromString("d-1"))
			if err != nil {
				results <- result{err: err}
				return
			}
			s, err := h.Handle(ctx, cmd)
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{routeLen: s.RouteLen(), startedAt: *s.StartedAt()}
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	stored, err := suite.factory.Create().SessionRepository().Get(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(1, stored.RouteLen())
	for r := range results {
		suite.Require().NoError(r.err)
		suite.Equal(1, r.routeLen)
		suite.True(r.startedAt.Equal(*stored.StartedAt()))
	}
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
