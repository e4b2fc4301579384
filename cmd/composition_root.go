package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httpin "delivertrack/internal/adapters/in/http"
	"delivertrack/internal/adapters/out/kafka"
	"delivertrack/internal/adapters/out/localstore"
	"delivertrack/internal/adapters/out/memory"
	"delivertrack/internal/adapters/out/postgres"
	"delivertrack/internal/adapters/out/realtime"
	"delivertrack/internal/core/application/usecases/commands"
	"delivertrack/internal/core/application/usecases/queries"
	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/ports"
	"delivertrack/internal/jobs"
	"delivertrack/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CompositionRoot struct {
	config Config
	logger *slog.Logger

	uowFactory  ports.UnitOfWorkFactory
	partners    ports.PartnerDirectory
	currentUser ports.CurrentUserStore

	metrics     *metrics.Metrics
	hub         *realtime.Hub
	publisher   ports.EventPublisher
	simulations *jobs.SimulationManager

	closers []func() error
}

// NewCompositionRoot wires the application for config. In memory mode the store starts
// from the seed data; in postgres mode the schema is migrated and seeded when empty.
func NewCompositionRoot(ctx context.Context, config Config, log *slog.Logger) (*CompositionRoot, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &CompositionRoot{config: config, logger: log, metrics: metrics.New()}

	if err := c.openStorage(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	currentUser, err := localstore.NewCurrentUserStore(config.AuthDir, log)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.currentUser = currentUser
	c.partners = memory.NewPartnerDirectory(memory.SeedDeliveryPartners())

	c.hub = realtime.NewHub(c.metrics, log)
	fanout := realtime.Fanout{c.hub}
	if config.KafkaEnabled() {
		producer, err := kafka.NewSyncProducer(config.KafkaBrokers)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		publisher, err := kafka.NewPublisher(producer, kafka.Topics{
			Status:   config.KafkaStatusTopic,
			Location: config.KafkaLocationTopic,
		}, log)
		if err != nil {
			return nil, errors.Join(err, producer.Close(), c.Close())
		}
		c.closers = append(c.closers, publisher.Close)
		fanout = append(fanout, publisher)
	}
	c.publisher = fanout

	c.simulations = jobs.NewSimulationManager(
		c.CreateUpdateLocationCommandHandler(),
		c.CreateGetDeliverySessionQueryHandler(),
		config.SimulationInterval,
		c.metrics,
		log,
	)
	// A delivered order has nothing left to simulate.
	c.hub.OnDeliveryStatusChange(func(e events.DeliveryStatusChanged) {
		if e.Status == order.Delivered {
			c.simulations.Stop(e.Order)
		}
	})

	return c, nil
}

func (c *CompositionRoot) openStorage(ctx context.Context) error {
	switch c.config.Storage {
	case StoragePostgres:
		db, err := postgres.Open(
			postgres.DSN(c.config.DBHost, c.config.DBPort, c.config.DBUser, c.config.DBPassword,
				c.config.DBName, c.config.DBSslMode),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Warn)},
		)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, sqlDB.Close)
		}
		if err = postgres.Migrate(db); err != nil {
			return err
		}

		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)

		empty, err := postgres.IsEmpty(ctx, db)
		if err != nil {
			return err
		}
		if empty {
			c.logger.InfoContext(ctx, "seeding empty database")
			return memory.Seed(ctx, c.uowFactory, time.Now())
		}
		return nil
	default:
		store, err := memory.NewSeededStore(ctx, time.Now())
		if err != nil {
			return err
		}
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		return nil
	}
}

// Close stops the simulations and releases the storage and broker connections.
func (c *CompositionRoot) Close() error {
	if c.simulations != nil {
		c.simulations.StopAll()
	}
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) Hub() *realtime.Hub {
	return c.hub
}

func (c *CompositionRoot) Simulations() *jobs.SimulationManager {
	return c.simulations
}

func (c *CompositionRoot) CreateAssignDeliveryPartnerCommandHandler() commands.AssignDeliveryPartnerCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDeliveryPartnerCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartDeliveryCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	var f commands.SessionUoWFactory = FuncSessionUoWFactory(func() commands.SessionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateLocationCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAuthCommandHandler() commands.AuthCommandHandler {
	return commands.NewAuthCommandHandler(c.currentUser)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.uowFactory.Create())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create())
}

func (c *CompositionRoot) CreateGetDeliverySessionQueryHandler() queries.GetDeliverySessionQueryHandler {
	return queries.NewGetDeliverySessionQueryHandler(c.uowFactory.Create())
}

func (c *CompositionRoot) CreateGetDeliveryPartnersQueryHandler() queries.GetDeliveryPartnersQueryHandler {
	return queries.NewGetDeliveryPartnersQueryHandler(c.partners)
}

func (c *CompositionRoot) CreateGetCurrentUserQueryHandler() queries.GetCurrentUserQueryHandler {
	return queries.NewGetCurrentUserQueryHandler(c.currentUser)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		httpin.Commands{
			AssignDeliveryPartner: c.CreateAssignDeliveryPartnerCommandHandler(),
			StartDelivery:         c.CreateStartDeliveryCommandHandler(),
			CompleteDelivery:      c.CreateCompleteDeliveryCommandHandler(),
			UpdateLocation:        c.CreateUpdateLocationCommandHandler(),
			Auth:                  c.CreateAuthCommandHandler(),
		},
		httpin.Queries{
			GetOrders:           c.CreateGetOrdersQueryHandler(),
			GetOrder:            c.CreateGetOrderQueryHandler(),
			GetDeliverySession:  c.CreateGetDeliverySessionQueryHandler(),
			GetDeliveryPartners: c.CreateGetDeliveryPartnersQueryHandler(),
			GetCurrentUser:      c.CreateGetCurrentUserQueryHandler(),
		},
		c.simulations,
		c.hub,
		c.logger,
	)
}

// NewEcho builds the web server with the API, health, metrics and contract routes.
func (c *CompositionRoot) NewEcho() (*echo.Echo, error) {
	doc, err := httpin.GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := httpin.NewRequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpin.NewErrorHandler(c.logger)
	e.Use(middleware.Recover())
	e.Use(c.metrics.Middleware())
	e.Use(validator)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	e.GET("/api/v1/openapi.yaml", httpin.SpecHandler)

	httpin.RegisterHandlers(e, c.CreateServer())
	return e, nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncSessionUoWFactory func() commands.SessionUoW

func (f FuncSessionUoWFactory) Create() commands.SessionUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
