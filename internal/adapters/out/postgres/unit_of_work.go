// Package postgres provides the GORM-based Unit of Work spanning the order and delivery
// session repositories.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.SessionRepository().Update(ctx, s); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance owns at most one transaction; goroutines must not share one.
// Repositories obtained without an active transaction run directly on the connection pool.
package postgres

import (
	"context"

	"delivertrack/internal/adapters/out/postgres/orderrepo"
	"delivertrack/internal/adapters/out/postgres/sessionrepo"
	"delivertrack/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using one GORM connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction. Repositories handed out while a
// transaction is active are reused until it ends.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB

	orders   *orderrepo.GormOrderRepository
	sessions *sessionrepo.GormSessionRepository
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	uow.orders = orderrepo.NewGormOrderRepository(tx)
	uow.sessions = sessionrepo.NewGormSessionRepository(tx)
	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.reset()
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active, which callers deferring
// Rollback after a successful Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.reset()
	return err
}

// OrderRepository provides order persistence within the current transaction, or on the
// connection pool when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	if uow.orders != nil {
		return uow.orders
	}
	return orderrepo.NewGormOrderRepository(uow.db)
}

// SessionRepository provides session persistence, bound like OrderRepository.
func (uow *GormUnitOfWork) SessionRepository() ports.SessionRepository {
	if uow.sessions != nil {
		return uow.sessions
	}
	return sessionrepo.NewGormSessionRepository(uow.db)
}

func (uow *GormUnitOfWork) reset() {
	uow.tx = nil
	uow.orders = nil
	uow.sessions = nil
}
