package memory

import (
	"context"

	"delivertrack/internal/core/ports"
)

// UnitOfWorkFactory creates units of work bound to one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork holds the store exclusively between Begin and Commit or Rollback. Rollback
// restores the state captured at Begin.
type UnitOfWork struct {
	store    *Store
	snapshot *state
}

// Begin waits for exclusive access to the store. Calling Begin twice is a no-op.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.snapshot != nil {
		return nil
	}

	if err := uow.store.acquire(ctx); err != nil {
		return err
	}
	snapshot := uow.store.state.clone()
	uow.snapshot = &snapshot
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.snapshot == nil {
		return ErrNoActiveTransaction
	}

	uow.snapshot = nil
	uow.store.release()
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.snapshot == nil {
		return ErrNoActiveTransaction
	}

	uow.store.state = *uow.snapshot
	uow.snapshot = nil
	uow.store.release()
	return nil
}

// OrderRepository returns a repository that runs inside the transaction when one is
// active, and takes the store per call otherwise.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: uow.store, inTx: uow.snapshot != nil}
}

// SessionRepository mirrors OrderRepository for delivery sessions.
func (uow *UnitOfWork) SessionRepository() ports.SessionRepository {
	return &SessionRepository{store: uow.store, inTx: uow.snapshot != nil}
}
