package memory

import (
	"context"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/pkg/errs"
)

// SessionRepository implements ports.SessionRepository over a Store.
type SessionRepository struct {
	store *Store
	inTx  bool
}

func (r *SessionRepository) with(ctx context.Context, fn func(st *state) error) error {
	if !r.inTx {
		if err := r.store.acquire(ctx); err != nil {
			return err
		}
		defer r.store.release()
	}
	return fn(&r.store.state)
}

func (r *SessionRepository) Add(ctx context.Context, aggregate *session.DeliverySession) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.with(ctx, func(st *state) error {
		key := aggregate.OrderID().String()
		if _, ok := st.sessions[key]; ok {
			return session.ErrDeliverySessionAlreadyExists
		}
		st.sessions[key] = sessionRecordFromDomain(aggregate)
		return nil
	})
}

func (r *SessionRepository) Update(ctx context.Context, aggregate *session.DeliverySession) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.with(ctx, func(st *state) error {
		key := aggregate.OrderID().String()
		if _, ok := st.sessions[key]; !ok {
			return errs.NewObjectNotFoundError("delivery session", aggregate.OrderID())
		}
		st.sessions[key] = sessionRecordFromDomain(aggregate)
		return nil
	})
}

func (r *SessionRepository) Get(ctx context.Context, orderID kernel.ID) (*session.DeliverySession, error) {
	var result *session.DeliverySession
	err := r.with(ctx, func(st *state) error {
		rec, ok := st.sessions[orderID.String()]
		if !ok {
			return errs.NewObjectNotFoundError("delivery session", orderID)
		}
		s, err := rec.toDomain()
		result = s
		return err
	})
	return result, err
}
