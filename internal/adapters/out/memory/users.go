package memory

import (
	"context"
	"slices"
	"sync"

	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/pkg/errs"
)

// PartnerDirectory serves a fixed list of delivery partners.
type PartnerDirectory struct {
	partners []*user.User
}

func NewPartnerDirectory(partners []*user.User) *PartnerDirectory {
	return &PartnerDirectory{partners: slices.Clone(partners)}
}

func (d *PartnerDirectory) ListDeliveryPartners(_ context.Context) ([]*user.User, error) {
	return slices.Clone(d.partners), nil
}

// CurrentUserStore keeps the signed-in user in memory. It is used when no directory is
// configured for the file-backed store.
type CurrentUserStore struct {
	mu   sync.RWMutex
	user *user.User
}

func NewCurrentUserStore() *CurrentUserStore {
	return &CurrentUserStore{}
}

func (s *CurrentUserStore) Save(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	return nil
}

func (s *CurrentUserStore) Load(_ context.Context) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, errs.NewObjectNotFoundError("current user", "none")
	}
	return s.user, nil
}

func (s *CurrentUserStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}
