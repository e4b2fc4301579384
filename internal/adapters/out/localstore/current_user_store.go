// Package localstore persists the signed-in user on the local filesystem, one JSON
// document per key.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/pkg/errs"
)

// AuthKey names the record holding the current user.
const AuthKey = "delivertrack_auth"

type userRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CurrentUserStore implements ports.CurrentUserStore on top of a file in dir.
type CurrentUserStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewCurrentUserStore creates dir when missing and returns a store writing AuthKey into it.
func NewCurrentUserStore(dir string, logger *slog.Logger) (*CurrentUserStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create auth store directory: %w", err)
	}

	return &CurrentUserStore{
		path:   filepath.Join(dir, AuthKey+".json"),
		logger: logger.With("component", "CurrentUserStore"),
	}, nil
}

// Save replaces the stored user. The file is written next to its final name and renamed
// so a reader never sees a partial record.
func (s *CurrentUserStore) Save(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(userRecord{
		ID:    u.ID().String(),
		Name:  u.Name(),
		Email: u.Email(),
		Role:  u.Role().String(),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load returns the stored user. A missing file and an unreadable record both read as
// nobody signed in; the latter is logged.
func (s *CurrentUserStore) Load(ctx context.Context) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.NewObjectNotFoundError("current user", AuthKey)
	}
	if err != nil {
		return nil, err
	}

	u, err := decode(data)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable current user record", "path", s.path, "error", err)
		return nil, errs.NewObjectNotFoundErrorWithCause("current user", AuthKey, err)
	}
	return u, nil
}

// Clear removes the stored user.
func (s *CurrentUserStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func decode(data []byte) (*user.User, error) {
	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	id, err := kernel.IDFromString(rec.ID)
	if err != nil {
		return nil, err
	}
	role, err := user.ParseRole(rec.Role)
	if err != nil {
		return nil, err
	}
	return user.NewUser(id, rec.Name, rec.Email, role)
}
