package commands

import (
	"context"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/core/ports"
)

// AuthCommandHandler handles sign-in, sign-up and sign-out against the current-user store.
//
// Example:
//
//	handler := NewAuthCommandHandler(store)
//	cmd, _ := NewLoginCommand("vendor@example.com", "secret", user.Vendor)
//	u, err := handler.Login(ctx, cmd)
//	// u.Name() == "vendor"
type AuthCommandHandler struct {
	store ports.CurrentUserStore
}

func NewAuthCommandHandler(store ports.CurrentUserStore) AuthCommandHandler {
	return AuthCommandHandler{store: store}
}

// Login creates a user named after the email's local part and stores it as current.
func (h AuthCommandHandler) Login(ctx context.Context, cmd LoginCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := user.NewUser(kernel.NewID(), user.NameFromEmail(cmd.Email()), cmd.Email(), cmd.Role())
	if err != nil {
		return nil, err
	}

	if err = h.store.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a user with the given name and stores it as current.
func (h AuthCommandHandler) Register(ctx context.Context, cmd RegisterCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := user.NewUser(kernel.NewID(), cmd.Name(), cmd.Email(), cmd.Role())
	if err != nil {
		return nil, err
	}

	if err = h.store.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout forgets the current user.
func (h AuthCommandHandler) Logout(ctx context.Context) error {
	return h.store.Clear(ctx)
}
