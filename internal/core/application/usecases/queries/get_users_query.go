package queries

import (
	"context"
	"errors"

	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/core/ports"
	"delivertrack/internal/pkg/errs"
)

// GetDeliveryPartnersQueryHandler lists the partners a vendor can assign.
type GetDeliveryPartnersQueryHandler struct {
	directory ports.PartnerDirectory
}

func NewGetDeliveryPartnersQueryHandler(directory ports.PartnerDirectory) GetDeliveryPartnersQueryHandler {
	return GetDeliveryPartnersQueryHandler{directory: directory}
}

func (h GetDeliveryPartnersQueryHandler) Handle(ctx context.Context) ([]UserResponse, error) {
	partners, err := h.directory.ListDeliveryPartners(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserResponse, 0, len(partners))
	for _, p := range partners {
		result = append(result, NewUserResponse(p))
	}
	return result, nil
}

// GetCurrentUserQueryHandler answers who is signed in and with which role.
type GetCurrentUserQueryHandler struct {
	store ports.CurrentUserStore
}

func NewGetCurrentUserQueryHandler(store ports.CurrentUserStore) GetCurrentUserQueryHandler {
	return GetCurrentUserQueryHandler{store: store}
}

// Handle returns the current user or an errs.ErrObjectNotFound error when nobody is
// signed in.
func (h GetCurrentUserQueryHandler) Handle(ctx context.Context) (UserResponse, error) {
	u, err := h.store.Load(ctx)
	if err != nil {
		return UserResponse{}, err
	}
	return NewUserResponse(u), nil
}

// IsAuthenticated reports whether a user is signed in.
func (h GetCurrentUserQueryHandler) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := h.store.Load(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	return err == nil, err
}

// HasRole reports whether the signed-in user has the role. Nobody signed in means false.
func (h GetCurrentUserQueryHandler) HasRole(ctx context.Context, role user.Role) (bool, error) {
	u, err := h.store.Load(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID().String(),
		Name:  u.Name(),
		Email: u.Email(),
		Role:  u.Role().String(),
	}
}
