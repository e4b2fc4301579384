// Package user contains the User entity and its fixed roles.
package user

import (
	"errors"
	"strings"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/errs"
)

// ErrUserIsNotConstructed is returned when a User was not created through NewUser.
var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

// User is a vendor, delivery partner or customer. The role is fixed at creation.
type User struct {
	id    kernel.ID
	name  string
	email string
	role  Role

	isConstructed bool
}

// NewUser validates and creates a user. Name and email must not be blank.
func NewUser(id kernel.ID, name string, email string, role Role) (*User, error) {
	var err error
	if idErr := id.Validate(); idErr != nil {
		err = errors.Join(err, idErr)
	}
	if strings.TrimSpace(name) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("name"))
	}
	if strings.TrimSpace(email) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("email"))
	}
	if roleErr := role.Validate(); roleErr != nil {
		err = errors.Join(err, roleErr)
	}
	if err != nil {
		return nil, err
	}

	return &User{
		id:            id,
		name:          name,
		email:         email,
		role:          role,
		isConstructed: true,
	}, nil
}

// NameFromEmail derives a display name from the local part of an email address.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// Validate ensures the user was properly constructed.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.ID { return u.id }

func (u *User) Name() string { return u.name }

func (u *User) Email() string { return u.email }

func (u *User) Role() Role { return u.role }

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	return u != nil && u.role == role
}

// IsEqual reports whether both users have the same id, name, email and role.
func (u *User) IsEqual(other *User) bool {
	return other != nil &&
		u.id.IsEqual(other.id) &&
		u.name == other.name &&
		u.email == other.email &&
		u.role == other.role
}
