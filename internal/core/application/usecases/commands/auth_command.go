package commands

import (
	"errors"
	"strings"

	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/pkg/errs"
	"delivertrack/internal/pkg/guard"
)

var (
	ErrLoginCommandIsNotConstructed = errors.New(
		"LoginCommand must be created via NewLoginCommand constructor",
	)
	ErrRegisterCommandIsNotConstructed = errors.New(
		"RegisterCommand must be created via NewRegisterCommand constructor",
	)
)

// LoginCommand signs a user in with a chosen role.
//
// The dashboard authenticates nobody: the password must be present but is never checked,
// and each sign-in produces a fresh user id.
type LoginCommand struct { //nolint:recvcheck //using for validation
	email    string
	password string
	role     user.Role

	guard guard.ConstructorGuard
}

// NewLoginCommand creates the command. Email and password must not be blank and the role
// must be one of vendor, delivery or customer.
func NewLoginCommand(email string, password string, role user.Role) (LoginCommand, error) {
	cmd := LoginCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setCredentials(email, password),
		role.Validate(),
	); err != nil {
		return LoginCommand{}, err
	}
	cmd.role = role

	return cmd, nil
}

func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

func (c LoginCommand) Email() string {
	return c.email
}

func (c LoginCommand) Role() user.Role {
	return c.role
}

func (c *LoginCommand) setCredentials(email string, password string) error {
	email, err := credentials(email, password)
	if err != nil {
		return err
	}
	c.email = email
	c.password = password
	return nil
}

// RegisterCommand signs up a new user with a display name.
type RegisterCommand struct { //nolint:recvcheck //using for validation
	name     string
	email    string
	password string
	role     user.Role

	guard guard.ConstructorGuard
}

// NewRegisterCommand creates the command with the same rules as NewLoginCommand plus a
// required name.
func NewRegisterCommand(name string, email string, password string, role user.Role) (RegisterCommand, error) {
	cmd := RegisterCommand{guard: guard.NewConstructorGuard()}

	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	em, credErr := credentials(email, password)

	if err := errors.Join(nameErr, credErr, role.Validate()); err != nil {
		return RegisterCommand{}, err
	}
	cmd.name = strings.TrimSpace(name)
	cmd.email = em
	cmd.password = password
	cmd.role = role

	return cmd, nil
}

func (c RegisterCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCommandIsNotConstructed)
}

func (c RegisterCommand) Name() string {
	return c.name
}

func (c RegisterCommand) Email() string {
	return c.email
}

func (c RegisterCommand) Role() user.Role {
	return c.role
}

func credentials(email string, password string) (string, error) {
	var err error
	email = strings.TrimSpace(email)
	if email == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("email"))
	}
	if password == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("password"))
	}
	return email, err
}
