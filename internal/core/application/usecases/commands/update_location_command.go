package commands

import (
	"errors"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errors.New(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand carries one location sample for an order's delivery session.
// Samples come from the partner's device or from the location simulator.
type UpdateLocationCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.ID
	location kernel.Location

	guard guard.ConstructorGuard
}

// NewUpdateLocationCommand creates the command. The order id and the sample must be valid.
func NewUpdateLocationCommand(orderID kernel.ID, location kernel.Location) (UpdateLocationCommand, error) {
	if err := errors.Join(orderID.Validate(), location.Validate()); err != nil {
		return UpdateLocationCommand{}, err
	}

	return UpdateLocationCommand{
		orderID:  orderID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}

func (c UpdateLocationCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c UpdateLocationCommand) Location() kernel.Location {
	return c.location
}
