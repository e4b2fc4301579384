package commands

import (
	"errors"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand represents a delivery partner picking an order up.
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.ID
	partnerID kernel.ID

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand creates the command. Both ids must be valid.
func NewStartDeliveryCommand(orderID kernel.ID, partnerID kernel.ID) (StartDeliveryCommand, error) {
	cmd := StartDeliveryCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		orderID.Validate(),
		partnerID.Validate(),
	); err != nil {
		return StartDeliveryCommand{}, err
	}
	cmd.orderID = orderID
	cmd.partnerID = partnerID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

func (c StartDeliveryCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c StartDeliveryCommand) DeliveryPartnerID() kernel.ID {
	return c.partnerID
}
