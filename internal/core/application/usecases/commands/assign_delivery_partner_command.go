package commands

import (
	"errors"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/guard"
)

var ErrAssignDeliveryPartnerCommandIsNotConstructed = errors.New(
	"AssignDeliveryPartnerCommand must be created via NewAssignDeliveryPartnerCommand constructor",
)

// AssignDeliveryPartnerCommand represents a vendor handing an order to a delivery partner.
//
// Example:
//
//	cmd, err := NewAssignDeliveryPartnerCommand(
//	    kernel.MustIDFromString("ord-1"),
//	    kernel.MustIDFromString("d-3"),
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type AssignDeliveryPartnerCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.ID
	partnerID kernel.ID

	guard guard.ConstructorGuard
}

// NewAssignDeliveryPartnerCommand creates an assignment command. Both ids must be valid.
func NewAssignDeliveryPartnerCommand(orderID kernel.ID, partnerID kernel.ID) (AssignDeliveryPartnerCommand, error) {
	cmd := AssignDeliveryPartnerCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPartnerID(partnerID),
	); err != nil {
		return AssignDeliveryPartnerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryPartnerCommandIsNotConstructed)
}

// OrderID returns the order being assigned.
func (c AssignDeliveryPartnerCommand) OrderID() kernel.ID {
	return c.orderID
}

// DeliveryPartnerID returns the partner receiving the order.
func (c AssignDeliveryPartnerCommand) DeliveryPartnerID() kernel.ID {
	return c.partnerID
}

func (c *AssignDeliveryPartnerCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AssignDeliveryPartnerCommand) setPartnerID(partnerID kernel.ID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = partnerID
	return nil
}
