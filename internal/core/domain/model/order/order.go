package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoDeliveryPartner is returned when completing an order that was never
	// given a delivery partner.
	ErrOrderHasNoDeliveryPartner = errs.NewValueIsInvalidErrorWithCause(
		"delivery partner",
		errors.New("an order without a delivery partner cannot be delivered"),
	)
)

// timestampPrecision is the resolution kept for created/updated instants; it matches
// what PostgreSQL stores so values survive a round trip unchanged.
const timestampPrecision = time.Microsecond

// Order represents a single delivery request. It is the aggregate root of the order
// store.
//
// Order follows these invariants:
//   - id, vendor id and customer id are always valid
//   - status is one of the four lifecycle values
//   - a delivery partner is present if and only if the status is assigned, in_transit
//     or delivered
//   - every mutation moves updatedAt strictly forward
//
// Transitions are permissive about the starting status: a delivery may be started or
// an order reassigned from any status, mirroring the dashboard the service backs.
type Order struct {
	// id is the unique identifier for the order
	id kernel.ID

	// vendorID identifies the vendor who placed the order
	vendorID kernel.ID

	// customerID identifies the recipient
	customerID kernel.ID

	// deliveryPartnerID is the assigned partner (nil while pending)
	deliveryPartnerID *kernel.ID

	// status is the current lifecycle state
	status Status

	// pickupAddress and deliveryAddress are free text
	pickupAddress   string
	deliveryAddress string

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a pending order with no delivery partner.
//
// Parameters:
//   - id: unique identifier for the order
//   - vendorID, customerID: the parties linked by the order
//   - pickupAddress, deliveryAddress: free text, must not be blank
//   - createdAt: creation instant, also used as the first updated instant
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: every validation failure joined together
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewID(), vendorID, customerID,
//	    "123 Vendor St, New York, NY", "456 Customer Ave, New York, NY", time.Now())
func NewOrder(
	id kernel.ID,
	vendorID kernel.ID,
	customerID kernel.ID,
	pickupAddress string,
	deliveryAddress string,
	createdAt time.Time,
) (*Order, error) {
	return RestoreOrder(id, vendorID, customerID, nil, Pending, pickupAddress, deliveryAddress, createdAt, createdAt)
}

// RestoreOrder rebuilds an order from persisted state. It applies the same validation
// as NewOrder plus the status/partner lockstep rule.
func RestoreOrder(
	id kernel.ID,
	vendorID kernel.ID,
	customerID kernel.ID,
	deliveryPartnerID *kernel.ID,
	status Status,
	pickupAddress string,
	deliveryAddress string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setParties(vendorID, customerID),
		o.setAddresses(pickupAddress, deliveryAddress),
		o.setTimestamps(createdAt, updatedAt),
		o.setStatus(status, deliveryPartnerID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.ID {
	return o.id
}

// VendorID returns the vendor's identifier.
func (o *Order) VendorID() kernel.ID {
	return o.vendorID
}

// CustomerID returns the customer's identifier.
func (o *Order) CustomerID() kernel.ID {
	return o.customerID
}

// DeliveryPartnerID returns the assigned partner, or nil while the order is pending.
func (o *Order) DeliveryPartnerID() *kernel.ID {
	if o.deliveryPartnerID == nil {
		return nil
	}
	id := *o.deliveryPartnerID
	return &id
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// PickupAddress returns where the parcel is collected.
func (o *Order) PickupAddress() string {
	return o.pickupAddress
}

// DeliveryAddress returns where the parcel is dropped off.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// CreatedAt returns the creation instant.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the instant of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// AssignDeliveryPartner attaches a partner and moves the order to Assigned.
//
// The assignment is unconditional: an order may be reassigned whatever its current
// status, and the updated instant is refreshed every time.
//
// Example:
//
//	partnerID := kernel.MustIDFromString("d-3")
//	if err := o.AssignDeliveryPartner(partnerID, time.Now()); err != nil {
//	    return err
//	}
//	// o.Status() == order.Assigned
func (o *Order) AssignDeliveryPartner(partnerID kernel.ID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	o.deliveryPartnerID = &partnerID
	o.status = Assigned
	o.touch(now)
	return nil
}

// StartDelivery moves the order to InTransit.
//
// partnerID is the partner starting the delivery. It becomes the order's delivery
// partner when none was assigned yet; an existing assignment is left as is.
func (o *Order) StartDelivery(partnerID kernel.ID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	if o.deliveryPartnerID == nil {
		o.deliveryPartnerID = &partnerID
	}
	o.status = InTransit
	o.touch(now)
	return nil
}

// Complete marks the order as Delivered.
//
// The previous status is not checked, but an order must carry a delivery partner to be
// delivered; otherwise ErrOrderHasNoDeliveryPartner is returned and nothing changes.
func (o *Order) Complete(now time.Time) error {
	if o.deliveryPartnerID == nil {
		return ErrOrderHasNoDeliveryPartner
	}

	o.status = Delivered
	o.touch(now)
	return nil
}

// touch moves updatedAt to now, or one tick past the previous value when the clock
// has not advanced since the last mutation.
func (o *Order) touch(now time.Time) {
	now = now.Truncate(timestampPrecision)
	if !now.After(o.updatedAt) {
		now = o.updatedAt.Add(timestampPrecision)
	}
	o.updatedAt = now
}

func (o *Order) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(vendorID kernel.ID, customerID kernel.ID) error {
	if err := errors.Join(vendorID.Validate(), customerID.Validate()); err != nil {
		return err
	}
	o.vendorID = vendorID
	o.customerID = customerID
	return nil
}

func (o *Order) setAddresses(pickup string, delivery string) error {
	var err error
	if strings.TrimSpace(pickup) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("pickup address"))
	}
	if strings.TrimSpace(delivery) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("delivery address"))
	}
	if err != nil {
		return err
	}

	o.pickupAddress = pickup
	o.deliveryAddress = delivery
	return nil
}

func (o *Order) setTimestamps(createdAt time.Time, updatedAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	if updatedAt.Before(createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"updated at",
			fmt.Errorf("%s is before creation %s", updatedAt.Format(time.RFC3339), createdAt.Format(time.RFC3339)),
		)
	}

	o.createdAt = createdAt.Truncate(timestampPrecision)
	o.updatedAt = updatedAt.Truncate(timestampPrecision)
	return nil
}

func (o *Order) setStatus(status Status, partnerID *kernel.ID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if partnerID != nil {
		if err := partnerID.Validate(); err != nil {
			return err
		}
	}
	if err := status.ValidateCanHaveDeliveryPartner(partnerID != nil); err != nil {
		return err
	}

	o.status = status
	if partnerID != nil {
		id := *partnerID
		o.deliveryPartnerID = &id
	}
	return nil
}
