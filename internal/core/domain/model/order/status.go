package order

import (
	"fmt"

	"delivertrack/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Assigned ──> InTransit ──> Delivered
//
// The sequence is strictly forward and Delivered is final. The string values are the
// wire and storage representation.
type Status string

const (
	// Pending is the status of a freshly placed order with no delivery partner.
	Pending Status = "pending"

	// Assigned indicates a delivery partner has been attached to the order.
	Assigned Status = "assigned"

	// InTransit indicates the partner has started the delivery and is being tracked.
	InTransit Status = "in_transit"

	// Delivered is the final status.
	Delivered Status = "delivered"
)

// rank orders the statuses along the lifecycle; unknown values rank 0.
func (s Status) rank() int {
	switch s {
	case Pending:
		return 1
	case Assigned:
		return 2
	case InTransit:
		return 3
	case Delivered:
		return 4
	default:
		return 0
	}
}

// ParseStatus converts a raw value from storage or the API into a Status.
//
// Returns:
//   - the Status when raw is one of pending, assigned, in_transit, delivered
//   - ValueIsInvalidError otherwise
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks that the status is one of the four lifecycle values.
func (s Status) Validate() error {
	if s.rank() == 0 {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsFinal reports whether no transition leaves this status.
func (s Status) IsFinal() bool {
	return s == Delivered
}

// IsBefore reports whether s comes strictly earlier in the lifecycle than other.
func (s Status) IsBefore(other Status) bool {
	return s.rank() < other.rank()
}

// RequiresDeliveryPartner reports whether an order in this status must carry a
// delivery partner. Only Pending orders may be unassigned.
func (s Status) RequiresDeliveryPartner() bool {
	return s == Assigned || s == InTransit || s == Delivered
}

// ValidateCanHaveDeliveryPartner checks the lockstep rule between status and partner
// assignment: a partner is present if and only if the status requires one.
func (s Status) ValidateCanHaveDeliveryPartner(hasPartner bool) error {
	if hasPartner && !s.RequiresDeliveryPartner() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a delivery partner", s),
		)
	}

	if !hasPartner && s.RequiresDeliveryPartner() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no delivery partner", s),
		)
	}

	return nil
}
