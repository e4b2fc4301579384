package user

import (
	"fmt"

	"delivertrack/internal/pkg/errs"
)

// Role decides which dashboard a user sees and which order operations they may call.
type Role string

const (
	// Vendor places orders and assigns delivery partners to them.
	Vendor Role = "vendor"
	// Delivery partners start, track and complete deliveries.
	Delivery Role = "delivery"
	// Customer follows their orders.
	Customer Role = "customer"
)

// ParseRole converts a raw value into a Role, rejecting anything else.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate checks the role is one of vendor, delivery or customer.
func (r Role) Validate() error {
	switch r {
	case Vendor, Delivery, Customer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}
