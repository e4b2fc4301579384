package kernel

import (
	"strings"

	"delivertrack/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrIDIsNotConstructed is returned when validating a zero-value ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID or IDFromString")

// ID is an opaque identifier for orders, sessions, users and delivery partners.
//
// Identifiers coming from the outside world are free-form ("ord-1", "d-3"),
// so ID only requires a non-blank value. Identifiers minted by the system are
// random UUIDs.
//
// Example:
//
//	orderID, err := kernel.IDFromString("ord-1")
//	if err != nil {
//	    return err
//	}
//	userID := kernel.NewID()
type ID struct {
	value string
}

// NewID mints a new random identifier backed by a version 4 UUID.
func NewID() ID {
	return ID{value: uuid.NewString()}
}

// IDFromString wraps an existing identifier. Surrounding whitespace is trimmed and
// a blank result is rejected.
//
// Example:
//
//	id, err := kernel.IDFromString(c.Param("orderId"))
//	if err != nil {
//	    return c.JSON(http.StatusBadRequest, ...)
//	}
func IDFromString(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, errs.NewValueIsRequiredError("id")
	}
	return ID{value: s}, nil
}

// MustIDFromString is IDFromString for literals known to be valid, such as seed data.
// It panics on a blank value.
func MustIDFromString(s string) ID {
	id, err := IDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier.
func (i ID) String() string {
	return i.value
}

// IsEqual reports whether both identifiers hold the same value.
func (i ID) IsEqual(other ID) bool {
	return i.value == other.value
}

// Validate returns ErrIDIsNotConstructed for the zero value.
func (i ID) Validate() error {
	if i.value == "" {
		return ErrIDIsNotConstructed
	}
	return nil
}
