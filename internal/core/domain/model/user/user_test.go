package user_test

import (
	"testing"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	id := kernel.MustIDFromString("d-1")

	t.Run("should create a delivery partner", func(t *testing.T) {
		u, err := user.NewUser(id, "John Delivery", "john.delivery@example.com", user.Delivery)

		require.NoError(t, err)
		require.NoError(t, u.Validate())
		assert.Equal(t, "d-1", u.ID().String())
		assert.Equal(t, "John Delivery", u.Name())
		assert.Equal(t, "john.delivery@example.com", u.Email())
		assert.Equal(t, user.Delivery, u.Role())
		assert.True(t, u.HasRole(user.Delivery))
		assert.False(t, u.HasRole(user.Vendor))
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := user.NewUser(kernel.ID{}, "", " ", user.Role("admin"))

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "name")
		assert.Contains(t, err.Error(), "email")
		assert.Contains(t, err.Error(), "admin")
	})
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"vendor", "delivery", "customer"} {
		r, err := user.ParseRole(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, r.String())
	}

	_, err := user.ParseRole("courier")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "alice.driver", user.NameFromEmail("alice.driver@example.com"))
	assert.Equal(t, "bob", user.NameFromEmail("bob"))
	assert.Equal(t, "", user.NameFromEmail("@example.com"))
}

func TestUser_IsEqual(t *testing.T) {
	a, _ := user.NewUser(kernel.MustIDFromString("c-1"), "Carla", "carla@example.com", user.Customer)
	b, _ := user.NewUser(kernel.MustIDFromString("c-1"), "Carla", "carla@example.com", user.Customer)
	c, _ := user.NewUser(kernel.MustIDFromString("c-1"), "Carla", "carla@example.com", user.Vendor)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.False(t, a.IsEqual(nil))

	var nilUser *user.User
	assert.False(t, nilUser.HasRole(user.Customer))
}
