package guard_test

import (
	"errors"
	"testing"

	"delivertrack/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command not constructed")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_supplied_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type trackingCode struct {
		value string
		guard guard.ConstructorGuard
	}
	errCodeNotConstructed := errors.New("trackingCode must be created via newTrackingCode")

	newTrackingCode := func(v string) (trackingCode, error) {
		if v == "" {
			return trackingCode{}, errors.New("tracking code is required")
		}
		return trackingCode{value: v, guard: guard.NewConstructorGuard()}, nil
	}

	code, err := newTrackingCode("order:ord-1")
	require.NoError(t, err)
	require.NoError(t, code.guard.Validate(errCodeNotConstructed))

	var zero trackingCode
	require.ErrorIs(t, zero.guard.Validate(errCodeNotConstructed), errCodeNotConstructed)

	_, err = newTrackingCode("")
	require.Error(t, err)
}
