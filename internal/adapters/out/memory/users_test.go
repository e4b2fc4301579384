package memory_test

import (
	"testing"

	"delivertrack/internal/adapters/out/memory"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerDirectory_ListsSeedPartners(t *testing.T) {
	dir := memory.NewPartnerDirectory(memory.SeedDeliveryPartners())

	partners, err := dir.ListDeliveryPartners(t.Context())
	require.NoError(t, err)
	require.Len(t, partners, 3)

	names := []string{partners[0].Name(), partners[1].Name(), partners[2].Name()}
	assert.Equal(t, []string{"John Delivery", "Alice Driver", "Bob Courier"}, names)
	for _, p := range partners {
		assert.True(t, p.HasRole(user.Delivery))
	}
}

func TestCurrentUserStore_RoundTrip(t *testing.T) {
	ctx := t.Context()
	store := memory.NewCurrentUserStore()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	u, err := user.NewUser(kernel.MustIDFromString("v-1"), "vendor", "vendor@example.com", user.Vendor)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, u))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.IsEqual(u))
	assert.Equal(t, u.Email(), loaded.Email())

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
