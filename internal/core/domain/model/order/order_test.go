package order_test

import (
	"testing"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderID    = kernel.MustIDFromString("ord-1")
	vendorID   = kernel.MustIDFromString("v-1")
	customerID = kernel.MustIDFromString("c-1")
	partnerID  = kernel.MustIDFromString("d-3")
	createdAt  = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(orderID, vendorID, customerID,
		"123 Vendor St, New York, NY", "456 Customer Ave, New York, NY", createdAt)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create a pending order without partner", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(orderID))
		assert.True(t, o.VendorID().IsEqual(vendorID))
		assert.True(t, o.CustomerID().IsEqual(customerID))
		assert.Nil(t, o.DeliveryPartnerID())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "123 Vendor St, New York, NY", o.PickupAddress())
		assert.Equal(t, "456 Customer Ave, New York, NY", o.DeliveryAddress())
		assert.Equal(t, createdAt, o.CreatedAt())
		assert.Equal(t, createdAt, o.UpdatedAt())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		var zero kernel.ID

		o, err := order.NewOrder(zero, zero, zero, " ", "", time.Time{})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "ID must be created")
		assert.Contains(t, err.Error(), "pickup address")
		assert.Contains(t, err.Error(), "delivery address")
		assert.Contains(t, err.Error(), "created at")
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should restore an in transit order", func(t *testing.T) {
		updated := createdAt.Add(4 * time.Hour)

		o, err := order.RestoreOrder(orderID, vendorID, customerID, &partnerID, order.InTransit,
			"321 Shop St", "456 Customer Ave", createdAt, updated)

		require.NoError(t, err)
		assert.Equal(t, order.InTransit, o.Status())
		require.NotNil(t, o.DeliveryPartnerID())
		assert.Equal(t, "d-3", o.DeliveryPartnerID().String())
		assert.Equal(t, updated, o.UpdatedAt())
	})

	t.Run("should reject a partner on a pending order", func(t *testing.T) {
		_, err := order.RestoreOrder(orderID, vendorID, customerID, &partnerID, order.Pending,
			"a", "b", createdAt, createdAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an assigned order without partner", func(t *testing.T) {
		_, err := order.RestoreOrder(orderID, vendorID, customerID, nil, order.Assigned,
			"a", "b", createdAt, createdAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(orderID, vendorID, customerID, nil, order.Status("lost"),
			"a", "b", createdAt, createdAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject updated before created", func(t *testing.T) {
		_, err := order.RestoreOrder(orderID, vendorID, customerID, nil, order.Pending,
			"a", "b", createdAt, createdAt.Add(-time.Second))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Validate(t *testing.T) {
	var nilOrder *order.Order
	assert.Equal(t, order.ErrOrderIsNotConstructed, nilOrder.Validate())

	zero := &order.Order{}
	assert.Equal(t, order.ErrOrderIsNotConstructed, zero.Validate())
}

func TestOrder_AssignDeliveryPartner(t *testing.T) {
	t.Run("should set partner, status and a later updated instant", func(t *testing.T) {
		o := newPendingOrder(t)
		before := o.UpdatedAt()

		require.NoError(t, o.AssignDeliveryPartner(partnerID, createdAt.Add(time.Minute)))

		assert.Equal(t, order.Assigned, o.Status())
		assert.Equal(t, "d-3", o.DeliveryPartnerID().String())
		assert.True(t, o.UpdatedAt().After(before))
	})

	t.Run("should advance updated instant even when the clock did not move", func(t *testing.T) {
		o := newPendingOrder(t)
		before := o.UpdatedAt()

		require.NoError(t, o.AssignDeliveryPartner(partnerID, before))
		first := o.UpdatedAt()
		require.NoError(t, o.AssignDeliveryPartner(partnerID, before.Add(-time.Hour)))

		assert.True(t, first.After(before))
		assert.True(t, o.UpdatedAt().After(first))
	})

	t.Run("should reassign from any status", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.StartDelivery(partnerID, createdAt.Add(time.Minute)))
		require.NoError(t, o.Complete(createdAt.Add(2*time.Minute)))

		other := kernel.MustIDFromString("d-1")
		require.NoError(t, o.AssignDeliveryPartner(other, createdAt.Add(3*time.Minute)))

		assert.Equal(t, order.Assigned, o.Status())
		assert.Equal(t, "d-1", o.DeliveryPartnerID().String())
	})

	t.Run("should reject an invalid partner id", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.AssignDeliveryPartner(kernel.ID{}, createdAt.Add(time.Minute))

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("returned partner id is a copy", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.AssignDeliveryPartner(partnerID, createdAt.Add(time.Minute)))

		got := o.DeliveryPartnerID()
		*got = kernel.MustIDFromString("d-9")

		assert.Equal(t, "d-3", o.DeliveryPartnerID().String())
	})
}

func TestOrder_StartDelivery(t *testing.T) {
	t.Run("should adopt the starting partner on an unassigned order", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.StartDelivery(partnerID, createdAt.Add(time.Minute)))

		assert.Equal(t, order.InTransit, o.Status())
		assert.Equal(t, "d-3", o.DeliveryPartnerID().String())
	})

	t.Run("should keep an existing assignment", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.AssignDeliveryPartner(kernel.MustIDFromString("d-1"), createdAt.Add(time.Minute)))

		require.NoError(t, o.StartDelivery(partnerID, createdAt.Add(2*time.Minute)))

		assert.Equal(t, "d-1", o.DeliveryPartnerID().String())
	})
}

func TestOrder_Complete(t *testing.T) {
	t.Run("should deliver an order in transit", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.StartDelivery(partnerID, createdAt.Add(time.Minute)))
		before := o.UpdatedAt()

		require.NoError(t, o.Complete(createdAt.Add(time.Hour)))

		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, o.UpdatedAt().After(before))
	})

	t.Run("should deliver an assigned order that was never started", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.AssignDeliveryPartner(partnerID, createdAt.Add(time.Minute)))

		require.NoError(t, o.Complete(createdAt.Add(time.Hour)))

		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should refuse to deliver an order without partner", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Complete(createdAt.Add(time.Hour))

		require.ErrorIs(t, err, order.ErrOrderHasNoDeliveryPartner)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, createdAt, o.UpdatedAt())
	})
}
