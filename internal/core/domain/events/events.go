// Package events defines the real-time tracking events exchanged over order rooms.
package events

import (
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
)

const (
	// TypeLocationUpdate is the wire name of LocationUpdated.
	TypeLocationUpdate = "locationUpdate"
	// TypeDeliveryStatusChange is the wire name of DeliveryStatusChanged.
	TypeDeliveryStatusChange = "deliveryStatusChange"

	roomPrefix = "order:"
)

// Event is a tracking event scoped to one order.
type Event interface {
	Type() string
	OrderID() kernel.ID
}

// Room returns the name of the room that carries an order's events.
func Room(orderID kernel.ID) string {
	return roomPrefix + orderID.String()
}

// LocationUpdated is emitted for every sample recorded on a delivery session.
type LocationUpdated struct {
	Order    kernel.ID
	Location kernel.Location
}

func (e LocationUpdated) Type() string { return TypeLocationUpdate }

func (e LocationUpdated) OrderID() kernel.ID { return e.Order }

// DeliveryStatusChanged is emitted whenever an order moves to a new status.
type DeliveryStatusChanged struct {
	Order  kernel.ID
	Status order.Status
}

func (e DeliveryStatusChanged) Type() string { return TypeDeliveryStatusChange }

func (e DeliveryStatusChanged) OrderID() kernel.ID { return e.Order }
