// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the HTTP API rather than domain aggregates.
package queries

import (
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/core/ports"
)

// Read sides of a unit of work. Queries use them outside any transaction, so every
// repository call observes committed state.
type (
	OrderReader interface {
		OrderRepository() ports.OrderRepository
	}

	SessionReader interface {
		SessionRepository() ports.SessionRepository
	}
)

// OrderResponse is the read model of an order.
type OrderResponse struct {
	ID                string
	VendorID          string
	CustomerID        string
	DeliveryPartnerID *string
	Status            string
	PickupAddress     string
	DeliveryAddress   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LocationResponse is a location sample with its epoch-milliseconds timestamp.
type LocationResponse struct {
	Lat       float64
	Lng       float64
	Timestamp int64
}

// DeliverySessionResponse is the read model of a delivery session.
type DeliverySessionResponse struct {
	OrderID           string
	DeliveryPartnerID string
	CurrentLocation   *LocationResponse
	Route             []LocationResponse
	StartedAt         *time.Time
	EndedAt           *time.Time
}

// UserResponse is the read model of a user.
type UserResponse struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// NewOrderResponse maps an order into its read model.
func NewOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID().String(),
		VendorID:        o.VendorID().String(),
		CustomerID:      o.CustomerID().String(),
		Status:          o.Status().String(),
		PickupAddress:   o.PickupAddress(),
		DeliveryAddress: o.DeliveryAddress(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if partner := o.DeliveryPartnerID(); partner != nil {
		id := partner.String()
		resp.DeliveryPartnerID = &id
	}
	return resp
}

// NewDeliverySessionResponse maps a session into its read model. Route is never nil.
func NewDeliverySessionResponse(s *session.DeliverySession) DeliverySessionResponse {
	resp := DeliverySessionResponse{
		OrderID:           s.OrderID().String(),
		DeliveryPartnerID: s.DeliveryPartnerID().String(),
		Route:             make([]LocationResponse, 0, s.RouteLen()),
		StartedAt:         s.StartedAt(),
		EndedAt:           s.EndedAt(),
	}
	if current := s.CurrentLocation(); current != nil {
		loc := NewLocationResponse(*current)
		resp.CurrentLocation = &loc
	}
	for _, loc := range s.Route() {
		resp.Route = append(resp.Route, NewLocationResponse(loc))
	}
	return resp
}

func NewLocationResponse(l kernel.Location) LocationResponse {
	return LocationResponse{Lat: l.Lat(), Lng: l.Lng(), Timestamp: l.TimestampMillis()}
}
