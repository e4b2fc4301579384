package http

import (
	"time"

	"delivertrack/internal/core/application/usecases/queries"
)

// Wire types of openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Order struct {
	Id                string    `json:"id"`
	VendorId          string    `json:"vendorId"`
	CustomerId        string    `json:"customerId"`
	DeliveryPartnerId *string   `json:"deliveryPartnerId,omitempty"`
	Status            string    `json:"status"`
	PickupAddress     string    `json:"pickupAddress"`
	DeliveryAddress   string    `json:"deliveryAddress"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Location struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

type LocationRequest struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Timestamp *int64   `json:"timestamp,omitempty"`
}

type DeliverySession struct {
	OrderId           string     `json:"orderId"`
	DeliveryPartnerId string     `json:"deliveryPartnerId"`
	CurrentLocation   *Location  `json:"currentLocation,omitempty"`
	Route             []Location `json:"route"`
	StartTime         *int64     `json:"startTime,omitempty"`
	EndTime           *int64     `json:"endTime,omitempty"`
}

type PartnerRequest struct {
	DeliveryPartnerId string `json:"deliveryPartnerId"`
}

type Simulation struct {
	OrderId string `json:"orderId"`
	Running bool   `json:"running"`
}

// GetOrdersParams are the query parameters of GET /api/v1/orders.
type GetOrdersParams struct {
	VendorId          *string `form:"vendorId,omitempty" json:"vendorId,omitempty"`
	CustomerId        *string `form:"customerId,omitempty" json:"customerId,omitempty"`
	DeliveryPartnerId *string `form:"deliveryPartnerId,omitempty" json:"deliveryPartnerId,omitempty"`
}

func toUser(u queries.UserResponse) User {
	return User{Id: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toOrder(o queries.OrderResponse) Order {
	return Order{
		Id:                o.ID,
		VendorId:          o.VendorID,
		CustomerId:        o.CustomerID,
		DeliveryPartnerId: o.DeliveryPartnerID,
		Status:            o.Status,
		PickupAddress:     o.PickupAddress,
		DeliveryAddress:   o.DeliveryAddress,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func toLocation(l queries.LocationResponse) Location {
	return Location{Lat: l.Lat, Lng: l.Lng, Timestamp: l.Timestamp}
}

func toDeliverySession(s queries.DeliverySessionResponse) DeliverySession {
	resp := DeliverySession{
		OrderId:           s.OrderID,
		DeliveryPartnerId: s.DeliveryPartnerID,
		Route:             make([]Location, len(s.Route)),
		StartTime:         toMillis(s.StartedAt),
		EndTime:           toMillis(s.EndedAt),
	}
	if s.CurrentLocation != nil {
		current := toLocation(*s.CurrentLocation)
		resp.CurrentLocation = &current
	}
	for i, l := range s.Route {
		resp.Route[i] = toLocation(l)
	}
	return resp
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
