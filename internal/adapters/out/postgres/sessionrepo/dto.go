// Package sessionrepo persists delivery sessions with GORM. The route lives in its own
// table, one row per sample, numbered in arrival order.
package sessionrepo

import (
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/session"
)

// SessionDTO is the row shape of the delivery_sessions table.
type SessionDTO struct {
	OrderID           string `gorm:"primaryKey"`
	DeliveryPartnerID string `gorm:"index;not null"`
	CurrentLat        *float64
	CurrentLng        *float64
	CurrentAt         *time.Time
	StartedAt         *time.Time
	EndedAt           *time.Time
	Route             []LocationDTO `gorm:"foreignKey:SessionOrderID;references:OrderID;constraint:OnDelete:CASCADE"`
}

func (SessionDTO) TableName() string {
	return "delivery_sessions"
}

// LocationDTO is one route sample.
type LocationDTO struct {
	ID             uint      `gorm:"primaryKey"`
	SessionOrderID string    `gorm:"uniqueIndex:idx_route_seq;not null"`
	Seq            int       `gorm:"uniqueIndex:idx_route_seq;not null"`
	Lat            float64   `gorm:"not null"`
	Lng            float64   `gorm:"not null"`
	RecordedAt     time.Time `gorm:"not null"`
}

func (LocationDTO) TableName() string {
	return "delivery_session_locations"
}

func fromDomain(s *session.DeliverySession) SessionDTO {
	dto := SessionDTO{
		OrderID:           s.OrderID().String(),
		DeliveryPartnerID: s.DeliveryPartnerID().String(),
		StartedAt:         s.StartedAt(),
		EndedAt:           s.EndedAt(),
		Route:             routeFromDomain(s.OrderID().String(), s.Route(), 0),
	}
	if current := s.CurrentLocation(); current != nil {
		lat, lng, at := current.Lat(), current.Lng(), current.RecordedAt()
		dto.CurrentLat = &lat
		dto.CurrentLng = &lng
		dto.CurrentAt = &at
	}
	return dto
}

func routeFromDomain(orderID string, route []kernel.Location, firstSeq int) []LocationDTO {
	rows := make([]LocationDTO, 0, len(route))
	for i, loc := range route {
		rows = append(rows, LocationDTO{
			SessionOrderID: orderID,
			Seq:            firstSeq + i,
			Lat:            loc.Lat(),
			Lng:            loc.Lng(),
			RecordedAt:     loc.RecordedAt(),
		})
	}
	return rows
}

func toDomain(dto SessionDTO) (*session.DeliverySession, error) {
	orderID, err := kernel.IDFromString(dto.OrderID)
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.IDFromString(dto.DeliveryPartnerID)
	if err != nil {
		return nil, err
	}

	var current *kernel.Location
	if dto.CurrentLat != nil && dto.CurrentLng != nil && dto.CurrentAt != nil {
		loc, locErr := kernel.NewLocation(*dto.CurrentLat, *dto.CurrentLng, *dto.CurrentAt)
		if locErr != nil {
			return nil, locErr
		}
		current = &loc
	}

	route := make([]kernel.Location, 0, len(dto.Route))
	for _, row := range dto.Route {
		loc, locErr := kernel.NewLocation(row.Lat, row.Lng, row.RecordedAt)
		if locErr != nil {
			return nil, locErr
		}
		route = append(route, loc)
	}

	return session.RestoreDeliverySession(orderID, partnerID, current, route, dto.StartedAt, dto.EndedAt)
}
