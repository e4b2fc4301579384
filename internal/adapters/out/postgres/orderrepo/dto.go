// Package orderrepo persists order aggregates with GORM.
package orderrepo

import (
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
)

// OrderDTO is the row shape of the orders table. Each party id is indexed for the
// role-filtered listings, and Seq numbers rows in insertion order.
type OrderDTO struct {
	ID                string    `gorm:"primaryKey"`
	Seq               int64     `gorm:"autoIncrement;uniqueIndex"`
	VendorID          string    `gorm:"index;not null"`
	CustomerID        string    `gorm:"index;not null"`
	DeliveryPartnerID *string   `gorm:"index"`
	Status            string    `gorm:"not null"`
	PickupAddress     string    `gorm:"not null"`
	DeliveryAddress   string    `gorm:"not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false;not null"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var partnerID *string
	if id := o.DeliveryPartnerID(); id != nil {
		raw := id.String()
		partnerID = &raw
	}

	return OrderDTO{
		ID:                o.ID().String(),
		VendorID:          o.VendorID().String(),
		CustomerID:        o.CustomerID().String(),
		DeliveryPartnerID: partnerID,
		Status:            o.Status().String(),
		PickupAddress:     o.PickupAddress(),
		DeliveryAddress:   o.DeliveryAddress(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.IDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.IDFromString(dto.VendorID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.IDFromString(dto.CustomerID)
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.ID
	if dto.DeliveryPartnerID != nil {
		pID, partnerErr := kernel.IDFromString(*dto.DeliveryPartnerID)
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		vendorID,
		customerID,
		partnerID,
		status,
		dto.PickupAddress,
		dto.DeliveryAddress,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
