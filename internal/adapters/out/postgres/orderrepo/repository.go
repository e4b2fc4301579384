package orderrepo

import (
	"context"
	"errors"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/order"
	"delivertrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Listings come back in insertion order, like the in-memory store.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository on db, which may be a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing order. Every column but the insertion sequence is written so
// a cleared value is stored as cleared.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Select("*").Omit("Seq").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByVendor retrieves all orders placed by a vendor.
func (r *GormOrderRepository) GetByVendor(ctx context.Context, vendorID kernel.ID) ([]*order.Order, error) {
	return r.find(ctx, "vendor_id = ?", vendorID.String())
}

// GetByCustomer retrieves all orders addressed to a customer.
func (r *GormOrderRepository) GetByCustomer(ctx context.Context, customerID kernel.ID) ([]*order.Order, error) {
	return r.find(ctx, "customer_id = ?", customerID.String())
}

// GetByDeliveryPartner retrieves all orders assigned to a delivery partner.
func (r *GormOrderRepository) GetByDeliveryPartner(ctx context.Context, partnerID kernel.ID) ([]*order.Order, error) {
	return r.find(ctx, "delivery_partner_id = ?", partnerID.String())
}

func (r *GormOrderRepository) find(ctx context.Context, where string, arg string) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Order("seq").Find(&dtos, where, arg).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
