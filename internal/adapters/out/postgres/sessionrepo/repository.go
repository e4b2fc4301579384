package sessionrepo

import (
	"context"
	"errors"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSessionRepository implements ports.SessionRepository using GORM.
//
// Get locks the session row until the surrounding transaction ends, so concurrent writers
// of one session are serialised. The repository remembers how many route samples each
// loaded session had and Update inserts only the samples recorded after that.
type GormSessionRepository struct {
	db     *gorm.DB
	loaded map[string]int
}

// NewGormSessionRepository creates a repository on db, which may be a transaction.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db, loaded: make(map[string]int)}
}

// Add saves a new session together with its route.
// Returns session.ErrDeliverySessionAlreadyExists when the order already has one; the
// connection must be opened with TranslateError for the duplicate key to be recognised.
func (r *GormSessionRepository) Add(ctx context.Context, aggregate *session.DeliverySession) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return session.ErrDeliverySessionAlreadyExists
		}
		return err
	}

	r.loaded[dto.OrderID] = len(dto.Route)
	return nil
}

// Update writes the session columns and inserts the route samples not stored yet.
// The route is append-only, so the stored prefix is never rewritten.
func (r *GormSessionRepository) Update(ctx context.Context, aggregate *session.DeliverySession) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&SessionDTO{}).Where("order_id = ?", dto.OrderID).Updates(map[string]any{
		"delivery_partner_id": dto.DeliveryPartnerID,
		"current_lat":         dto.CurrentLat,
		"current_lng":         dto.CurrentLng,
		"current_at":          dto.CurrentAt,
		"started_at":          dto.StartedAt,
		"ended_at":            dto.EndedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery session", aggregate.OrderID())
	}

	stored, ok := r.loaded[dto.OrderID]
	if !ok {
		var count int64
		if err := db.Model(&LocationDTO{}).Where("session_order_id = ?", dto.OrderID).Count(&count).Error; err != nil {
			return err
		}
		stored = int(count)
	}
	if stored >= len(dto.Route) {
		return nil
	}

	tail := dto.Route[stored:]
	if err := db.Create(&tail).Error; err != nil {
		return err
	}

	r.loaded[dto.OrderID] = len(dto.Route)
	return nil
}

// Get retrieves the session of an order with its route in arrival order.
func (r *GormSessionRepository) Get(ctx context.Context, orderID kernel.ID) (*session.DeliverySession, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Preload("Route", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&dto, "order_id = ?", orderID.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery session", orderID)
		}
		return nil, err
	}

	s, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	r.loaded[dto.OrderID] = len(dto.Route)
	return s, nil
}
