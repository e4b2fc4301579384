package postgres

import (
	"context"
	"fmt"

	"delivertrack/internal/adapters/out/postgres/orderrepo"
	"delivertrack/internal/adapters/out/postgres/sessionrepo"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds a PostgreSQL connection string from its parts.
func DSN(host string, port int, user string, password string, dbName string, sslMode string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode)
}

// Open connects to PostgreSQL through the pgx-based GORM driver. Error translation is
// always enabled so repositories can recognise duplicate keys.
func Open(dsn string, config *gorm.Config) (*gorm.DB, error) {
	if config == nil {
		config = &gorm.Config{}
	}
	config.TranslateError = true
	return gorm.Open(postgres.Open(dsn), config)
}

// Migrate creates or updates the tables backing orders and delivery sessions.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderrepo.OrderDTO{}, &sessionrepo.SessionDTO{}, &sessionrepo.LocationDTO{})
}

// IsEmpty reports whether no order has been stored yet.
func IsEmpty(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&orderrepo.OrderDTO{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
