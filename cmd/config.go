package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"delivertrack/internal/pkg/errs"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every configuration variable, e.g. DELIVERTRACK_HTTP_PORT.
const EnvPrefix = "DELIVERTRACK"

// Storage modes.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Storage    string `envconfig:"STORAGE" default:"memory"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"delivertrack"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	AuthDir            string        `envconfig:"AUTH_DIR" default:".delivertrack"`
	SimulationInterval time.Duration `envconfig:"SIMULATION_INTERVAL" default:"3s"`

	KafkaBrokers       []string `envconfig:"KAFKA_BROKERS"`
	KafkaStatusTopic   string   `envconfig:"KAFKA_STATUS_TOPIC" default:"delivery-status-changed"`
	KafkaLocationTopic string   `envconfig:"KAFKA_LOCATION_TOPIC" default:"delivery-location-updated"`
}

// LoadConfig reads the configuration from DELIVERTRACK_* environment variables.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return errs.NewValueIsInvalidErrorWithCause("storage",
			fmt.Errorf("%q is neither %s nor %s", c.Storage, StorageMemory, StoragePostgres))
	}
	if c.HTTPPort == "" {
		return errs.NewValueIsRequiredError("HTTPPort")
	}
	if c.SimulationInterval < time.Second || c.SimulationInterval > time.Hour {
		return errs.NewValueIsOutOfRangeError("SimulationInterval", c.SimulationInterval, time.Second, time.Hour)
	}
	return nil
}

// KafkaEnabled reports whether tracking events are streamed to Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// SlogLevel parses LogLevel, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
