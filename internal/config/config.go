package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Backends accepted by loader.backend
const (
	BackendSurreal = "surreal"
	BackendMongo   = "mongo"
	BackendORM     = "orm"
	BackendMemory  = "memory"
)

// Config holds all seed tool configuration
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Mongo    MongoConfig    `koanf:"mongo"`
	ORM      ORMConfig      `koanf:"orm"`
	Loader   LoaderConfig   `koanf:"loader"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `koanf:"host"`
	Port      string `koanf:"port"`
	Namespace string `koanf:"namespace"`
	Database  string `koanf:"database"`
	User      string `koanf:"user"`
	Password  string `koanf:"password"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

// ORMConfig holds settings for the relational backend
type ORMConfig struct {
	DSN      string `koanf:"dsn"`
	LogLevel string `koanf:"log_level"`
}

// LoaderConfig controls a seed run
type LoaderConfig struct {
	Backend    string        `koanf:"backend"`
	SampleSet  string        `koanf:"sample_set"` // built-in name or YAML path
	Timeout    time.Duration `koanf:"timeout"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

// MetricsConfig holds Pushgateway settings. Metrics are not pushed when
// PushgatewayURL is empty.
type MetricsConfig struct {
	PushgatewayURL string `koanf:"pushgateway_url"`
	Job            string `koanf:"job"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "octofit",
			Database:  "octofit_db",
			User:      "root",
			Password:  "root",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "octofit_db",
		},
		ORM: ORMConfig{
			DSN:      "file:octofit.db",
			LogLevel: "silent",
		},
		Loader: LoaderConfig{
			Backend:    BackendSurreal,
			SampleSet:  "octofit",
			Timeout:    2 * time.Minute,
			BcryptCost: bcrypt.DefaultCost,
		},
		Metrics: MetricsConfig{
			Job: "octofit_seed",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// IsDryRun returns true if the run writes to the in-memory store only
func (c *Config) IsDryRun() bool {
	return c.Loader.Backend == BackendMemory
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Backend validation, only the selected backend needs connection settings
	switch c.Loader.Backend {
	case BackendSurreal:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("database.port is required"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("database.namespace is required"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("database.database is required"))
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("mongo.uri is required"))
		}
		if c.Mongo.Database == "" {
			errs = append(errs, errors.New("mongo.database is required"))
		}
	case BackendORM:
		if c.ORM.DSN == "" {
			errs = append(errs, errors.New("orm.dsn is required"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("loader.backend must be one of surreal, mongo, orm, memory, got '%s'", c.Loader.Backend))
	}

	// Loader validation
	if c.Loader.SampleSet == "" {
		errs = append(errs, errors.New("loader.sample_set is required"))
	}
	if c.Loader.Timeout <= 0 {
		errs = append(errs, errors.New("loader.timeout must be positive"))
	}
	if c.Loader.BcryptCost < bcrypt.MinCost || c.Loader.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("loader.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if c.Metrics.PushgatewayURL != "" && c.Metrics.Job == "" {
		errs = append(errs, errors.New("metrics.job is required when metrics.pushgateway_url is set"))
	}

	// Log validation
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format must be 'json' or 'text', got '%s'", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel parses Level into a slog.Level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", l.Level)
	}
	return level, nil
}
