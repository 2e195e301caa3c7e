// Package db opens the SQL databases backing the credential store.
package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds SQL connection settings.
type Config struct {
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name"`
	SSLMode      string `koanf:"sslmode"`
	InstanceName string `koanf:"instance_name"`

	// Path is the SQLite file, or ":memory:".
	Path string `koanf:"path"`

	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	RetryInterval  time.Duration `koanf:"retry_interval"`
	MaxOpenConns   int           `koanf:"max_open_conns"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
}

// Opener opens a database for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// RetryPolicy bounds the startup connection loop.
type RetryPolicy struct {
	Timeout  time.Duration
	Interval time.Duration
}

// BuildDSN builds a PostgreSQL key/value DSN. A Cloud SQL instance name
// takes precedence over Host/Port and connects through the unix socket.
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name, sslmode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// GormConfig returns the shared GORM settings. TranslateError maps driver
// unique violations to gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
	}
}

// newGormLogger logs slow queries and real failures. Lookups of unknown
// emails are routine and return gorm.ErrRecordNotFound, so those stay quiet.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// ConnectWithRetry calls opener until it succeeds or the policy timeout elapses.
func ConnectWithRetry(ctx context.Context, dsn string, policy RetryPolicy, opener Opener) (*gorm.DB, error) {
	if policy.Interval <= 0 {
		policy.Interval = 3 * time.Second
	}
	if policy.Timeout <= 0 {
		policy.Timeout = 60 * time.Second
	}

	backoff := retry.WithMaxDuration(policy.Timeout, retry.NewConstant(policy.Interval))

	var db *gorm.DB
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		opened, err := opener(dsn)
		if err != nil {
			slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		db = opened
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("DB connect failed after %s: %w", policy.Timeout, err)
	}
	return db, nil
}

// Open connects to the configured SQL driver and migrates the given models
// when AutoMigrate is set.
func Open(ctx context.Context, driver string, cfg Config, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch driver {
	case DriverPostgres:
		db, err = ConnectWithRetry(ctx, BuildDSN(cfg), RetryPolicy{Timeout: cfg.ConnectTimeout, Interval: cfg.RetryInterval},
			func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), GormConfig()) })
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "nexusauth.db"
		}
		db, err = gorm.Open(sqlite.Open(path), GormConfig())
		if err == nil && path == ":memory:" {
			// Every pooled connection would otherwise get its own empty database.
			cfg.MaxOpenConns = 1
		}
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.AutoMigrate && len(models) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	slog.Info("DB connection successful", "driver", driver)
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
