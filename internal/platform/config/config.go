// Package config loads the service configuration from defaults, an optional
// YAML file, NEXUS_* environment variables and command-line flags, in that
// order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"nexusauth/internal/platform/db"
	"nexusauth/internal/platform/logging"
	"nexusauth/internal/platform/mongo"
	"nexusauth/internal/platform/redis"
)

// EnvPrefix prefixes every environment variable. A double underscore
// separates sections, e.g. NEXUS_JWT__SECRET sets jwt.secret.
const EnvPrefix = "NEXUS_"

// Store drivers.
const (
	DriverPostgres = db.DriverPostgres
	DriverSQLite   = db.DriverSQLite
	DriverMongo    = "mongo"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
	JWT      JWTConfig      `koanf:"jwt"`
	Store    StoreConfig    `koanf:"store"`
	Database db.Config      `koanf:"database"`
	Mongo    mongo.Config   `koanf:"mongo"`
	Redis    redis.Config   `koanf:"redis"`
	Log      logging.Config `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	// CORSOrigins lists allowed origins. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`
}

// AuthConfig tunes the authenticator.
type AuthConfig struct {
	BcryptCost       int  `koanf:"bcrypt_cost"`
	UnifyLoginErrors bool `koanf:"unify_login_errors"`
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// Defaults returns the baseline configuration as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"server.addr":                    ":5000",
		"server.read_header_timeout":     "10s",
		"server.shutdown_timeout":        "10s",
		"server.cors_origins":            []string{},
		"auth.bcrypt_cost":               bcrypt.DefaultCost,
		"auth.unify_login_errors":        false,
		"jwt.secret":                     "",
		"jwt.ttl":                        "24h",
		"store.driver":                   DriverPostgres,
		"database.host":                  "localhost",
		"database.port":                  "5432",
		"database.user":                  "nexus",
		"database.password":              "",
		"database.name":                  "nexusauth",
		"database.sslmode":               "disable",
		"database.path":                  "nexusauth.db",
		"database.connect_timeout":       "60s",
		"database.retry_interval":        "3s",
		"database.max_open_conns":        0,
		"database.auto_migrate":          true,
		"mongo.uri":                      "mongodb://127.0.0.1:27017/nexusauth",
		"mongo.database":                 "nexusauth",
		"mongo.server_selection_timeout": "5s",
		"mongo.connect_timeout":          "10s",
		"redis.addr":                     "",
		"redis.db":                       0,
		"redis.report_ttl":               "10m",
		"log.level":                      "info",
		"log.format":                     "text",
	}
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"addr":       "server.addr",
	"store":      "store.driver",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("addr", ":5000", "HTTP listen address")
	fs.String("store", DriverPostgres, "credential store driver (postgres, sqlite or mongo)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (json or text)")
}

// Load builds the configuration. path may be empty and flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey converts NEXUS_JWT__SECRET into jwt.secret.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required (set NEXUS_JWT__SECRET)"))
	}
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("mongo.uri is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be postgres, sqlite or mongo, got %q", c.Store.Driver))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
