package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverMongo    = "mongo"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

var (
	ErrUnknownEnv           = errors.New("unknown env")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrMissingField         = errors.New("missing required field")
	ErrShortSigningKey      = errors.New("jwt signing key must be at least 32 bytes")
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env         string `env:"ENV" env-required:"true"`
	FrontendURL string `env:"FRONTEND_URL" env-required:"true"`
	// LogLevel overrides the level implied by Env.
	LogLevel string `env:"LOG_LEVEL"`
	// CalendarTimezone is the IANA zone used to compute "today".
	CalendarTimezone string `env:"CALENDAR_TIMEZONE" env-default:"UTC"`

	HTTP     HTTPConfig
	JWT      JWTConfig
	Google   GoogleConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	SQLite   SQLiteConfig
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST" env-default:""`
	Port              string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER" env-default:"planner"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"168h"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID" env-required:"true"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET" env-required:"true"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL" env-required:"true"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"mongo"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" env-default:"planner"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
	// RequireTransactions rejects servers that cannot run multi-document
	// transactions, such as a standalone mongod.
	RequireTransactions bool `env:"MONGO_REQUIRE_TRANSACTIONS" env-default:"false"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" env-default:"planner.db"`
}

// Validate checks the fields that depend on other fields.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEnv, c.Env)
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}

	if len(c.JWT.SigningKey) < 32 {
		return ErrShortSigningKey
	}

	_, err := time.LoadLocation(c.CalendarTimezone)
	if err != nil {
		return fmt.Errorf("invalid calendar timezone: %w", err)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		for name, value := range map[string]string{
			"POSTGRES_HOST":     c.Postgres.Host,
			"POSTGRES_USERNAME": c.Postgres.Username,
			"POSTGRES_PASSWORD": c.Postgres.Password,
			"POSTGRES_DATABASE": c.Postgres.Database,
		} {
			if value == "" {
				return fmt.Errorf("%w: %s", ErrMissingField, name)
			}
		}
	case StorageDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: MONGO_URI", ErrMissingField)
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("%w: MONGO_DATABASE", ErrMissingField)
		}
	case StorageDriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("%w: SQLITE_PATH", ErrMissingField)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	return nil
}

// Location returns the calendar location. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CalendarTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
