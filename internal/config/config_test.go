package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("ENV", "local")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")
	t.Setenv("JWT_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback")
}

func TestEnvReader_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "planner", cfg.JWT.Issuer)
	assert.Equal(t, 168*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, config.StorageDriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "planner", cfg.Mongo.Database)
	assert.False(t, cfg.Mongo.RequireTransactions)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestEnvReader_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SIGNING_KEY", "")

	_, err := config.NewEnvReader().Read()
	assert.Error(t, err)
}

func TestEnvReader_CalendarTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CALENDAR_TIMEZONE", "Europe/Moscow")

	cfg, err := config.NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Env:              config.EnvProd,
			CalendarTimezone: "UTC",
			JWT:              config.JWTConfig{SigningKey: "0123456789abcdef0123456789abcdef"},
			Storage:          config.StorageConfig{Driver: config.StorageDriverSQLite},
			SQLite:           config.SQLiteConfig{Path: "planner.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "unknown env",
			mutate:  func(cfg *config.Config) { cfg.Env = "staging" },
			wantErr: config.ErrUnknownEnv,
		},
		{
			name:    "short signing key",
			mutate:  func(cfg *config.Config) { cfg.JWT.SigningKey = "short" },
			wantErr: config.ErrShortSigningKey,
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *config.Config) { cfg.Storage.Driver = "redis" },
			wantErr: config.ErrUnknownStorageDriver,
		},
		{
			name: "postgres without credentials",
			mutate: func(cfg *config.Config) {
				cfg.Storage.Driver = config.StorageDriverPostgres
				cfg.Postgres.Host = "localhost"
			},
			wantErr: config.ErrMissingField,
		},
		{
			name: "mongo without database",
			mutate: func(cfg *config.Config) {
				cfg.Storage.Driver = config.StorageDriverMongo
				cfg.Mongo.URI = "mongodb://localhost:27017"
			},
			wantErr: config.ErrMissingField,
		},
		{
			name: "complete postgres",
			mutate: func(cfg *config.Config) {
				cfg.Storage.Driver = config.StorageDriverPostgres
				cfg.Postgres = config.PostgresConfig{
					Host:     "localhost",
					Username: "planner",
					Password: "secret",
					Database: "planner",
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("log level", func(t *testing.T) {
		cfg := valid()
		cfg.LogLevel = "warn"
		assert.NoError(t, cfg.Validate())

		cfg.LogLevel = "loud"
		assert.ErrorContains(t, cfg.Validate(), "invalid log level")
	})

	t.Run("bad timezone", func(t *testing.T) {
		cfg := valid()
		cfg.CalendarTimezone = "Mars/Olympus"
		assert.Error(t, cfg.Validate())
	})
}
