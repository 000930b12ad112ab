package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-planner/internal/config"
	"github.com/adanyl0v/go-planner/internal/storage"
	"github.com/adanyl0v/go-planner/internal/storage/mongodb"
	"github.com/adanyl0v/go-planner/internal/storage/postgres"
	"github.com/adanyl0v/go-planner/internal/storage/sqlite"
)

var errMongoTransactionsUnsupported = errors.New("mongo deployment does not support transactions")

var (
	globalStore storage.Store
	// globalDisconnect releases whatever the selected driver holds open.
	globalDisconnect func()
)

func MustConnectStorage() {
	cfg := config.Global()

	var err error
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		err = connectPostgres(cfg.Postgres)
	case config.StorageDriverMongo:
		err = connectMongo(cfg.Mongo)
	case config.StorageDriverSQLite:
		err = connectSQLite(cfg.SQLite)
	default:
		err = fmt.Errorf("%w: %s", config.ErrUnknownStorageDriver, cfg.Storage.Driver)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Storage.Driver).
			Msg("failed to connect storage")
		panic(err)
	}
}

func DisconnectStorage() {
	if globalDisconnect != nil {
		globalDisconnect()
	}
	globalLogger.Info().Msg("disconnected storage")
}

func connectPostgres(cfg config.PostgresConfig) error {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := postgres.New(componentLogger("postgres"), pool)
	err = store.Migrate(ctx)
	if err != nil {
		pool.Close()
		return err
	}

	globalStore = store
	globalDisconnect = pool.Close
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
	return nil
}

func connectMongo(cfg config.MongoConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		disconnect()
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	if cfg.RequireTransactions {
		err = checkMongoTransactions(ctx, client)
		if err != nil {
			disconnect()
			return err
		}
	}

	store := mongodb.New(componentLogger("mongo"), client, cfg.Database, cfg.RequireTransactions)
	err = store.EnsureIndexes(ctx)
	if err != nil {
		disconnect()
		return err
	}

	globalStore = store
	globalDisconnect = disconnect
	globalLogger.Info().
		Str("database", cfg.Database).
		Bool("transactions", cfg.RequireTransactions).
		Msg("connected to mongo")
	return nil
}

// checkMongoTransactions rejects a standalone server. Transactions need
// a replica set member or a mongos router.
func checkMongoTransactions(ctx context.Context, client *mongo.Client) error {
	var hello bson.M
	err := client.Database("admin").
		RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).
		Decode(&hello)
	if err != nil {
		return fmt.Errorf("failed to run hello: %w", err)
	}

	if _, ok := hello["setName"]; ok {
		return nil
	}
	if hello["msg"] == "isdbgrid" {
		return nil
	}
	return errMongoTransactionsUnsupported
}

func connectSQLite(cfg config.SQLiteConfig) error {
	store, err := sqlite.Open(context.Background(), componentLogger("sqlite"), cfg.Path)
	if err != nil {
		return err
	}

	globalStore = store
	globalDisconnect = func() { _ = store.Close() }
	globalLogger.Info().
		Str("path", cfg.Path).
		Msg("opened sqlite")
	return nil
}
