package mongodb_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-planner/internal/storage"
	"github.com/adanyl0v/go-planner/internal/storage/mongodb"
	"github.com/adanyl0v/go-planner/internal/storage/storagetest"
)

// MONGO_TEST_URI points at a disposable server. Set
// MONGO_TEST_REQUIRE_TRANSACTIONS=true when it is a replica set.
func TestStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI is not set, skipping")
	}
	requireTx, _ := strconv.ParseBool(os.Getenv("MONGO_TEST_REQUIRE_TRANSACTIONS"))

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	newStore := func(t *testing.T) storage.Store {
		t.Helper()

		database := fmt.Sprintf("planner_test_%d", time.Now().UnixNano())
		store := mongodb.New(zerolog.Nop(), client, database, requireTx)
		require.NoError(t, store.EnsureIndexes(ctx))

		t.Cleanup(func() { _ = client.Database(database).Drop(context.Background()) })
		return store
	}

	storagetest.Suite{NewStore: newStore, SkipRollback: !requireTx}.Run(t)
}
