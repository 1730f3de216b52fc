package daos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestDB connects to a local MongoDB and hands back a throwaway
// database that is dropped on cleanup.
// ! This requires a running Mongo instance for integration testing.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:27017").
		SetServerSelectionTimeout(2 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err == nil {
		err = client.Ping(ctx, nil)
	}
	if err != nil {
		t.Skipf("Skipping test: Mongo not available: %v", err)
	}

	db := client.Database(fmt.Sprintf("tuiter_test_%d", time.Now().UnixNano()))

	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}
