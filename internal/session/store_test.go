package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuiter-labs/tuiter/internal/models"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewStore(rdb, time.Hour), mr
}

func TestStore_SetGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
	}

	err := store.Set(ctx, "sid-1", user)
	require.NoError(t, err)

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	got, err := store.Get(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := NewStore(rdb, time.Minute)
	ctx := context.Background()

	err := store.Set(ctx, "sid-ttl", &models.User{Username: "bob"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "sid-ttl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Destroy(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "sid-2", &models.User{Username: "carol"})
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, "sid-2"))

	got, err := store.Get(ctx, "sid-2")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Destroy is idempotent.
	require.NoError(t, store.Destroy(ctx, "sid-2"))
}
