package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "auth:session:"), mr
}

func TestSaveThenLookup(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, store.Save(ctx, "k1", "token-1", time.Hour))

	token, err := store.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.True(t, mr.Exists("auth:session:k1"))
	assert.Equal(t, time.Hour, mr.TTL("auth:session:k1"))
}

func TestLookupMissing(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Lookup(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, store.Save(ctx, "k1", "token-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Lookup(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Save(ctx, "k1", "old", time.Hour))
	require.NoError(t, store.Save(ctx, "k1", "new", time.Hour))

	token, err := store.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "new", token)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Save(ctx, "k1", "token-1", time.Hour))
	require.NoError(t, store.Revoke(ctx, "k1"))

	_, err := store.Lookup(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRejectsEmptyKey(t *testing.T) {
	store, _ := newStore(t)
	assert.Error(t, store.Save(context.Background(), "", "t", time.Hour))
}
