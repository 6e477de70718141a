package cache

import (
	"context"
	"testing"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	"github.com/jon4hz/loanwise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPrefixedCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewPrefixedCache[record](NewMemory(), "test-")

	require.NoError(t, c.Set(ctx, "a", record{Name: "alice", Count: 2}))

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, record{Name: "alice", Count: 2}, got)
}

func TestPrefixedCache_Miss(t *testing.T) {
	c := NewPrefixedCache[record](NewMemory(), "test-")

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrefixedCache_PrefixesAreIsolated(t *testing.T) {
	ctx := context.Background()
	shared := NewMemory()
	a := NewPrefixedCache[string](shared, "a-")
	b := NewPrefixedCache[string](shared, "b-")

	require.NoError(t, a.Set(ctx, "key", "from a"))

	_, err := b.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := a.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "from a", got)
}

func TestPrefixedCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewPrefixedCache[string](NewMemory(), "test-")

	require.NoError(t, c.Set(ctx, "key", "value"))
	require.NoError(t, c.Delete(ctx, "key"))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrefixedCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewPrefixedCache[string](NewMemory(), "test-")

	require.NoError(t, c.Set(ctx, "key", "value", store.WithExpiration(20*time.Millisecond)))
	time.Sleep(50 * time.Millisecond)

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewByType(t *testing.T) {
	assert.NotNil(t, NewByType(nil))
	assert.NotNil(t, NewByType(&config.SessionStoreConfig{Type: config.SessionStoreMemory}))
	// the redis client connects lazily, so construction succeeds without a server
	assert.NotNil(t, NewByType(&config.SessionStoreConfig{Type: config.SessionStoreRedis, RedisURL: "localhost:0"}))
}
