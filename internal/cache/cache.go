package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	"github.com/jon4hz/loanwise/internal/config"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key isn't cached or has expired.
var ErrNotFound = errors.New("cache: key not found")

// PrefixedCache wraps a cache.Cache, adds a prefix to all keys and stores values as JSON.
type PrefixedCache[T any] struct {
	cache  *cache.Cache[any]
	prefix string
}

// NewPrefixedCache creates a new prefixed cache wrapper.
func NewPrefixedCache[T any](c *cache.Cache[any], prefix string) *PrefixedCache[T] {
	return &PrefixedCache[T]{
		cache:  c,
		prefix: prefix,
	}
}

func (p *PrefixedCache[T]) key(key any) string {
	return p.prefix + fmt.Sprintf("%v", key)
}

// Get retrieves a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Get(ctx context.Context, key any) (T, error) {
	var result T

	raw, err := p.cache.Get(ctx, p.key(key))
	if err != nil {
		if isNotFound(err) {
			return result, ErrNotFound
		}
		return result, err
	}

	// the memory store hands back what was stored, redis returns strings
	var data []byte
	switch v := raw.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		return result, ErrNotFound
	default:
		return result, fmt.Errorf("cache: unexpected value type %T", raw)
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	return result, nil
}

// Set stores a value in the cache with the prefixed key.
func (p *PrefixedCache[T]) Set(ctx context.Context, key any, object T, options ...store.Option) error {
	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, p.key(key), data, options...)
}

// Delete removes a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Delete(ctx context.Context, key any) error {
	return p.cache.Delete(ctx, p.key(key))
}

// GetType returns the cache type.
func (p *PrefixedCache[T]) GetType() string {
	return p.cache.GetType()
}

// NewByType builds the cache backend selected in the session store config.
func NewByType(cfg *config.SessionStoreConfig) *cache.Cache[any] {
	if cfg == nil {
		return NewMemory()
	}
	switch cfg.Type {
	case config.SessionStoreRedis:
		return NewRedis(cfg.RedisURL)
	default:
		return NewMemory()
	}
}

// NewMemory returns an in-process cache. Expiration is set per item,
// expired items are purged every 10 minutes.
func NewMemory() *cache.Cache[any] {
	gocacheClient := gocache.New(gocache.NoExpiration, 10*time.Minute)
	gocacheStore := go_store.NewGoCache(gocacheClient)
	return cache.New[any](gocacheStore)
}

// NewRedis returns a cache backed by the redis server at addr.
func NewRedis(addr string) *cache.Cache[any] {
	redisClient := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	redisStore := redis_store.NewRedis(redisClient)
	return cache.New[any](redisStore)
}

func isNotFound(err error) bool {
	var nfPtr *store.NotFound
	var nf store.NotFound
	return errors.As(err, &nfPtr) || errors.As(err, &nf) || errors.Is(err, redis.Nil)
}
