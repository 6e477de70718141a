// Package session keeps the server side half of a login session.
// The browser only holds an opaque token, the username it belongs to lives in a Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/google/uuid"
	"github.com/jon4hz/loanwise/internal/cache"
)

const keyPrefix = "session-"

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Info is the data bound to a session token.
type Info struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the capability the auth service needs from a session backend.
type Store interface {
	Get(ctx context.Context, token string) (*Info, error)
	Set(ctx context.Context, token, username string) error
	Clear(ctx context.Context, token string) error
}

// NewToken returns a fresh random session token.
func NewToken() string {
	return uuid.NewString()
}

var _ Store = (*CacheStore)(nil)

// CacheStore keeps sessions in a gocache backend (memory or redis) and expires them after ttl.
type CacheStore struct {
	cache *cache.PrefixedCache[Info]
	ttl   time.Duration
	now   func() time.Time
}

// NewCacheStore creates a session store in the session namespace of backend.
func NewCacheStore(backend *gocache.Cache[any], ttl time.Duration) *CacheStore {
	return &CacheStore{
		cache: cache.NewPrefixedCache[Info](backend, keyPrefix),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Backend names the cache store holding the sessions.
func (s *CacheStore) Backend() string {
	return s.cache.GetType()
}

func (s *CacheStore) Get(ctx context.Context, token string) (*Info, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	info, err := s.cache.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	// redis expires keys on its own, this guards backends that purge lazily
	if s.ttl > 0 && s.now().Sub(info.CreatedAt) > s.ttl {
		s.cache.Delete(ctx, token) //nolint:errcheck
		return nil, ErrNotFound
	}
	return &info, nil
}

func (s *CacheStore) Set(ctx context.Context, token, username string) error {
	info := Info{
		Username:  username,
		CreatedAt: s.now(),
	}
	if err := s.cache.Set(ctx, token, info, store.WithExpiration(s.ttl)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the session. Clearing an unknown token is not an error.
func (s *CacheStore) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, token); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
