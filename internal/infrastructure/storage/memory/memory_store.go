// Package memory provides an in-process TokenStore for tests and explicit
// memory-only mode. Tokens do not survive a process restart.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// Store keeps the token pair in an in-memory cache. A positive ttl lets the
// entries age out on their own; zero keeps them until Clear.
type Store struct {
	c *gocache.Cache
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Store{c: gocache.New(ttl, time.Minute)}
}

func (s *Store) Save(_ context.Context, pair domain.TokenPair) error {
	s.c.Set(domain.KeyAccessToken, pair.Access, gocache.DefaultExpiration)
	s.c.Set(domain.KeyRefreshToken, pair.Refresh, gocache.DefaultExpiration)
	return nil
}

func (s *Store) Load(_ context.Context) (string, error) {
	v, ok := s.c.Get(domain.KeyAccessToken)
	if !ok {
		return "", nil
	}
	access, _ := v.(string)
	return access, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.c.Delete(domain.KeyAccessToken)
	s.c.Delete(domain.KeyRefreshToken)
	return nil
}
