package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// Key format: fittrack:<entry>, e.g. fittrack:access_token
const keyPrefix = "fittrack:"

// Store implements ports.TokenStore on Redis, for deployments where the
// client installation shares state through a local Redis (kiosk setups).
type Store struct {
	client *redis.Client
}

// NewStore creates a Store wrapping the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save persists both tokens under their fixed keys.
func (s *Store) Save(ctx context.Context, pair domain.TokenPair) error {
	err := s.client.MSet(ctx,
		keyPrefix+domain.KeyAccessToken, pair.Access,
		keyPrefix+domain.KeyRefreshToken, pair.Refresh,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Load returns the stored access token, "" when nothing is stored.
func (s *Store) Load(ctx context.Context) (string, error) {
	access, err := s.client.Get(ctx, keyPrefix+domain.KeyAccessToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return access, nil
}

// Clear removes both tokens. Deleting absent keys is not an error.
func (s *Store) Clear(ctx context.Context) error {
	err := s.client.Del(ctx,
		keyPrefix+domain.KeyAccessToken,
		keyPrefix+domain.KeyRefreshToken,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
