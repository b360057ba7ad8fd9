package ports

import (
	"context"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// TokenStore persists the token pair across process restarts within the same
// client installation.
type TokenStore interface {
	// Save persists both tokens, overwriting any prior values.
	Save(ctx context.Context, pair domain.TokenPair) error
	// Load returns the stored access token, or "" when nothing is stored.
	Load(ctx context.Context) (string, error)
	// Clear removes both tokens. Idempotent.
	Clear(ctx context.Context) error
}
