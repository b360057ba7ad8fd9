package ports

import (
	"context"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// IdentityProvider talks to the backend that issues tokens and serves the
// account and profile records.
type IdentityProvider interface {
	// ExchangeCredentials trades username/password for a token pair.
	// A rejection returns *domain.AuthenticationError with the backend detail.
	ExchangeCredentials(ctx context.Context, username, password string) (domain.TokenPair, error)
	// FetchAccount loads the authenticated account.
	// Returns domain.ErrUnauthorized when the backend rejects the token.
	FetchAccount(ctx context.Context, accessToken string) (*domain.Account, error)
	// FetchProfiles lists the profiles visible to the token's account:
	// all profiles for a staff account, at most its own otherwise.
	FetchProfiles(ctx context.Context, accessToken string) ([]domain.Profile, error)
}
