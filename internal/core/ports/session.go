package ports

import (
	"context"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// Session is the single authorization surface every protected view and route
// guard consults.
type Session interface {
	// Restore rebuilds the session from a previously stored token, if any.
	Restore(ctx context.Context) error
	// Login exchanges credentials for tokens and loads the identity.
	Login(ctx context.Context, username, password string) error
	// Logout clears tokens and in-memory state. Idempotent, local only.
	Logout()

	Account() *domain.Account
	Profile() *domain.Profile
	State() domain.SessionState
	IsAuthenticated() bool
	IsLoading() bool
	// ProfileResolved reports whether the profile lookup has completed for
	// the current account, regardless of whether it found a profile.
	ProfileResolved() bool

	// ResolvedRole returns the effective role, false when unresolved.
	ResolvedRole() (domain.Role, bool)
	// HasRole reports whether the resolved role matches any of the requested
	// names, accepting both legacy and canonical vocabularies.
	HasRole(roles ...string) bool
	// CheckTokenExpiration reports whether the stored access token is still
	// valid. Side-effect free; false when no token is stored.
	CheckTokenExpiration() bool
}
