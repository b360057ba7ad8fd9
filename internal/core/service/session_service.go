package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fittrack/fittrack-client/internal/api/metrics"
	"github.com/fittrack/fittrack-client/internal/core/domain"
	"github.com/fittrack/fittrack-client/internal/core/ports"
)

const (
	defaultLoadTimeout = 15 * time.Second
	storeTimeout       = 2 * time.Second
)

// SessionService owns the token lifecycle and the identity state machine:
// unauthenticated → loading → authenticated | unauthenticated.
// It is the only writer of durable token storage and the single source of
// truth for the authorization predicate.
type SessionService struct {
	store       ports.TokenStore
	backend     ports.IdentityProvider
	loadTimeout time.Duration
	log         zerolog.Logger

	mu              sync.RWMutex
	state           domain.SessionState
	account         *domain.Account
	profile         *domain.Profile
	profileResolved bool
	generation      uint64
}

// NewSessionService creates a session bound to the given store and backend.
// loadTimeout caps each identity load so the session can never hang in the
// loading state; defaultLoadTimeout is used when it is not positive.
func NewSessionService(store ports.TokenStore, backend ports.IdentityProvider, loadTimeout time.Duration, log zerolog.Logger) *SessionService {
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}
	return &SessionService{
		store:       store,
		backend:     backend,
		loadTimeout: loadTimeout,
		log: log.With().
			Str("component", "session").
			Str("session_id", uuid.NewString()).
			Logger(),
		state: domain.StateUnauthenticated,
	}
}

// Restore rebuilds the session from a previously stored access token.
// No token, an unreadable store, or a locally expired token all end in the
// unauthenticated state; an expired token is cleared without a network call.
func (s *SessionService) Restore(ctx context.Context) error {
	access, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("token storage unavailable, starting unauthenticated")
		s.reset()
		return nil
	}
	if access == "" {
		s.reset()
		return nil
	}
	if !TokenValid(access) {
		s.log.Info().Msg("stored access token expired, clearing")
		s.clearTokens()
		s.reset()
		return nil
	}

	gen := s.beginLoading()
	return s.loadIdentity(ctx, gen, access)
}

// Login exchanges credentials for a token pair, persists it, and loads the
// identity. A rejected exchange returns *domain.AuthenticationError carrying
// the backend detail and leaves the session unauthenticated. Persistence
// failures degrade to memory-only operation and are not surfaced.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrNoCredentials
	}

	gen := s.beginLoading()

	pair, err := s.backend.ExchangeCredentials(ctx, username, password)
	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			s.log.Info().Str("username", username).Msg("login rejected")
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Msg("credential exchange failed")
		}
		s.abandon(gen)
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	if err := s.store.Save(ctx, pair); err != nil {
		// Memory-only mode: the session works until the process exits.
		s.log.Warn().Err(err).Msg("cannot persist tokens, continuing in memory only")
	}

	return s.loadIdentity(ctx, gen, pair.Access)
}

// Logout clears tokens and in-memory state. Idempotent, never calls the
// backend, and supersedes any in-flight identity load.
func (s *SessionService) Logout() {
	s.clearTokens()
	s.reset()
}

// CheckTokenExpiration reports whether the stored access token is currently
// valid. It never changes session state; reacting to a false result is the
// caller's responsibility.
func (s *SessionService) CheckTokenExpiration() bool {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	access, err := s.store.Load(ctx)
	if err != nil || access == "" {
		metrics.TokenChecksTotal.WithLabelValues("absent").Inc()
		return false
	}
	if !TokenValid(access) {
		metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
		return false
	}
	metrics.TokenChecksTotal.WithLabelValues("valid").Inc()
	return true
}

func (s *SessionService) Account() *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

func (s *SessionService) Profile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionService) IsAuthenticated() bool {
	return s.State() == domain.StateAuthenticated
}

func (s *SessionService) IsLoading() bool {
	return s.State() == domain.StateLoading
}

// ProfileResolved reports whether the profile lookup for the current account
// has completed, regardless of outcome. It distinguishes "not yet loaded"
// from "resolved to none" for the route guard.
func (s *SessionService) ProfileResolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profileResolved
}

// ResolvedRole returns the effective role: administrator for staff accounts
// unconditionally, the profile's tag otherwise, unresolved (false) when a
// non-staff account has no profile.
func (s *SessionService) ResolvedRole() (domain.Role, bool) {
	s.mu.RLock()
	account, profile := s.account, s.profile
	s.mu.RUnlock()
	return domain.ResolveRole(account, profile)
}

// HasRole reports whether the resolved role matches any requested name,
// accepting legacy and canonical vocabularies. False without an account or
// without a resolved role, never an error.
func (s *SessionService) HasRole(roles ...string) bool {
	resolved, ok := s.ResolvedRole()
	if !ok {
		return false
	}
	return roleMatches(resolved, roles)
}

// loadIdentity runs the two-phase account-then-profile pipeline under the
// load timeout. Account failures decide the session outcome; profile
// failures are best-effort and leave the profile absent.
func (s *SessionService) loadIdentity(ctx context.Context, gen uint64, access string) error {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	start := time.Now()
	account, err := s.backend.FetchAccount(ctx, access)
	metrics.IdentityLoadDuration.WithLabelValues("account").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.log.Info().Msg("access token rejected by backend, clearing tokens")
			s.clearTokens()
		} else {
			// Transient transport failure: fail closed but keep the stored
			// tokens so the next restore can retry.
			s.log.Warn().Err(err).Msg("account load failed")
		}
		s.abandon(gen)
		return nil
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil
	}
	s.account = account
	s.state = domain.StateAuthenticated
	s.profile = nil
	s.profileResolved = false
	s.mu.Unlock()

	start = time.Now()
	profiles, err := s.backend.FetchProfiles(ctx, access)
	metrics.IdentityLoadDuration.WithLabelValues("profile").Observe(time.Since(start).Seconds())

	var profile *domain.Profile
	if err != nil {
		metrics.ProfileLoadsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Int64("account_id", account.ID).Msg("profile load failed")
	} else if profile = selectProfile(account, profiles); profile == nil {
		metrics.ProfileLoadsTotal.WithLabelValues("missing").Inc()
		s.log.Warn().Int64("account_id", account.ID).Msg("no profile found for account")
	} else {
		metrics.ProfileLoadsTotal.WithLabelValues("found").Inc()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	s.profile = profile
	s.profileResolved = true
	return nil
}

// selectProfile locates the session account's profile in the backend listing.
// Staff accounts see every profile and must match on the owner id; other
// accounts see at most their own, so the first entry wins. Empty or
// mismatched listings mean "no profile", not an error.
func selectProfile(account *domain.Account, profiles []domain.Profile) *domain.Profile {
	if account.IsStaff {
		for i := range profiles {
			if profiles[i].Account == account.ID {
				return &profiles[i]
			}
		}
		return nil
	}
	if len(profiles) == 0 {
		return nil
	}
	return &profiles[0]
}

// beginLoading bumps the load generation and enters the loading state,
// superseding any in-flight load (last writer wins).
func (s *SessionService) beginLoading() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = domain.StateLoading
	s.account = nil
	s.profile = nil
	s.profileResolved = false
	return s.generation
}

// abandon returns the session to unauthenticated unless a newer load has
// already taken over.
func (s *SessionService) abandon(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.state = domain.StateUnauthenticated
	s.account = nil
	s.profile = nil
	s.profileResolved = false
}

func (s *SessionService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = domain.StateUnauthenticated
	s.account = nil
	s.profile = nil
	s.profileResolved = false
}

func (s *SessionService) clearTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("token storage clear failed")
	}
}
