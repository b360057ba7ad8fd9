package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

type stubStore struct {
	mu       sync.Mutex
	access   string
	refresh  string
	saveErr  error
	loadErr  error
	clearErr error
}

func (s *stubStore) Save(_ context.Context, pair domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.access, s.refresh = pair.Access, pair.Refresh
	return nil
}

func (s *stubStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.access, nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.access, s.refresh = "", ""
	return nil
}

func (s *stubStore) stored() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh
}

type stubBackend struct {
	exchangeFn func(ctx context.Context, username, password string) (domain.TokenPair, error)
	accountFn  func(ctx context.Context, token string) (*domain.Account, error)
	profilesFn func(ctx context.Context, token string) ([]domain.Profile, error)
}

func (b *stubBackend) ExchangeCredentials(ctx context.Context, username, password string) (domain.TokenPair, error) {
	return b.exchangeFn(ctx, username, password)
}

func (b *stubBackend) FetchAccount(ctx context.Context, token string) (*domain.Account, error) {
	return b.accountFn(ctx, token)
}

func (b *stubBackend) FetchProfiles(ctx context.Context, token string) ([]domain.Profile, error) {
	return b.profilesFn(ctx, token)
}

func freshToken(t *testing.T) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
}

func staleToken(t *testing.T) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
}

func newSession(store *stubStore, backend *stubBackend) *SessionService {
	return NewSessionService(store, backend, time.Second, zerolog.Nop())
}

func TestLogin_TrainerWithAliases(t *testing.T) {
	store := &stubStore{}
	access := freshToken(t)
	backend := &stubBackend{
		exchangeFn: func(_ context.Context, username, password string) (domain.TokenPair, error) {
			if username != "trainer1" || password != "x" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return domain.TokenPair{Access: access, Refresh: "refresh-1"}, nil
		},
		accountFn: func(_ context.Context, token string) (*domain.Account, error) {
			if token != access {
				t.Fatalf("account fetched with wrong token %q", token)
			}
			return &domain.Account{ID: 7, Username: "trainer1"}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return []domain.Profile{{ID: 1, Account: 7, Role: domain.RoleTrainingProfessional}}, nil
		},
	}
	session := newSession(store, backend)

	if err := session.Login(context.Background(), "trainer1", "x"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !session.IsAuthenticated() {
		t.Fatalf("expected authenticated state, got %s", session.State())
	}
	if account := session.Account(); account == nil || account.IsStaff {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !session.ProfileResolved() {
		t.Fatalf("profile should be resolved")
	}
	if !session.HasRole("admin", "trainer") {
		t.Fatalf("trainer should match legacy alias set [admin trainer]")
	}
	if session.HasRole("nutritionist") {
		t.Fatalf("trainer must not match nutritionist")
	}

	gotAccess, gotRefresh := store.stored()
	if gotAccess != access || gotRefresh != "refresh-1" {
		t.Fatalf("tokens not persisted: %q %q", gotAccess, gotRefresh)
	}
}

func TestLogin_RejectedKeepsBackendDetail(t *testing.T) {
	store := &stubStore{}
	backend := &stubBackend{
		exchangeFn: func(_ context.Context, _, _ string) (domain.TokenPair, error) {
			return domain.TokenPair{}, &domain.AuthenticationError{Detail: "Invalid credentials"}
		},
	}
	session := newSession(store, backend)

	err := session.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatalf("expected login to fail")
	}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("expected backend detail verbatim, got %q", err.Error())
	}
	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated state, got %s", session.State())
	}
	if access, _ := store.stored(); access != "" {
		t.Fatalf("tokens must not be stored on rejection")
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	session := newSession(&stubStore{}, &stubBackend{})
	if err := session.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestRestore_NoStoredToken(t *testing.T) {
	session := newSession(&stubStore{}, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			t.Fatalf("backend must not be called without a token")
			return nil, nil
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", session.State())
	}
}

func TestRestore_ExpiredTokenClearedWithoutNetworkCall(t *testing.T) {
	store := &stubStore{access: staleToken(t), refresh: "r"}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			t.Fatalf("backend must not be called for an expired token")
			return nil, nil
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", session.State())
	}
	if access, refresh := store.stored(); access != "" || refresh != "" {
		t.Fatalf("expected tokens cleared, got %q %q", access, refresh)
	}
}

func TestRestore_UnauthorizedPurgesTokens(t *testing.T) {
	store := &stubStore{access: freshToken(t), refresh: "r"}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return nil, domain.ErrUnauthorized
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore must not surface Unauthorized, got %v", err)
	}
	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", session.State())
	}
	if access, _ := store.stored(); access != "" {
		t.Fatalf("expected tokens purged")
	}
}

func TestRestore_TransportFailureKeepsTokens(t *testing.T) {
	access := freshToken(t)
	store := &stubStore{access: access, refresh: "r"}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return nil, errors.New("connection refused")
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", session.State())
	}
	if got, _ := store.stored(); got != access {
		t.Fatalf("tokens must survive a transient failure")
	}
}

func TestRestore_StaffWithEmptyProfileList(t *testing.T) {
	store := &stubStore{access: freshToken(t)}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return &domain.Account{ID: 1, Username: "root", IsStaff: true}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return nil, nil
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !session.HasRole("administrator") {
		t.Fatalf("staff account must resolve administrator without a profile")
	}
	if session.HasRole("client") {
		t.Fatalf("staff account must not match client")
	}
	if session.Profile() != nil || !session.ProfileResolved() {
		t.Fatalf("expected resolved-to-none profile")
	}
}

func TestRestore_StaffSelectsOwnProfileFromListing(t *testing.T) {
	store := &stubStore{access: freshToken(t)}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return &domain.Account{ID: 5, IsStaff: true}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return []domain.Profile{
				{ID: 1, Account: 3, Role: domain.RoleClient},
				{ID: 2, Account: 5, Role: "admin"},
				{ID: 3, Account: 9, Role: domain.RoleClient},
			}, nil
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	profile := session.Profile()
	if profile == nil || profile.ID != 2 {
		t.Fatalf("expected profile owned by account 5, got %+v", profile)
	}
}

func TestRestore_ProfileFailureDoesNotBlockAuthentication(t *testing.T) {
	store := &stubStore{access: freshToken(t)}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return &domain.Account{ID: 4, Username: "carol"}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return nil, errors.New("profiles endpoint down")
		},
	})

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !session.IsAuthenticated() {
		t.Fatalf("profile failure must not block authenticated state")
	}
	if !session.ProfileResolved() {
		t.Fatalf("profile lookup must be marked resolved after failing")
	}
	// No access to any role-gated feature, but no crash either.
	for _, role := range []string{"admin", "administrator", "trainer", "nutritionist", "client"} {
		if session.HasRole(role) {
			t.Fatalf("non-staff account without profile matched %q", role)
		}
	}
}

func TestLogin_StorageFailureDegradesToMemoryOnly(t *testing.T) {
	store := &stubStore{saveErr: domain.ErrStorageUnavailable}
	backend := &stubBackend{
		exchangeFn: func(_ context.Context, _, _ string) (domain.TokenPair, error) {
			return domain.TokenPair{Access: freshToken(t), Refresh: "r"}, nil
		},
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return &domain.Account{ID: 9, Username: "dave"}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return []domain.Profile{{ID: 1, Account: 9, Role: domain.RoleClient}}, nil
		},
	}
	session := newSession(store, backend)

	if err := session.Login(context.Background(), "dave", "pw"); err != nil {
		t.Fatalf("login must tolerate storage failure, got %v", err)
	}
	if !session.IsAuthenticated() || !session.HasRole("client") {
		t.Fatalf("session must work in memory-only mode")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := &stubStore{access: freshToken(t)}
	session := newSession(store, &stubBackend{
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			return &domain.Account{ID: 2, Username: "bob"}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return []domain.Profile{{ID: 1, Account: 2, Role: domain.RoleClient}}, nil
		},
	})
	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	session.Logout()
	session.Logout()

	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", session.State())
	}
	if session.Account() != nil || session.Profile() != nil {
		t.Fatalf("expected in-memory state cleared")
	}
	if access, refresh := store.stored(); access != "" || refresh != "" {
		t.Fatalf("expected tokens cleared")
	}
}

func TestCheckTokenExpiration(t *testing.T) {
	store := &stubStore{}
	session := newSession(store, &stubBackend{})

	if session.CheckTokenExpiration() {
		t.Fatalf("no stored token must report false")
	}

	store.access = staleToken(t)
	if session.CheckTokenExpiration() {
		t.Fatalf("expired token must report false")
	}

	store.access = freshToken(t)
	if !session.CheckTokenExpiration() {
		t.Fatalf("fresh token must report true")
	}
	if session.State() != domain.StateUnauthenticated {
		t.Fatalf("check must not change session state")
	}
}

func TestLogin_SupersedesInFlightRestore(t *testing.T) {
	access := freshToken(t)
	store := &stubStore{access: access}

	restoreStarted := make(chan struct{})
	releaseRestore := make(chan struct{})
	var once sync.Once

	backend := &stubBackend{
		exchangeFn: func(_ context.Context, _, _ string) (domain.TokenPair, error) {
			return domain.TokenPair{Access: access, Refresh: "r2"}, nil
		},
		accountFn: func(_ context.Context, _ string) (*domain.Account, error) {
			var blocked bool
			once.Do(func() {
				blocked = true
				close(restoreStarted)
				<-releaseRestore
			})
			if blocked {
				return &domain.Account{ID: 1, Username: "stale"}, nil
			}
			return &domain.Account{ID: 2, Username: "fresh"}, nil
		},
		profilesFn: func(_ context.Context, _ string) ([]domain.Profile, error) {
			return nil, nil
		},
	}
	session := newSession(store, backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = session.Restore(context.Background())
	}()

	<-restoreStarted
	if err := session.Login(context.Background(), "fresh", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	close(releaseRestore)
	<-done

	account := session.Account()
	if account == nil || account.Username != "fresh" {
		t.Fatalf("login result must win over the superseded restore, got %+v", account)
	}
}
