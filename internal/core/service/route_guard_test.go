package service

import (
	"context"
	"testing"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// stubSession gives the guard full control over the session snapshot.
type stubSession struct {
	state           domain.SessionState
	account         *domain.Account
	profile         *domain.Profile
	profileResolved bool
}

func (s *stubSession) Restore(context.Context) error { return nil }
func (s *stubSession) Login(context.Context, string, string) error { return nil }
func (s *stubSession) Logout() {}
func (s *stubSession) Account() *domain.Account { return s.account }
func (s *stubSession) Profile() *domain.Profile { return s.profile }
func (s *stubSession) State() domain.SessionState { return s.state }
func (s *stubSession) IsAuthenticated() bool { return s.state == domain.StateAuthenticated }
func (s *stubSession) IsLoading() bool { return s.state == domain.StateLoading }
func (s *stubSession) ProfileResolved() bool { return s.profileResolved }
func (s *stubSession) CheckTokenExpiration() bool { return false }

func (s *stubSession) ResolvedRole() (domain.Role, bool) {
	return domain.ResolveRole(s.account, s.profile)
}

func (s *stubSession) HasRole(roles ...string) bool {
	resolved, ok := s.ResolvedRole()
	if !ok {
		return false
	}
	return roleMatches(resolved, roles)
}

func TestRouteGuard_NoRequirementAlwaysAllows(t *testing.T) {
	guard := NewRouteGuard(&stubSession{state: domain.StateUnauthenticated})
	if got := guard.Check(); got != DecisionAllow {
		t.Fatalf("expected allow for unguarded destination, got %s", got)
	}
}

func TestRouteGuard_PendingWhileLoading(t *testing.T) {
	guard := NewRouteGuard(&stubSession{state: domain.StateLoading})
	if got := guard.Check("administrator"); got != DecisionPending {
		t.Fatalf("expected pending while loading, got %s", got)
	}
}

func TestRouteGuard_DenyWithoutAccount(t *testing.T) {
	guard := NewRouteGuard(&stubSession{state: domain.StateUnauthenticated})
	if got := guard.Check("client"); got != DecisionDeny {
		t.Fatalf("expected deny without account, got %s", got)
	}
}

func TestRouteGuard_PendingUntilProfileResolves(t *testing.T) {
	session := &stubSession{
		state:   domain.StateAuthenticated,
		account: &domain.Account{ID: 1},
	}
	guard := NewRouteGuard(session)

	if got := guard.Check("trainer"); got != DecisionPending {
		t.Fatalf("expected pending before profile resolution, got %s", got)
	}

	// Resolution completing with no profile flips pending into a hard deny.
	session.profileResolved = true
	if got := guard.Check("trainer"); got != DecisionDeny {
		t.Fatalf("expected deny after resolving to no profile, got %s", got)
	}
}

func TestRouteGuard_StaffNeverPendsOnProfile(t *testing.T) {
	guard := NewRouteGuard(&stubSession{
		state:   domain.StateAuthenticated,
		account: &domain.Account{ID: 1, IsStaff: true},
	})
	if got := guard.Check("admin"); got != DecisionAllow {
		t.Fatalf("expected allow for staff with profile still in flight, got %s", got)
	}
}

func TestRouteGuard_RoleMatching(t *testing.T) {
	guard := NewRouteGuard(&stubSession{
		state:           domain.StateAuthenticated,
		account:         &domain.Account{ID: 2},
		profile:         &domain.Profile{Account: 2, Role: domain.RoleNutritionProfessional},
		profileResolved: true,
	})

	if got := guard.Check("nutritionist"); got != DecisionAllow {
		t.Fatalf("expected allow via legacy alias, got %s", got)
	}
	if got := guard.Check("admin", "trainer"); got != DecisionDeny {
		t.Fatalf("expected deny for non-matching set, got %s", got)
	}
}
