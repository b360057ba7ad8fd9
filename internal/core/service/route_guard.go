package service

import (
	"github.com/fittrack/fittrack-client/internal/core/ports"
)

// Decision is the outcome of a route-guard check.
type Decision int

const (
	// DecisionPending means the session is still resolving; consumers must
	// neither render nor redirect yet.
	DecisionPending Decision = iota
	DecisionAllow
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	default:
		return "pending"
	}
}

// RouteGuard gates navigation to a destination by comparing its required-role
// set against the session's resolved role.
type RouteGuard struct {
	session ports.Session
}

func NewRouteGuard(session ports.Session) *RouteGuard {
	return &RouteGuard{session: session}
}

// Check returns the guard decision for a destination requiring any of the
// given roles. A destination with no requirement is always allowed. The
// decision is withheld (pending) while the session is loading, and while a
// non-staff account's profile lookup has not completed, otherwise the race
// between account load and profile load would produce a false-negative
// redirect.
func (g *RouteGuard) Check(requiredRoles ...string) Decision {
	if len(requiredRoles) == 0 {
		return DecisionAllow
	}
	if g.session.IsLoading() {
		return DecisionPending
	}
	account := g.session.Account()
	if account == nil {
		return DecisionDeny
	}
	if !account.IsStaff && !g.session.ProfileResolved() {
		return DecisionPending
	}
	if g.session.HasRole(requiredRoles...) {
		return DecisionAllow
	}
	return DecisionDeny
}
