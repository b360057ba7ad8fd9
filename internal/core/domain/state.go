package domain

// SessionState is the authentication lifecycle state of a session.
// Invariant: StateAuthenticated if and only if an account is present.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateLoading         SessionState = "loading"
	StateAuthenticated   SessionState = "authenticated"
)
