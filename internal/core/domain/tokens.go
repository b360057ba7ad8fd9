package domain

// Durable storage keys for the token pair. Every TokenStore implementation
// persists exactly these two string entries.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// TokenPair holds the short-lived bearer credential and its longer-lived
// renewal credential as issued by the credential-exchange endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IsZero reports whether no tokens are present.
func (t TokenPair) IsZero() bool {
	return t.Access == "" && t.Refresh == ""
}
