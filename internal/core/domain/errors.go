package domain

import "errors"

var ErrUnauthorized = errors.New("token rejected by backend")
var ErrProfileUnavailable = errors.New("profile unavailable")
var ErrStorageUnavailable = errors.New("token storage unavailable")
var ErrNoCredentials = errors.New("username and password are required")

// AuthenticationError carries the backend's human-readable detail for a
// rejected credential exchange. The detail is surfaced verbatim to callers.
type AuthenticationError struct {
	Detail string
}

func (e *AuthenticationError) Error() string {
	if e.Detail == "" {
		return "authentication failed"
	}
	return e.Detail
}
