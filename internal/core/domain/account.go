package domain

import (
	"strings"
	"time"
)

// Account is the authenticated principal returned by the backend's "who am I"
// endpoint. It is immutable for the lifetime of a session and replaced
// wholesale on re-login.
type Account struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	IsStaff    bool      `json:"is_staff"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// DisplayName returns "First Last" when name parts are set, otherwise the
// username.
func (a Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Username
	}
	return name
}
