package handler

import "github.com/fittrack/fittrack-client/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse is the reactive session snapshot UI consumers poll.
// Role is empty while unresolved; ProfileResolved distinguishes "not yet
// loaded" from "resolved to none".
type sessionResponse struct {
	Authenticated   bool            `json:"authenticated"`
	Loading         bool            `json:"loading"`
	Account         *domain.Account `json:"account,omitempty"`
	Profile         *domain.Profile `json:"profile,omitempty"`
	Role            string          `json:"role,omitempty"`
	ProfileResolved bool            `json:"profile_resolved"`
}

type tokenStatusResponse struct {
	Valid bool `json:"valid"`
}
