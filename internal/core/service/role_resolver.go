package service

import (
	"github.com/fittrack/fittrack-client/internal/core/domain"
)

// roleMatches reports whether the resolved role is a member of the requested
// set. Requested names pass through the alias map, so legacy and canonical
// vocabularies are interchangeable; names outside the closed set never match.
func roleMatches(resolved domain.Role, requested []string) bool {
	for _, name := range requested {
		if r, ok := domain.NormalizeRole(name); ok && r == resolved {
			return true
		}
	}
	return false
}
