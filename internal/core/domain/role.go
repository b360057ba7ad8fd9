package domain

import "strings"

// Role identifies a feature-access role in its canonical vocabulary.
type Role string

const (
	RoleAdministrator         Role = "administrator"
	RoleNutritionProfessional Role = "nutrition-professional"
	RoleTrainingProfessional  Role = "training-professional"
	RoleClient                Role = "client"
)

// roleAliases maps both the legacy and the canonical vocabularies onto the
// canonical set. Consulted only at boundaries; internal state always carries
// canonical values.
var roleAliases = map[string]Role{
	"admin":                  RoleAdministrator,
	"administrator":          RoleAdministrator,
	"nutritionist":           RoleNutritionProfessional,
	"nutrition-professional": RoleNutritionProfessional,
	"trainer":                RoleTrainingProfessional,
	"training-professional":  RoleTrainingProfessional,
	"client":                 RoleClient,
}

// NormalizeRole maps a role name from either vocabulary onto the canonical
// set. The second return is false for names outside the closed set.
func NormalizeRole(name string) (Role, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// ResolveRole computes the effective role from an account and its optional
// profile. The staff flag elevates to administrator unconditionally,
// overriding any profile role tag, stale or missing. Without the flag the
// profile's tag decides. Without a profile the role is unresolved (false),
// never defaulted to client.
func ResolveRole(account *Account, profile *Profile) (Role, bool) {
	if account == nil {
		return "", false
	}
	if account.IsStaff {
		return RoleAdministrator, true
	}
	if profile == nil {
		return "", false
	}
	return NormalizeRole(string(profile.Role))
}
