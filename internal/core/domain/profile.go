package domain

import "time"

// Profile is the secondary record carrying the domain role assignment.
// At most one profile exists per account; the Account field is the
// back-reference to the owning account's id.
type Profile struct {
	ID        int64     `json:"id"`
	Account   int64     `json:"account"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate string    `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
