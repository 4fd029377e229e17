package domain

import "time"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsSuspended  bool      `json:"is_suspended"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Loaded by the repository, not stored on the users row.
	Roles  []string `json:"roles,omitempty"`
	Claims []Claim  `json:"claims,omitempty"`
}

// Claim is one custom (type, value) pair attached to a user. Order is
// preserved so the token claim set stays deterministic.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
