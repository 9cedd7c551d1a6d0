package domain

import "time"

// Role is an account's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists every role, in the order forms offer them.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // argon2id PHC string, or a legacy SHA-1 hex digest
	Address      string
	Contact      string
	Role         Role
	TwoFAEnabled bool
	TwoFASecret  string // base32; empty unless TwoFAEnabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }
