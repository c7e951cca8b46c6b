// AngelaMos | 2026
// entity.go

package user

import (
	"fmt"
	"time"
)

// Role is a closed two-variant set. Parse at the boundary so unhandled role
// strings fail loudly instead of silently falling through string comparisons.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOfficial Role = "official"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCitizen:
		return RoleCitizen, nil
	case RoleOfficial:
		return RoleOfficial, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           string     `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Email        string     `db:"email"`
	Phone        string     `db:"phone"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	IsActive     bool       `db:"is_active"`
	IsVerified   bool       `db:"is_verified"`
	AgreeToTerms bool       `db:"agree_to_terms"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsOfficial() bool {
	return u.Role == RoleOfficial
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
