package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential domain.
// Password holds the bcrypt hash only; the plaintext never reaches this type.
type User struct {
	ID         string
	FullName   string
	Email      string
	Password   string
	Role       Role
	Department string
	Position   string
	Active     bool
	LastLogin  *time.Time
	LoginCount int
	CreatedAt  time.Time
}

// NormalizeEmail returns the storage and comparison form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Profile is the sanitized projection of a user; it never carries the hash.
type Profile struct {
	ID         string
	FullName   string
	Email      string
	Role       Role
	Department string
	Position   string
	CreatedAt  time.Time
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Position:   u.Position,
		CreatedAt:  u.CreatedAt,
	}
}
