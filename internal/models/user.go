package models

import (
	"strings"
	"time"

	"github.com/homigo-app/homigo-backend/internal/apperr"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	Bio            *string   `json:"bio,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the joined identity shape embedded in listing and booking
// responses. The password hash is never part of it.
type UserSummary struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Bio   *string `json:"bio,omitempty"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// ValidSignupRole accepts only the roles a caller may self-assign.
// Admin accounts are provisioned out of band.
func ValidSignupRole(r Role) bool { return r == RoleGuest || r == RoleHost }

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return apperr.Validation("Name, email, and password are required")
	}
	if !ValidEmail(u.Email) {
		return apperr.Validation("Invalid email format")
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	if !ValidSignupRole(u.Role) && u.Role != RoleAdmin {
		return apperr.Validation(`Role must be either "host" or "guest"`)
	}
	return nil
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Bio: u.Bio}
}
