package core

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps an empty role to RoleUser.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RoleUser):
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	}
	return "", Errorf(KindInvalidInput, "invalid role %q: expected admin or user", s)
}

// User is a credential principal. It is never referenced by payroll records.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserService provides user lookup and creation for the access gate.
type UserService interface {
	// GetByUsername fails with NotFound when no such user exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID fails with NotFound when no such user exists.
	GetByID(ctx context.Context, userID int) (*User, error)

	// CreateUser stores an already hashed password. A taken username yields DuplicateKey.
	CreateUser(ctx context.Context, username, passwordHash string, role Role) (*User, error)
}
