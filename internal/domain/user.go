package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("user is banned")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)

// Role codes.
const (
	RolePropertyOwner = "property_owner"
	RoleVendor        = "vendor"
	RoleTenant        = "tenant"
)

// User represents a registered account. Invited vendors and tenants are
// created through signup with an invitation id; owners sign up directly.
// swagger:model User
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PhoneNumber   *string   `json:"phone_number,omitempty"`
	PasswordHash  string    `json:"-"`
	Salt          string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	Banned        bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullName returns the user's display name, falling back to the email.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

// Role represents an application role (property_owner, vendor, tenant).
type Role struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID int64, err error)
}

// UserRepository defines storage operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	SetEmailVerified(ctx context.Context, id int64, verified bool) error
	SetBannedByEmail(ctx context.Context, email string, banned bool) error
	DeleteByEmail(ctx context.Context, email string) error
	SetOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, email, otpHash string) (consumed bool, err error)
	UpdatePassword(ctx context.Context, id int64, salt, passwordHash string) error
	AssignRole(ctx context.Context, userID, roleID int64) error
}

// RoleRepository defines storage operations for roles.
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Role, error)
}
