package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/messhall/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a staff role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"

	// RoleStudent labels tokens issued to student accounts. It is not a
	// staff role: no row in the users table ever carries it, and it never
	// passes IsValid.
	RoleStudent Role = "student"
)

// IsValid reports whether the role is one of the known staff roles
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleManager
}

// Password cost for bcrypt
const bcryptCost = 12

// User represents a staff account (admin or manager).
// Students authenticate through a separate identity space; the two
// username namespaces are independent and may collide without conflict.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	PasswordHash string
	Role         Role
	FullName     string
	LastLoginAt  *time.Time
	LastLoginIP  string
}

// NewUser creates a new staff user with required fields
func NewUser(username, password string, role Role, fullName string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or manager")
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		Role:              role,
		FullName:          strings.TrimSpace(fullName),
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetFullName sets the user's display name
func (u *User) SetFullName(fullName string) error {
	if len(fullName) > 100 {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 100 characters")
	}

	u.FullName = strings.TrimSpace(fullName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword changes the user's password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (u *User) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.UpdatedAt = now
	u.IncrementVersion()
}

// GetFullNameOrUsername returns the full name if set, otherwise the username
func (u *User) GetFullNameOrUsername() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Validation functions shared with the student identity space

// ValidateUsername validates a login username
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 50 characters")
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

// ValidatePassword validates a raw password
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	return nil
}

// HashPassword hashes a raw password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
