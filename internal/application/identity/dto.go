package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginType selects which identity space a login authenticates against.
// Staff (admin and manager) and students live in separate tables with
// independent username namespaces; the login type decides which table is
// consulted and the other is never touched.
type LoginType string

const (
	// LoginTypeStaff authenticates against the staff users table
	LoginTypeStaff LoginType = "admin_manager"
	// LoginTypeStudent authenticates against the students table
	LoginTypeStudent LoginType = "student"
)

// IsValid reports whether the login type is known
func (t LoginType) IsValid() bool {
	return t == LoginTypeStaff || t == LoginTypeStudent
}

// LoginInput contains the input for login
type LoginInput struct {
	LoginType LoginType
	Username  string
	Password  string
	IP        string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Principal             PrincipalInfo
}

// PrincipalInfo identifies the authenticated account, staff or student
type PrincipalInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Role        string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for logout
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresAt time.Time
}

// GetCurrentUserInput contains the input for getting current account info
type GetCurrentUserInput struct {
	UserID uuid.UUID
	Role   string
}

// CurrentUserResult contains the current account's information
type CurrentUserResult struct {
	Principal PrincipalInfo
	// Student-only fields; zero for staff accounts
	Room        string
	Allergies   string
	FoodType    string
	DaysPresent int
}

// ChangePasswordInput contains the input for a staff password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}
