package mess

import (
	"strings"
	"time"

	"github.com/messhall/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Diet category value stored in Student.FoodType and MenuEntry.FoodType.
// Any string is accepted on input; only the exact lower-cased "veg"
// comparison is meaningful to reporting.
const FoodTypeVeg = "veg"

const bcryptCost = 12

// Student represents a hostel resident.
// A student may optionally carry login credentials; one without them cannot
// log in but is still administered by staff. The student username namespace
// is independent from the staff one.
type Student struct {
	shared.BaseAggregateRoot
	Name         string
	Username     string
	PasswordHash string
	Room         string
	Allergies    string
	FoodType     string
	DaysPresent  int
}

// NewStudent creates a new student record
func NewStudent(name, room, allergies, foodType string) (*Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Student name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Student name cannot exceed 100 characters")
	}

	student := &Student{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Room:              strings.TrimSpace(room),
		Allergies:         strings.TrimSpace(allergies),
		FoodType:          strings.TrimSpace(foodType),
	}

	student.AddDomainEvent(NewStudentCreatedEvent(student))

	return student, nil
}

// UpdateProfile replaces the student's roster fields. Name stays
// mandatory; the rest accept any string including empty.
func (s *Student) UpdateProfile(name, room, allergies, foodType string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Student name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Student name cannot exceed 100 characters")
	}

	s.Name = name
	s.Room = strings.TrimSpace(room)
	s.Allergies = strings.TrimSpace(allergies)
	s.FoodType = strings.TrimSpace(foodType)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetCredentials attaches login credentials to the student
func (s *Student) SetCredentials(username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 50 characters")
	}
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	s.Username = username
	s.PasswordHash = string(hash)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// CanLogin reports whether the student has usable credentials
func (s *Student) CanLogin() bool {
	return s.Username != "" && s.PasswordHash != ""
}

// VerifyPassword verifies if the provided password matches.
// A student without a stored hash never verifies.
func (s *Student) VerifyPassword(password string) bool {
	if s.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
	return err == nil
}

// IsVeg reports whether the student's diet category is exactly "veg",
// case-insensitively. Everything else, including an empty category,
// counts as non-veg in reporting.
func (s *Student) IsVeg() bool {
	return strings.ToLower(s.FoodType) == FoodTypeVeg
}

// IncrementDaysPresent bumps the cumulative presence counter.
// Only the attendance recorder may call this, exactly once per first
// mark for a given date.
func (s *Student) IncrementDaysPresent() {
	s.DaysPresent++
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
