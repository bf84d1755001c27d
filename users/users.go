package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string `json:"id,omitempty"`       // Unique identifier for the user
	Username     string `json:"username,omitempty"` // Unique username, used for login lookup
	Nickname     string `json:"nickname,omitempty"` // Display name
	PasswordHash string `json:"-"`                  // Hashed version of the user's password - never serialize

	// Refresh session fields. Either both are set or both are nil - nil means
	// no active session. Mutated only through the auth service.
	RefreshTokenHash *string    `json:"-"`
	RefreshTokenExp  *time.Time `json:"-"`

	// Social login fields, kept for schema compatibility but unused.
	Provider *string `json:"provider,omitempty"`
	SocialID *string `json:"social_id,omitempty"`

	Gender    string    `json:"gender,omitempty"`     // Optional profile data, passed through untouched
	BirthDate string    `json:"birth_date,omitempty"` // Optional profile data, passed through untouched
	CreatedAt time.Time `json:"created_at,omitempty"` // Date and time when the user registered
}

// HasActiveSession reports whether a refresh session is persisted for the user.
func (u *User) HasActiveSession() bool {
	return u.RefreshTokenHash != nil && u.RefreshTokenExp != nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains letters and at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasLetter bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
