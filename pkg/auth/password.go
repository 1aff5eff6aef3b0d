package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword requires MinPasswordLength characters with at least one
// letter and one digit.
func ValidatePassword(password string) error {
	var hasLetter, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsLetter(ch):
			hasLetter = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	var failures []string
	if len([]rune(password)) < MinPasswordLength {
		failures = append(failures, fmt.Sprintf("at least %d characters", MinPasswordLength))
	}
	if !hasLetter {
		failures = append(failures, "a letter")
	}
	if !hasDigit {
		failures = append(failures, "a digit")
	}

	if len(failures) > 0 {
		return fmt.Errorf("password must contain %s", strings.Join(failures, ", "))
	}
	return nil
}

// ValidateUsername allows letters, digits and underscores. Names that clash
// with the built-in agents are refused by the caller.
func ValidateUsername(username string) error {
	n := len([]rune(username))
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("username must be %d to %d characters", MinUsernameLength, MaxUsernameLength)
	}
	for _, ch := range username {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			return fmt.Errorf("username may only contain letters, digits and underscores")
		}
	}
	return nil
}
