package identity

import (
	"errors"
	"strings"
	"unicode"
)

// Signup validation errors.
var (
	ErrUsernameTooShort = errors.New("identity: username must be at least 3 characters")
	ErrInvalidEmail     = errors.New("identity: email address is invalid")
	ErrWeakPassword     = errors.New("identity: password must be at least 8 characters with upper, lower, digit and special characters")
)

// ValidateSignup checks account-creation input. Rules mirror what the
// client enforces so server-side rejection stays consistent with the UI.
func ValidateSignup(username, email, password string) error {
	if len(strings.TrimSpace(username)) < 3 {
		return ErrUsernameTooShort
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if !strongPassword(password) {
		return ErrWeakPassword
	}
	return nil
}

func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}
