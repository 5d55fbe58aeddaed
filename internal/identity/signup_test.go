package identity

import (
	"errors"
	"testing"
)

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"valid", "alice", "alice@example.com", "Str0ng!pass", nil},
		{"short username", "ab", "a@b.com", "Str0ng!pass", ErrUsernameTooShort},
		{"whitespace username", "  a  ", "a@b.com", "Str0ng!pass", ErrUsernameTooShort},
		{"email missing @", "alice", "alice.example.com", "Str0ng!pass", ErrInvalidEmail},
		{"short password", "alice", "a@b.com", "S0!a", ErrWeakPassword},
		{"no upper", "alice", "a@b.com", "str0ng!pass", ErrWeakPassword},
		{"no digit", "alice", "a@b.com", "Strong!pass", ErrWeakPassword},
		{"no special", "alice", "a@b.com", "Str0ngpass", ErrWeakPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSignup(tc.username, tc.email, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ValidateSignup() = %v, want %v", err, tc.want)
			}
		})
	}
}
