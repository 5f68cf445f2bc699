package utils

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the registration password policy: at least
// 8 characters with one uppercase letter, one digit and one special
// character. Returns a user-facing error for the first failed rule.
func ValidatePassword(plain string) error {
	if len(plain) < 8 {
		return errors.New("Password must be at least 8 characters")
	}
	if !strings.ContainsFunc(plain, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return errors.New("Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(plain, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return errors.New("Password must contain at least one number")
	}
	if !strings.ContainsAny(plain, passwordSpecials) {
		return errors.New("Password must contain at least one special character")
	}
	return nil
}

// ValidUsername checks the 3-20 character [A-Za-z0-9_] handle rule.
func ValidUsername(u string) bool {
	if len(u) < 3 || len(u) > 20 {
		return false
	}
	for _, r := range u {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
