package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed    = errors.New("pin hashing failed")
	ErrComparisonFailed = errors.New("pin comparison failed")
	ErrInvalidPassword  = errors.New("invalid pin")
	ErrTooShort         = errors.New("pin must be at least 4 characters")
)

const (
	DefaultCost = bcrypt.DefaultCost
	MinLength   = 4
)

// Normalize trims surrounding whitespace and enforces the minimum length.
func Normalize(pin string) (string, error) {
	trimmed := strings.TrimSpace(pin)
	if len(trimmed) < MinLength {
		return "", ErrTooShort
	}
	return trimmed, nil
}

func HashPassword(pin string) (string, error) {
	normalized, err := Normalize(pin)
	if err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(normalized), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, pin string) error {
	if hashedPassword == "" || pin == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(strings.TrimSpace(pin)))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrComparisonFailed
		}
		return err
	}

	return nil
}
