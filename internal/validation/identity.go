package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// local@domain.tld with no whitespace and a single @. Consecutive dots and one-letter labels
// are accepted.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases raw, then checks its shape.
func NormalizeEmail(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrFieldEmpty
	}

	if !emailPattern.MatchString(s) {
		return "", ErrInvalidEmailFormat
	}

	return s, nil
}

// NormalizeIdentity accepts only the canonical 36 character UUID form and returns it
// lower-cased.
func NormalizeIdentity(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) != 36 {
		return "", ErrInvalidReferenceFormat
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return "", ErrInvalidReferenceFormat
	}

	return id.String(), nil
}

func IsIdentity(raw string) bool {
	_, err := NormalizeIdentity(raw)
	return err == nil
}
