package domain

import "strings"

// ValidateInitials normalizes and validates a sprint naming token: exactly
// three letters, A-Z only, lowercase accepted and uppercased. Validation is
// client-side; a non-conforming token must never reach the tracker.
func ValidateInitials(s string) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if len(norm) != 3 {
		return "", ErrInvalidInitials
	}
	for _, r := range norm {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidInitials
		}
	}
	return norm, nil
}
