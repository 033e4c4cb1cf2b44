// Package validation holds the input validation rules shared by services
// and request handlers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mobileRegex = regexp.MustCompile(`^\d{10}$`)
	// Permissive on purpose: one @, no whitespace, a dot in the domain.
	// Deliverability is the mail provider's problem.
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const maxNameLen = 100

// Name requires a non-blank display name of reasonable length.
func Name(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is required")
	}
	if len(trimmed) > maxNameLen {
		return fmt.Errorf("name must be at most %d characters", maxNameLen)
	}
	return nil
}

// MobileNumber requires exactly 10 digits, no separators or country code.
func MobileNumber(mobile string) error {
	if !mobileRegex.MatchString(mobile) {
		return fmt.Errorf("mobile number must be exactly 10 digits")
	}
	return nil
}

// Email requires a plausible address shape.
func Email(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email address is invalid")
	}
	return nil
}
