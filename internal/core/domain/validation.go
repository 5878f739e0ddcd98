package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// emailPattern accepts local@domain.tld: no whitespace, exactly one @, and at
// least one dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases, matching how
// emails are stored and compared for uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks raw signup input against the registration rules
// and returns the first violated rule's sentinel. Checks are ordered cheapest
// first so no work is wasted on obviously malformed input.
func ValidateRegistration(email, password, name string) error {
	if email == "" || password == "" || name == "" {
		return ErrMissingField
	}

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return ErrEmptyField
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len([]rune(name)) < 2 {
		return ErrNameTooShort
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !hasPasswordComplexity(password) {
		return ErrPasswordWeak
	}
	return nil
}

// hasPasswordComplexity requires at least one lowercase letter, one uppercase
// letter and one digit.
func hasPasswordComplexity(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
