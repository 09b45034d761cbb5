package subscribe

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidEmail reports whether email has a local part, an @ and a dotted
// domain, with no whitespace.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
