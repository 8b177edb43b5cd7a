// Package email validates addresses against the local-part@domain.tld shape
// used at every intake boundary.
package email

import "regexp"

// One "@", no whitespace, and at least one "." after the "@".
var pattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValid reports whether addr has the local-part@domain.tld shape.
func IsValid(addr string) bool {
	return pattern.MatchString(addr)
}
