// Package validate holds the server-side input guardrails for form input.
package validate

import (
	"regexp"
	"strings"
)

// emailPattern is the contact endpoint's contract: local-part "@" domain "."
// tld, no whitespace anywhere. It is deliberately not an RFC validator; it
// catches empty, missing '@', and no dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailValid reports whether s has the local@domain.tld shape the contact
// endpoint accepts. Leading/trailing whitespace is not forgiven; the client
// sends the field verbatim.
func EmailValid(s string) bool {
	return emailPattern.MatchString(s)
}

// SimpleEmailValid is a lighter, readable guardrail used where the strict
// pattern is overkill (e.g. sanity-checking configured operator addresses).
// It catches empty, missing '@', or no dot in the domain.
func SimpleEmailValid(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".")
}
