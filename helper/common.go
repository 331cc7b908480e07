package helper

import (
	"regexp"
	"strings"
)

var IdentifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidIdentifier reports whether s is a bare or schema-qualified
// identifier safe to interpolate into introspection SQL.
func IsValidIdentifier(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !IdentifierRegex.MatchString(p) {
			return false
		}
	}
	return true
}
