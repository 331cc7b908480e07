// Package safety gates SQL text before it reaches a database session.
// Only read-only statements pass: anything that could mutate schema or
// data, or smuggle a second statement, is rejected.
package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxStatementLength bounds accepted SQL text.
const MaxStatementLength = 5000

// forbidden lists keywords that must not appear anywhere in the statement
// as a standalone token. Matching is word-boundary based, so column names
// like created_at do not trip it.
var forbidden = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER",
	"TRUNCATE", "CREATE", "EXEC", "EXECUTE", "GRANT", "REVOKE",
}

var forbiddenRe = func() *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + strings.Join(forbidden, "|") + `)\b`)
}()

// UnsafeStatementError reports why a statement failed the read-only check.
type UnsafeStatementError struct {
	Reason string
}

func (e *UnsafeStatementError) Error() string {
	return "unsafe statement: " + e.Reason
}

// Validate returns nil when sql is an acceptable read-only statement,
// or an *UnsafeStatementError describing the first problem found.
func Validate(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return &UnsafeStatementError{Reason: "statement is empty"}
	}
	if len(trimmed) > MaxStatementLength {
		return &UnsafeStatementError{Reason: fmt.Sprintf("statement exceeds %d characters", MaxStatementLength)}
	}

	if m := forbiddenRe.FindString(trimmed); m != "" {
		return &UnsafeStatementError{Reason: "forbidden keyword: " + strings.ToUpper(m)}
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return &UnsafeStatementError{Reason: "only SELECT statements are allowed"}
	}

	// A semicolon is fine as a terminator, but anything after it is a
	// second statement.
	if i := strings.Index(trimmed, ";"); i >= 0 {
		if strings.TrimSpace(trimmed[i+1:]) != "" {
			return &UnsafeStatementError{Reason: "multiple statements are not allowed"}
		}
	}

	return nil
}
