package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// EscapeLike escapes the LIKE wildcards (% and _) and the escape character itself,
// so user input matches literally inside a LIKE/ILIKE pattern
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ContainsPattern builds a case-insensitive "contains" pattern for ILIKE
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// Placeholder returns the PostgreSQL positional placeholder $n
func Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
