// Package enum parses user-supplied tokens into closed string enums.
package enum

import (
	"strings"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
)

// Parse returns the member of valid that matches input case-insensitively,
// ignoring surrounding whitespace. On failure the ValidationError lists every
// valid token.
func Parse[T ~string](field string, valid []T, input string) (T, error) {
	needle := strings.ToLower(strings.TrimSpace(input))
	for _, v := range valid {
		if strings.ToLower(string(v)) == needle {
			return v, nil
		}
	}
	var zero T
	return zero, apperr.Invalid(field, "invalid value %q, valid values: [%s]", input, Join(valid))
}

// Contains reports whether v is one of valid.
func Contains[T ~string](valid []T, v T) bool {
	for _, candidate := range valid {
		if candidate == v {
			return true
		}
	}
	return false
}

// Join renders the tokens comma separated.
func Join[T ~string](valid []T) string {
	tokens := make([]string, len(valid))
	for i, v := range valid {
		tokens[i] = string(v)
	}
	return strings.Join(tokens, ", ")
}
