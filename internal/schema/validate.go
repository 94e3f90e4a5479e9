package schema

import "fmt"

// MismatchError means an uploaded document lacks a required column.
type MismatchError struct {
	Missing string
	// Suggestion is an uploaded column that looks like a misspelling of
	// Missing, if any.
	Suggestion string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("required column %q not found", e.Missing)
}

// Validate reports whether every required column is present in columns.
// It stops at the first missing one and does not say which; Check names it.
func Validate(columns []string, required []string) bool {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}
	for _, col := range required {
		if !present[col] {
			return false
		}
	}
	return true
}
