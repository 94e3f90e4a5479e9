package document

import (
	"encoding/json"
)

// Column type labels reported by Describe.
const (
	TypeNumeric = "numeric"
	TypeBool    = "bool"
	TypeString  = "string"
	TypeArray   = "array"
	TypeNull    = "null"
)

// Describe infers a type label per column from its first non-null value.
// Strings that look like numbers count as numeric.
func Describe(t *Table) map[string]string {
	types := make(map[string]string, len(t.Columns))

	for _, col := range t.Columns {
		colType := TypeNull
		for _, row := range t.Rows {
			val, ok := row[col]
			if !ok || val == nil {
				continue
			}
			colType = inferType(val)
			break
		}
		types[col] = colType
	}
	return types
}

func inferType(val any) string {
	switch v := val.(type) {
	case json.Number, float64, int, int64:
		return TypeNumeric
	case bool:
		return TypeBool
	case string:
		if IsNumericString(v) {
			return TypeNumeric
		}
		return TypeString
	case []any:
		return TypeArray
	default:
		return TypeString
	}
}

// IsNumericString reports whether s is a plain decimal number such as
// "-12.5". Exponents and signs other than a leading minus are rejected.
func IsNumericString(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	dotCount := 0
	digits := 0
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c == '.' {
			dotCount++
			if dotCount > 1 {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
		digits++
	}
	return digits > 0
}
