package document

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
)

var errNoNumericValues = errors.New("document: no numeric values")

// ColumnStats summarizes the numeric values of one column.
type ColumnStats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Stats computes basic stats for a column. Values that are not numbers
// are skipped.
func Stats(t *Table, col string) (ColumnStats, error) {
	var values []float64
	for _, row := range t.Rows {
		if v, ok := numericValue(row[col]); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return ColumnStats{}, errNoNumericValues
	}

	sort.Float64s(values)
	st := ColumnStats{
		Count: len(values),
		Min:   values[0],
		Max:   values[len(values)-1],
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	st.Mean = sum / float64(len(values))

	mid := len(values) / 2
	if len(values)%2 == 0 {
		st.Median = (values[mid-1] + values[mid]) / 2
	} else {
		st.Median = values[mid]
	}
	return st, nil
}

// Summarize returns stats for every column Describe labels numeric.
func Summarize(t *Table) map[string]ColumnStats {
	out := make(map[string]ColumnStats)
	for col, typ := range Describe(t) {
		if typ != TypeNumeric {
			continue
		}
		if st, err := Stats(t, col); err == nil {
			out[col] = st
		}
	}
	return out
}

func numericValue(val any) (float64, bool) {
	switch v := val.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case string:
		if !IsNumericString(v) {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
