package schema

import (
	"errors"
	"fmt"
)

// Default feature layout the bundled artifacts were fitted on.
var (
	DefaultAllColumns = []string{
		"photometry.u",
		"photometry.g",
		"photometry.r",
		"photometry.i",
		"photometry.z",
		"morphology",
		"petrosian.r50",
		"petrosian.r90",
		"extinction_r",
		"clean",
	}

	DefaultCategoricalColumns = []string{
		"morphology",
		"clean",
	}
)

// FeatureSchema is the ordered column list a model was fitted on, split into
// categorical columns (passed through) and continuous columns (scaled).
type FeatureSchema struct {
	all         []string
	categorical map[string]bool
	continuous  []string
}

// New builds a schema. Continuous columns keep the order of all.
func New(all, categorical []string) (*FeatureSchema, error) {
	if len(all) == 0 {
		return nil, errors.New("schema: no columns configured")
	}

	seen := make(map[string]bool, len(all))
	for _, col := range all {
		if col == "" {
			return nil, errors.New("schema: empty column name")
		}
		if seen[col] {
			return nil, fmt.Errorf("schema: duplicate column %q", col)
		}
		seen[col] = true
	}

	cat := make(map[string]bool, len(categorical))
	for _, col := range categorical {
		if !seen[col] {
			return nil, fmt.Errorf("schema: categorical column %q is not a feature column", col)
		}
		cat[col] = true
	}

	s := &FeatureSchema{
		all:         append([]string(nil), all...),
		categorical: cat,
	}
	for _, col := range s.all {
		if !cat[col] {
			s.continuous = append(s.continuous, col)
		}
	}
	return s, nil
}

// Default returns the schema for the bundled artifacts.
func Default() *FeatureSchema {
	s, err := New(DefaultAllColumns, DefaultCategoricalColumns)
	if err != nil {
		panic(err)
	}
	return s
}

// AllColumns returns a copy of the ordered feature columns.
func (s *FeatureSchema) AllColumns() []string {
	return append([]string(nil), s.all...)
}

// CategoricalColumns returns the categorical columns in feature order.
func (s *FeatureSchema) CategoricalColumns() []string {
	out := make([]string, 0, len(s.categorical))
	for _, col := range s.all {
		if s.categorical[col] {
			out = append(out, col)
		}
	}
	return out
}

// ContinuousColumns returns a copy of the scaled columns in feature order.
func (s *FeatureSchema) ContinuousColumns() []string {
	return append([]string(nil), s.continuous...)
}

// IsCategorical reports whether col bypasses the scaler.
func (s *FeatureSchema) IsCategorical(col string) bool {
	return s.categorical[col]
}

// Width is the number of features the model expects.
func (s *FeatureSchema) Width() int {
	return len(s.all)
}

// Check reports the first feature column missing from columns. It passes
// exactly when Validate(columns, s.AllColumns()) does.
func (s *FeatureSchema) Check(columns []string) error {
	if Validate(columns, s.all) {
		return nil
	}
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}
	for _, col := range s.all {
		if !present[col] {
			return &MismatchError{Missing: col, Suggestion: s.suggest(col, columns)}
		}
	}
	return nil
}
