package schema

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNew_PartitionsPreservingOrder(t *testing.T) {
	s, err := New([]string{"a", "cat1", "b", "c", "cat2"}, []string{"cat2", "cat1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got, want := s.ContinuousColumns(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("continuous = %v, want %v", got, want)
	}
	if got, want := s.CategoricalColumns(), []string{"cat1", "cat2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("categorical = %v, want %v", got, want)
	}
	if s.Width() != 5 {
		t.Errorf("width = %d, want 5", s.Width())
	}
	if !s.IsCategorical("cat1") || s.IsCategorical("a") {
		t.Error("IsCategorical reports wrong membership")
	}
}

func TestNew_RejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name        string
		all         []string
		categorical []string
	}{
		{"empty", nil, nil},
		{"duplicate", []string{"a", "a"}, nil},
		{"blank name", []string{"a", ""}, nil},
		{"categorical not a feature", []string{"a", "b"}, []string{"z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.all, tt.categorical); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSchema_AccessorsReturnCopies(t *testing.T) {
	s := Default()
	cols := s.AllColumns()
	cols[0] = "mutated"

	if s.AllColumns()[0] == "mutated" {
		t.Error("AllColumns exposed internal slice")
	}
}

func TestValidate(t *testing.T) {
	required := []string{"col_a", "col_b", "col_c"}

	tests := []struct {
		name    string
		columns []string
		want    bool
	}{
		{"all present", []string{"col_c", "col_a", "col_b"}, true},
		{"extra columns allowed", []string{"col_a", "col_b", "col_c", "other"}, true},
		{"one missing", []string{"col_a"}, false},
		{"none", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.columns, required); got != tt.want {
				t.Errorf("Validate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_NamesFirstMissingInFeatureOrder(t *testing.T) {
	s, err := New([]string{"a", "b", "c"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = s.Check([]string{"a"})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Missing != "b" {
		t.Errorf("missing = %q, want %q", mismatch.Missing, "b")
	}

	if err := s.Check([]string{"c", "b", "a"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheck_AgreesWithValidate(t *testing.T) {
	s := Default()
	inputs := [][]string{
		s.AllColumns(),
		s.AllColumns()[1:],
		append(s.AllColumns(), "objid"),
		{"photometry.u"},
		nil,
	}
	for _, cols := range inputs {
		ok := Validate(cols, s.AllColumns())
		if ok != (s.Check(cols) == nil) {
			t.Errorf("Check and Validate disagree for %v", cols)
		}
	}
}

func TestCheck_SuggestsMisspelledColumn(t *testing.T) {
	s, err := New([]string{"photometry.u", "extinction_r"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = s.Check([]string{"photometry.u", "Extinction-R", "objid"})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Missing != "extinction_r" || mismatch.Suggestion != "Extinction-R" {
		t.Errorf("mismatch = %+v", mismatch)
	}

	err = s.Check([]string{"photometry.u", "objid"})
	if !errors.As(err, &mismatch) || mismatch.Suggestion != "" {
		t.Errorf("unrelated columns should not be suggested: %+v", mismatch)
	}
}

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "ABC", 1},
		{"kitten", "sitting", 1 - 3.0/7},
		{"abc", "", 0},
	}
	for _, tt := range tests {
		if got := LevenshteinRatio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("LevenshteinRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
