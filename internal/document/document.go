package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// MalformedInputError means the uploaded bytes are not a JSON document.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed JSON input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// ErrNotTabular is returned by Flatten for documents that are neither an
// object nor an array of objects.
var ErrNotTabular = errors.New("document is not an object or an array of objects")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a flattened document: one row per record, nested keys joined
// with ".".
type Table struct {
	// Columns is the union of row keys in first-seen order.
	Columns []string
	Rows    []map[string]any
}

// Parse decodes raw bytes into a generic JSON value. Numbers are kept as
// json.Number so they convert to float64 exactly once, downstream.
func Parse(raw []byte) (any, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &MalformedInputError{Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &MalformedInputError{Err: err}
	}
	return v, nil
}

// Flatten normalizes a parsed document into a table. A single object is one
// row; an array must contain only objects. Nested objects expand into
// dotted columns and an empty object adds no column. Anything else
// (arrays, null, scalars) is a leaf value.
func Flatten(v any) (*Table, error) {
	var records []map[string]any

	switch doc := v.(type) {
	case map[string]any:
		records = []map[string]any{doc}
	case []any:
		for i, item := range doc {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d: %w", i, ErrNotTabular)
			}
			records = append(records, obj)
		}
	default:
		return nil, ErrNotTabular
	}

	t := &Table{Rows: make([]map[string]any, 0, len(records))}
	seen := make(map[string]bool)
	for _, rec := range records {
		row := make(map[string]any)
		flattenInto(row, "", rec)
		for _, col := range sortedKeys(row) {
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func flattenInto(row map[string]any, prefix string, obj map[string]any) {
	for _, key := range sortedKeys(obj) {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := obj[key].(map[string]any); ok {
			flattenInto(row, name, nested)
			continue
		}
		row[name] = obj[key]
	}
}

// sortedKeys fixes column order within an object; decoded maps have none.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load parses and flattens raw bytes in one step.
func Load(raw []byte) (*Table, error) {
	v, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Flatten(v)
}

// Value returns the cell at row/col and whether the row has that column.
func (t *Table) Value(row int, col string) (any, bool) {
	if row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	v, ok := t.Rows[row][col]
	return v, ok
}
