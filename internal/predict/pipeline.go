package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"redshift-backend/internal/document"
	"redshift-backend/internal/model"
	"redshift-backend/internal/schema"
)

// ProcessingError wraps any failure while building features, scaling or
// predicting. The cause is for logs only.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Result holds the model output for a table.
type Result struct {
	// Redshift is the prediction for the first row.
	Redshift float64
	// Predictions has one value per table row.
	Predictions []float64
}

// Predict builds a feature matrix from t in schema order, scales the
// continuous columns in place and runs the model. Categorical columns reach
// the model unchanged.
func Predict(t *document.Table, s *schema.FeatureSchema, scaler model.Scaler, reg model.Regressor) (Result, error) {
	if len(t.Rows) == 0 {
		return Result{}, &ProcessingError{Err: errors.New("document has no rows")}
	}

	all := s.AllColumns()
	X := make([][]float64, len(t.Rows))
	for i := range t.Rows {
		row := make([]float64, len(all))
		for j, col := range all {
			raw, ok := t.Value(i, col)
			if !ok {
				return Result{}, &ProcessingError{Err: fmt.Errorf("row %d: column %q is missing", i, col)}
			}
			v, err := toFloat(raw)
			if err != nil {
				return Result{}, &ProcessingError{Err: fmt.Errorf("row %d: column %q: %w", i, col, err)}
			}
			row[j] = v
		}
		X[i] = row
	}

	var contIdx []int
	for j, col := range all {
		if !s.IsCategorical(col) {
			contIdx = append(contIdx, j)
		}
	}

	if len(contIdx) > 0 {
		sub := make([][]float64, len(X))
		for i, row := range X {
			sub[i] = make([]float64, len(contIdx))
			for k, j := range contIdx {
				sub[i][k] = row[j]
			}
		}
		scaled, err := scaler.Transform(sub)
		if err != nil {
			return Result{}, &ProcessingError{Err: fmt.Errorf("scale: %w", err)}
		}
		if len(scaled) != len(X) {
			return Result{}, &ProcessingError{Err: fmt.Errorf("scaler returned %d rows for %d", len(scaled), len(X))}
		}
		for i, row := range X {
			if len(scaled[i]) != len(contIdx) {
				return Result{}, &ProcessingError{Err: fmt.Errorf("scaler returned %d columns for %d", len(scaled[i]), len(contIdx))}
			}
			for k, j := range contIdx {
				row[j] = scaled[i][k]
			}
		}
	}

	preds, err := reg.Predict(X)
	if err != nil {
		return Result{}, &ProcessingError{Err: fmt.Errorf("predict: %w", err)}
	}
	if len(preds) == 0 {
		return Result{}, &ProcessingError{Err: errors.New("model returned no predictions")}
	}

	return Result{Redshift: preds[0], Predictions: preds}, nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(val.String(), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	case float64:
		f = val
	case bool:
		if val {
			f = 1
		}
	case string:
		if !document.IsNumericString(val) {
			return 0, fmt.Errorf("non-numeric value %q", val)
		}
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	case nil:
		return 0, errors.New("null value")
	default:
		return 0, fmt.Errorf("unsupported value of type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}
