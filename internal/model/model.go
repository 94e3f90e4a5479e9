// Package model holds the pre-fitted artifacts used at inference time.
// Nothing here fits anything: parameters come from serialized artifacts.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Scaler rescales feature columns with parameters learned at fit time.
type Scaler interface {
	Transform(X [][]float64) ([][]float64, error)
	NumFeatures() int
}

// Regressor maps each row of X to a single prediction.
type Regressor interface {
	Predict(X [][]float64) ([]float64, error)
	NumFeatures() int
}

// Artifact kinds understood by the decoders.
const (
	KindStandardScaler = "standard_scaler"
	KindMinMaxScaler   = "minmax_scaler"
	KindRobustScaler   = "robust_scaler"

	KindRandomForestRegressor = "random_forest_regressor"
	KindDecisionTreeRegressor = "decision_tree_regressor"
	KindLinearRegression      = "linear_regression"
)

// ErrShape is returned when input width does not match the artifact.
var ErrShape = errors.New("feature width mismatch")

type header struct {
	Kind string `json:"kind"`
}

// DecodeScaler builds a Scaler from its JSON form.
func DecodeScaler(data []byte) (Scaler, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}

	var s Scaler
	switch h.Kind {
	case KindStandardScaler:
		var v StandardScaler
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
		s = &v
	case KindMinMaxScaler:
		var v MinMaxScaler
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
		s = &v
	case KindRobustScaler:
		var v RobustScaler
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
		s = &v
	default:
		return nil, fmt.Errorf("decode scaler: unknown kind %q", h.Kind)
	}

	if v, ok := s.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
	}
	return s, nil
}

// DecodeRegressor builds a Regressor from its JSON form.
func DecodeRegressor(data []byte) (Regressor, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode regressor: %w", err)
	}

	var r Regressor
	switch h.Kind {
	case KindRandomForestRegressor:
		var v RandomForestRegressor
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
		r = &v
	case KindDecisionTreeRegressor:
		var v DecisionTreeRegressor
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
		r = &v
	case KindLinearRegression:
		var v LinearRegression
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
		r = &v
	default:
		return nil, fmt.Errorf("decode regressor: unknown kind %q", h.Kind)
	}

	if v, ok := r.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("decode %s: %w", h.Kind, err)
		}
	}
	return r, nil
}

func checkWidth(X [][]float64, want int) error {
	for i, row := range X {
		if len(row) != want {
			return fmt.Errorf("row %d has %d features, expected %d: %w", i, len(row), want, ErrShape)
		}
	}
	return nil
}
