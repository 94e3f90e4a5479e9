package model

import (
	"errors"
	"fmt"
)

// LinearRegression predicts intercept + coef·x.
type LinearRegression struct {
	Features  int       `json:"n_features"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (m *LinearRegression) NumFeatures() int { return m.Features }

func (m *LinearRegression) validate() error {
	if m.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(m.Coef) != m.Features {
		return fmt.Errorf("coef has %d entries, expected %d", len(m.Coef), m.Features)
	}
	return nil
}

func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if err := checkWidth(X, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		y := m.Intercept
		for j, v := range row {
			y += m.Coef[j] * v
		}
		out[i] = y
	}
	return out, nil
}
