package model

import (
	"errors"
	"fmt"
)

// StandardScaler applies (x - mean) / scale per column. A nil Mean skips
// centering and a nil Scale skips scaling; a zero scale is treated as 1.
type StandardScaler struct {
	Features int       `json:"n_features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

func (s *StandardScaler) NumFeatures() int { return s.Features }

func (s *StandardScaler) validate() error {
	if s.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if s.Mean != nil && len(s.Mean) != s.Features {
		return fmt.Errorf("mean has %d entries, expected %d", len(s.Mean), s.Features)
	}
	if s.Scale != nil && len(s.Scale) != s.Features {
		return fmt.Errorf("scale has %d entries, expected %d", len(s.Scale), s.Features)
	}
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if err := checkWidth(X, s.Features); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		y := make([]float64, len(row))
		for j, v := range row {
			if s.Mean != nil {
				v -= s.Mean[j]
			}
			if s.Scale != nil && s.Scale[j] != 0 {
				v /= s.Scale[j]
			}
			y[j] = v
		}
		out[i] = y
	}
	return out, nil
}

// MinMaxScaler applies x*scale + min per column, where scale and min were
// derived from the fitted data range.
type MinMaxScaler struct {
	Features int       `json:"n_features"`
	Min      []float64 `json:"min"`
	Scale    []float64 `json:"scale"`
}

func (s *MinMaxScaler) NumFeatures() int { return s.Features }

func (s *MinMaxScaler) validate() error {
	if s.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(s.Min) != s.Features || len(s.Scale) != s.Features {
		return fmt.Errorf("min/scale must have %d entries", s.Features)
	}
	return nil
}

func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if err := checkWidth(X, s.Features); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		y := make([]float64, len(row))
		for j, v := range row {
			y[j] = v*s.Scale[j] + s.Min[j]
		}
		out[i] = y
	}
	return out, nil
}

// RobustScaler applies (x - center) / scale, with center the fitted median
// and scale the fitted interquartile range.
type RobustScaler struct {
	Features int       `json:"n_features"`
	Center   []float64 `json:"center"`
	Scale    []float64 `json:"scale"`
}

func (s *RobustScaler) NumFeatures() int { return s.Features }

func (s *RobustScaler) validate() error {
	if s.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(s.Center) != s.Features || len(s.Scale) != s.Features {
		return fmt.Errorf("center/scale must have %d entries", s.Features)
	}
	return nil
}

func (s *RobustScaler) Transform(X [][]float64) ([][]float64, error) {
	if err := checkWidth(X, s.Features); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		y := make([]float64, len(row))
		for j, v := range row {
			if s.Scale[j] != 0 {
				y[j] = (v - s.Center[j]) / s.Scale[j]
			} else {
				y[j] = v - s.Center[j]
			}
		}
		out[i] = y
	}
	return out, nil
}
