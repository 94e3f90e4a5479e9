package model

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestDecodeScaler_Standard(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"kind":"standard_scaler","n_features":2,"mean":[1,10],"scale":[2,0]}`))
	if err != nil {
		t.Fatalf("DecodeScaler failed: %v", err)
	}
	if s.NumFeatures() != 2 {
		t.Errorf("NumFeatures = %d", s.NumFeatures())
	}

	out, err := s.Transform([][]float64{{5, 12}})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	// zero scale leaves the centered value as-is
	if !approx(out[0][0], 2) || !approx(out[0][1], 2) {
		t.Errorf("Transform = %v, want [2 2]", out[0])
	}
}

func TestStandardScaler_DoesNotMutateInput(t *testing.T) {
	s := &StandardScaler{Features: 1, Mean: []float64{1}, Scale: []float64{2}}
	in := [][]float64{{3}}
	if _, err := s.Transform(in); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if in[0][0] != 3 {
		t.Errorf("input mutated to %v", in[0][0])
	}
}

func TestDecodeScaler_MinMaxAndRobust(t *testing.T) {
	mm, err := DecodeScaler([]byte(`{"kind":"minmax_scaler","n_features":1,"min":[-0.5],"scale":[0.25]}`))
	if err != nil {
		t.Fatalf("DecodeScaler minmax failed: %v", err)
	}
	out, _ := mm.Transform([][]float64{{4}})
	if !approx(out[0][0], 0.5) {
		t.Errorf("minmax = %v, want 0.5", out[0][0])
	}

	rb, err := DecodeScaler([]byte(`{"kind":"robust_scaler","n_features":1,"center":[3],"scale":[2]}`))
	if err != nil {
		t.Fatalf("DecodeScaler robust failed: %v", err)
	}
	out, _ = rb.Transform([][]float64{{7}})
	if !approx(out[0][0], 2) {
		t.Errorf("robust = %v, want 2", out[0][0])
	}
}

func TestDecodeScaler_Rejects(t *testing.T) {
	inputs := map[string]string{
		"not json":       `{{`,
		"unknown kind":   `{"kind":"pca"}`,
		"no features":    `{"kind":"standard_scaler","n_features":0}`,
		"mean too short": `{"kind":"standard_scaler","n_features":2,"mean":[1],"scale":[1,1]}`,
		"minmax missing": `{"kind":"minmax_scaler","n_features":1}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeScaler([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScaler_WidthMismatch(t *testing.T) {
	s := &StandardScaler{Features: 2}
	_, err := s.Transform([][]float64{{1, 2, 3}})
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}

const forestJSON = `{
	"kind": "random_forest_regressor",
	"n_features": 2,
	"trees": [
		{
			"children_left":  [1, -1, -1],
			"children_right": [2, -1, -1],
			"feature":        [0, -2, -2],
			"threshold":      [0.5, -2, -2],
			"value":          [0, 0.1, 0.3]
		},
		{
			"children_left":  [-1],
			"children_right": [-1],
			"feature":        [-2],
			"threshold":      [-2],
			"value":          [0.2]
		}
	]
}`

func TestRandomForestRegressor_AveragesTrees(t *testing.T) {
	m, err := DecodeRegressor([]byte(forestJSON))
	if err != nil {
		t.Fatalf("DecodeRegressor failed: %v", err)
	}

	preds, err := m.Predict([][]float64{{0.5, 9}, {0.6, 9}})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	// threshold is inclusive on the left branch
	if !approx(preds[0], 0.15) || !approx(preds[1], 0.25) {
		t.Errorf("Predict = %v, want [0.15 0.25]", preds)
	}
}

func TestDecisionTreeRegressor(t *testing.T) {
	m, err := DecodeRegressor([]byte(`{
		"kind": "decision_tree_regressor",
		"n_features": 1,
		"tree": {
			"children_left":  [1, -1, 3, -1, -1],
			"children_right": [2, -1, 4, -1, -1],
			"feature":        [0, -2, 0, -2, -2],
			"threshold":      [1, -2, 2, -2, -2],
			"value":          [0, 10, 0, 20, 30]
		}
	}`))
	if err != nil {
		t.Fatalf("DecodeRegressor failed: %v", err)
	}

	preds, err := m.Predict([][]float64{{0}, {1.5}, {3}})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	want := []float64{10, 20, 30}
	for i := range want {
		if preds[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, preds[i], want[i])
		}
	}
}

func TestLinearRegression(t *testing.T) {
	m, err := DecodeRegressor([]byte(`{"kind":"linear_regression","n_features":2,"coef":[0.5,-1],"intercept":0.25}`))
	if err != nil {
		t.Fatalf("DecodeRegressor failed: %v", err)
	}
	preds, err := m.Predict([][]float64{{2, 1}})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if !approx(preds[0], 0.25) {
		t.Errorf("Predict = %v, want 0.25", preds[0])
	}
}

func TestDecodeRegressor_Rejects(t *testing.T) {
	inputs := map[string]string{
		"unknown kind": `{"kind":"svm"}`,
		"no trees":     `{"kind":"random_forest_regressor","n_features":1,"trees":[]}`,
		"cyclic tree": `{"kind":"decision_tree_regressor","n_features":1,"tree":{
			"children_left":[1,0],"children_right":[1,0],"feature":[0,0],"threshold":[0,0],"value":[0,0]}}`,
		"feature out of range": `{"kind":"decision_tree_regressor","n_features":1,"tree":{
			"children_left":[1,-1,-1],"children_right":[2,-1,-1],"feature":[3,-2,-2],"threshold":[0,0,0],"value":[0,1,2]}}`,
		"ragged arrays": `{"kind":"decision_tree_regressor","n_features":1,"tree":{
			"children_left":[-1],"children_right":[],"feature":[-2],"threshold":[0],"value":[1]}}`,
		"coef width": `{"kind":"linear_regression","n_features":2,"coef":[1]}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeRegressor([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRegressor_WidthMismatch(t *testing.T) {
	m := &LinearRegression{Features: 2, Coef: []float64{1, 1}}
	if _, err := m.Predict([][]float64{{1}}); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}
