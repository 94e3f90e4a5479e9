package model

import (
	"errors"
	"fmt"
)

const leaf = -1

// Tree is a fitted regression tree in array layout. Node i is a leaf when
// ChildrenLeft[i] == -1; otherwise samples with x[Feature[i]] <= Threshold[i]
// go left.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *Tree) validate(features int) error {
	n := len(t.Value)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return fmt.Errorf("tree arrays must all have %d entries", n)
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if r != leaf {
				return fmt.Errorf("node %d has a right child but no left child", i)
			}
			continue
		}
		// Children always come after their parent, which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= features {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, f, features)
		}
	}
	return nil
}

func (t *Tree) predictRow(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// DecisionTreeRegressor predicts with a single tree.
type DecisionTreeRegressor struct {
	Features int  `json:"n_features"`
	Tree     Tree `json:"tree"`
}

func (m *DecisionTreeRegressor) NumFeatures() int { return m.Features }

func (m *DecisionTreeRegressor) validate() error {
	if m.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	return m.Tree.validate(m.Features)
}

func (m *DecisionTreeRegressor) Predict(X [][]float64) ([]float64, error) {
	if err := checkWidth(X, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.Tree.predictRow(row)
	}
	return out, nil
}

// RandomForestRegressor averages the predictions of its trees.
type RandomForestRegressor struct {
	Features int    `json:"n_features"`
	Trees    []Tree `json:"trees"`
}

func (m *RandomForestRegressor) NumFeatures() int { return m.Features }

func (m *RandomForestRegressor) validate() error {
	if m.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(m.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.Features); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (m *RandomForestRegressor) Predict(X [][]float64) ([]float64, error) {
	if err := checkWidth(X, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		sum := 0.0
		for t := range m.Trees {
			sum += m.Trees[t].predictRow(row)
		}
		out[i] = sum / float64(len(m.Trees))
	}
	return out, nil
}
