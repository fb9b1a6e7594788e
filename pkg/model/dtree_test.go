package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thresholdData builds a dataset where only feature 0 matters:
// y = 1 iff x0 > 0.5. Feature 1 is uniform noise.
func thresholdData(n int, seed int64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		x0 := rnd.Float64()
		x1 := rnd.Float64()
		X[i] = []float64{x0, x1}
		if x0 > 0.5 {
			y[i] = 1
		}
	}
	return X, y
}

func TestDecisionTreeLearnsThresholdRule(t *testing.T) {
	X, y := thresholdData(300, 7)
	tree := NewDecisionTreeClassifier(WithRandomState(7))
	require.NoError(t, tree.Fit(X, y))

	preds := tree.Predict(X)
	assert.Greater(t, Accuracy(y, preds), 0.95)
}

func TestDecisionTreeImportancesFavorInformativeFeature(t *testing.T) {
	X, y := thresholdData(300, 7)
	tree := NewDecisionTreeClassifier(WithRandomState(7))
	require.NoError(t, tree.Fit(X, y))

	imp := tree.Importances()
	require.Len(t, imp, 2)
	assert.Greater(t, imp[0], imp[1])
	assert.InDelta(t, 1.0, imp[0]+imp[1], 1e-9, "importances normalize to 1")
}

func TestDecisionTreeHandlesMissingValues(t *testing.T) {
	X, y := thresholdData(200, 11)
	for i := 0; i < len(X); i += 10 {
		X[i][1] = math.NaN()
	}
	tree := NewDecisionTreeClassifier(WithRandomState(11))
	require.NoError(t, tree.Fit(X, y))

	probe := []float64{0.9, math.NaN()}
	assert.Equal(t, 1, tree.PredictOne(probe))
}

func TestDecisionTreeRejectsBadInput(t *testing.T) {
	tree := NewDecisionTreeClassifier()
	assert.Error(t, tree.Fit(nil, nil))
	assert.Error(t, tree.Fit([][]float64{{1}}, []int{0, 1}))
	assert.Error(t, tree.Fit([][]float64{{1, 2}, {3}}, []int{0, 1}))
}

func TestDecisionTreeMaxDepthOne(t *testing.T) {
	X, y := thresholdData(200, 3)
	tree := NewDecisionTreeClassifier(WithMaxDepth(1), WithRandomState(3))
	require.NoError(t, tree.Fit(X, y))
	// a single split on x0 at ~0.5 already solves the rule
	assert.Greater(t, Accuracy(y, tree.Predict(X)), 0.9)
}
