package model

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RandomForest is a bagged ensemble of decision trees for classification.
// Besides majority-vote prediction it exposes mean impurity-decrease
// feature importances and an out-of-bag accuracy estimate, which is what the
// feature ranker consumes.
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 => sqrt(p), chosen at fit time
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees       []*DecisionTreeClassifier
	importances []float64
	oobAccuracy float64
}

// RandomForestOption is functional config for the forest.
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithForestRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. Trees train concurrently, each from its own
// deterministic seed (RandomState + tree index) so a fixed RandomState gives
// a reproducible forest. Bootstrap resamples are index slices, never copies
// of the data.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}
	p := len(X[0])

	maxFeatures := rf.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Sqrt(float64(p)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rf.Trees = make([]*DecisionTreeClassifier, rf.NEstimators)
	inBag := make([][]bool, rf.NEstimators)
	errCh := make(chan error, rf.NEstimators)
	var wg sync.WaitGroup

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// one rand source per goroutine, no contention
			treeRand := rand.New(rand.NewSource(rf.RandomState + int64(idx)))

			sampleIndices := make([]int, n)
			bag := make([]bool, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
				bag[sampleIndices[j]] = true
			}
			inBag[idx] = bag

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMaxFeatures(maxFeatures),
				WithRandomState(rf.RandomState+int64(idx)),
			)
			if err := tree.FitIndices(X, y, sampleIndices); err != nil {
				errCh <- err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}

	rf.aggregateImportances(p)
	rf.computeOOB(X, y, inBag)
	return nil
}

// Predict returns the majority vote of all trees.
func (rf *RandomForest) Predict(X [][]float64) []int {
	n := len(X)
	allPreds := make([][]int, rf.NEstimators)
	var wg sync.WaitGroup
	for i, tree := range rf.Trees {
		wg.Add(1)
		go func(i int, t *DecisionTreeClassifier) {
			defer wg.Done()
			allPreds[i] = t.Predict(X)
		}(i, tree)
	}
	wg.Wait()

	finalPred := make([]int, n)
	for i := 0; i < n; i++ {
		counts := make(map[int]int)
		for j := 0; j < rf.NEstimators; j++ {
			counts[allPreds[j][i]]++
		}
		bestClass, maxCount := -1, -1
		for cls, cnt := range counts {
			if cnt > maxCount {
				bestClass, maxCount = cls, cnt
			}
		}
		finalPred[i] = bestClass
	}
	return finalPred
}

// FeatureImportances returns the per-feature importance averaged over trees,
// normalized to sum to 1.
func (rf *RandomForest) FeatureImportances() []float64 {
	return append([]float64(nil), rf.importances...)
}

// OOBAccuracy returns the out-of-bag accuracy estimate computed during Fit.
// It is 0 when Bootstrap is off (every sample is in every bag).
func (rf *RandomForest) OOBAccuracy() float64 { return rf.oobAccuracy }

func (rf *RandomForest) aggregateImportances(p int) {
	rf.importances = make([]float64, p)
	for _, tree := range rf.Trees {
		for f, v := range tree.Importances() {
			rf.importances[f] += v
		}
	}
	total := 0.0
	for _, v := range rf.importances {
		total += v
	}
	if total > 0 {
		for f := range rf.importances {
			rf.importances[f] /= total
		}
	}
}

// computeOOB scores each sample with the majority vote of the trees that did
// not see it during training.
func (rf *RandomForest) computeOOB(X [][]float64, y []int, inBag [][]bool) {
	votes := make([]map[int]int, len(X))
	for t, tree := range rf.Trees {
		for i := range X {
			if inBag[t][i] {
				continue
			}
			if votes[i] == nil {
				votes[i] = map[int]int{}
			}
			votes[i][tree.PredictOne(X[i])]++
		}
	}
	correct, scored := 0, 0
	for i, v := range votes {
		if v == nil {
			continue
		}
		bestClass, maxCount := -1, -1
		for cls, cnt := range v {
			if cnt > maxCount {
				bestClass, maxCount = cls, cnt
			}
		}
		scored++
		if bestClass == y[i] {
			correct++
		}
	}
	if scored > 0 {
		rf.oobAccuracy = float64(correct) / float64(scored)
	}
}
