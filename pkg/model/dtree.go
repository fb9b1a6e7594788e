package model

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"
)

// DecisionTreeClassifier is a CART-style classifier. It records the
// impurity decrease each feature contributes so that forests built on top
// of it can expose feature importances.
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth        int    // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit int    // minimum samples to attempt a split
	MinSamplesLeaf  int    // minimum samples required in each leaf
	Criterion       string // "gini" (default) or "entropy"
	MaxFeatures     int    // 0 => all features, >0 => features sampled per split
	RandomState     int64  // seed for feature subsampling

	// internals
	root        *dtNode
	classes     []int
	importances []float64
	nFit        int // samples seen at fit time
}

type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *dtNode
	right     *dtNode

	n         int
	probas    []float64
	predIndex int
}

// Option is functional config for the tree.
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		MaxFeatures:     0,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Fit trains the tree on X (n x p) and integer labels y. Missing values
// must be math.NaN(); they are routed to whichever side of a split scores
// better during training.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains on the rows selected by idx (with repeats), which is how
// a bootstrap-sampling forest hands each tree its resample without copying
// the data.
func (t *DecisionTreeClassifier) FitIndices(X [][]float64, y []int, idx []int) error {
	if len(X) == 0 || len(idx) == 0 {
		return errors.New("dtree: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("dtree: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}

	t.classes = nil
	classMap := map[int]int{}
	for _, ii := range idx {
		if _, ok := classMap[y[ii]]; !ok {
			classMap[y[ii]] = len(t.classes)
			t.classes = append(t.classes, y[ii])
		}
	}

	t.importances = make([]float64, p)
	t.nFit = len(idx)
	rnd := rand.New(rand.NewSource(t.RandomState))
	impurity := giniFromCounts
	if t.Criterion == "entropy" {
		impurity = entropyFromCounts
	}

	t.root = t.buildNode(X, y, idx, 0, p, impurity, rnd)
	return nil
}

// Predict returns predicted class labels.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = t.PredictOne(X[i])
	}
	return out
}

// PredictOne classifies a single row.
func (t *DecisionTreeClassifier) PredictOne(x []float64) int {
	probs := t.predictProbaSingle(x)
	maxIdx := 0
	for j := 1; j < len(probs); j++ {
		if probs[j] > probs[maxIdx] {
			maxIdx = j
		}
	}
	return t.classes[maxIdx]
}

// Importances returns the accumulated impurity-decrease importance per
// feature, normalized to sum to 1 when any split happened.
func (t *DecisionTreeClassifier) Importances() []float64 {
	out := append([]float64(nil), t.importances...)
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

type pair struct {
	v float64
	i int
}

func (t *DecisionTreeClassifier) buildNode(X [][]float64, y []int, idx []int, depth, p int, impurity func([]int) float64, rnd *rand.Rand) *dtNode {
	node := &dtNode{n: len(idx)}

	counts := make([]int, len(t.classes))
	for _, ii := range idx {
		counts[classIndex(y[ii], t.classes)]++
	}
	leaf := func() *dtNode {
		node.isLeaf = true
		node.probas = countsToProbas(counts)
		node.predIndex = argmax(counts)
		return node
	}
	if isPure(counts) || len(idx) < t.MinSamplesSplit {
		return leaf()
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf()
	}

	// feature subsample
	featIndices := rnd.Perm(p)
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		featIndices = featIndices[:t.MaxFeatures]
	}

	parentImpurity := impurity(counts)
	best := splitResult{feature: -1}
	for _, f := range featIndices {
		if r := t.bestSplitForFeature(X, y, idx, f, parentImpurity, impurity); r.gain > best.gain {
			best = r
		}
	}
	if best.feature == -1 || best.gain <= 0 {
		return leaf()
	}

	// weight the gain by the fraction of training rows reaching this node
	t.importances[best.feature] += best.gain * float64(len(idx)) / float64(t.nFit)

	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.buildNode(X, y, best.leftIdx, depth+1, p, impurity, rnd)
	node.right = t.buildNode(X, y, best.rightIdx, depth+1, p, impurity, rnd)
	return node
}

// bestSplitForFeature scans the midpoints between distinct sorted values of
// feature f. Rows with NaN in f are tried on both sides and kept wherever
// the gain is higher.
func (t *DecisionTreeClassifier) bestSplitForFeature(X [][]float64, y []int, idx []int, f int, parentImpurity float64, impurity func([]int) float64) splitResult {
	result := splitResult{feature: -1}

	valid := make([]pair, 0, len(idx))
	var nans []int
	for _, ii := range idx {
		if math.IsNaN(X[ii][f]) {
			nans = append(nans, ii)
		} else {
			valid = append(valid, pair{X[ii][f], ii})
		}
	}
	if len(valid) < 2 {
		return result
	}
	sort.Slice(valid, func(a, b int) bool { return valid[a].v < valid[b].v })

	total := float64(len(idx))
	try := func(leftIdx, rightIdx []int, thr float64) {
		if len(leftIdx) < t.MinSamplesLeaf || len(rightIdx) < t.MinSamplesLeaf {
			return
		}
		lc := countsFromIndices(y, leftIdx, t.classes)
		rc := countsFromIndices(y, rightIdx, t.classes)
		weighted := float64(len(leftIdx))/total*impurity(lc) + float64(len(rightIdx))/total*impurity(rc)
		if gain := parentImpurity - weighted; gain > result.gain {
			result = splitResult{gain: gain, feature: f, threshold: thr, leftIdx: leftIdx, rightIdx: rightIdx}
		}
	}

	for s := 1; s < len(valid); s++ {
		if valid[s].v == valid[s-1].v {
			continue
		}
		thr := (valid[s-1].v + valid[s].v) / 2.0
		left := indicesFromPairs(valid[:s])
		right := indicesFromPairs(valid[s:])
		if len(nans) == 0 {
			try(left, right, thr)
			continue
		}
		try(append(append([]int(nil), left...), nans...), right, thr)
		try(left, append(append([]int(nil), right...), nans...), thr)
	}
	return result
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.i)
	}
	return out
}

func countsFromIndices(y []int, idx []int, classes []int) []int {
	counts := make([]int, len(classes))
	for _, ii := range idx {
		counts[classIndex(y[ii], classes)]++
	}
	return counts
}

func (t *DecisionTreeClassifier) predictProbaSingle(x []float64) []float64 {
	if t.root == nil {
		p := make([]float64, len(t.classes))
		for i := range p {
			p[i] = 1.0 / float64(len(p))
		}
		return p
	}
	node := t.root
	for !node.isLeaf {
		val := x[node.feature]
		if math.IsNaN(val) {
			// missing: follow the branch that saw more samples
			if node.left.n >= node.right.n {
				node = node.left
			} else {
				node = node.right
			}
			continue
		}
		if val <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probas
}

// ---------------------------
// Utilities: impurity & misc
// ---------------------------

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = float64(counts[i]) / float64(n)
	}
	return p
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}

func classIndex(label int, classes []int) int {
	for i, v := range classes {
		if v == label {
			return i
		}
	}
	return 0
}
