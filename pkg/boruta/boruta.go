// Package boruta implements all-relevant feature selection: every feature
// statistically more informative than its own permuted shadow copy is
// confirmed, every feature statistically weaker is rejected, and whatever
// the iteration budget cannot settle stays tentative.
package boruta

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"riskeda/pkg/model"
	"riskeda/pkg/stats"
)

// Decision is the terminal state of one feature.
type Decision int

const (
	Tentative Decision = iota
	Confirmed
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Confirmed:
		return "Confirmed"
	case Rejected:
		return "Rejected"
	default:
		return "Tentative"
	}
}

// FeatureResult holds the decision and importance history of one feature.
type FeatureResult struct {
	Name             string
	Decision         Decision
	Hits             int       // iterations where importance beat the shadow maximum
	Trials           int       // iterations the feature participated in
	History          []float64 // raw importance per iteration, surfaced unmodified
	MedianImportance float64
}

// Result is the outcome of a Rank call.
type Result struct {
	Features   []FeatureResult
	ShadowMax  []float64 // per-iteration maximum shadow importance
	Iterations int
}

// Names returns the features carrying the given decision, in input order.
func (r *Result) Names(d Decision) []string {
	var out []string
	for _, f := range r.Features {
		if f.Decision == d {
			out = append(out, f.Name)
		}
	}
	return out
}

// Ranker is the capability the pipeline depends on, so the concrete
// importance engine stays swappable.
type Ranker interface {
	Rank(x [][]float64, y []int, names []string) (*Result, error)
}

// Boruta ranks features against shadow copies using random-forest
// importances and a two-sided binomial hit test.
type Boruta struct {
	MaxIterations int     // iteration cap; leftovers stay Tentative
	Alpha         float64 // significance level before Bonferroni correction
	NEstimators   int     // trees per forest fit
	MaxDepth      int     // shallow trees keep iterations cheap
	Seed          int64   // fixed seed => reproducible run

	minTrials int // iterations before any decision is attempted
}

// BorutaOption is functional config.
type BorutaOption func(*Boruta)

func WithMaxIterations(n int) BorutaOption { return func(b *Boruta) { b.MaxIterations = n } }
func WithAlpha(a float64) BorutaOption     { return func(b *Boruta) { b.Alpha = a } }
func WithEstimators(n int) BorutaOption    { return func(b *Boruta) { b.NEstimators = n } }
func WithMaxDepth(d int) BorutaOption      { return func(b *Boruta) { b.MaxDepth = d } }
func WithSeed(seed int64) BorutaOption     { return func(b *Boruta) { b.Seed = seed } }

// New returns a ranker with the defaults the report uses.
func New(opts ...BorutaOption) *Boruta {
	b := &Boruta{
		MaxIterations: 200,
		Alpha:         0.05,
		NEstimators:   64,
		MaxDepth:      7,
		Seed:          1,
		minTrials:     5,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Rank runs the selection loop. Residual Tentative entries after
// MaxIterations are a valid terminal state, not an error.
func (b *Boruta) Rank(x [][]float64, y []int, names []string) (*Result, error) {
	n := len(x)
	if n == 0 {
		return nil, errors.New("boruta: empty feature matrix")
	}
	p := len(x[0])
	if p == 0 {
		return nil, errors.New("boruta: no candidate features")
	}
	if len(y) != n {
		return nil, errors.New("boruta: feature matrix and labels length mismatch")
	}
	if len(names) != p {
		return nil, fmt.Errorf("boruta: %d names for %d features", len(names), p)
	}

	features := make([]FeatureResult, p)
	for j := range features {
		features[j] = FeatureResult{Name: names[j]}
	}
	// candidates still in the model: confirmed features stay in to preserve
	// interactions, rejected ones are removed
	candidates := make([]int, p)
	for j := range candidates {
		candidates[j] = j
	}
	undecided := p

	rnd := rand.New(rand.NewSource(b.Seed))
	var shadowMax []float64

	iter := 0
	for iter < b.MaxIterations && undecided > 0 {
		iter++

		aug := b.augment(x, candidates, rnd)
		forest := model.NewRandomForest(
			model.WithNEstimators(b.NEstimators),
			model.WithForestMaxDepth(b.MaxDepth),
			model.WithForestRandomState(b.Seed+int64(iter)),
			model.WithBootstrap(true),
		)
		if err := forest.Fit(aug, y); err != nil {
			return nil, fmt.Errorf("boruta: iteration %d: %w", iter, err)
		}
		imp := forest.FeatureImportances()

		maxShadow := 0.0
		for s := len(candidates); s < len(imp); s++ {
			if imp[s] > maxShadow {
				maxShadow = imp[s]
			}
		}
		shadowMax = append(shadowMax, maxShadow)

		for pos, j := range candidates {
			f := &features[j]
			f.History = append(f.History, imp[pos])
			f.Trials++
			if imp[pos] > maxShadow {
				f.Hits++
			}
		}

		if iter >= b.minTrials {
			undecided = b.decide(features, &candidates, p)
		}
		slog.Debug("boruta iteration", "iter", iter, "undecided", undecided, "shadow_max", maxShadow)
	}

	for j := range features {
		features[j].MedianImportance = stats.Median(features[j].History)
	}
	return &Result{Features: features, ShadowMax: shadowMax, Iterations: iter}, nil
}

// augment builds [candidate features | shadow copies], where each shadow
// column is the matching candidate column with rows permuted.
func (b *Boruta) augment(x [][]float64, candidates []int, rnd *rand.Rand) [][]float64 {
	n := len(x)
	k := len(candidates)
	perms := make([][]int, k)
	for c := range candidates {
		perms[c] = rnd.Perm(n)
	}
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 2*k)
		for c, j := range candidates {
			row[c] = x[i][j]
			row[k+c] = x[perms[c][i]][j]
		}
		aug[i] = row
	}
	return aug
}

// decide applies the two-sided binomial test to every undecided feature and
// prunes rejected ones from the candidate set. Returns the number of
// features still undecided.
func (b *Boruta) decide(features []FeatureResult, candidates *[]int, totalFeatures int) int {
	// Bonferroni across all features under test
	threshold := b.Alpha / float64(totalFeatures)

	kept := (*candidates)[:0]
	undecided := 0
	for _, j := range *candidates {
		f := &features[j]
		if f.Decision == Confirmed {
			kept = append(kept, j)
			continue
		}
		dist := distuv.Binomial{N: float64(f.Trials), P: 0.5}
		pHigh := 1 - dist.CDF(float64(f.Hits-1)) // P[hits >= observed]
		pLow := dist.CDF(float64(f.Hits))        // P[hits <= observed]
		switch {
		case pHigh < threshold:
			f.Decision = Confirmed
			kept = append(kept, j)
		case pLow < threshold:
			f.Decision = Rejected
		default:
			undecided++
			kept = append(kept, j)
		}
	}
	*candidates = kept
	return undecided
}
