// Package pipeline drives the report end to end: load, scan, repair, derive
// the label, rank features. Every stage takes a frame and returns a new
// frame; nothing is shared or mutated across stages.
package pipeline

import (
	"fmt"
	"log/slog"
	"math"

	"riskeda/pkg/boruta"
	"riskeda/pkg/data"
	"riskeda/pkg/dataprep"
	"riskeda/pkg/frame"
	"riskeda/pkg/model"
)

// Config carries the dataset-shape knobs.
type Config struct {
	Placeholder string   // token standing in for missing values, default "?"
	Sentinel    float64  // numeric substitute written during repair
	ExamColumns []string // the four binary exam-result columns
	Label       string   // name of the derived composite label column
}

// DefaultConfig matches the cervical cancer risk-factor dataset.
func DefaultConfig() Config {
	return Config{
		Placeholder: dataprep.DefaultPlaceholder,
		Sentinel:    dataprep.DefaultSentinel,
		ExamColumns: []string{"Hinselmann", "Schiller", "Citology", "Biopsy"},
		Label:       "RiskLevel",
	}
}

// Outcome bundles every artifact a run produces.
type Outcome struct {
	Raw        *frame.Frame    // as loaded, kept for audit
	Prepared   *frame.Frame    // repaired, label appended, exam columns dropped
	NullReport dataprep.Report // NaN-based missingness
	ZeroReport dataprep.Report // zero/blank-based missingness
	Ranking    *boruta.Result
	OOB        float64 // out-of-bag accuracy of a forest on all candidates
}

// Runner executes the pipeline with a swappable feature ranker.
type Runner struct {
	cfg    Config
	ranker boruta.Ranker
}

// New builds a runner. A nil ranker gets the default Boruta engine.
func New(cfg Config, ranker boruta.Ranker) *Runner {
	if ranker == nil {
		ranker = boruta.New()
	}
	return &Runner{cfg: cfg, ranker: ranker}
}

// Prepare runs the stages up to and including label derivation.
func (r *Runner) Prepare(raw *frame.Frame) (*frame.Frame, error) {
	repaired, err := dataprep.RepairAll(raw, r.cfg.Placeholder, r.cfg.Sentinel)
	if err != nil {
		return nil, err
	}
	return dataprep.DeriveLabel(repaired, r.cfg.ExamColumns, r.cfg.Label)
}

// Run loads the dataset and executes every stage. The missingness reports
// are side artifacts of the raw table; repair and label derivation feed the
// ranker.
func (r *Runner) Run(path string) (*Outcome, error) {
	raw, err := data.Load(path)
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		Raw:        raw,
		NullReport: dataprep.Scan(raw),
		ZeroReport: dataprep.ScanZeroBlank(raw),
	}

	out.Prepared, err = r.Prepare(raw)
	if err != nil {
		return nil, err
	}

	x, names, y, err := ModelingView(out.Prepared, r.cfg.Label)
	if err != nil {
		return nil, err
	}
	slog.Info("ranking features", "candidates", len(names), "rows", len(x))
	out.Ranking, err = r.ranker.Rank(x, y, names)
	if err != nil {
		return nil, err
	}

	// reference accuracy on the full candidate set
	forest := model.NewRandomForest(
		model.WithNEstimators(100),
		model.WithForestRandomState(1),
	)
	if err := forest.Fit(x, y); err != nil {
		return nil, err
	}
	out.OOB = forest.OOBAccuracy()
	return out, nil
}

// ModelingView exports the prepared frame as a feature matrix plus integer
// labels, excluding the label column from the features.
func ModelingView(f *frame.Frame, label string) ([][]float64, []string, []int, error) {
	c, ok := f.Column(label)
	if !ok {
		return nil, nil, nil, fmt.Errorf("pipeline: label column %q missing", label)
	}
	if c.Kind != frame.Numeric {
		return nil, nil, nil, fmt.Errorf("pipeline: label column %q is not numeric", label)
	}
	x, names, err := f.Matrix(label)
	if err != nil {
		return nil, nil, nil, err
	}
	y := make([]int, len(c.Floats))
	for i, v := range c.Floats {
		if math.IsNaN(v) || v != math.Trunc(v) {
			return nil, nil, nil, fmt.Errorf("pipeline: label value %v at row %d is not an integer", v, i+1)
		}
		y[i] = int(v)
	}
	return x, names, y, nil
}
