package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskeda/pkg/boruta"
	"riskeda/pkg/data"
	"riskeda/pkg/frame"
)

// captureRanker records what the pipeline hands to the ranker.
type captureRanker struct {
	x     [][]float64
	y     []int
	names []string
}

func (c *captureRanker) Rank(x [][]float64, y []int, names []string) (*boruta.Result, error) {
	c.x, c.y, c.names = x, y, names
	features := make([]boruta.FeatureResult, len(names))
	for i, n := range names {
		features[i] = boruta.FeatureResult{Name: n, Decision: boruta.Tentative}
	}
	return &boruta.Result{Features: features, Iterations: 1}, nil
}

func testConfig() Config {
	return Config{
		Placeholder: "?",
		Sentinel:    -1.0,
		ExamColumns: []string{"Exam1", "Exam2", "Exam3", "Exam4"},
		Label:       "RiskLevel",
	}
}

// The three-row scenario: repair turns A into [-1, 5, 3], the label comes
// out [1, 1, 0], and the ranker sees only A plus the label.
func TestRunEndToEndScenario(t *testing.T) {
	csv := "A,Exam1,Exam2,Exam3,Exam4\n?,1,0,0,0\n5,0,0,1,0\n3,0,0,0,0\n"
	path := filepath.Join(t.TempDir(), "tiny.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	ranker := &captureRanker{}
	outcome, err := New(testConfig(), ranker).Run(path)
	require.NoError(t, err)

	a, ok := outcome.Prepared.Column("A")
	require.True(t, ok)
	assert.Equal(t, frame.Numeric, a.Kind)
	assert.Equal(t, []float64{-1, 5, 3}, a.Floats)

	label, ok := outcome.Prepared.Column("RiskLevel")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 1, 0}, label.Floats)

	assert.Equal(t, []string{"A"}, ranker.names, "exam columns must not reach the ranker")
	assert.Equal(t, []int{1, 1, 0}, ranker.y)
	assert.Equal(t, [][]float64{{-1}, {5}, {3}}, ranker.x)

	assert.GreaterOrEqual(t, outcome.OOB, 0.0)
	assert.LessOrEqual(t, outcome.OOB, 1.0)
}

func TestRunProducesMissingnessReports(t *testing.T) {
	csv := "A,Exam1,Exam2,Exam3,Exam4\n?,1,0,0,0\n5,0,0,1,0\n3,0,0,0,0\n"
	path := filepath.Join(t.TempDir(), "tiny.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	outcome, err := New(testConfig(), &captureRanker{}).Run(path)
	require.NoError(t, err)

	require.Len(t, outcome.NullReport, 5)
	for _, row := range outcome.NullReport {
		assert.InDelta(t, 1.0, row.Missing+row.Complete, 1e-12)
	}
	require.Len(t, outcome.ZeroReport, 5)
}

func TestRunFailsOnMissingFile(t *testing.T) {
	_, err := New(testConfig(), &captureRanker{}).Run(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestPrepareKeepsRawFrameForAudit(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddText("A", []string{"?", "5"}))
	require.NoError(t, f.AddNumeric("Exam1", []float64{1, 0}))
	require.NoError(t, f.AddNumeric("Exam2", []float64{0, 0}))
	require.NoError(t, f.AddNumeric("Exam3", []float64{0, 1}))
	require.NoError(t, f.AddNumeric("Exam4", []float64{0, 0}))

	runner := New(testConfig(), nil)
	prepared, err := runner.Prepare(f)
	require.NoError(t, err)

	assert.True(t, f.Has("Exam1"), "audit copy keeps the exam columns")
	assert.False(t, prepared.Has("Exam1"))
	a, _ := f.Column("A")
	assert.Equal(t, frame.Text, a.Kind, "input frame not mutated")
}

func TestModelingViewRejectsNonIntegerLabel(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("A", []float64{1, 2}))
	require.NoError(t, f.AddNumeric("RiskLevel", []float64{0.5, 1}))
	_, _, _, err := ModelingView(f, "RiskLevel")
	assert.Error(t, err)
}

func TestModelingViewMissingLabel(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("A", []float64{1, 2}))
	_, _, _, err := ModelingView(f, "RiskLevel")
	assert.Error(t, err)
}

func TestPreparedFrameSurvivesCSVRoundTrip(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddText("A", []string{"?", "5", "3"}))
	require.NoError(t, f.AddNumeric("Exam1", []float64{1, 0, 0}))
	require.NoError(t, f.AddNumeric("Exam2", []float64{0, 0, 0}))
	require.NoError(t, f.AddNumeric("Exam3", []float64{0, 1, 0}))
	require.NoError(t, f.AddNumeric("Exam4", []float64{0, 0, 0}))

	prepared, err := New(testConfig(), nil).Prepare(f)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "prepared.csv")
	require.NoError(t, data.Save(prepared, path))
	back, err := data.Load(path)
	require.NoError(t, err)
	assert.True(t, prepared.Equal(back))
}
