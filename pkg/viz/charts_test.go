package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskeda/pkg/boruta"
	"riskeda/pkg/dataprep"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveMissingnessChart(t *testing.T) {
	report := dataprep.Report{
		{Column: "STDs: Time since first diagnosis", Missing: 0.92, Complete: 0.08},
		{Column: "IUD", Missing: 0.14, Complete: 0.86},
		{Column: "Age", Missing: 0, Complete: 1},
	}
	path := filepath.Join(t.TempDir(), "missing.png")
	require.NoError(t, SaveMissingnessChart(report, "Missingness", path))
	assertPNG(t, path)
}

func TestSaveLabelHistogram(t *testing.T) {
	labels := []float64{0, 0, 0, 1, 1, 2, 4}
	path := filepath.Join(t.TempDir(), "labels.png")
	require.NoError(t, SaveLabelHistogram(labels, "Labels", path))
	assertPNG(t, path)
}

func TestSaveImportanceChart(t *testing.T) {
	res := &boruta.Result{
		Features: []boruta.FeatureResult{
			{Name: "Age", Decision: boruta.Confirmed, MedianImportance: 0.31, History: []float64{0.3, 0.32}},
			{Name: "Smokes", Decision: boruta.Rejected, MedianImportance: 0.02, History: []float64{0.02, 0.02}},
		},
		ShadowMax:  []float64{0.05, 0.06},
		Iterations: 2,
	}
	path := filepath.Join(t.TempDir(), "importance.png")
	require.NoError(t, SaveImportanceChart(res, "Importance", path))
	assertPNG(t, path)
}
