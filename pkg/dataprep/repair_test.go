package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskeda/pkg/frame"
)

func placeholderFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddText("Smokes", []string{"?", "1", "0"}))
	require.NoError(t, f.AddText("City", []string{"north", "south", "north"}))
	require.NoError(t, f.AddNumeric("Age", []float64{18, 30, 44}))
	return f
}

func TestPlaceholderColumns(t *testing.T) {
	f := placeholderFrame(t)
	assert.Equal(t, []string{"Smokes"}, PlaceholderColumns(f, "?"))
	assert.Empty(t, PlaceholderColumns(f, "NA"))
}

func TestRepairSubstitutesSentinelAndCoerces(t *testing.T) {
	f := placeholderFrame(t)
	out, err := RepairAll(f, "?", -1.0)
	require.NoError(t, err)

	smokes, ok := out.Column("Smokes")
	require.True(t, ok)
	assert.Equal(t, frame.Numeric, smokes.Kind)
	assert.Equal(t, []float64{-1, 1, 0}, smokes.Floats)

	// untouched columns survive as-is, input frame is not mutated
	city, _ := out.Column("City")
	assert.Equal(t, frame.Text, city.Kind)
	origSmokes, _ := f.Column("Smokes")
	assert.Equal(t, frame.Text, origSmokes.Kind)
}

func TestRepairEliminatesPlaceholders(t *testing.T) {
	f := placeholderFrame(t)
	out, err := RepairAll(f, "?", -1.0)
	require.NoError(t, err)
	for _, c := range out.Columns() {
		if c.Kind != frame.Text {
			continue
		}
		for _, v := range c.Strings {
			assert.NotEqual(t, "?", v)
		}
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	f := placeholderFrame(t)
	once, err := RepairAll(f, "?", -1.0)
	require.NoError(t, err)
	twice, err := RepairAll(once, "?", -1.0)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))
}

func TestRepairFailsOnResidualGarbage(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddText("Dose", []string{"?", "abc", "3"}))

	_, err := RepairAll(f, "?", -1.0)
	var formatErr *frame.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "Dose", formatErr.Column)
	assert.Equal(t, "abc", formatErr.Value)
}

func TestRepairUnknownColumn(t *testing.T) {
	f := placeholderFrame(t)
	_, err := Repair(f, []string{"Nope"}, "?", -1.0)
	assert.Error(t, err)
}
