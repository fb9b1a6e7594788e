package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsDuplicatesAndRaggedColumns(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumeric("Age", []float64{1, 2, 3}))

	assert.Error(t, f.AddNumeric("Age", []float64{4, 5, 6}), "duplicate name")
	assert.Error(t, f.AddText("Smokes", []string{"0", "1"}), "row count mismatch")
	assert.Error(t, f.Add(&Column{Name: "", Kind: Numeric, Floats: []float64{1, 2, 3}}))

	require.NoError(t, f.AddText("Smokes", []string{"0", "1", "?"}))
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, []string{"Age", "Smokes"}, f.Names())
}

func TestDrop(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumeric("A", []float64{1}))
	require.NoError(t, f.AddNumeric("B", []float64{2}))

	out, err := f.Drop("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, out.Names())
	assert.Equal(t, []string{"A", "B"}, f.Names(), "input frame untouched")

	_, err = f.Drop("Nope")
	assert.Error(t, err, "dropping an unknown column must not silently miss")
}

func TestSelect(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumeric("A", []float64{1}))
	require.NoError(t, f.AddNumeric("B", []float64{2}))

	out, err := f.Select("B", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, out.Names())

	_, err = f.Select("C")
	assert.Error(t, err)
}

func TestMatrix(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumeric("A", []float64{1, 2}))
	require.NoError(t, f.AddNumeric("Label", []float64{0, 1}))

	x, names, err := f.Matrix("Label")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names)
	assert.Equal(t, [][]float64{{1}, {2}}, x)
}

func TestMatrixRejectsTextColumns(t *testing.T) {
	f := New()
	require.NoError(t, f.AddText("A", []string{"?", "5"}))
	_, _, err := f.Matrix()
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumeric("A", []float64{1, 2}))
	cp := f.Clone()
	c, _ := cp.Column("A")
	c.Floats[0] = 99

	orig, _ := f.Column("A")
	assert.Equal(t, 1.0, orig.Floats[0])
}

func TestEqualTreatsNaNAsEqual(t *testing.T) {
	a := New()
	require.NoError(t, a.AddNumeric("A", []float64{1, math.NaN()}))
	b := New()
	require.NoError(t, b.AddNumeric("A", []float64{1, math.NaN()}))
	assert.True(t, a.Equal(b))

	c := New()
	require.NoError(t, c.AddNumeric("A", []float64{1, 2}))
	assert.False(t, a.Equal(c))
}
