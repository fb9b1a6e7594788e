package frame

import (
	"errors"
	"fmt"
	"math"
)

// Kind describes the storage type of a column.
type Kind int

const (
	// Numeric columns hold float64 values; math.NaN() marks a null cell.
	Numeric Kind = iota
	// Text columns hold raw strings as read from the source file.
	Text
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// Column is a single named column. Exactly one of Floats/Strings is
// populated, according to Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = append([]float64(nil), c.Floats...)
	} else {
		out.Strings = append([]string(nil), c.Strings...)
	}
	return out
}

// Frame is an ordered collection of equally sized, uniquely named columns.
type Frame struct {
	cols   []*Column
	byName map[string]int
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{byName: map[string]int{}}
}

// Add appends a column. It fails if the name is already taken or the row
// count disagrees with the columns already present.
func (f *Frame) Add(c *Column) error {
	if c.Name == "" {
		return errors.New("frame: column name must not be empty")
	}
	if _, ok := f.byName[c.Name]; ok {
		return fmt.Errorf("frame: duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && c.Len() != f.NumRows() {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", c.Name, c.Len(), f.NumRows())
	}
	f.byName[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// AddNumeric appends a numeric column.
func (f *Frame) AddNumeric(name string, vals []float64) error {
	return f.Add(&Column{Name: name, Kind: Numeric, Floats: vals})
}

// AddText appends a text column.
func (f *Frame) AddText(name string, vals []string) error {
	return f.Add(&Column{Name: name, Kind: Text, Strings: vals})
}

// NumRows returns the row count (0 for an empty frame).
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Has reports whether a column with the given name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Columns returns the columns in order. The slice is fresh, the columns are
// shared; callers that mutate must Clone first.
func (f *Frame) Columns() []*Column {
	return append([]*Column(nil), f.cols...)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := New()
	for _, c := range f.cols {
		_ = out.Add(c.Clone())
	}
	return out
}

// Drop returns a new frame without the named columns. Unknown names are an
// error so that leakage-column removal cannot silently miss.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := map[string]bool{}
	for _, n := range names {
		if !f.Has(n) {
			return nil, fmt.Errorf("frame: cannot drop unknown column %q", n)
		}
		drop[n] = true
	}
	out := New()
	for _, c := range f.cols {
		if drop[c.Name] {
			continue
		}
		_ = out.Add(c.Clone())
	}
	return out, nil
}

// Select returns a new frame holding only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := New()
	for _, n := range names {
		c, ok := f.Column(n)
		if !ok {
			return nil, fmt.Errorf("frame: cannot select unknown column %q", n)
		}
		if err := out.Add(c.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Matrix exports every numeric column except the excluded names as a
// row-major [][]float64, along with the column names in matrix order.
// Text columns are an error: callers must repair before modeling.
func (f *Frame) Matrix(exclude ...string) ([][]float64, []string, error) {
	skip := map[string]bool{}
	for _, n := range exclude {
		skip[n] = true
	}
	var keep []*Column
	for _, c := range f.cols {
		if skip[c.Name] {
			continue
		}
		if c.Kind != Numeric {
			return nil, nil, fmt.Errorf("frame: column %q is not numeric", c.Name)
		}
		keep = append(keep, c)
	}
	n := f.NumRows()
	x := make([][]float64, n)
	names := make([]string, len(keep))
	for j, c := range keep {
		names[j] = c.Name
	}
	for i := 0; i < n; i++ {
		row := make([]float64, len(keep))
		for j, c := range keep {
			row[j] = c.Floats[i]
		}
		x[i] = row
	}
	return x, names, nil
}

// Equal reports whether two frames have identical shape, names, kinds and
// values. NaN cells compare equal to NaN.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || f.NumCols() != other.NumCols() || f.NumRows() != other.NumRows() {
		return false
	}
	for i, c := range f.cols {
		o := other.cols[i]
		if c.Name != o.Name || c.Kind != o.Kind {
			return false
		}
		if c.Kind == Numeric {
			for r := range c.Floats {
				a, b := c.Floats[r], o.Floats[r]
				if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
					return false
				}
			}
		} else {
			for r := range c.Strings {
				if c.Strings[r] != o.Strings[r] {
					return false
				}
			}
		}
	}
	return true
}
