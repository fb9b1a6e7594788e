package dataprep

import (
	"fmt"
	"log/slog"
	"strconv"

	"riskeda/pkg/frame"
)

// DefaultPlaceholder is the token the raw dataset uses for missing values.
const DefaultPlaceholder = "?"

// DefaultSentinel replaces the placeholder after repair. It sits outside the
// valid domain of every affected risk-factor column (ages, counts, years)
// so repaired cells stay distinguishable downstream.
const DefaultSentinel = -1.0

// PlaceholderColumns returns, in frame order, the names of text columns
// holding at least one occurrence of the placeholder token.
func PlaceholderColumns(f *frame.Frame, token string) []string {
	var out []string
	for _, c := range f.Columns() {
		if c.Kind != frame.Text {
			continue
		}
		for _, v := range c.Strings {
			if v == token {
				out = append(out, c.Name)
				break
			}
		}
	}
	return out
}

// Repair rewrites the named columns to numeric, replacing every occurrence
// of token with sentinel. The input frame is never mutated; the result is a
// fresh frame. Columns already numeric pass through untouched, which makes
// Repair idempotent. A residual value that is neither the token nor numeric
// fails the whole repair with a FormatError naming the column and value:
// placeholders are not assumed to be the only dirty content.
func Repair(f *frame.Frame, columns []string, token string, sentinel float64) (*frame.Frame, error) {
	repaired := map[string][]float64{}
	for _, name := range columns {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("dataprep: cannot repair unknown column %q", name)
		}
		if c.Kind == frame.Numeric {
			continue
		}
		floats := make([]float64, len(c.Strings))
		for i, v := range c.Strings {
			if v == token {
				floats[i] = sentinel
				continue
			}
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, &frame.FormatError{
					Column: name,
					Row:    i + 1,
					Value:  v,
					Reason: "cannot coerce to numeric after placeholder substitution",
				}
			}
			floats[i] = parsed
		}
		repaired[name] = floats
	}

	out := frame.New()
	for _, c := range f.Columns() {
		if floats, ok := repaired[c.Name]; ok {
			if err := out.AddNumeric(c.Name, floats); err != nil {
				return nil, err
			}
			continue
		}
		if err := out.Add(c.Clone()); err != nil {
			return nil, err
		}
	}
	slog.Debug("repaired placeholder columns", "token", token, "sentinel", sentinel, "columns", len(repaired))
	return out, nil
}

// RepairAll detects and repairs every placeholder column in one step.
func RepairAll(f *frame.Frame, token string, sentinel float64) (*frame.Frame, error) {
	return Repair(f, PlaceholderColumns(f, token), token, sentinel)
}
