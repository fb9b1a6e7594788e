package dataprep

import (
	"fmt"
	"log/slog"

	"riskeda/pkg/frame"
)

// AssumptionError reports a value that violates the target-derivation
// precondition: the four exam-result columns are expected to be fully
// populated with binary outcomes, so a sentinel or out-of-domain value there
// means the upstream data does not look like we assume.
type AssumptionError struct {
	Column string
	Row    int // 1-based
	Value  float64
}

func (e *AssumptionError) Error() string {
	return fmt.Sprintf("dataprep: exam column %q must be binary, row %d holds %v", e.Column, e.Row, e.Value)
}

// DeriveLabel computes the composite ordinal label as the elementwise sum of
// exactly four binary source columns, appends it under labelName, and drops
// the sources from the result. The sources perfectly determine the label, so
// keeping them would leak the target into feature ranking. The input frame
// is not mutated; callers that need the exam columns for audit keep their
// original frame.
func DeriveLabel(f *frame.Frame, sources []string, labelName string) (*frame.Frame, error) {
	if len(sources) != 4 {
		return nil, fmt.Errorf("dataprep: exactly four exam columns required, got %d", len(sources))
	}
	if f.Has(labelName) {
		return nil, fmt.Errorf("dataprep: label column %q already exists", labelName)
	}

	n := f.NumRows()
	label := make([]float64, n)
	for _, name := range sources {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("dataprep: unknown exam column %q", name)
		}
		if c.Kind != frame.Numeric {
			return nil, fmt.Errorf("dataprep: exam column %q is not numeric, repair first", name)
		}
		for i, v := range c.Floats {
			if v != 0 && v != 1 {
				return nil, &AssumptionError{Column: name, Row: i + 1, Value: v}
			}
			label[i] += v
		}
	}

	out, err := f.Drop(sources...)
	if err != nil {
		return nil, err
	}
	if err := out.AddNumeric(labelName, label); err != nil {
		return nil, err
	}
	slog.Debug("derived composite label", "label", labelName, "sources", sources)
	return out, nil
}
