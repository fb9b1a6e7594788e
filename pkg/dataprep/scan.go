// Package dataprep repairs placeholder-encoded missing values, audits
// missingness, and derives the composite risk label.
package dataprep

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"riskeda/pkg/frame"
)

// ReportRow summarizes one column of a missingness report. Missing and
// Complete always sum to 1.
type ReportRow struct {
	Column   string
	Missing  float64
	Complete float64
}

// Report is a missingness summary, one row per column, sorted descending by
// the missing fraction (ties keep frame column order).
type Report []ReportRow

// Scan computes the null-based missingness report: the fraction of NaN cells
// per numeric column. Text columns cannot hold NaN and report zero.
func Scan(f *frame.Frame) Report {
	return scanWith(f, func(c *frame.Column, i int) bool {
		return c.Kind == frame.Numeric && math.IsNaN(c.Floats[i])
	})
}

// ScanZeroBlank computes the zero/blank-based report: numeric zeros and
// empty strings, the other common encodings of "no data" in this dataset.
func ScanZeroBlank(f *frame.Frame) Report {
	return scanWith(f, func(c *frame.Column, i int) bool {
		if c.Kind == frame.Numeric {
			return c.Floats[i] == 0
		}
		return c.Strings[i] == ""
	})
}

func scanWith(f *frame.Frame, missing func(*frame.Column, int) bool) Report {
	n := f.NumRows()
	report := make(Report, 0, f.NumCols())
	for _, c := range f.Columns() {
		count := 0
		for i := 0; i < n; i++ {
			if missing(c, i) {
				count++
			}
		}
		fraction := 0.0
		if n > 0 {
			fraction = float64(count) / float64(n)
		}
		report = append(report, ReportRow{
			Column:   c.Name,
			Missing:  fraction,
			Complete: 1 - fraction,
		})
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Missing > report[j].Missing
	})
	return report
}

// String renders the report as an aligned console table.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s%12s%12s\n", "Column", "Missing", "Complete")
	for _, row := range r {
		fmt.Fprintf(&b, "%-36s%12.4f%12.4f\n", row.Column, row.Missing, row.Complete)
	}
	return b.String()
}
