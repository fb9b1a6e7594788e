// Package data reads and writes the delimited files the pipeline works on.
package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"riskeda/pkg/frame"
)

// Load reads a CSV file with a header row into a frame. Column types are
// inferred: a column is numeric when every non-blank cell parses as a float,
// otherwise it stays text (placeholder tokens such as "?" keep a column
// textual until repair). Blank cells in numeric columns become NaN.
func Load(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("data: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &frame.FormatError{Reason: "empty file, header row required"}
	}
	if err != nil {
		return nil, fmt.Errorf("data: read header of %s: %w", path, err)
	}
	seen := map[string]bool{}
	for i, name := range header {
		if name == "" {
			return nil, &frame.FormatError{Row: 0, Reason: fmt.Sprintf("blank name for column %d in header", i+1)}
		}
		if seen[name] {
			return nil, &frame.FormatError{Column: name, Reason: "duplicate column name in header"}
		}
		seen[name] = true
	}

	cells := make([][]string, len(header))
	row := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return nil, &frame.FormatError{
					Row:    row,
					Reason: fmt.Sprintf("row has %d fields, header has %d", len(rec), len(header)),
				}
			}
			return nil, fmt.Errorf("data: read %s: %w", path, err)
		}
		for j, v := range rec {
			cells[j] = append(cells[j], v)
		}
	}

	f := frame.New()
	for j, name := range header {
		if err := f.Add(inferColumn(name, cells[j])); err != nil {
			return nil, err
		}
	}
	slog.Debug("loaded dataset", "path", path, "rows", f.NumRows(), "cols", f.NumCols())
	return f, nil
}

// inferColumn types a raw column as numeric when every non-blank cell
// parses, text otherwise.
func inferColumn(name string, raw []string) *frame.Column {
	numeric := true
	for _, v := range raw {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}
	if !numeric {
		return &frame.Column{Name: name, Kind: frame.Text, Strings: raw}
	}
	floats := make([]float64, len(raw))
	for i, v := range raw {
		if v == "" {
			floats[i] = math.NaN()
			continue
		}
		floats[i], _ = strconv.ParseFloat(v, 64)
	}
	return &frame.Column{Name: name, Kind: frame.Numeric, Floats: floats}
}

// Save writes a frame back out as CSV with a header row. NaN cells are
// written as empty strings.
func Save(f *frame.Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("data: create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(f.Names()); err != nil {
		return fmt.Errorf("data: write header: %w", err)
	}
	cols := f.Columns()
	for i := 0; i < f.NumRows(); i++ {
		rec := make([]string, len(cols))
		for j, c := range cols {
			if c.Kind == frame.Numeric {
				v := c.Floats[i]
				if math.IsNaN(v) {
					rec[j] = ""
				} else {
					rec[j] = strconv.FormatFloat(v, 'f', -1, 64)
				}
			} else {
				rec[j] = c.Strings[i]
			}
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("data: write row %d: %w", i+1, err)
		}
	}
	if err := writer.Error(); err != nil {
		return fmt.Errorf("data: flush %s: %w", path, err)
	}
	return nil
}
