// Package viz renders the descriptive charts of the report with gonum/plot.
package viz

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"riskeda/pkg/boruta"
	"riskeda/pkg/dataprep"
	"riskeda/pkg/stats"
)

// SaveMissingnessChart draws the missing fraction per column as a bar chart.
func SaveMissingnessChart(report dataprep.Report, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Missing fraction"
	p.X.Tick.Label.Rotation = -1.2
	p.X.Tick.Label.XAlign = -0.9

	vals := make(plotter.Values, len(report))
	names := make([]string, len(report))
	for i, row := range report {
		vals[i] = row.Missing
		names[i] = row.Column
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(10))
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	bars.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: save %s: %w", path, err)
	}
	return nil
}

// SaveLabelHistogram draws the distribution of the derived ordinal label.
func SaveLabelHistogram(labels []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Composite label"
	p.Y.Label.Text = "Subjects"

	hist, err := plotter.NewHist(plotter.Values(labels), 5)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	hist.FillColor = color.RGBA{R: 255, G: 128, A: 255}
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: save %s: %w", path, err)
	}
	return nil
}

// SaveImportanceChart draws the median importance of every ranked feature
// with a horizontal line at the median shadow maximum, the noise baseline a
// feature had to beat.
func SaveImportanceChart(res *boruta.Result, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Median importance"
	p.X.Tick.Label.Rotation = -1.2
	p.X.Tick.Label.XAlign = -0.9

	vals := make(plotter.Values, len(res.Features))
	names := make([]string, len(res.Features))
	for i, f := range res.Features {
		vals[i] = f.MedianImportance
		names[i] = f.Name
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(12))
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	bars.Color = color.RGBA{G: 160, B: 60, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	if len(res.ShadowMax) > 0 {
		baseline := stats.Median(res.ShadowMax)
		line, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: baseline},
			{X: float64(len(res.Features)) - 0.5, Y: baseline},
		})
		if err != nil {
			return fmt.Errorf("viz: %w", err)
		}
		line.Color = color.RGBA{R: 255, A: 255}
		line.Width = vg.Points(2)
		p.Add(line)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: save %s: %w", path, err)
	}
	return nil
}
