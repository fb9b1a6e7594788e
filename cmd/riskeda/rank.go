package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"riskeda/pkg/boruta"
	"riskeda/pkg/frame"
	"riskeda/pkg/pipeline"
	"riskeda/pkg/viz"
)

func rankCmd() *cobra.Command {
	var chartDir string
	cmd := &cobra.Command{
		Use:   "rank <dataset.csv>",
		Short: "Run the full pipeline and rank features",
		Long: `Runs scan, repair and label derivation, then ranks every remaining
column against permuted shadow copies. Features that beat the shadow
baseline are Confirmed, features that fall below it are Rejected, and
anything the iteration budget cannot settle stays Tentative.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ranker := boruta.New(
				boruta.WithMaxIterations(viper.GetInt("boruta.max_iterations")),
				boruta.WithSeed(viper.GetInt64("boruta.seed")),
				boruta.WithEstimators(viper.GetInt("boruta.estimators")),
				boruta.WithAlpha(viper.GetFloat64("boruta.alpha")),
			)
			cfg := configFromViper()
			outcome, err := pipeline.New(cfg, ranker).Run(args[0])
			if err != nil {
				return err
			}
			printRanking(outcome)
			if chartDir != "" {
				if err := saveCharts(outcome, cfg.Label, chartDir); err != nil {
					return err
				}
				fmt.Printf("\nCharts written to %s\n", chartDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartDir, "charts", "", "directory to write PNG charts into (skipped when empty)")
	return cmd
}

func printRanking(outcome *pipeline.Outcome) {
	fmt.Printf("Ranked %d features in %d iterations (forest OOB accuracy %.3f)\n\n",
		len(outcome.Ranking.Features), outcome.Ranking.Iterations, outcome.OOB)
	fmt.Printf("%-36s%-12s%8s%8s%12s\n", "Feature", "Decision", "Hits", "Trials", "MedianImp")
	for _, f := range outcome.Ranking.Features {
		fmt.Printf("%-36s%-12s%8d%8d%12.4f\n",
			f.Name, decisionLabel(f.Decision), f.Hits, f.Trials, f.MedianImportance)
	}
}

func decisionLabel(d boruta.Decision) string {
	switch d {
	case boruta.Confirmed:
		return color.GreenString(d.String())
	case boruta.Rejected:
		return color.RedString(d.String())
	default:
		return color.YellowString(d.String())
	}
}

func saveCharts(outcome *pipeline.Outcome, label, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	if err := viz.SaveMissingnessChart(outcome.NullReport, "Null-based missingness",
		filepath.Join(dir, "missing_null.png")); err != nil {
		return err
	}
	if err := viz.SaveMissingnessChart(outcome.ZeroReport, "Zero/blank-based missingness",
		filepath.Join(dir, "missing_zero.png")); err != nil {
		return err
	}
	if c, ok := outcome.Prepared.Column(label); ok && c.Kind == frame.Numeric {
		if err := viz.SaveLabelHistogram(c.Floats, "Composite risk label",
			filepath.Join(dir, "label_hist.png")); err != nil {
			return err
		}
	}
	return viz.SaveImportanceChart(outcome.Ranking, "Feature importance vs shadow baseline",
		filepath.Join(dir, "importance.png"))
}
