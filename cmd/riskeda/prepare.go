package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"riskeda/pkg/data"
	"riskeda/pkg/pipeline"
)

func prepareCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "prepare <dataset.csv>",
		Short: "Repair placeholders and derive the composite label",
		Long: `Replaces every "?" placeholder with the numeric sentinel, coerces the
affected columns to numeric, sums the four exam-result columns into the
ordinal risk label, and drops the exam columns from the output so they
cannot leak into modeling.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := data.Load(args[0])
			if err != nil {
				return err
			}
			runner := pipeline.New(configFromViper(), nil)
			prepared, err := runner.Prepare(raw)
			if err != nil {
				return err
			}
			if err := data.Save(prepared, output); err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows, %d columns to %s\n", prepared.NumRows(), prepared.NumCols(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "prepared.csv", "path for the prepared CSV")
	return cmd
}

func configFromViper() pipeline.Config {
	return pipeline.Config{
		Placeholder: viper.GetString("data.placeholder"),
		Sentinel:    viper.GetFloat64("data.sentinel"),
		ExamColumns: viper.GetStringSlice("data.exam_columns"),
		Label:       viper.GetString("data.label"),
	}
}
