package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"riskeda/pkg/data"
	"riskeda/pkg/dataprep"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dataset.csv>",
		Short: "Print the missingness reports for a dataset",
		Long: `Computes two missingness summaries for every column: the fraction of
true null cells, and the fraction of zero/blank cells. Both are sorted
descending so the worst columns come first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := data.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Null-based missingness (%d rows)\n\n", f.NumRows())
			fmt.Print(dataprep.Scan(f))
			fmt.Printf("\nZero/blank-based missingness\n\n")
			fmt.Print(dataprep.ScanZeroBlank(f))
			return nil
		},
	}
	return cmd
}
