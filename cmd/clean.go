package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dataloom-cli/internal/table"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanMethod  string
	cleanColumns []string
	cleanOutput  string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file.csv>",
	Short: "Apply a missing-value strategy and write the cleaned CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method := table.Method(cleanMethod)
		if !table.ValidMethod(method) {
			return fmt.Errorf("unsupported --method: %s (use drop_rows, fill_mean, fill_median or fill_mode)", cleanMethod)
		}
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		stats := table.Profile(t)
		cleaned := table.Clean(t, stats, table.CleanSpec{Method: method, Columns: cleanColumns})
		debugf("cleaning kept %d of %d rows\n", len(cleaned.Rows), len(t.Rows))

		if cleanOutput != "" {
			if err := utils.SafeWriteFile(cleanOutput, []byte(table.CSV(cleaned))); err != nil {
				return fmt.Errorf("write cleaned csv: %w", err)
			}
			fmt.Printf("✓ Wrote %d rows to %s\n\n", len(cleaned.Rows), cleanOutput)
		}
		// Stats are always recomputed after cleaning, never updated in place.
		fmt.Print(table.Summary(cleaned, table.Profile(cleaned)))
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanMethod, "method", string(table.FillMean), "cleaning method: drop_rows, fill_mean, fill_median, fill_mode")
	cleanCmd.Flags().StringSliceVar(&cleanColumns, "columns", nil, "target columns, processed in the given order")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write the cleaned CSV to this path")
	rootCmd.AddCommand(cleanCmd)
}
