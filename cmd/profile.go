package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/dataloom-cli/internal/table"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <file.csv>",
	Short: "Parse a CSV and print a per-column profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		stats := table.Profile(t)
		fmt.Print(table.Summary(t, stats))
		return nil
	},
}

// readTable loads and parses a CSV file. Parsing itself never fails;
// malformed lines are dropped per the table contract.
func readTable(path string) (table.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("read file: %w", err)
	}
	t := table.Parse(string(raw))
	debugf("parsed %d rows, %d columns from %s\n", len(t.Rows), len(t.Columns), path)
	return t, nil
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
