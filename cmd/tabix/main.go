package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tabix/cmd/tabix/commands"
	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tabix",
	Short: "tabix - Subject column detection for tables",
	Long: `tabix - Subject column detection for tables.

tabix rates every column of a CSV table and picks the one that most likely
names the entities the table is about. Columns score for uniqueness, for
being near the left edge, and for linking to other columns through
attestations in the local store.

Available commands:
  rate    - Rate the columns of a CSV file and select the subject column
  as      - Record an attestation used for relational matching
  am      - Manage tabix configuration ("I am")
  db      - Inspect the attestation database
  version - Show version information

Examples:
  tabix rate countries.csv                # Rate columns and show the table
  tabix rate countries.csv --format json  # Machine-readable result
  tabix as France capital Paris           # Teach a relation
  tabix am show                           # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	rootCmd.AddCommand(commands.RateCmd)
	rootCmd.AddCommand(commands.AsCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
