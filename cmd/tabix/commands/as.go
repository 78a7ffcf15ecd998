package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tabix/ats/parser"
	"github.com/teranos/tabix/ats/storage"
	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
	"github.com/teranos/tabix/table"
)

// AsCmd records attestations for the relational-match signal
var AsCmd = &cobra.Command{
	Use:   "as SUBJECTS [is PREDICATES] [of CONTEXTS] [by ACTORS] [on DATE]",
	Short: "Record an attestation",
	Long: `as — Record an attestation

Attestations link values: when a value of one column is the subject of an
attestation whose context is a value of another column, the two columns are
related and the first scores for it in "tabix rate".

Examples:
  tabix as France capital Paris                    # France is capital of Paris
  tabix as France is capital of Paris              # Same, with keywords
  tabix as France Spain are members of EU          # Batch operation
  tabix as Ada is author of 'Notes on the Engine'  # Quoted values keep spaces
  tabix as Rome is capital of Italy by atlas       # With explicit actor
  tabix as Rome is capital of Italy on 2025-01-15  # With explicit date
  tabix as --file triples.csv                      # Import subject,predicate,context rows`,
	Args: func(cmd *cobra.Command, args []string) error {
		if asFileFlag != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runAsCommand,
}

var asFileFlag string

func init() {
	AsCmd.Flags().StringVar(&asFileFlag, "file", "", "Import triples from a CSV file with subject,predicate,context columns")
}

func runAsCommand(cmd *cobra.Command, args []string) error {
	if asFileFlag != "" {
		return runAsImport(cmd, asFileFlag)
	}

	asCommand, err := parser.ParseAsCommand(args)
	if err != nil {
		return errors.Wrap(err, "failed to parse command")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewSQLStore(database, logger.ComponentLogger("storage"))
	as, err := store.GenerateAndCreateAttestation(cmd.Context(), asCommand)
	if err != nil {
		return errors.Wrap(err, "failed to create attestation")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", pterm.LightGreen("✓ Created attestation:"), as.ID)
	fmt.Fprintf(w, "  Subjects:   %v\n", as.Subjects)
	fmt.Fprintf(w, "  Predicates: %v\n", as.Predicates)
	fmt.Fprintf(w, "  Contexts:   %v\n", as.Contexts)
	fmt.Fprintf(w, "  Actors:     %v\n", as.Actors)
	fmt.Fprintf(w, "  Timestamp:  %s\n", as.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}

func runAsImport(cmd *cobra.Command, path string) error {
	triples, err := readTriples(path)
	if err != nil {
		return err
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewSQLStore(database, logger.ComponentLogger("storage"))
	result, err := store.ImportTriples(cmd.Context(), triples, "import:"+filepath.Base(path))
	if err != nil {
		return errors.Wrapf(err, "failed to import %s", path)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %d attestations from %s\n", pterm.LightGreen("✓ Imported"), result.SuccessCount, path)
	for _, msg := range result.Errors {
		fmt.Fprintf(w, "%s %s\n", pterm.Yellow("⚠ skipped:"), msg)
	}
	return nil
}

// readTriples reads subject,predicate,context rows from a CSV file with a header
func readTriples(path string) ([]types.Triple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	tbl, err := table.ReadCSV(f, table.DefaultCSVOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if tbl.ColumnCount() != 3 {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("%s has %d columns, expected 3", path, tbl.ColumnCount()),
			"use a header row followed by subject,predicate,context rows")
	}

	subjects := tbl.ColumnAsRawStrings(0)
	predicates := tbl.ColumnAsRawStrings(1)
	contexts := tbl.ColumnAsRawStrings(2)

	triples := make([]types.Triple, tbl.RowCount())
	for i := range triples {
		triples[i] = types.Triple{Subject: subjects[i], Predicate: predicates[i], Context: contexts[i]}
	}
	return triples, nil
}
