package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tabix/am"
	"github.com/teranos/tabix/ats/storage"
	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the attestation database",
	Long: `db — Inspect the attestation database

Examples:
  tabix db stats                 # Attestation and predicate counts
  tabix db stats --limit 5       # Only the five most used predicates`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show attestation statistics",
	RunE:  runDbStats,
}

var statsLimitFlag int

func init() {
	DbCmd.AddCommand(dbStatsCmd)
	dbStatsCmd.Flags().IntVar(&statsLimitFlag, "limit", 20, "Number of predicates to show")
}

func runDbStats(cmd *cobra.Command, args []string) error {
	path, err := am.GetDatabasePath()
	if err != nil {
		return err
	}

	database, err := openDatabase(path)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	store := storage.NewSQLStore(database, logger.ComponentLogger("storage"))
	return writeStats(cmd, store, path)
}

type statsSource interface {
	Count(ctx context.Context) (int, error)
	PredicateCounts(ctx context.Context) ([]storage.PredicateCount, error)
}

func writeStats(cmd *cobra.Command, store statsSource, path string) error {
	ctx := cmd.Context()
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	counts, err := store.PredicateCounts(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Database Statistics")
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(w, "Database Path:      %s\n", path)
	fmt.Fprintf(w, "Total Attestations: %d\n", total)
	fmt.Fprintf(w, "Predicates:         %d\n\n", len(counts))

	return writePredicateCounts(w, counts, statsLimitFlag)
}

func writePredicateCounts(w io.Writer, counts []storage.PredicateCount, limit int) error {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No attestations yet. Add some with: tabix as France capital Paris")
		return nil
	}
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	data := pterm.TableData{{"predicate", "attestations"}}
	for _, pc := range counts {
		data = append(data, []string{pc.Predicate, strconv.Itoa(pc.Count)})
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render predicate counts")
	}
	fmt.Fprintln(w, rendered)
	return nil
}
