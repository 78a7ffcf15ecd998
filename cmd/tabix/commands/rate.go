package commands

import (
	"context"
	"database/sql"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/teranos/tabix/am"
	"github.com/teranos/tabix/ats/storage"
	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
	"github.com/teranos/tabix/match"
	"github.com/teranos/tabix/rate"
	"github.com/teranos/tabix/table"
)

// RateCmd rates the columns of a CSV file
var RateCmd = &cobra.Command{
	Use:   "rate <file.csv>",
	Short: "Rate columns and select the subject column",
	Long: `rate — Rate the columns of a CSV file and select the subject column

Every column gets three scores:
  uniqueness  UNIQUE_FACTOR when no value repeats
  leftness    LEFT_FACTOR, decreasing towards the right edge
  relational  COLUMN_MATCH_FACTOR per other column it links to
              through attestations in the local store

The column with the highest total is the subject column; ties go to the
leftmost column.

Examples:
  tabix rate countries.csv
  tabix rate countries.csv --format yaml
  tabix rate countries.csv --left-factor 0      # ignore position
  tabix rate countries.csv --no-matcher         # skip the attestation store
  tabix rate countries.csv --watch              # re-rate on file or config change`,
	Args: cobra.ExactArgs(1),
	RunE: runRate,
}

var rateFlags struct {
	format      string
	watch       bool
	noMatcher   bool
	metricsFile string
	unique      int
	left        int
	columnMatch int
}

func init() {
	f := RateCmd.Flags()
	f.StringVarP(&rateFlags.format, "format", "f", formatTable, "Output format: table, json, yaml")
	f.BoolVarP(&rateFlags.watch, "watch", "w", false, "Re-rate when the CSV file or configuration changes")
	f.BoolVar(&rateFlags.noMatcher, "no-matcher", false, "Disable the relational signal")
	f.StringVar(&rateFlags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after each rating")
	f.IntVar(&rateFlags.unique, "unique-factor", rate.DefaultUniqueFactor, "Score for a column without repeated values")
	f.IntVar(&rateFlags.left, "left-factor", rate.DefaultLeftFactor, "Score for the leftmost column")
	f.IntVar(&rateFlags.columnMatch, "column-match-factor", rate.DefaultColumnMatchFactor, "Score per linked column")
}

// applyRateFlags overrides config values with explicitly set flags
func applyRateFlags(cmd *cobra.Command, cfg am.Config) am.Config {
	f := cmd.Flags()
	if f.Changed("unique-factor") {
		cfg.Rating.UniqueFactor = rateFlags.unique
	}
	if f.Changed("left-factor") {
		cfg.Rating.LeftFactor = rateFlags.left
	}
	if f.Changed("column-match-factor") {
		cfg.Rating.ColumnMatchFactor = rateFlags.columnMatch
	}
	return cfg
}

func runRate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(rateFlags.format); err != nil {
		return err
	}

	loaded, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := &rateRun{
		path:        args[0],
		format:      rateFlags.format,
		out:         cmd.OutOrStdout(),
		noMatcher:   rateFlags.noMatcher,
		metricsFile: rateFlags.metricsFile,
	}
	defer run.close()

	if err := run.configure(applyRateFlags(cmd, *loaded)); err != nil {
		return err
	}
	if err := run.once(ctx); err != nil {
		if !rateFlags.watch {
			return err
		}
		logger.Warnw("Rating failed, waiting for changes", logger.FieldError, err)
	}
	if !rateFlags.watch {
		return nil
	}

	return watchAndRate(ctx, cmd, run)
}

// watchAndRate re-rates whenever the CSV file or an active config file changes
func watchAndRate(ctx context.Context, cmd *cobra.Command, run *rateRun) error {
	paths := append([]string{run.path}, am.ActiveConfigFiles()...)
	watcher, err := am.NewConfigWatcher(paths)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	am.SetGlobalWatcher(watcher)
	defer am.SetGlobalWatcher(nil)

	watcher.OnReload(func(cfg *am.Config) error {
		if err := run.configure(applyRateFlags(cmd, *cfg)); err != nil {
			return err
		}
		return run.once(ctx)
	})
	watcher.Start()

	logger.Infow("Watching for changes", "paths", paths)
	<-ctx.Done()
	return nil
}

// rateRun holds what one `tabix rate` invocation needs across re-rates
type rateRun struct {
	path        string
	format      string
	out         io.Writer
	noMatcher   bool
	metricsFile string

	mu       sync.Mutex
	cfg      am.Config
	engine   *rate.Engine
	matcher  rate.Matcher
	database *sql.DB
	registry *prometheus.Registry
	metrics  *rate.Metrics
}

// configure builds the engine and matcher for cfg, replacing any previous ones
func (r *rateRun) configure(cfg am.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		m, err := rate.NewMetrics(r.registry)
		if err != nil {
			return err
		}
		r.metrics = m
	}

	opts := append(cfg.RateOptions(), rate.WithMetrics(r.metrics))
	engine, err := rate.NewEngine(cfg.Factors(), opts...)
	if err != nil {
		return err
	}

	var matcher rate.Matcher
	var database *sql.DB
	if !r.noMatcher && cfg.Rating.ColumnMatchFactor > 0 {
		database, err = openDatabase(cfg.GetDatabasePath())
		if err != nil {
			return err
		}
		matcher, err = newStoreMatcher(database, cfg)
		if err != nil {
			database.Close()
			return err
		}
	}

	if r.database != nil {
		r.database.Close()
	}
	r.cfg, r.engine, r.matcher, r.database = cfg, engine, matcher, database
	return nil
}

// newStoreMatcher wires the attestation store into a rate.Matcher with the
// configured vocabulary, rate limit and timeout
func newStoreMatcher(database *sql.DB, cfg am.Config) (rate.Matcher, error) {
	vocab, err := match.LoadVocabulary(cfg.Matcher.VocabularyPath)
	if err != nil {
		return nil, err
	}
	store := storage.NewSQLStore(database, logger.ComponentLogger("storage"))

	var m rate.Matcher = match.NewStoreMatcher(store, vocab)
	m = match.WithRateLimit(m, match.NewLimiter(cfg.Matcher.MaxQueriesPerSecond))
	m = match.WithTimeout(m, cfg.MatcherTimeout())
	return m, nil
}

// once reads the CSV file, rates it and writes the result
func (r *rateRun) once(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", r.path)
	}
	defer f.Close()

	tbl, err := table.ReadCSV(f, r.cfg.CSVOptions())
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", r.path)
	}

	res, err := r.engine.Rate(ctx, tbl, r.matcher)
	if err != nil {
		return errors.Wrapf(err, "failed to rate %s", r.path)
	}

	if err := writeResult(r.out, r.format, tbl, res); err != nil {
		return err
	}

	if r.metricsFile != "" {
		if err := prometheus.WriteToTextfile(r.metricsFile, r.registry); err != nil {
			return errors.Wrapf(err, "failed to write metrics to %s", r.metricsFile)
		}
	}
	return nil
}

func (r *rateRun) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.database != nil {
		r.database.Close()
		r.database = nil
	}
}
