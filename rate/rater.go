package rate

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
	"github.com/teranos/tabix/table"
)

// Rating is the outcome of running every signal over a table.
type Rating struct {
	// Composite is the element-wise sum of all signal scores
	Composite Scores `json:"composite" yaml:"composite"`
	// Signals holds each signal's scores by signal name
	Signals map[string]Scores `json:"signals" yaml:"signals"`
	// Diagnostics lists recovered per-column problems
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Rater runs the uniqueness, leftness and relational-match signals over a table.
type Rater struct {
	signals    []Signal
	concurrent bool
	logger     *zap.SugaredLogger
	metrics    *Metrics
}

// Option configures a Rater or Engine.
type Option func(*options)

type options struct {
	concurrent  bool
	parallelism int
	logger      *zap.SugaredLogger
	metrics     *Metrics
	signals     []Signal
}

// WithConcurrency runs the signals on separate goroutines and lets the
// relational signal query up to parallelism columns at once.
func WithConcurrency(parallelism int) Option {
	return func(o *options) {
		o.concurrent = true
		o.parallelism = parallelism
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records rating outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithSignals replaces the built-in signals.
func WithSignals(signals ...Signal) Option {
	return func(o *options) { o.signals = signals }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.ComponentLogger("rate")
	}
	return o
}

// NewRater builds a Rater with fixed factors. matcher may be nil, in which case
// the relational signal scores 0 for every column.
func NewRater(factors Factors, matcher Matcher, opts ...Option) (*Rater, error) {
	if err := factors.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	signals := o.signals
	if signals == nil {
		signals = []Signal{
			UniquenessSignal{Factor: factors.Unique},
			LeftnessSignal{Factor: factors.Left},
			RelationalMatchSignal{Factor: factors.ColumnMatch, Matcher: matcher, Parallelism: o.parallelism},
		}
	}

	return &Rater{
		signals:    signals,
		concurrent: o.concurrent,
		logger:     o.logger,
		metrics:    o.metrics,
	}, nil
}

type signalResult struct {
	scores Scores
	diags  []Diagnostic
}

// Rate runs every signal once and sums their scores.
//
// It fails with ErrInvalidTable for a table without columns and with
// ErrSignalLengthMismatch when a signal returns the wrong number of scores.
// No partial composite is returned on failure.
func (r *Rater) Rate(ctx context.Context, t table.Table) (*Rating, error) {
	n := t.ColumnCount()
	if n == 0 {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidTable, "table has no columns"),
			"a subject column can only be chosen from a table with at least one column")
	}

	results := make([]signalResult, len(r.signals))

	if r.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i, sig := range r.signals {
			g.Go(func() error {
				scores, diags, err := sig.Score(gctx, t)
				if err != nil {
					return errors.Wrapf(err, "%s signal", sig.Name())
				}
				results[i] = signalResult{scores: scores, diags: diags}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, sig := range r.signals {
			scores, diags, err := sig.Score(ctx, t)
			if err != nil {
				return nil, errors.Wrapf(err, "%s signal", sig.Name())
			}
			results[i] = signalResult{scores: scores, diags: diags}
		}
	}

	rating := &Rating{
		Composite: make(Scores, n),
		Signals:   make(map[string]Scores, len(r.signals)),
	}
	for i, sig := range r.signals {
		res := results[i]
		if len(res.scores) != n {
			return nil, errors.Wrapf(errors.ErrSignalLengthMismatch,
				"%s signal returned %d scores for %d columns", sig.Name(), len(res.scores), n)
		}
		rating.Signals[sig.Name()] = res.scores
		rating.Diagnostics = append(rating.Diagnostics, res.diags...)
	}
	for _, res := range results {
		rating.Composite = rating.Composite.Add(res.scores)
	}

	for _, d := range rating.Diagnostics {
		r.logger.Warnw("Column scored 0 after signal failure",
			logger.FieldSignal, d.Signal,
			logger.FieldColumn, d.Column,
			logger.FieldError, d.Message,
		)
	}
	r.metrics.observeDiagnostics(rating.Diagnostics)

	return rating, nil
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
