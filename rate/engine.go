package rate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/tabix/logger"
	"github.com/teranos/tabix/table"
)

// Result is the outcome of one rating request.
type Result struct {
	ID string `json:"id" yaml:"id"`
	// Subject is the index of the chosen subject column
	Subject int `json:"subject" yaml:"subject"`
	// Header is the subject column's header, when the table has headers
	Header   string        `json:"header,omitempty" yaml:"header,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Rating   `yaml:",inline"`
}

// Engine is the entry point of the rating core: table and matcher in, subject
// column out. An Engine holds only its factors and options, so one value may
// serve concurrent requests.
type Engine struct {
	factors Factors
	opts    []Option
}

// NewEngine validates factors and returns an Engine.
func NewEngine(factors Factors, opts ...Option) (*Engine, error) {
	if err := factors.Validate(); err != nil {
		return nil, err
	}
	return &Engine{factors: factors, opts: opts}, nil
}

// Factors returns the engine's weighting factors.
func (e *Engine) Factors() Factors { return e.factors }

// Rate scores every column of t and selects the subject column.
// A nil matcher disables the relational signal.
func (e *Engine) Rate(ctx context.Context, t table.Table, m Matcher) (*Result, error) {
	start := time.Now()
	o := buildOptions(e.opts)
	id := uuid.NewString()
	log := o.logger.With(logger.FieldRatingID, id)

	opts := append(append([]Option(nil), e.opts...), WithLogger(log))
	rater, err := NewRater(e.factors, m, opts...)
	if err != nil {
		return nil, err
	}

	rating, err := rater.Rate(ctx, t)
	if err != nil {
		o.metrics.observeRating(outcomeFailed, time.Since(start))
		log.Errorw("Rating failed", logger.FieldError, err)
		return nil, err
	}

	subject, err := Select(rating.Composite)
	if err != nil {
		o.metrics.observeRating(outcomeFailed, time.Since(start))
		return nil, err
	}

	res := &Result{
		ID:       id,
		Subject:  subject,
		Header:   table.HeaderOf(t, subject),
		Duration: time.Since(start),
		Rating:   *rating,
	}
	o.metrics.observeRating(outcomeOK, res.Duration)

	log.Debugw("Subject column selected",
		logger.FieldSubject, subject,
		logger.FieldColumns, t.ColumnCount(),
		logger.FieldRows, t.RowCount(),
		logger.FieldScores, rating.Composite,
		logger.FieldDurationMS, elapsedMS(start),
	)

	return res, nil
}
