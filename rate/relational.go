package rate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/table"
)

// Matcher counts how many other columns are linked to a column through a
// recognized predicate. The count is opaque to the rating engine.
type Matcher interface {
	CountMatchingColumns(ctx context.Context, column int, t table.Table) (int, error)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(ctx context.Context, column int, t table.Table) (int, error)

// CountMatchingColumns implements Matcher.
func (f MatcherFunc) CountMatchingColumns(ctx context.Context, column int, t table.Table) (int, error) {
	return f(ctx, column, t)
}

// RelationalMatchSignal scores Factor times the matcher's count for each column.
//
// A matcher error, or a negative count, makes that column score 0 and yields a
// warn Diagnostic; the other columns are still evaluated.
type RelationalMatchSignal struct {
	Factor  int
	Matcher Matcher
	// Parallelism bounds concurrent matcher calls; <= 1 evaluates columns in order.
	Parallelism int
}

func (RelationalMatchSignal) Name() string { return SignalRelational }

func (s RelationalMatchSignal) Score(ctx context.Context, t table.Table) (Scores, []Diagnostic, error) {
	n := t.ColumnCount()
	scores := make(Scores, n)
	if s.Matcher == nil {
		return scores, nil, nil
	}

	perColumn := make([]*Diagnostic, n)

	if s.Parallelism <= 1 {
		for i := 0; i < n; i++ {
			scores[i], perColumn[i] = s.scoreColumn(ctx, i, t)
		}
	} else {
		// Each goroutine owns slot i, so no locking is needed.
		var g errgroup.Group
		g.SetLimit(s.Parallelism)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				scores[i], perColumn[i] = s.scoreColumn(ctx, i, t)
				return nil
			})
		}
		_ = g.Wait()
	}

	var diags []Diagnostic
	for _, d := range perColumn {
		if d != nil {
			diags = append(diags, *d)
		}
	}
	return scores, diags, nil
}

func (s RelationalMatchSignal) scoreColumn(ctx context.Context, i int, t table.Table) (score int, diag *Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrapf(errors.ErrMatcherFailed, "matcher panicked: %v", r)
			score, diag = 0, matcherDiagnostic(i, err)
		}
	}()

	count, err := s.Matcher.CountMatchingColumns(ctx, i, t)
	if err != nil {
		return 0, matcherDiagnostic(i, errors.Wrapf(errors.Mark(err, errors.ErrMatcherFailed), "column %d", i))
	}
	if count < 0 {
		return 0, matcherDiagnostic(i, errors.Wrapf(errors.ErrMatcherFailed, "negative match count %d", count))
	}
	return count * s.Factor, nil
}

func matcherDiagnostic(column int, err error) *Diagnostic {
	return &Diagnostic{
		Signal:  SignalRelational,
		Column:  column,
		Level:   LevelWarn,
		Message: err.Error(),
		Err:     err,
	}
}
