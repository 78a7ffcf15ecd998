// Package match provides predicate matchers for the relational-match signal.
//
// A matcher answers one question per column: how many other columns hold
// values that are objects of a recognized predicate whose subject is one of
// this column's values.
package match

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
	"github.com/teranos/tabix/table"
)

// TripleSource looks up triples by subject. *storage.SQLStore implements it.
type TripleSource interface {
	Triples(ctx context.Context, subjects, predicates []string) ([]types.Triple, error)
}

// StoreMatcher counts column links using attestations from a TripleSource.
type StoreMatcher struct {
	source TripleSource
	vocab  *Vocabulary
	logger *zap.SugaredLogger
}

// NewStoreMatcher builds a matcher over source restricted to vocab's predicates.
// A nil or empty vocab recognizes every predicate.
func NewStoreMatcher(source TripleSource, vocab *Vocabulary) *StoreMatcher {
	return &StoreMatcher{
		source: source,
		vocab:  vocab,
		logger: logger.ComponentLogger("match.store"),
	}
}

// CountMatchingColumns implements rate.Matcher.
//
// Column j (j != column) counts once when at least one of its values is the
// context of a triple whose subject is a value of column.
func (m *StoreMatcher) CountMatchingColumns(ctx context.Context, column int, t table.Table) (int, error) {
	n := t.ColumnCount()
	if column < 0 || column >= n {
		return 0, errors.NewInvalidRequestError("column %d out of range [0, %d)", column, n)
	}

	triples, err := m.source.Triples(ctx, t.ColumnAsRawStrings(column), m.vocab.Terms())
	if err != nil {
		return 0, errors.Wrapf(err, "failed to load triples for column %d", column)
	}
	if len(triples) == 0 {
		return 0, nil
	}

	objects := make(map[string]struct{}, len(triples))
	for _, tr := range triples {
		objects[tr.Context] = struct{}{}
	}

	count := 0
	for j := 0; j < n; j++ {
		if j == column {
			continue
		}
		for _, v := range t.ColumnAsRawStrings(j) {
			if _, ok := objects[v]; ok {
				count++
				break
			}
		}
	}

	m.logger.Debugw("Column matches counted",
		logger.FieldColumn, column,
		"triples", len(triples),
		logger.FieldCount, count,
	)
	return count, nil
}
