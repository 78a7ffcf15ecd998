package rate

import (
	"context"

	"github.com/teranos/tabix/table"
)

// UniquenessSignal scores Factor for columns whose values are all distinct.
// Comparison is exact string equality; no case or whitespace folding.
// A column with zero rows is unique.
type UniquenessSignal struct {
	Factor int
}

func (UniquenessSignal) Name() string { return SignalUniqueness }

func (s UniquenessSignal) Score(_ context.Context, t table.Table) (Scores, []Diagnostic, error) {
	scores := make(Scores, t.ColumnCount())
	for i := range scores {
		if isUnique(t.ColumnAsRawStrings(i)) {
			scores[i] = s.Factor
		}
	}
	return scores, nil, nil
}

func isUnique(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
