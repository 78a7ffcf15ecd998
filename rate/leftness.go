package rate

import (
	"context"

	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/table"
)

// LeftnessSignal favors columns near the left edge.
//
// Column i scores Factor - i*(Factor/columnCount) with integer division, so the
// step is 0 once columnCount exceeds Factor and every column then scores Factor.
type LeftnessSignal struct {
	Factor int
}

func (LeftnessSignal) Name() string { return SignalLeftness }

func (s LeftnessSignal) Score(_ context.Context, t table.Table) (Scores, []Diagnostic, error) {
	n := t.ColumnCount()
	if n == 0 {
		return nil, nil, errors.Wrap(errors.ErrInvalidTable, "leftness needs at least one column")
	}

	step := s.Factor / n
	scores := make(Scores, n)
	for i := range scores {
		scores[i] = s.Factor - i*step
	}
	return scores, nil, nil
}
