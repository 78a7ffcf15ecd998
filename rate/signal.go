package rate

import (
	"context"
	"fmt"

	"github.com/teranos/tabix/table"
)

// Signal names used as keys in Rating.Signals.
const (
	SignalUniqueness = "uniqueness"
	SignalLeftness   = "leftness"
	SignalRelational = "relational"
)

// Scores holds one value per column, in column order.
type Scores []int

// Add returns the element-wise sum of s and other. Both must have equal length.
func (s Scores) Add(other Scores) Scores {
	out := make(Scores, len(s))
	for i := range s {
		out[i] = s[i] + other[i]
	}
	return out
}

// Signal scores every column of a table along one axis.
//
// Implementations hold no table-specific state between calls and must return
// exactly t.ColumnCount() scores. A column that cannot be evaluated scores 0.
type Signal interface {
	Name() string
	Score(ctx context.Context, t table.Table) (Scores, []Diagnostic, error)
}

// Level of a Diagnostic.
const (
	LevelWarn = "warn"
)

// Diagnostic records a recovered per-column problem.
type Diagnostic struct {
	Signal  string `json:"signal" yaml:"signal"`
	Column  int    `json:"column" yaml:"column"`
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
	Err     error  `json:"-" yaml:"-"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s column %d: %s", d.Level, d.Signal, d.Column, d.Message)
}
