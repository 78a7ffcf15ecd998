package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsCommand_ToAs_Defaults(t *testing.T) {
	cmd := &AsCommand{Subjects: []string{"france"}}
	as := cmd.ToAs("AS-1")

	assert.Equal(t, "AS-1", as.ID)
	assert.Equal(t, []string{"_"}, as.Predicates)
	assert.Equal(t, []string{"_"}, as.Contexts)
	assert.Equal(t, "cli", as.Source)
	assert.False(t, as.Timestamp.IsZero())
	assert.False(t, as.CreatedAt.IsZero())
}

func TestAsCommand_ToAs_Explicit(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cmd := &AsCommand{
		Subjects:   []string{"france", "italy"},
		Predicates: []string{"capital"},
		Contexts:   []string{"paris", "rome"},
		Actors:     []string{"atlas@import"},
		Timestamp:  ts,
		Source:     "csv",
	}
	as := cmd.ToAs("AS-2")

	assert.Equal(t, ts, as.Timestamp)
	assert.Equal(t, "csv", as.Source)
	assert.Equal(t, []string{"atlas@import"}, as.Actors)
	assert.Equal(t, 4, as.GetCartesianCount())
}
