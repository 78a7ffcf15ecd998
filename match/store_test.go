package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tabix/ats/storage"
	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/errors"
	qtest "github.com/teranos/tabix/internal/testing"
	"github.com/teranos/tabix/rate"
	"github.com/teranos/tabix/table"
)

func countriesTable(t *testing.T) *table.Columns {
	t.Helper()
	tbl, err := table.FromRows(
		[]string{"country", "capital", "population"},
		[][]string{
			{"France", "Paris", "67"},
			{"Italy", "Rome", "59"},
			{"Spain", "Madrid", "47"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func seedStore(t *testing.T, triples ...types.Triple) *storage.SQLStore {
	t.Helper()
	store := storage.NewSQLStore(qtest.CreateTestDB(t), nil)
	for _, tr := range triples {
		_, err := store.GenerateAndCreateAttestation(t.Context(), &types.AsCommand{
			Subjects:   []string{tr.Subject},
			Predicates: []string{tr.Predicate},
			Contexts:   []string{tr.Context},
		})
		require.NoError(t, err)
	}
	return store
}

func TestStoreMatcher_CountsLinkedColumns(t *testing.T) {
	store := seedStore(t,
		types.Triple{Subject: "France", Predicate: "capital", Context: "Paris"},
		types.Triple{Subject: "Italy", Predicate: "capital", Context: "Rome"},
		types.Triple{Subject: "Paris", Predicate: "located_in", Context: "France"},
	)
	m := NewStoreMatcher(store, nil)
	tbl := countriesTable(t)

	n, err := m.CountMatchingColumns(t.Context(), 0, tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "country links to capital")

	n, err = m.CountMatchingColumns(t.Context(), 1, tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "capital links back to country")

	n, err = m.CountMatchingColumns(t.Context(), 2, tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStoreMatcher_VocabularyRestrictsPredicates(t *testing.T) {
	store := seedStore(t,
		types.Triple{Subject: "France", Predicate: "capital", Context: "Paris"},
		types.Triple{Subject: "France", Predicate: "population_millions", Context: "67"},
	)
	vocab := &Vocabulary{Predicates: []Predicate{{Name: "capital"}}}
	tbl := countriesTable(t)

	n, err := NewStoreMatcher(store, vocab).CountMatchingColumns(t.Context(), 0, tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = NewStoreMatcher(store, nil).CountMatchingColumns(t.Context(), 0, tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "empty vocabulary recognizes every predicate")
}

func TestStoreMatcher_AliasCounts(t *testing.T) {
	store := seedStore(t,
		types.Triple{Subject: "Spain", Predicate: "has_capital", Context: "Madrid"},
	)
	vocab := &Vocabulary{Predicates: []Predicate{{Name: "capital", Aliases: []string{"has_capital"}}}}

	n, err := NewStoreMatcher(store, vocab).CountMatchingColumns(t.Context(), 0, countriesTable(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreMatcher_SelfLinksIgnored(t *testing.T) {
	store := seedStore(t,
		types.Triple{Subject: "France", Predicate: "neighbour", Context: "Spain"},
	)

	n, err := NewStoreMatcher(store, nil).CountMatchingColumns(t.Context(), 0, countriesTable(t))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStoreMatcher_ColumnOutOfRange(t *testing.T) {
	m := NewStoreMatcher(seedStore(t), nil)

	_, err := m.CountMatchingColumns(t.Context(), 5, countriesTable(t))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

type failingSource struct{}

func (failingSource) Triples(context.Context, []string, []string) ([]types.Triple, error) {
	return nil, errors.New("database is locked")
}

func TestStoreMatcher_SourceErrorBecomesDiagnostic(t *testing.T) {
	tbl := countriesTable(t)
	r, err := rate.NewRater(rate.DefaultFactors(), NewStoreMatcher(failingSource{}, nil))
	require.NoError(t, err)

	rating, err := r.Rate(t.Context(), tbl)
	require.NoError(t, err)

	assert.Equal(t, rate.Scores{0, 0, 0}, rating.Signals[rate.SignalRelational])
	assert.Len(t, rating.Diagnostics, 3)
	for _, d := range rating.Diagnostics {
		assert.Equal(t, rate.LevelWarn, d.Level)
		assert.True(t, errors.Is(d.Err, errors.ErrMatcherFailed))
	}
}

func TestStoreMatcher_EndToEnd(t *testing.T) {
	store := seedStore(t,
		types.Triple{Subject: "France", Predicate: "capital", Context: "Paris"},
		types.Triple{Subject: "Italy", Predicate: "capital", Context: "Rome"},
	)
	r, err := rate.NewRater(rate.DefaultFactors(), NewStoreMatcher(store, nil))
	require.NoError(t, err)

	rating, err := r.Rate(t.Context(), countriesTable(t))
	require.NoError(t, err)

	// uniqueness {10,10,10} + leftness {10,7,4} + relational {3,0,0}
	assert.Equal(t, rate.Scores{23, 17, 14}, rating.Composite)

	best, err := rate.Select(rating.Composite)
	require.NoError(t, err)
	assert.Equal(t, 0, best)
}
