package storage

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/db"
	"github.com/teranos/tabix/errors"
	qtest "github.com/teranos/tabix/internal/testing"
)

func TestImportTriples(t *testing.T) {
	store := NewSQLStore(qtest.CreateTestDB(t), nil)

	result, err := store.ImportTriples(t.Context(), []types.Triple{
		{Subject: "France", Predicate: "capital", Context: "Paris"},
		{Subject: "", Predicate: "capital", Context: "Nowhere"},
		{Subject: "Italy", Predicate: "capital", Context: "Rome"},
		{Subject: "Spain"},
	}, "import")
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Len(t, result.Errors, 1)

	n, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	triples, err := store.Triples(t.Context(), []string{"France", "Spain"}, nil)
	require.NoError(t, err)
	sortTriples(triples)
	assert.Equal(t, []types.Triple{
		{Subject: "France", Predicate: "capital", Context: "Paris"},
		{Subject: "Spain", Predicate: "_", Context: "_"},
	}, triples)
}

func TestImportTriples_Empty(t *testing.T) {
	store := NewSQLStore(qtest.CreateTestDB(t), nil)

	result, err := store.ImportTriples(t.Context(), nil, "import")
	require.NoError(t, err)
	assert.Zero(t, result.SuccessCount)
}

func TestImportTriples_RollsBackOnFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO attestations")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	store := NewSQLStore(conn, nil)
	_, err = store.ImportTriples(t.Context(), []types.Triple{
		{Subject: "a", Predicate: "p", Context: "b"},
		{Subject: "c", Predicate: "p", Context: "d"},
	}, "import")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "triple 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTriples_ClosedDatabase(t *testing.T) {
	conn := qtest.CreateTestDB(t)
	store := NewSQLStore(conn, nil)
	require.NoError(t, conn.Close())

	_, err := store.Triples(t.Context(), []string{"France"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))
}
