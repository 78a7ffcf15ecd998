package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tabix/errors"
)

func TestNew(t *testing.T) {
	tbl, err := New([]string{"name", "city"}, [][]string{
		{"alice", "bob"},
		{"paris", "paris"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"paris", "paris"}, tbl.ColumnAsRawStrings(1))
	assert.Equal(t, "city", tbl.Header(1))
	assert.Equal(t, "", tbl.Header(5))
	assert.Nil(t, tbl.ColumnAsRawStrings(2))
}

func TestNew_Ragged(t *testing.T) {
	_, err := New(nil, [][]string{{"a", "b"}, {"c"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRaggedTable))

	_, err = New([]string{"only"}, [][]string{{"a"}, {"b"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRaggedTable))
}

func TestNew_Empty(t *testing.T) {
	tbl, err := New(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.ColumnCount())
	assert.Equal(t, 0, tbl.RowCount())
}

func TestColumnAsRawStrings_ReturnsCopy(t *testing.T) {
	tbl, err := New(nil, [][]string{{"x", "y"}})
	require.NoError(t, err)

	col := tbl.ColumnAsRawStrings(0)
	col[0] = "mutated"

	assert.Equal(t, []string{"x", "y"}, tbl.ColumnAsRawStrings(0))
}

func TestFromRows(t *testing.T) {
	tbl, err := FromRows([]string{"id", "label"}, [][]string{
		{"1", "one"},
		{"2", "two"},
		{"3", "three"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, []string{"1", "2", "3"}, tbl.ColumnAsRawStrings(0))

	_, err = FromRows(nil, [][]string{{"a", "b"}, {"c"}})
	assert.True(t, errors.Is(err, errors.ErrRaggedTable))
}

func TestFromRows_HeaderOnly(t *testing.T) {
	tbl, err := FromRows([]string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, 0, tbl.RowCount())
}

func TestHeaderOf(t *testing.T) {
	tbl, err := New([]string{"country"}, [][]string{{"fr"}})
	require.NoError(t, err)
	assert.Equal(t, "country", HeaderOf(tbl, 0))

	var bare Table = bareTable{}
	assert.Equal(t, "", HeaderOf(bare, 0))
}

type bareTable struct{}

func (bareTable) ColumnCount() int                 { return 1 }
func (bareTable) RowCount() int                    { return 0 }
func (bareTable) ColumnAsRawStrings(int) []string { return nil }

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		opts        CSVOptions
		wantColumns int
		wantRows    int
		wantHeader  string
		wantErr     error
	}{
		{
			name:        "header and rows",
			input:       "country,capital\nfrance,paris\nitaly,rome\n",
			opts:        DefaultCSVOptions(),
			wantColumns: 2,
			wantRows:    2,
			wantHeader:  "country",
		},
		{
			name:        "semicolon without header",
			input:       "a;b;c\nd;e;f\n",
			opts:        CSVOptions{Delimiter: ';'},
			wantColumns: 3,
			wantRows:    2,
		},
		{
			name:        "max rows",
			input:       "h\n1\n2\n3\n",
			opts:        CSVOptions{Delimiter: ',', HasHeader: true, MaxRows: 2},
			wantColumns: 1,
			wantRows:    2,
			wantHeader:  "h",
		},
		{
			name:    "ragged record",
			input:   "a,b\n1\n",
			opts:    DefaultCSVOptions(),
			wantErr: errors.ErrRaggedTable,
		},
		{
			name:        "empty input",
			input:       "",
			opts:        DefaultCSVOptions(),
			wantColumns: 0,
			wantRows:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.input), tt.opts)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, tbl.ColumnCount())
			assert.Equal(t, tt.wantRows, tbl.RowCount())
			assert.Equal(t, tt.wantHeader, tbl.Header(0))
		})
	}
}

func TestReadCSV_PreservesRawValues(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("name\n Alice\nalice\n\"Bob, Jr\"\n"), DefaultCSVOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{" Alice", "alice", "Bob, Jr"}, tbl.ColumnAsRawStrings(0))
}
