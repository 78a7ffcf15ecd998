package table

import (
	"encoding/csv"
	"io"

	"github.com/teranos/tabix/errors"
)

// CSVOptions controls how ReadCSV parses its input.
type CSVOptions struct {
	// Delimiter between fields (default ',')
	Delimiter rune
	// HasHeader treats the first record as column headers
	HasHeader bool
	// MaxRows limits data rows read; 0 means unlimited
	MaxRows int
}

// DefaultCSVOptions returns comma-delimited input with a header row.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', HasHeader: true}
}

// ReadCSV reads a delimited table. Every record must have the same number of
// fields; a ragged record is rejected with its line number.
func ReadCSV(r io.Reader, opts CSVOptions) (*Columns, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = 0
	reader.ReuseRecord = false

	var headers []string
	var rows [][]string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return nil, errors.WithHint(
					errors.Wrapf(errors.ErrRaggedTable, "line %d", parseErr.Line),
					"check the table delimiter")
			}
			return nil, errors.Wrap(err, "failed to read csv")
		}

		if opts.HasHeader && headers == nil {
			headers = record
			continue
		}
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			break
		}
		rows = append(rows, record)
	}

	if opts.HasHeader && headers == nil {
		headers = []string{}
	}

	return FromRows(headers, rows)
}
