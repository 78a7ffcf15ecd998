package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/errors"
)

// ImportResult summarizes a batch import
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	SkippedCount int      `json:"skipped_count"`
	Errors       []string `json:"errors,omitempty"`
}

// ImportTriples stores one self-certifying attestation per triple inside a
// single transaction. Triples without a subject are skipped and reported;
// any database failure rolls the whole batch back.
func (s *SQLStore) ImportTriples(ctx context.Context, triples []types.Triple, source string) (*ImportResult, error) {
	result := &ImportResult{}
	if len(triples) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin import")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, AttestationInsertQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare import")
	}
	defer stmt.Close()

	now := time.Now()
	for i, tr := range triples {
		if tr.Subject == "" {
			result.SkippedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("triple %d has no subject", i))
			continue
		}

		cmd := &types.AsCommand{
			Subjects:   []string{tr.Subject},
			Predicates: nonEmpty(tr.Predicate),
			Contexts:   nonEmpty(tr.Context),
			Timestamp:  now,
			Source:     source,
		}
		as := cmd.ToAs(NewASID())
		as.Actors = []string{as.ID}

		fields, err := MarshalAttestationFields(as)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx,
			as.ID, fields.SubjectsJSON, fields.PredicatesJSON, fields.ContextsJSON,
			fields.ActorsJSON, as.Timestamp, as.Source, fields.AttributesJSON, now,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to import triple %d", i)
		}
		result.SuccessCount++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit import")
	}

	s.logger.Infow("Triples imported",
		"imported", result.SuccessCount,
		"skipped", result.SkippedCount,
		"source", source)
	return result, nil
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
