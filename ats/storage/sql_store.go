// Package storage provides SQLite-specific attestation storage implementation.
// It handles database persistence, JSON serialization, and the triple lookups
// the store-backed predicate matcher runs.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/db"
	"github.com/teranos/tabix/errors"
)

// maxHostParams stays below SQLite's historical 999 bound-parameter limit.
const maxHostParams = 900

// AttestationFields holds marshaled JSON fields for database operations
type AttestationFields struct {
	SubjectsJSON   string
	PredicatesJSON string
	ContextsJSON   string
	ActorsJSON     string
	AttributesJSON string
}

// MarshalAttestationFields marshals all attestation array/map fields to JSON
func MarshalAttestationFields(as *types.As) (*AttestationFields, error) {
	if as == nil {
		return nil, errors.New("attestation is nil")
	}

	fields := &AttestationFields{}
	targets := []struct {
		name string
		v    interface{}
		dst  *string
	}{
		{"subjects", as.Subjects, &fields.SubjectsJSON},
		{"predicates", as.Predicates, &fields.PredicatesJSON},
		{"contexts", as.Contexts, &fields.ContextsJSON},
		{"actors", as.Actors, &fields.ActorsJSON},
		{"attributes", as.Attributes, &fields.AttributesJSON},
	}
	for _, tgt := range targets {
		b, err := json.Marshal(tgt.v)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %s", tgt.name)
		}
		*tgt.dst = string(b)
	}

	return fields, nil
}

// Query constants
const (
	AttestationInsertQuery = `
		INSERT INTO attestations (id, subjects, predicates, contexts, actors, timestamp, source, attributes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	AttestationExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM attestations WHERE id = ?)`

	AttestationCountQuery = `
		SELECT COUNT(*) FROM attestations`

	// TriplesBySubjectQuery expands attestations into triples; the subject
	// (and optional predicate) IN lists are appended by buildTriplesQuery.
	TriplesBySubjectQuery = `
		SELECT s.value, p.value, c.value
		FROM attestations a,
			json_each(a.subjects) s,
			json_each(a.predicates) p,
			json_each(a.contexts) c
		WHERE s.value IN (%s)`

	PredicateCountsQuery = `
		SELECT p.value, COUNT(*)
		FROM attestations a, json_each(a.predicates) p
		GROUP BY p.value
		ORDER BY COUNT(*) DESC, p.value`
)

// SQLStore persists attestations in SQLite
type SQLStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLStore creates a new SQL-based attestation store
func NewSQLStore(db *sql.DB, logger *zap.SugaredLogger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SQLStore{
		db:     db,
		logger: logger,
	}
}

// CreateAttestation inserts a new attestation into the database
func (s *SQLStore) CreateAttestation(ctx context.Context, as *types.As) error {
	fields, err := MarshalAttestationFields(as)
	if err != nil {
		return errors.Wrap(err, "failed to marshal attestation fields")
	}

	_, err = s.db.ExecContext(ctx,
		AttestationInsertQuery,
		as.ID,
		fields.SubjectsJSON,
		fields.PredicatesJSON,
		fields.ContextsJSON,
		fields.ActorsJSON,
		as.Timestamp,
		as.Source,
		fields.AttributesJSON,
		as.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert attestation %s", as.ID)
	}

	s.logger.Debugw("Attestation created",
		"attestation", as.ID,
		"triples", as.GetCartesianCount(),
	)
	return nil
}

// AttestationExists checks if an attestation with the given ID exists
func (s *SQLStore) AttestationExists(ctx context.Context, asid string) bool {
	var exists bool
	err := s.db.QueryRowContext(ctx, AttestationExistsQuery, asid).Scan(&exists)
	return err == nil && exists
}

// NewASID returns a fresh attestation ID.
func NewASID() string {
	return "AS" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// GenerateAndCreateAttestation assigns an ASID and stores the attestation.
// Without explicit actors the attestation is self-certifying: its ASID is its actor.
func (s *SQLStore) GenerateAndCreateAttestation(ctx context.Context, cmd *types.AsCommand) (*types.As, error) {
	if len(cmd.Subjects) == 0 {
		return nil, errors.NewInvalidRequestError("attestation needs at least one subject")
	}

	as := cmd.ToAs(NewASID())
	if len(as.Actors) == 0 {
		as.Actors = []string{as.ID}
	}

	if err := s.CreateAttestation(ctx, as); err != nil {
		return nil, err
	}
	return as, nil
}

// Count returns the number of stored attestations.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, AttestationCountQuery).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count attestations")
	}
	return n, nil
}

// PredicateCount is the number of attestations carrying a predicate.
type PredicateCount struct {
	Predicate string `json:"predicate"`
	Count     int    `json:"count"`
}

// PredicateCounts returns attestation counts per predicate, most used first.
func (s *SQLStore) PredicateCounts(ctx context.Context) ([]PredicateCount, error) {
	rows, err := s.db.QueryContext(ctx, PredicateCountsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query predicate counts")
	}
	defer rows.Close()

	var out []PredicateCount
	for rows.Next() {
		var pc PredicateCount
		if err := rows.Scan(&pc.Predicate, &pc.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan predicate count")
		}
		out = append(out, pc)
	}
	return out, errors.Wrap(rows.Err(), "failed to iterate predicate counts")
}

// Triples returns every triple whose subject is in subjects. When predicates is
// non-empty only triples with one of those predicates are returned.
// Subjects are deduplicated and queried in chunks under the host-parameter limit.
func (s *SQLStore) Triples(ctx context.Context, subjects, predicates []string) ([]types.Triple, error) {
	subjects = dedupe(subjects)
	if len(subjects) == 0 {
		return nil, nil
	}

	// Large vocabularies are filtered in Go rather than bound as parameters.
	filterInSQL := len(predicates) > 0 && len(predicates) < maxHostParams/2
	chunkSize := maxHostParams
	if filterInSQL {
		chunkSize -= len(predicates)
	}

	allowed := make(map[string]struct{}, len(predicates))
	for _, p := range predicates {
		allowed[p] = struct{}{}
	}

	var out []types.Triple
	for start := 0; start < len(subjects); start += chunkSize {
		end := start + chunkSize
		if end > len(subjects) {
			end = len(subjects)
		}
		chunk := subjects[start:end]

		var sqlPredicates []string
		if filterInSQL {
			sqlPredicates = predicates
		}
		query, args := buildTriplesQuery(chunk, sqlPredicates)

		triples, err := s.queryTriples(ctx, query, args)
		if err != nil {
			return nil, err
		}
		for _, tr := range triples {
			if len(allowed) > 0 && !filterInSQL {
				if _, ok := allowed[tr.Predicate]; !ok {
					continue
				}
			}
			out = append(out, tr)
		}
	}

	return out, nil
}

func (s *SQLStore) queryTriples(ctx context.Context, query string, args []interface{}) ([]types.Triple, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = errors.Wrap(err, "failed to query triples")
		if db.IsDatabaseClosed(err) {
			err = errors.Mark(err, db.ErrDatabaseClosed)
		}
		return nil, err
	}
	defer rows.Close()

	var out []types.Triple
	for rows.Next() {
		var tr types.Triple
		if err := rows.Scan(&tr.Subject, &tr.Predicate, &tr.Context); err != nil {
			return nil, errors.Wrap(err, "failed to scan triple")
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate triples")
	}
	return out, nil
}

func buildTriplesQuery(subjects, predicates []string) (string, []interface{}) {
	args := make([]interface{}, 0, len(subjects)+len(predicates))
	for _, v := range subjects {
		args = append(args, v)
	}

	query := strings.Replace(TriplesBySubjectQuery, "%s", placeholders(len(subjects)), 1)
	if len(predicates) > 0 {
		query += " AND p.value IN (" + placeholders(len(predicates)) + ")"
		for _, p := range predicates {
			args = append(args, p)
		}
	}
	return query, args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
