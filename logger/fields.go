package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across tabix.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"

	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldFile       = "file"

	// Rating
	FieldRatingID = "rating_id"
	FieldSignal   = "signal"
	FieldColumn   = "column"
	FieldColumns  = "columns"
	FieldRows     = "rows"
	FieldScores   = "scores"
	FieldSubject  = "subject"

	// Attestations
	FieldAttestation = "attestation"
	FieldPredicate   = "predicate"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	rater := rate.NewRater(factors, matcher, rate.WithLogger(logger.ComponentLogger("rate")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
