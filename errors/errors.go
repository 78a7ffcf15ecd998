// Package errors provides error handling for tabix.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for users of the CLI
//
// Usage:
//
//	// Wrap with context
//	if err := rater.Rate(ctx, t); err != nil {
//	    return errors.Wrap(err, "failed to rate table")
//	}
//
//	// Check sentinels
//	if errors.Is(err, errors.ErrInvalidTable) {
//	    // nothing to rate
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the rating engine.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidTable indicates a table with no columns; nothing can be rated
	ErrInvalidTable = New("invalid table")

	// ErrSignalLengthMismatch indicates a signal returned a score per column count
	// different from the table's column count
	ErrSignalLengthMismatch = New("signal length mismatch")

	// ErrEmptyTable indicates the selector received no scores
	ErrEmptyTable = New("empty table")

	// ErrMatcherFailed indicates a predicate matcher could not evaluate a column
	ErrMatcherFailed = New("matcher failed")

	// ErrInvalidFactors indicates a negative weighting factor
	ErrInvalidFactors = New("invalid factors")

	// ErrRaggedTable indicates columns of unequal length
	ErrRaggedTable = New("ragged table")
)

// Common sentinel errors shared by storage and CLI code.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsFatalRatingError reports whether err is one of the structural failures that
// abort a rating call. Matcher failures are never fatal.
func IsFatalRatingError(err error) bool {
	return err != nil && IsAny(err, ErrInvalidTable, ErrSignalLengthMismatch, ErrEmptyTable, ErrInvalidFactors)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
