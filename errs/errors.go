// Package errs defines the sentinel errors shared across the extractor packages.
//
// All errors raised by this module either are one of these sentinels or wrap
// one of them with fmt.Errorf("%w: ..."), so callers can classify failures
// with errors.Is without string matching.
package errs

import "errors"

var (
	// ErrInvalidPointer indicates a path that cannot be parsed as a JSON
	// pointer (missing leading slash, bad "~" escape, and so on).
	ErrInvalidPointer = errors.New("invalid pointer")

	// ErrInvalidMatchRule indicates a match rule that is valid neither as a
	// literal pointer nor as a wildcard expression.
	ErrInvalidMatchRule = errors.New("invalid match rule")

	// ErrMultiLevelNotLast indicates an MQTT-style rule with a "#" segment in
	// a non-final position.
	ErrMultiLevelNotLast = errors.New("multi-level wildcard must be the final segment")

	// ErrInvalidTemplate indicates a sample key template that cannot be
	// compiled (for example an unterminated placeholder).
	ErrInvalidTemplate = errors.New("invalid key template")

	// ErrUnresolvedPlaceholder indicates a template placeholder that could
	// not be resolved against the ancestry and unresolved replacements are
	// disallowed. It causes the affected node to be skipped, never the whole
	// extraction.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

	// ErrInvalidCompression indicates an unknown compression type.
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrInvalidBatch indicates sample batch data that is malformed or
	// truncated.
	ErrInvalidBatch = errors.New("invalid sample batch")

	// ErrBatchFinished indicates an attempt to append to a batch encoder
	// after Finish has been called.
	ErrBatchFinished = errors.New("batch encoder already finished")
)
