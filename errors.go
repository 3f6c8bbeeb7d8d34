package sqlls

import "errors"

// Sentinel errors shared across the schema/catalog types in this package.
// Package-specific errors (tokenizer, pull, cst, ...) live alongside their
// own packages instead of here.
var (
	// ErrTableNotFoundInSchema indicates a FROM-clause reference did not
	// resolve to any table in the active schema.
	ErrTableNotFoundInSchema = errors.New("table not found in schema")

	// ErrColumnDoesNotExist indicates a column reference did not resolve
	// against its table's metadata.
	ErrColumnDoesNotExist = errors.New("column does not exist in table")
)
