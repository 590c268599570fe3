// Package lilacerr defines the error taxonomy shared by every core
// component: each error names the offending path or signal so a caller
// can render a useful message without re-deriving context.
package lilacerr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Use errors.Is against these to classify a returned error.
var (
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrUnknownPath       = errors.New("unknown path")
	ErrMissingDependency = errors.New("missing dependency")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrCardinality       = errors.New("cardinality error")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage error")
	ErrVectorStore       = errors.New("vector store error")
)

// SchemaMismatch reports a dtype incompatibility at path during a merge or
// signal/leaf compatibility check.
func SchemaMismatch(path string, format string, args ...any) error {
	return fmt.Errorf("%w at %q: %s", ErrSchemaMismatch, path, fmt.Sprintf(format, args...))
}

// UnknownPath reports a path that does not resolve against the current
// merged schema.
func UnknownPath(path string) error {
	return fmt.Errorf("%w: %q", ErrUnknownPath, path)
}

// MissingDependency reports a signal read that needs a precomputed
// split/embedding subtree which is absent from the schema.
func MissingDependency(signalKey, path string) error {
	return fmt.Errorf("%w: signal %q needs %q to be computed first", ErrMissingDependency, signalKey, path)
}

// InvalidQuery reports a query-shape violation (repeated-index selection,
// sort on a struct, EXISTS on a scalar, etc).
func InvalidQuery(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Cardinality reports a signal that produced the wrong number of outputs,
// or a group-by that exceeds the distinct cap without explicit bins.
func Cardinality(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCardinality, fmt.Sprintf(format, args...))
}

// NotFound reports a missing dataset, row, or manifest file.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Storage reports a parquet/manifest IO failure or a corrupt signal shard.
func Storage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStorage, fmt.Sprintf(format, args...))
}

// VectorStore reports an unknown key or a dimension mismatch on add.
func VectorStore(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrVectorStore, fmt.Sprintf(format, args...))
}
