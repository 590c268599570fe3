// Package planner implements C6: normalizing a caller's column/filter/sort
// request against the current merged schema, classifying filters and sort
// keys as pre- or post-UDF, and detecting the top-k shortcut (spec.md
// §4.6).
package planner

import (
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
)

// Order is a sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

// Op is a filter comparison operator (spec.md §4.6).
type Op string

const (
	OpEq     Op = "="
	OpNe     Op = "!="
	OpLt     Op = "<"
	OpLe     Op = "<="
	OpGt     Op = ">"
	OpGe     Op = ">="
	OpExists Op = "EXISTS"
	OpIn     Op = "IN"
)

// ColumnRequest is a caller-supplied column: either a bare path projection,
// or a path with a signal UDF applied to it, optionally aliased.
type ColumnRequest struct {
	Path   schema.Path
	Alias  string
	Signal signal.Signal
}

// FilterRequest is a caller-supplied filter. Ref is either a path (pre-UDF)
// or "<alias>.<rest...>" (post-UDF, first part matches a UDF column alias).
type FilterRequest struct {
	Ref schema.Path
	Op  Op
	Value any
}

// SortRequest is a caller-supplied sort key, same Ref convention as
// FilterRequest.
type SortRequest struct {
	Ref   schema.Path
	Order Order
}

// Request is the full select_rows input (spec.md §6).
type Request struct {
	Columns       []ColumnRequest
	Filters       []FilterRequest
	SortBy        []SortRequest
	Limit         int
	Offset        int
	ResolveSpans  bool
	CombineColumns bool
}

// Column is a normalized output column: Path is the underlying leaf path to
// scan, UDFPath is the final path the signal's output embeds at (nil for a
// plain projection), and VectorInput marks a UDF whose underlying
// selection is the "empty" placeholder from spec.md §4.6 because its value
// lives in the vector store rather than the scan.
type Column struct {
	Path        schema.Path
	Alias       string
	Signal      signal.Signal
	UDFPath     schema.Path
	VectorInput bool
}

// IsUDF reports whether this column applies a signal.
func (c Column) IsUDF() bool { return c.Signal != nil }

// Filter is a normalized, classified filter.
type Filter struct {
	Path   schema.Path
	Op     Op
	Value  any
	PostUDF bool
	// ColumnAlias is set when PostUDF is true: the UDF column this filter
	// reads from.
	ColumnAlias string
}

// SortKey is a normalized, classified sort key.
type SortKey struct {
	Path        schema.Path
	Order       Order
	PostUDF     bool
	ColumnAlias string
	// ListAggregate is set when the sort path is repeated: "min" for ASC,
	// "max" for DESC, per spec.md §4.6 validation rules.
	ListAggregate string
}

// TopKShortcut names the single vector UDF column eligible for the
// sort-by-topk execution path (spec.md §4.7 step 4).
type TopKShortcut struct {
	Column Column
	K      int
}

// Plan is the normalized, validated, classified query.
type Plan struct {
	Columns        []Column
	PreFilters     []Filter
	PostFilters    []Filter
	PreSort        []SortKey
	PostSort       []SortKey
	ApplyLimitPreScan bool
	Limit          int
	Offset         int
	ResolveSpans   bool
	CombineColumns bool
	TopKShortcut   *TopKShortcut
}
