package planner

import (
	"strconv"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
)

// Plan normalizes req against merged: injects __rowid__, resolves each
// UDF's embedded path, validates every referenced path, and classifies
// filters/sort keys as pre- or post-UDF (spec.md §4.6).
func Plan(merged *schema.Schema, req Request) (*Plan, error) {
	columns, err := normalizeColumns(merged, req.Columns)
	if err != nil {
		return nil, err
	}
	aliases := make(map[string]Column, len(columns))
	for _, c := range columns {
		aliases[c.Alias] = c
	}

	p := &Plan{
		Columns:        columns,
		Limit:          req.Limit,
		Offset:         req.Offset,
		ResolveSpans:   req.ResolveSpans,
		CombineColumns: req.CombineColumns,
	}

	for _, f := range req.Filters {
		cf, err := classifyFilter(merged, aliases, f)
		if err != nil {
			return nil, err
		}
		if cf.PostUDF {
			p.PostFilters = append(p.PostFilters, cf)
		} else {
			p.PreFilters = append(p.PreFilters, cf)
		}
	}

	anyPostSort := false
	for _, s := range req.SortBy {
		sk, err := classifySort(merged, aliases, s)
		if err != nil {
			return nil, err
		}
		if sk.PostUDF {
			p.PostSort = append(p.PostSort, sk)
			anyPostSort = true
		} else {
			p.PreSort = append(p.PreSort, sk)
		}
	}
	p.ApplyLimitPreScan = !anyPostSort

	p.TopKShortcut = detectTopKShortcut(p, aliases)

	return p, nil
}

func normalizeColumns(merged *schema.Schema, reqs []ColumnRequest) ([]Column, error) {
	hasRowID := false
	for _, r := range reqs {
		if len(r.Path) == 1 && r.Path[0] == schema.RowIDColumn {
			hasRowID = true
			break
		}
	}
	columns := make([]Column, 0, len(reqs)+1)
	if !hasRowID {
		columns = append(columns, Column{Path: schema.NewPath(schema.RowIDColumn), Alias: schema.RowIDColumn})
	}
	for _, r := range reqs {
		if err := validatePath(merged, r.Path, false); err != nil {
			return nil, err
		}
		c := Column{Path: r.Path, Alias: r.Alias, Signal: r.Signal}
		if r.Signal != nil {
			if err := validateSignalInput(merged, r.Path, r.Signal); err != nil {
				return nil, err
			}
			c.UDFPath = r.Path.Append(r.Signal.Key())
			if c.Alias == "" {
				c.Alias = c.UDFPath.String()
			}
			if _, ok := r.Signal.(signal.VectorComputer); ok {
				c.VectorInput = true
			}
			if _, ok := r.Signal.(signal.VectorTopKComputer); ok {
				c.VectorInput = true
			}
		} else if c.Alias == "" {
			c.Alias = r.Path.String()
		}
		columns = append(columns, c)
	}
	return columns, nil
}

// validatePath enforces the unknown-path, no-specific-index, and
// leaf-required-for-filter/sort rules from spec.md §4.6.
func validatePath(merged *schema.Schema, path schema.Path, requireLeaf bool) error {
	for _, part := range path {
		if part == schema.PathWildcard || part == schema.PathValueKey {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			return lilacerr.InvalidQuery("selecting a specific repeated index is not supported: %q", path.String())
		}
	}
	field, err := merged.GetField(path)
	if err != nil {
		return err
	}
	if requireLeaf && !field.IsLeaf() {
		return lilacerr.InvalidQuery("path %q is not a leaf", path.String())
	}
	return nil
}

func validateSignalInput(merged *schema.Schema, path schema.Path, sig signal.Signal) error {
	field, err := merged.GetField(path)
	if err != nil {
		return err
	}
	switch sig.InputType() {
	case signal.TypeText:
		if field.Dtype != schema.DTypeString && field.Dtype != schema.DTypeStringSpan {
			return lilacerr.SchemaMismatch(path.String(), "signal %q requires text input, path has dtype %q", sig.Name(), field.Dtype)
		}
	case signal.TypeImage:
		if field.Dtype != schema.DTypeBinary {
			return lilacerr.SchemaMismatch(path.String(), "signal %q requires image input, path has dtype %q", sig.Name(), field.Dtype)
		}
	case signal.TypeTextEmbedding:
		unwrapped := field
		for unwrapped.Dtype == schema.DTypeList && unwrapped.RepeatedField != nil {
			unwrapped = unwrapped.RepeatedField
		}
		if unwrapped.Dtype != schema.DTypeEmbedding {
			return lilacerr.SchemaMismatch(path.String(), "signal %q requires an embedding input, path has dtype %q", sig.Name(), field.Dtype)
		}
	}
	return nil
}

func classifyFilter(merged *schema.Schema, aliases map[string]Column, f FilterRequest) (Filter, error) {
	if len(f.Ref) == 0 {
		return Filter{}, lilacerr.InvalidQuery("empty filter reference")
	}
	if col, ok := aliases[f.Ref[0]]; ok && col.IsUDF() {
		return Filter{Path: f.Ref[1:], Op: f.Op, Value: f.Value, PostUDF: true, ColumnAlias: f.Ref[0]}, nil
	}
	if f.Op != OpExists {
		if err := validatePath(merged, f.Ref, true); err != nil {
			return Filter{}, err
		}
	} else if err := validatePath(merged, f.Ref, false); err != nil {
		return Filter{}, err
	}
	return Filter{Path: f.Ref, Op: f.Op, Value: f.Value}, nil
}

func classifySort(merged *schema.Schema, aliases map[string]Column, s SortRequest) (SortKey, error) {
	if len(s.Ref) == 0 {
		return SortKey{}, lilacerr.InvalidQuery("empty sort reference")
	}
	if col, ok := aliases[s.Ref[0]]; ok && col.IsUDF() {
		return SortKey{Path: s.Ref[1:], Order: s.Order, PostUDF: true, ColumnAlias: s.Ref[0]}, nil
	}
	if err := validatePath(merged, s.Ref, true); err != nil {
		return SortKey{}, err
	}
	agg := ""
	for _, part := range s.Ref {
		if part == schema.PathWildcard {
			if s.Order == Asc {
				agg = "min"
			} else {
				agg = "max"
			}
			break
		}
	}
	return SortKey{Path: s.Ref, Order: s.Order, ListAggregate: agg}, nil
}

func detectTopKShortcut(p *Plan, aliases map[string]Column) *TopKShortcut {
	if p.Limit <= 0 || len(p.PreSort) != 0 || len(p.PostSort) != 1 {
		return nil
	}
	sk := p.PostSort[0]
	if sk.Order != Desc || len(sk.Path) != 0 {
		return nil
	}
	col, ok := aliases[sk.ColumnAlias]
	if !ok || !col.VectorInput {
		return nil
	}
	if _, ok := col.Signal.(signal.VectorTopKComputer); !ok {
		return nil
	}
	return &TopKShortcut{Column: col, K: p.Limit + p.Offset}
}
