package executor

import (
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
)

// combineColumns re-nests every selected projection into the schema's
// shape and deep-merges them into one row object per spec.md §4.7 step 6.
// Cell-level rules: dict∪dict recurses, lists zip position-wise, equal
// scalars collapse, unequal scalars raise.
func combineColumns(rows []item.Item, columns []planner.Column) ([]item.Item, error) {
	out := make([]item.Item, len(rows))
	for i, row := range rows {
		merged := item.Item{}
		for _, col := range columns {
			nested := nestAtPath(col.Path, row[col.Alias])
			combined, err := mergeCell(merged, nested)
			if err != nil {
				return nil, err
			}
			m, ok := combined.(item.Item)
			if !ok {
				return nil, lilacerr.InvalidQuery("combine_columns produced a non-object row")
			}
			merged = m
		}
		out[i] = merged
	}
	return out, nil
}

// NestAtPath rebuilds path's struct nesting around value, exported for
// internal/enrich which needs the identical re-nesting when assembling a
// signal's output row around its computed value.
func NestAtPath(path schema.Path, value any) any {
	return nestAtPath(path, value)
}

// nestAtPath rebuilds the schema.Path's struct nesting around value so it
// can be merged back into a full row object.
func nestAtPath(path schema.Path, value any) any {
	if len(path) == 0 {
		return value
	}
	last := len(path) - 1
	cur := value
	for i := last; i >= 0; i-- {
		if path[i] == schema.PathWildcard {
			continue
		}
		cur = item.Item{path[i]: cur}
	}
	return cur
}

// mergeCell implements the cell-merge rules from spec.md §4.7 step 6.
func mergeCell(a, b any) (any, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	am, aok := a.(item.Item)
	bm, bok := b.(item.Item)
	if aok && bok {
		out := item.Item{}
		for k, v := range am {
			out[k] = v
		}
		for k, v := range bm {
			if existing, ok := out[k]; ok {
				merged, err := mergeCell(existing, v)
				if err != nil {
					return nil, err
				}
				out[k] = merged
			} else {
				out[k] = v
			}
		}
		return out, nil
	}
	al, alok := a.([]any)
	bl, blok := b.([]any)
	if alok && blok {
		n := len(al)
		if len(bl) > n {
			n = len(bl)
		}
		out := make([]any, n)
		for i := 0; i < n; i++ {
			var ea, eb any
			if i < len(al) {
				ea = al[i]
			}
			if i < len(bl) {
				eb = bl[i]
			}
			merged, err := mergeCell(ea, eb)
			if err != nil {
				return nil, err
			}
			out[i] = merged
		}
		return out, nil
	}
	if compareEqual(a, b) {
		return a, nil
	}
	return nil, lilacerr.InvalidQuery("conflicting values during column merge: %v != %v", a, b)
}
