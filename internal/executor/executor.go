// Package executor implements C7: the six-step select_rows pipeline (scan,
// span resolution, pre-UDF filter/sort, UDF evaluation, post-UDF
// filter/sort, optional column merge) described in spec.md §4.7.
package executor

import (
	"context"
	"sort"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// VectorStores resolves the per-path vector store for a UDF column, lazily
// loaded and cached for the process lifetime (spec.md §5).
type VectorStores interface {
	Store(path schema.Path) (*vectorstore.Store, error)
}

// Execute runs plan against view and returns the resulting rows, each keyed
// by column alias.
func Execute(ctx context.Context, view *signalmanifest.View, stores VectorStores, plan *planner.Plan) ([]item.Item, error) {
	// Pre-UDF filters and sort keys address paths of the merged row, which
	// need not be among the projected columns, so they run before scan.
	src := applyFilters(append([]item.Item(nil), view.Rows()...), plan.PreFilters)
	if plan.ApplyLimitPreScan && len(plan.PreSort) > 0 {
		sortRows(src, plan.PreSort)
	}
	if plan.ApplyLimitPreScan {
		src = paginate(src, plan.Limit, plan.Offset)
	}

	rows := scan(src, plan)
	rows = resolveSpans(view, plan, rows)

	rows, err := evaluateUDFs(ctx, view, stores, plan, rows)
	if err != nil {
		return nil, err
	}

	rows = applyFilters(rows, plan.PostFilters)
	if len(plan.PostSort) > 0 && (plan.TopKShortcut == nil) {
		sortRows(rows, plan.PostSort)
	}
	if !plan.ApplyLimitPreScan {
		rows = paginate(rows, plan.Limit, plan.Offset)
	}

	if plan.CombineColumns {
		return combineColumns(rows, plan.Columns)
	}
	return rows, nil
}

// scan projects plan.Columns out of the merged rows src. A vector-input UDF
// column gets a nil placeholder (spec.md §4.6: "for vector signals,
// selection is empty because the value itself lives in the vector
// store").
func scan(src []item.Item, plan *planner.Plan) []item.Item {
	out := make([]item.Item, len(src))
	for i, row := range src {
		scanned := item.Item{}
		for _, col := range plan.Columns {
			if col.VectorInput {
				scanned[col.Alias] = nil
				continue
			}
			v, _ := item.Get(row, col.Path)
			scanned[col.Alias] = v
		}
		out[i] = scanned
	}
	return out
}

func applyFilters(rows []item.Item, filters []planner.Filter) []item.Item {
	if len(filters) == 0 {
		return rows
	}
	out := rows[:0:0]
	for _, row := range rows {
		keep := true
		for _, f := range filters {
			var v any
			if f.PostUDF {
				sub, _ := row[f.ColumnAlias].(item.Item)
				if len(f.Path) == 0 {
					v = row[f.ColumnAlias]
				} else {
					v, _ = item.Get(sub, f.Path)
				}
			} else {
				v, _ = item.Get(item.Item(row), f.Path)
			}
			if !matchFilter(v, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func matchFilter(v any, f planner.Filter) bool {
	if f.Op == planner.OpExists {
		list, ok := v.([]any)
		if !ok {
			return v != nil
		}
		return len(list) > 0
	}
	if f.Op == planner.OpIn {
		values, _ := f.Value.([]any)
		for _, candidate := range values {
			if compareEqual(v, candidate) {
				return true
			}
		}
		return false
	}
	switch f.Op {
	case planner.OpEq:
		return compareEqual(v, f.Value)
	case planner.OpNe:
		return !compareEqual(v, f.Value)
	case planner.OpLt, planner.OpLe, planner.OpGt, planner.OpGe:
		c, ok := compareOrdinal(v, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case planner.OpLt:
			return c < 0
		case planner.OpLe:
			return c <= 0
		case planner.OpGt:
			return c > 0
		case planner.OpGe:
			return c >= 0
		}
	}
	return false
}

func paginate(rows []item.Item, limit, offset int) []item.Item {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func sortRows(rows []item.Item, keys []planner.SortKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			a := sortValue(rows[i], k)
			b := sortValue(rows[j], k)
			c, ok := compareOrdinal(a, b)
			if !ok || c == 0 {
				continue
			}
			if k.Order == planner.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func sortValue(row item.Item, k planner.SortKey) any {
	var base any = row
	if k.ColumnAlias != "" {
		base, _ = item.Get(item.Item(row), schema.NewPath(k.ColumnAlias))
	}
	b, ok := base.(item.Item)
	if !ok {
		if k.ColumnAlias != "" && len(k.Path) == 0 {
			return row[k.ColumnAlias]
		}
		return nil
	}
	v, _ := item.Get(b, k.Path)
	if k.ListAggregate != "" {
		return aggregateList(v, k.ListAggregate)
	}
	return v
}

func aggregateList(v any, agg string) any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	best := list[0]
	for _, elem := range list[1:] {
		c, ok := compareOrdinal(elem, best)
		if !ok {
			continue
		}
		if (agg == "min" && c < 0) || (agg == "max" && c > 0) {
			best = elem
		}
	}
	return best
}
