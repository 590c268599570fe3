package executor

import (
	"context"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// evaluateUDFs runs every UDF column's signal over rows and splices the
// result in under the column's alias (spec.md §4.7 step 4).
func evaluateUDFs(ctx context.Context, view *signalmanifest.View, stores VectorStores, plan *planner.Plan, rows []item.Item) ([]item.Item, error) {
	for _, col := range plan.Columns {
		if !col.IsUDF() {
			continue
		}
		if plan.TopKShortcut != nil && plan.TopKShortcut.Column.Alias == col.Alias {
			var err error
			rows, err = evaluateTopKShortcut(ctx, stores, col, plan, rows)
			if err != nil {
				return nil, err
			}
			continue
		}
		if col.VectorInput {
			if err := evaluateVectorUDF(ctx, stores, col, rows); err != nil {
				return nil, err
			}
			continue
		}
		if err := evaluateTextUDF(ctx, col, rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func evaluateTextUDF(ctx context.Context, col planner.Column, rows []item.Item) error {
	computer, ok := col.Signal.(signal.TextComputer)
	if !ok {
		return lilacerr.InvalidQuery("signal %q does not implement text compute", col.Signal.Name())
	}
	inputs := make([]signal.RichData, len(rows))
	for i, row := range rows {
		text, _ := row[col.Alias].(string)
		inputs[i] = signal.RichData{Text: text}
	}
	results, err := computer.Compute(ctx, inputs)
	if err != nil {
		return err
	}
	if len(results) != len(inputs) {
		return lilacerr.Cardinality("signal %q produced %d outputs for %d inputs", col.Signal.Name(), len(results), len(inputs))
	}
	for i, res := range results {
		if res == nil {
			rows[i][col.Alias] = nil
			continue
		}
		rows[i][col.Alias] = shiftSpans(*res, col.Signal.Fields(), startOf(inputs[i]))
	}
	return nil
}

// startOf returns the start offset to shift a signal's span outputs by,
// when its input itself came from a parent span (spec.md §4.7 step 4).
func startOf(rd signal.RichData) int {
	if rd.Span == nil {
		return 0
	}
	return rd.Span.Start
}

func evaluateVectorUDF(ctx context.Context, stores VectorStores, col planner.Column, rows []item.Item) error {
	computer, ok := col.Signal.(signal.VectorComputer)
	if !ok {
		return lilacerr.InvalidQuery("signal %q does not implement vector compute", col.Signal.Name())
	}
	store, err := stores.Store(col.Path)
	if err != nil {
		return err
	}
	keys := make([]vectorstore.CompoundKey, len(rows))
	for i, row := range rows {
		keys[i] = vectorstore.NewKey(rowIDOf(row))
	}
	results, err := computer.VectorCompute(ctx, keys, store)
	if err != nil {
		return err
	}
	if len(results) != len(rows) {
		return lilacerr.Cardinality("signal %q produced %d outputs for %d rows", col.Signal.Name(), len(results), len(rows))
	}
	for i, res := range results {
		if res == nil {
			rows[i][col.Alias] = nil
			continue
		}
		rows[i][col.Alias] = *res
	}
	return nil
}

func evaluateTopKShortcut(ctx context.Context, stores VectorStores, col planner.Column, plan *planner.Plan, rows []item.Item) ([]item.Item, error) {
	computer, ok := col.Signal.(signal.VectorTopKComputer)
	if !ok {
		return nil, lilacerr.InvalidQuery("signal %q does not implement vector top-k compute", col.Signal.Name())
	}
	store, err := stores.Store(col.Path)
	if err != nil {
		return nil, err
	}
	restrict := make([]vectorstore.CompoundKey, len(rows))
	for i, row := range rows {
		restrict[i] = vectorstore.NewKey(rowIDOf(row))
	}
	results, err := computer.VectorComputeTopK(ctx, plan.TopKShortcut.K, store, restrict)
	if err != nil {
		return nil, err
	}

	byRowID := make(map[string]item.Item, len(rows))
	for _, row := range rows {
		byRowID[rowIDOf(row)] = row
	}

	out := make([]item.Item, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, res := range results {
		rowID := res.Key.RowID()
		if seen[rowID] {
			continue
		}
		row, ok := byRowID[rowID]
		if !ok {
			continue
		}
		row[col.Alias] = res.Item
		out = append(out, row)
		seen[rowID] = true
	}
	return out, nil
}

func rowIDOf(row item.Item) string {
	v, _ := row[schema.RowIDColumn].(string)
	return v
}
