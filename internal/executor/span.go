package executor

import (
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
)

// resolveSpans replaces a scanned string_span value with the substring of
// its derived_from source, when the plan asks for it or any UDF reads a
// span (spec.md §4.7 step 2). Offsets are stored 0-indexed, half-open
// ([start, end)) from ingest through to the API surface; the spec's "1-
// indexed inclusive at storage, translated to 0-indexed at the API" note
// describes the original implementation's on-disk convention, which this
// module does not reproduce since internal/pqio already stores spans
// 0-indexed half-open end to end.
func resolveSpans(view *signalmanifest.View, plan *planner.Plan, rows []item.Item) []item.Item {
	needed := plan.ResolveSpans
	if !needed {
		for _, c := range plan.Columns {
			if c.IsUDF() {
				needed = true
				break
			}
		}
	}
	if !needed {
		return rows
	}
	schemaFields := view.Schema()
	for _, row := range rows {
		rowKey, ok := row[fieldOrRowID(plan)].(string)
		if !ok {
			continue
		}
		srcRow, err := view.RowByKey(rowKey)
		if err != nil {
			continue
		}
		for _, c := range plan.Columns {
			v := row[c.Alias]
			span, ok := v.(item.Span)
			if !ok {
				continue
			}
			field, err := schemaFields.GetField(c.Path)
			if err != nil || len(field.DerivedFrom) == 0 {
				continue
			}
			source, ok := item.Get(srcRow, field.DerivedFrom)
			if !ok {
				continue
			}
			text, ok := source.(string)
			if !ok {
				continue
			}
			if span.Start < 0 || span.End > len(text) || span.Start > span.End {
				continue
			}
			row[c.Alias] = text[span.Start:span.End]
		}
	}
	return rows
}

func fieldOrRowID(plan *planner.Plan) string {
	for _, c := range plan.Columns {
		if len(c.Path) == 1 && c.Path[0] == "__rowid__" {
			return c.Alias
		}
	}
	return "__rowid__"
}

// shiftSpans walks value according to field's declared shape and adds
// delta to every string_span it finds, the offset correction spec.md §4.7
// step 4 requires for a split's children ("signals that return a span must
// have their offsets shifted by the parent split's start").
func shiftSpans(value any, field *schema.Field, delta int) any {
	if value == nil || field == nil {
		return value
	}
	switch {
	case field.Dtype == schema.DTypeStringSpan:
		span, ok := value.(item.Span)
		if !ok {
			return value
		}
		return item.Span{Start: span.Start + delta, End: span.End + delta}
	case field.Fields != nil:
		row, ok := value.(item.Item)
		if !ok {
			if m, ok2 := value.(map[string]any); ok2 {
				row = item.Item(m)
			} else {
				return value
			}
		}
		for pair := field.Fields.Oldest(); pair != nil; pair = pair.Next() {
			row[pair.Key] = shiftSpans(row[pair.Key], pair.Value, delta)
		}
		return row
	case field.RepeatedField != nil:
		list, ok := value.([]any)
		if !ok {
			return value
		}
		for i, elem := range list {
			list[i] = shiftSpans(elem, field.RepeatedField, delta)
		}
		return list
	default:
		return value
	}
}
