package pqio

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/schema"
)

// RecordToItems flattens an arrow.Record into row-shaped item.Item values,
// following sc's nested shape. This is the read-side counterpart to
// ItemsToRecord and is how internal/rowstore turns a scanned parquet batch
// back into the nested representation the executor works with.
func RecordToItems(rec arrow.Record, sc *schema.Schema) []item.Item {
	n := int(rec.NumRows())
	out := make([]item.Item, n)
	for i := range out {
		out[i] = item.Item{}
	}
	col := 0
	for pair := sc.Fields.Oldest(); pair != nil; pair = pair.Next() {
		arr := rec.Column(col)
		for row := 0; row < n; row++ {
			out[row][pair.Key] = arrayValueToItemValue(arr, row, pair.Value)
		}
		col++
	}
	return out
}

func arrayValueToItemValue(arr arrow.Array, row int, f *schema.Field) any {
	if arr.IsNull(row) {
		return nil
	}
	switch {
	case f.Dtype == schema.DTypeStringSpan:
		structArr := arr.(*array.Struct)
		start := structArr.Field(0).(*array.Int32).Value(row)
		end := structArr.Field(1).(*array.Int32).Value(row)
		return item.Span{Start: int(start), End: int(end)}
	case f.Dtype == schema.DTypeEmbedding:
		// Values live in the vector store sidecar; the column is
		// physically null (spec.md §4.4).
		return nil
	case f.Fields != nil:
		structArr := arr.(*array.Struct)
		out := item.Item{}
		i := 0
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = arrayValueToItemValue(structArr.Field(i), row, pair.Value)
			i++
		}
		return out
	case f.RepeatedField != nil:
		listArr := arr.(*array.List)
		start, end := listArr.ValueOffsets(row)
		values := listArr.ListValues()
		out := make([]any, 0, end-start)
		for idx := start; idx < end; idx++ {
			out = append(out, arrayValueToItemValue(values, int(idx), f.RepeatedField))
		}
		return out
	default:
		return scalarValue(arr, row)
	}
}

func scalarValue(arr arrow.Array, row int) any {
	switch a := arr.(type) {
	case *array.String:
		return a.Value(row)
	case *array.Boolean:
		return a.Value(row)
	case *array.Int8:
		return a.Value(row)
	case *array.Int16:
		return a.Value(row)
	case *array.Int32:
		return a.Value(row)
	case *array.Int64:
		return a.Value(row)
	case *array.Uint8:
		return a.Value(row)
	case *array.Uint16:
		return a.Value(row)
	case *array.Uint32:
		return a.Value(row)
	case *array.Uint64:
		return a.Value(row)
	case *array.Float32:
		return a.Value(row)
	case *array.Float64:
		return a.Value(row)
	case *array.Binary:
		return a.Value(row)
	case *array.Date32:
		return a.Value(row)
	case *array.Timestamp:
		return a.Value(row)
	default:
		return nil
	}
}
