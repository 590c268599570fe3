package pqio

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/schema"
)

// ItemsToRecord builds one arrow.Record from rows shaped like sc. Embedding
// leafs are always written null (spec.md §4.4); callers write the real
// vectors to the vector store sidecar separately.
func ItemsToRecord(rows []item.Item, sc *schema.Schema) (arrow.Record, error) {
	arrowSc, err := schema.ToArrowSchema(sc)
	if err != nil {
		return nil, err
	}
	bld := array.NewRecordBuilder(memory.DefaultAllocator, arrowSc)
	defer bld.Release()

	i := 0
	for pair := sc.Fields.Oldest(); pair != nil; pair = pair.Next() {
		fb := bld.Field(i)
		for _, row := range rows {
			appendValue(fb, row[pair.Key], pair.Value)
		}
		i++
	}
	return bld.NewRecord(), nil
}

func appendValue(b array.Builder, v any, f *schema.Field) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch {
	case f.Dtype == schema.DTypeStringSpan:
		sb := b.(*array.StructBuilder)
		sb.Append(true)
		span := v.(item.Span)
		sb.FieldBuilder(0).(*array.Int32Builder).Append(int32(span.Start))
		sb.FieldBuilder(1).(*array.Int32Builder).Append(int32(span.End))
	case f.Dtype == schema.DTypeEmbedding:
		b.AppendNull()
	case f.Fields != nil:
		sb := b.(*array.StructBuilder)
		sb.Append(true)
		row, _ := v.(item.Item)
		if row == nil {
			if m, ok := v.(map[string]any); ok {
				row = item.Item(m)
			}
		}
		i := 0
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			appendValue(sb.FieldBuilder(i), row[pair.Key], pair.Value)
			i++
		}
	case f.RepeatedField != nil:
		lb := b.(*array.ListBuilder)
		list, _ := v.([]any)
		lb.Append(true)
		elemBld := lb.ValueBuilder()
		for _, elem := range list {
			appendValue(elemBld, elem, f.RepeatedField)
		}
	default:
		appendScalar(b, v)
	}
}

func appendScalar(b array.Builder, v any) {
	switch bb := b.(type) {
	case *array.StringBuilder:
		bb.Append(v.(string))
	case *array.BooleanBuilder:
		bb.Append(v.(bool))
	case *array.Int8Builder:
		bb.Append(toInt8(v))
	case *array.Int16Builder:
		bb.Append(toInt16(v))
	case *array.Int32Builder:
		bb.Append(toInt32(v))
	case *array.Int64Builder:
		bb.Append(toInt64(v))
	case *array.Uint8Builder:
		bb.Append(toUint8(v))
	case *array.Uint16Builder:
		bb.Append(toUint16(v))
	case *array.Uint32Builder:
		bb.Append(toUint32(v))
	case *array.Uint64Builder:
		bb.Append(toUint64(v))
	case *array.Float32Builder:
		bb.Append(toFloat32(v))
	case *array.Float64Builder:
		bb.Append(toFloat64(v))
	case *array.BinaryBuilder:
		bb.Append(v.([]byte))
	default:
		b.AppendNull()
	}
}

func toInt8(v any) int8 {
	switch n := v.(type) {
	case int8:
		return n
	case int:
		return int8(n)
	case int64:
		return int8(n)
	}
	return 0
}

func toInt16(v any) int16 {
	switch n := v.(type) {
	case int16:
		return n
	case int:
		return int16(n)
	case int64:
		return int16(n)
	}
	return 0
}

func toInt32(v any) int32 {
	switch n := v.(type) {
	case int32:
		return n
	case int:
		return int32(n)
	case int64:
		return int32(n)
	}
	return 0
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	}
	return 0
}

func toUint8(v any) uint8 {
	switch n := v.(type) {
	case uint8:
		return n
	case int:
		return uint8(n)
	}
	return 0
}

func toUint16(v any) uint16 {
	switch n := v.(type) {
	case uint16:
		return n
	case int:
		return uint16(n)
	}
	return 0
}

func toUint32(v any) uint32 {
	switch n := v.(type) {
	case uint32:
		return n
	case int:
		return uint32(n)
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int:
		return uint64(n)
	}
	return 0
}

func toFloat32(v any) float32 {
	switch n := v.(type) {
	case float32:
		return n
	case float64:
		return float32(n)
	}
	return 0
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	}
	return 0
}
