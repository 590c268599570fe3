package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// ToArrowType converts a primitive DType to its Arrow physical type, the
// way the teacher's arrowTypeID2Type (types.go) maps arrow.Type constants
// to concrete arrow.DataType values, but driven from our own DType enum
// instead of arrow's.
//
// DTypeEmbedding maps to arrow's binary type: embeddings are never serialized
// in parquet (spec.md §3 "Embeddings"); the column is written as nulls and
// the real values live in the vector store sidecar file.
func ToArrowType(dt DType) (arrow.DataType, error) {
	switch dt {
	case DTypeString:
		return arrow.BinaryTypes.String, nil
	case DTypeBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case DTypeInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case DTypeInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case DTypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case DTypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case DTypeUint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case DTypeUint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case DTypeUint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case DTypeUint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case DTypeFloat16:
		return arrow.FixedWidthTypes.Float16, nil
	case DTypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case DTypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case DTypeTime:
		return arrow.FixedWidthTypes.Time64ns, nil
	case DTypeDate:
		return arrow.FixedWidthTypes.Date32, nil
	case DTypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case DTypeInterval:
		return arrow.FixedWidthTypes.Duration_us, nil
	case DTypeBinary:
		return arrow.BinaryTypes.Binary, nil
	case DTypeEmbedding:
		// Arrow-go has no first-class null scalar type exposed the way
		// pyarrow's pa.null() is; the teacher's arrowTypeID2Type maps
		// arrow.NULL the same way, onto a nullable binary column (types.go).
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, fmt.Errorf("cannot convert dtype %q to an arrow type", dt)
	}
}

// spanArrowType is the physical layout of a string_span leaf: a struct of
// {start, end} byte offsets (spec.md §3 "Spans").
func spanArrowType() arrow.DataType {
	return arrow.StructOf(
		arrow.Field{Name: "start", Type: arrow.PrimitiveTypes.Int32},
		arrow.Field{Name: "end", Type: arrow.PrimitiveTypes.Int32},
	)
}

// ToArrowSchema converts a Schema to its Arrow representation, used by
// internal/pqio when opening or creating a parquet shard.
func ToArrowSchema(s *Schema) (*arrow.Schema, error) {
	var fields []arrow.Field
	for pair := s.Fields.Oldest(); pair != nil; pair = pair.Next() {
		dt, err := fieldToArrow(pair.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: pair.Key, Type: dt, Nullable: true})
	}
	return arrow.NewSchema(fields, nil), nil
}

func fieldToArrow(f *Field) (arrow.DataType, error) {
	switch {
	case f.Dtype == DTypeStringSpan:
		return spanArrowType(), nil
	case f.Fields != nil:
		var children []arrow.Field
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			dt, err := fieldToArrow(pair.Value)
			if err != nil {
				return nil, err
			}
			children = append(children, arrow.Field{Name: pair.Key, Type: dt, Nullable: true})
		}
		return arrow.StructOf(children...), nil
	case f.RepeatedField != nil:
		elem, err := fieldToArrow(f.RepeatedField)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	default:
		return ToArrowType(f.Dtype)
	}
}
