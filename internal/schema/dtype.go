package schema

// DType is the set of primitive and structural types a Field can hold.
// It mirrors the dtype vocabulary described in spec.md §3.
type DType string

const (
	DTypeString     DType = "string"
	DTypeStringSpan DType = "string_span"
	DTypeBoolean    DType = "boolean"

	DTypeInt8  DType = "int8"
	DTypeInt16 DType = "int16"
	DTypeInt32 DType = "int32"
	DTypeInt64 DType = "int64"

	DTypeUint8  DType = "uint8"
	DTypeUint16 DType = "uint16"
	DTypeUint32 DType = "uint32"
	DTypeUint64 DType = "uint64"

	DTypeFloat16 DType = "float16"
	DTypeFloat32 DType = "float32"
	DTypeFloat64 DType = "float64"

	DTypeTime      DType = "time"
	DTypeDate      DType = "date"
	DTypeTimestamp DType = "timestamp"
	DTypeInterval  DType = "interval"

	DTypeStruct DType = "struct"
	DTypeList   DType = "list"
	DTypeBinary DType = "binary"

	// DTypeEmbedding is opaque: never serialized to parquet, see §4.4.
	DTypeEmbedding DType = "embedding"
)

// IsFloat reports whether dtype is one of the floating point widths.
func IsFloat(dt DType) bool {
	switch dt {
	case DTypeFloat16, DTypeFloat32, DTypeFloat64:
		return true
	}
	return false
}

// IsInteger reports whether dtype is one of the integer widths.
func IsInteger(dt DType) bool {
	switch dt {
	case DTypeInt8, DTypeInt16, DTypeInt32, DTypeInt64,
		DTypeUint8, DTypeUint16, DTypeUint32, DTypeUint64:
		return true
	}
	return false
}

// IsTemporal reports whether dtype is one of the time-related types.
func IsTemporal(dt DType) bool {
	switch dt {
	case DTypeTime, DTypeDate, DTypeTimestamp, DTypeInterval:
		return true
	}
	return false
}

// IsOrdinal reports whether dtype supports min/max comparisons, per §4.8.
func IsOrdinal(dt DType) bool {
	return IsFloat(dt) || IsInteger(dt) || IsTemporal(dt)
}
