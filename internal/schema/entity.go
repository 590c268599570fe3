package schema

// EnrichLeaf re-shapes a bare leaf field into the struct
// { __value__: <original leaf>, <signalKey>: <signalFields> } described by
// the leaf-with-enrichment convention in spec.md §3. If original is already
// enriched (a struct carrying __value__), signalKey is added as a sibling
// of the existing children instead of re-wrapping.
func EnrichLeaf(original *Field, signalKey string, signalFields *Field, desc *SignalDescriptor) *Field {
	signalFields = signalFields.Clone()
	signalFields.Signal = desc

	if original.Dtype == DTypeStruct && original.Fields != nil {
		if _, ok := original.Fields.Get(PathValueKey); ok {
			wrapped := original.Clone()
			wrapped.Fields.Set(signalKey, signalFields)
			return wrapped
		}
	}

	fields := NewFieldMap()
	fields.Set(PathValueKey, original.Clone())
	fields.Set(signalKey, signalFields)
	return &Field{Dtype: DTypeStruct, Fields: fields}
}

// SpanField builds a string_span leaf pointing back to derivedFrom, the
// physical shape for a signal's span output (spec.md §3 "Spans").
func SpanField(derivedFrom Path) *Field {
	return &Field{Dtype: DTypeStringSpan, DerivedFrom: derivedFrom}
}

// EmbeddingField builds an embedding leaf pointing back to derivedFrom; its
// values never live in parquet (spec.md §3 "Embeddings", §4.4).
func EmbeddingField(derivedFrom Path) *Field {
	return &Field{Dtype: DTypeEmbedding, DerivedFrom: derivedFrom}
}

// WrapRepeated wraps elem in depth nested list levels, a helper for
// mirroring a signal's
// output shape against the nesting depth of its source path (spec.md §4.9
// step 3: "a (a,*,b) source produces a (a,*,b,signal_key) output").
func WrapRepeated(depth int, elem *Field) *Field {
	if depth <= 0 {
		return elem
	}
	return NewListField(WrapRepeated(depth-1, elem))
}
