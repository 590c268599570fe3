package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldMap preserves struct-field insertion order, which the leaf
// enumeration contract in spec.md §4.1 depends on ("struct field order
// preserved"). A plain Go map cannot give that guarantee, so every
// struct-shaped Field and every Schema carries one of these instead,
// mirroring the teacher's use of wk8/go-ordered-map for its knownFields
// index (bodkin.go).
type FieldMap = orderedmap.OrderedMap[string, *Field]

// NewFieldMap returns an empty, ready-to-use FieldMap.
func NewFieldMap() *FieldMap {
	return orderedmap.New[string, *Field]()
}

// SignalDescriptor records which signal produced a subtree, so a reader can
// tell an ordinary struct apart from a signal's enrichment output.
type SignalDescriptor struct {
	// Name is the registered signal name (e.g. "text_embedding_sum").
	Name string
	// Key is the signal's instantiated key (name + sorted params), used as
	// the child field name under the enriched path.
	Key string
	// Params is the signal's configuration as decoded from JSON.
	Params map[string]any
}

// Field is a tagged union: { Dtype } | { Fields } | { RepeatedField }.
// Exactly one of Fields / RepeatedField is set on a non-leaf node; Dtype is
// DTypeStruct or DTypeList respectively on those nodes.
type Field struct {
	Dtype         DType
	Fields        *FieldMap
	RepeatedField *Field

	// Signal is set iff this subtree was produced by a signal.
	Signal *SignalDescriptor
	// DerivedFrom points back to the source string column for spans and
	// embeddings.
	DerivedFrom Path
}

// NewStructField builds a struct field from an already-populated FieldMap.
func NewStructField(fields *FieldMap) *Field {
	return &Field{Dtype: DTypeStruct, Fields: fields}
}

// NewListField builds a repeated field wrapping the given element field.
func NewListField(elem *Field) *Field {
	return &Field{Dtype: DTypeList, RepeatedField: elem}
}

// NewLeafField builds a primitive leaf field.
func NewLeafField(dt DType) *Field {
	return &Field{Dtype: dt}
}

// IsLeaf reports whether this field holds a primitive value. string_span is
// a leaf despite being struct-shaped on the wire (spec.md §4.1).
func (f *Field) IsLeaf() bool {
	if f.Dtype == DTypeStringSpan {
		return true
	}
	return f.Fields == nil && f.RepeatedField == nil
}

// Clone deep-copies a field tree, used before grafting signal output into
// the merged schema so the signal's own manifest schema is left untouched.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	clone := &Field{Dtype: f.Dtype, DerivedFrom: append(Path{}, f.DerivedFrom...)}
	if f.Signal != nil {
		s := *f.Signal
		clone.Signal = &s
	}
	if f.Fields != nil {
		clone.Fields = NewFieldMap()
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			clone.Fields.Set(pair.Key, pair.Value.Clone())
		}
	}
	if f.RepeatedField != nil {
		clone.RepeatedField = f.RepeatedField.Clone()
	}
	return clone
}

// Schema is a mapping from top-level field name to Field.
type Schema struct {
	Fields *FieldMap
}

// NewSchema builds a Schema from an ordered field map.
func NewSchema(fields *FieldMap) *Schema {
	return &Schema{Fields: fields}
}

// AsField wraps the schema's top-level fields as a struct Field, which is
// convenient for path-walking code that treats the schema root uniformly
// with any other struct node.
func (s *Schema) AsField() *Field {
	return &Field{Dtype: DTypeStruct, Fields: s.Fields}
}

// Clone deep-copies the schema.
func (s *Schema) Clone() *Schema {
	return &Schema{Fields: s.AsField().Clone().Fields}
}
