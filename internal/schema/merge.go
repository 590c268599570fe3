package schema

import "github.com/loicalleyne/lilac/internal/lilacerr"

// Merge deep-unions the given schemas into one. It is associative and
// commutative on non-conflicting schemas. A dtype conflict at the same
// path is reported as a SchemaMismatch error rather than silently resolved
// — spec.md §4.1 requires merge to "fail loudly" on conflicting dtypes,
// unlike the teacher's opportunistic type-upgrading merge (bodkin.go's
// Bodkin.merge/upgradeType), which this port intentionally does not carry.
func Merge(schemas ...*Schema) (*Schema, error) {
	root := NewFieldMap()
	merged := &Field{Dtype: DTypeStruct, Fields: root}
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if err := mergeField(merged, s.AsField(), Path{}); err != nil {
			return nil, err
		}
	}
	return &Schema{Fields: merged.Fields}, nil
}

// mergeField merges src into dst in place. dst and src must describe the
// same path.
func mergeField(dst, src *Field, path Path) error {
	if dst.Dtype == "" {
		// dst was a freshly created placeholder; adopt src's shape.
		*dst = *src.Clone()
		return nil
	}
	if dst.Dtype != src.Dtype {
		return lilacerr.SchemaMismatch(path.String(), "conflicting dtypes %q and %q", dst.Dtype, src.Dtype)
	}
	switch dst.Dtype {
	case DTypeStruct:
		for pair := src.Fields.Oldest(); pair != nil; pair = pair.Next() {
			name, child := pair.Key, pair.Value
			childPath := path.Append(name)
			if existing, ok := dst.Fields.Get(name); ok {
				if err := mergeField(existing, child, childPath); err != nil {
					return err
				}
			} else {
				dst.Fields.Set(name, child.Clone())
			}
		}
	case DTypeList:
		if dst.RepeatedField == nil {
			dst.RepeatedField = child(src.RepeatedField)
			return nil
		}
		return mergeField(dst.RepeatedField, src.RepeatedField, path.Append(PathWildcard))
	default:
		// Both leafs of the same dtype: nothing to merge structurally, but
		// surface a conflict if one side is a signal output and disagrees
		// with the other's provenance.
		if dst.Signal != nil && src.Signal != nil && dst.Signal.Key != src.Signal.Key {
			return lilacerr.SchemaMismatch(path.String(), "conflicting signal provenance %q and %q", dst.Signal.Key, src.Signal.Key)
		}
	}
	return nil
}

func child(f *Field) *Field {
	if f == nil {
		return nil
	}
	return f.Clone()
}

// MergeInto grafts src's field tree at mountPath within dst, used when a
// signal's output schema re-roots into the source schema's enriched path
// (spec.md §4.3). mountPath must already resolve to a struct in dst; the
// signal's top-level key becomes a new child there.
func MergeInto(dst *Schema, mountPath Path, key string, signalFields *Field) error {
	parent := dst.AsField()
	for _, part := range mountPath {
		if parent.Fields == nil {
			return lilacerr.UnknownPath(mountPath.String())
		}
		next, ok := parent.Fields.Get(part)
		if !ok {
			return lilacerr.UnknownPath(mountPath.String())
		}
		parent = next
	}
	if parent.Fields == nil {
		return lilacerr.SchemaMismatch(mountPath.String(), "mount point is not a struct")
	}
	if existing, ok := parent.Fields.Get(key); ok {
		return lilacerr.SchemaMismatch(mountPath.Append(key).String(), "signal key already mounted with dtype %q", existing.Dtype)
	}
	parent.Fields.Set(key, signalFields.Clone())
	return nil
}
