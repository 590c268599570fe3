package schema

// Leafs returns every leaf field in the schema keyed by its dotted path.
// Enumeration is deterministic: a depth-first walk that preserves struct
// field insertion order, descending into repeated fields via the wildcard
// before visiting any sibling, and — for an enriched leaf re-shaped into
// { __value__, <signal>: ... } — visiting __value__ in its insertion
// position (first, by the re-shaping convention in schema.md §3) ahead of
// the signal subtrees. string_span fields are treated as leafs even though
// they are struct-shaped on the wire.
func (s *Schema) Leafs() map[string]*Field {
	out := make(map[string]*Field)
	walkLeafs(s.AsField(), Path{}, out)
	return out
}

// LeafPaths returns the same leafs as Leafs but as parsed Path values, in
// walk order, useful to callers that need to walk path parts rather than
// re-split a string.
func (s *Schema) LeafPaths() []Path {
	var paths []Path
	walkLeafPaths(s.AsField(), Path{}, &paths)
	return paths
}

func walkLeafs(f *Field, path Path, out map[string]*Field) {
	if f.Dtype == DTypeStringSpan {
		out[path.String()] = f
		return
	}
	if f.Fields != nil {
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			walkLeafs(pair.Value, path.Append(pair.Key), out)
		}
		return
	}
	if f.RepeatedField != nil {
		walkLeafs(f.RepeatedField, path.Append(PathWildcard), out)
		return
	}
	out[path.String()] = f
}

func walkLeafPaths(f *Field, path Path, out *[]Path) {
	if f.Dtype == DTypeStringSpan {
		*out = append(*out, path)
		return
	}
	if f.Fields != nil {
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			walkLeafPaths(pair.Value, path.Append(pair.Key), out)
		}
		return
	}
	if f.RepeatedField != nil {
		walkLeafPaths(f.RepeatedField, path.Append(PathWildcard), out)
		return
	}
	*out = append(*out, path)
}
