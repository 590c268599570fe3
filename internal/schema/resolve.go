package schema

import "github.com/loicalleyne/lilac/internal/lilacerr"

// GetField returns the field found at path, or an UnknownPath error naming
// the offending part.
func (s *Schema) GetField(path Path) (*Field, error) {
	return getField(s.AsField(), path, path)
}

func getField(cur *Field, remaining, full Path) (*Field, error) {
	if len(remaining) == 0 {
		return cur, nil
	}
	part := remaining[0]
	switch {
	case part == PathWildcard:
		if cur.Dtype != DTypeList {
			return nil, lilacerr.UnknownPath(full.String())
		}
		return getField(cur.RepeatedField, remaining[1:], full)
	case part == PathValueKey:
		// __value__ descends into the primitive value of a struct-wrapped
		// leaf: by convention that's the field named PathValueKey among an
		// enriched leaf's children.
		if cur.Fields == nil {
			return nil, lilacerr.UnknownPath(full.String())
		}
		child, ok := cur.Fields.Get(PathValueKey)
		if !ok {
			return nil, lilacerr.UnknownPath(full.String())
		}
		return getField(child, remaining[1:], full)
	default:
		if cur.Dtype != DTypeStruct || cur.Fields == nil {
			return nil, lilacerr.UnknownPath(full.String())
		}
		child, ok := cur.Fields.Get(part)
		if !ok {
			return nil, lilacerr.UnknownPath(full.String())
		}
		return getField(child, remaining[1:], full)
	}
}

// ContainsPath reports whether path resolves against the schema.
func (s *Schema) ContainsPath(path Path) bool {
	_, err := s.GetField(path)
	return err == nil
}
