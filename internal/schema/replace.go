package schema

import "github.com/loicalleyne/lilac/internal/lilacerr"

// ReplaceField overwrites the field at path with newField, used when a
// signal's enrichment reshapes an existing leaf in place. path must resolve
// to an existing, non-root field.
func ReplaceField(s *Schema, path Path, newField *Field) error {
	if len(path) == 0 {
		return lilacerr.InvalidQuery("cannot replace the schema root")
	}
	parent, err := parentOf(s.AsField(), path)
	if err != nil {
		return err
	}
	last := path[len(path)-1]
	if last == PathWildcard {
		parent.RepeatedField = newField
		return nil
	}
	if _, ok := parent.Fields.Get(last); !ok {
		return lilacerr.UnknownPath(path.String())
	}
	parent.Fields.Set(last, newField)
	return nil
}

// parentOf walks all but the last part of path and returns the struct Field
// that directly owns path's final segment.
func parentOf(root *Field, path Path) (*Field, error) {
	cur := root
	for i, part := range path[:len(path)-1] {
		switch part {
		case PathWildcard:
			if cur.Dtype != DTypeList || cur.RepeatedField == nil {
				return nil, lilacerr.UnknownPath(path[:i+1].String())
			}
			cur = cur.RepeatedField
		case PathValueKey:
			child, ok := cur.Fields.Get(PathValueKey)
			if !ok {
				return nil, lilacerr.UnknownPath(path[:i+1].String())
			}
			cur = child
		default:
			if cur.Dtype != DTypeStruct || cur.Fields == nil {
				return nil, lilacerr.UnknownPath(path[:i+1].String())
			}
			child, ok := cur.Fields.Get(part)
			if !ok {
				return nil, lilacerr.UnknownPath(path[:i+1].String())
			}
			cur = child
		}
	}
	if cur.Dtype != DTypeStruct && cur.Dtype != DTypeList {
		return nil, lilacerr.UnknownPath(path.String())
	}
	return cur, nil
}
