// Package item defines the in-memory row representation the executor,
// enrichment writer, and stats components operate on: a nested,
// JSON-like value keyed by field name, addressed by schema.Path. This is
// the Go analogue of the original's Item/ItemValue union (spec.md
// GLOSSARY); Arrow records are only the on-disk/wire boundary, handled by
// internal/pqio.
package item

import "github.com/loicalleyne/lilac/internal/schema"

// Item is one row, or one nested struct value within a row: a plain Go map
// from field name to ItemValue.
type Item map[string]any

// Span is the in-memory shape of a string_span leaf.
type Span struct {
	Start int
	End   int
}

// RowKey returns the row's stable identifier, or "" if absent.
func (it Item) RowKey() string {
	v, _ := it[schema.RowIDColumn].(string)
	return v
}

// Get resolves path against the item, returning nil if any intermediate
// step is absent (a skipped/sparse value) and ok=false if the path
// descends through something that isn't an Item/slice as expected.
func Get(root any, path schema.Path) (any, bool) {
	cur := root
	for i, part := range path {
		switch part {
		case schema.PathWildcard:
			list, ok := cur.([]any)
			if !ok {
				return nil, false
			}
			// A bare wildcard fetch (no further narrowing) returns the
			// whole list; callers that need element-wise access walk it
			// themselves.
			if i == len(path)-1 {
				return list, true
			}
			out := make([]any, 0, len(list))
			for _, elem := range list {
				v, ok := Get(elem, path[i+1:])
				if ok {
					out = append(out, v)
				} else {
					out = append(out, nil)
				}
			}
			return out, true
		default:
			m, ok := cur.(Item)
			if !ok {
				mm, ok2 := cur.(map[string]any)
				if !ok2 {
					return nil, false
				}
				m = Item(mm)
			}
			v, ok := m[part]
			if !ok {
				return nil, true // present position, absent (null) value
			}
			cur = v
		}
	}
	return cur, true
}

// Set writes value at path within root, creating intermediate Item/slice
// levels as needed. Set does not support creating through a wildcard level
// that doesn't already exist with a known length; callers building
// repeated output (e.g. signal compute over a list) should construct the
// slice directly.
func Set(root Item, path schema.Path, value any) {
	cur := root
	for i, part := range path {
		last := i == len(path)-1
		if last {
			cur[part] = value
			return
		}
		next, ok := cur[part]
		if !ok || next == nil {
			next = Item{}
			cur[part] = next
		}
		child, ok := next.(Item)
		if !ok {
			if m, ok2 := next.(map[string]any); ok2 {
				child = Item(m)
				cur[part] = child
			} else {
				return
			}
		}
		cur = child
	}
}

// Clone deep-copies an ItemValue tree (maps and slices); scalars are
// returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case Item:
		out := make(Item, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case map[string]any:
		out := make(Item, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Clone(vv)
		}
		return out
	default:
		return t
	}
}
