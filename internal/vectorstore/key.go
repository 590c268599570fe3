// Package vectorstore implements C4: a keyed, L2-normalized embedding
// matrix with exact top-k retrieval by dot product and optional key-prefix
// restriction (spec.md §4.4).
package vectorstore

import (
	"strconv"
	"strings"

	"github.com/loicalleyne/lilac/internal/lilacerr"
)

// KeyPart is one element of a CompoundKey: either a string or an integer.
// Spec.md §4.4 calls this a "tuple of strings/integers"; kept as a small
// tagged struct rather than `any` so keys hash and compare cheaply without
// reflection (spec.md §REDESIGN FLAGS: "row keys as tuples... to avoid
// allocation in the vector store's hot path").
type KeyPart struct {
	str   string
	num   int64
	isNum bool
}

// StringPart builds a string KeyPart.
func StringPart(s string) KeyPart { return KeyPart{str: s} }

// IntPart builds an integer KeyPart, used for the ordinal position within a
// repeated field (e.g. the n-th split of a row).
func IntPart(i int64) KeyPart { return KeyPart{num: i, isNum: true} }

// CompoundKey addresses one vector-store entry: typically (row_id) for a
// scalar embedding or (row_id, split_index, ...) for an embedding nested
// under a repeated field.
type CompoundKey []KeyPart

// NewKey builds a CompoundKey from a row id followed by zero or more
// repeated-field ordinals.
func NewKey(rowID string, indices ...int64) CompoundKey {
	k := make(CompoundKey, 0, 1+len(indices))
	k = append(k, StringPart(rowID))
	for _, i := range indices {
		k = append(k, IntPart(i))
	}
	return k
}

// RowID returns the first part of the key as a string, the row id every
// CompoundKey built by NewKey leads with.
func (k CompoundKey) RowID() string {
	if len(k) == 0 {
		return ""
	}
	return k[0].str
}

// String returns a canonical, collision-free encoding suitable for map
// keys: each part is length-prefixed so no delimiter ambiguity is possible.
func (k CompoundKey) String() string {
	var b strings.Builder
	for _, p := range k {
		if p.isNum {
			s := strconv.FormatInt(p.num, 10)
			b.WriteByte('i')
			b.WriteString(strconv.Itoa(len(s)))
			b.WriteByte(':')
			b.WriteString(s)
		} else {
			b.WriteByte('s')
			b.WriteString(strconv.Itoa(len(p.str)))
			b.WriteByte(':')
			b.WriteString(p.str)
		}
	}
	return b.String()
}

// HasPrefix reports whether k begins with every part of prefix, in order —
// the hierarchical-index contract from spec.md §4.4 ("key (rowid, 3) means
// the third split of the row").
func (k CompoundKey) HasPrefix(prefix CompoundKey) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

// ParseKey decodes the String() form back into a CompoundKey, used when
// reloading the persisted vector-store sidecar (internal/vectorstore's
// Save/Load).
func ParseKey(s string) (CompoundKey, error) {
	var out CompoundKey
	for i := 0; i < len(s); {
		kind := s[i]
		i++
		colon := strings.IndexByte(s[i:], ':')
		if colon < 0 {
			return nil, lilacerr.VectorStore("malformed key %q", s)
		}
		n, err := strconv.Atoi(s[i : i+colon])
		if err != nil {
			return nil, lilacerr.VectorStore("malformed key %q: %v", s, err)
		}
		i += colon + 1
		if i+n > len(s) {
			return nil, lilacerr.VectorStore("malformed key %q", s)
		}
		val := s[i : i+n]
		i += n
		switch kind {
		case 's':
			out = append(out, StringPart(val))
		case 'i':
			num, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, lilacerr.VectorStore("malformed key %q: %v", s, err)
			}
			out = append(out, IntPart(num))
		default:
			return nil, lilacerr.VectorStore("malformed key %q", s)
		}
	}
	return out, nil
}

// matchesAny reports whether k has at least one entry of restrict as a
// prefix; restrict being empty or nil means "no restriction" and always
// matches.
func matchesAny(k CompoundKey, restrict []CompoundKey) bool {
	if len(restrict) == 0 {
		return true
	}
	for _, r := range restrict {
		if k.HasPrefix(r) {
			return true
		}
	}
	return false
}
