package schema

import "strings"

const (
	// PathWildcard is the path part that descends into a repeated field.
	PathWildcard = "*"
	// PathValueKey descends from a struct-wrapped leaf into its primitive
	// value, per the leaf-with-enrichment convention in spec.md §3.
	PathValueKey = "__value__"
	// RowIDColumn is the stable per-row key column carried by every shard.
	RowIDColumn = "__rowid__"
)

// Path is an ordered sequence of path parts: a struct field name, the
// PathWildcard symbol, or PathValueKey.
type Path []string

// NewPath builds a Path from already-split parts, useful for composing
// paths programmatically (e.g. appending a signal key under an enriched
// path).
func NewPath(parts ...string) Path {
	out := make(Path, len(parts))
	copy(out, parts)
	return out
}

// Normalize splits a dotted string into a Path. A part wrapped in double
// quotes is taken verbatim (so a field literally named "a.b" can be
// addressed). Normalize never introduces new path parts: for an unquoted
// identifier, Normalize("a.b.c") equals NewPath("a","b","c").
func Normalize(p Path) Path {
	if len(p) != 1 {
		return p
	}
	return normalizeString(p[0])
}

// NormalizeString is the string-input form of Normalize, used when a
// caller has a dotted path literal instead of a pre-split Path.
func NormalizeString(s string) Path {
	return normalizeString(s)
}

func normalizeString(s string) Path {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == '.' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return Path(parts)
}

// String renders the path in dotted notation.
func (p Path) String() string {
	return strings.Join([]string(p), ".")
}

// Equal reports whether two paths have identical parts.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Append returns a new path with extra parts appended; the receiver is
// never mutated.
func (p Path) Append(parts ...string) Path {
	out := make(Path, 0, len(p)+len(parts))
	out = append(out, p...)
	out = append(out, parts...)
	return out
}

// HasPrefix reports whether p begins with the given prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// TrimSuffixParts drops trailing parts equal to PathValueKey or
// PathWildcard, used when computing a signal manifest's parquet id from an
// enriched path (spec.md §4.3).
func (p Path) TrimSuffixParts() Path {
	end := len(p)
	for end > 0 && (p[end-1] == PathValueKey || p[end-1] == PathWildcard) {
		end--
	}
	out := make(Path, end)
	copy(out, p[:end])
	return out
}

// Matches tests whether specific (a fully resolved path) satisfies
// pathMatch (which may contain PathWildcard segments). Both must be the
// same length to match, per column_paths_match in the original source.
func Matches(pathMatch, specific Path) bool {
	if len(pathMatch) != len(specific) {
		return false
	}
	for i := range pathMatch {
		if pathMatch[i] == PathWildcard {
			continue
		}
		if pathMatch[i] != specific[i] {
			return false
		}
	}
	return true
}
