// Package ordinal provides width-agnostic numeric and string comparison
// over the loosely-typed values internal/item carries, shared by the query
// executor's filter/sort evaluation and by internal/stats's min/max and
// approx-distinct bookkeeping.
package ordinal

import "fmt"

// Equal compares two scanned values for equality, treating all numeric
// widths as equivalent.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := AsFloat(a); aok {
		if bf, bok := AsFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Compare returns -1/0/1 comparing a to b, and false if the pair isn't
// ordinally comparable (e.g. either side is nil, or one is numeric and the
// other a string).
func Compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if af, aok := AsFloat(a); aok {
		if bf, bok := AsFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Less reports whether a sorts strictly before b; ordinally incomparable
// pairs are treated as not-less.
func Less(a, b any) bool {
	c, ok := Compare(a, b)
	return ok && c < 0
}

// AsFloat widens any Go integer/float kind to float64 for comparison.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// AsFloatOrZero widens v to float64, returning 0 for a non-numeric value.
// Used when a caller has already validated the dtype is numeric and just
// wants a plain float for bucketing arithmetic.
func AsFloatOrZero(v any) float64 {
	f, _ := AsFloat(v)
	return f
}

// KeyString returns a stable string form of v suitable for use as a set key
// in approx-distinct sampling.
func KeyString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
