package executor

import "github.com/loicalleyne/lilac/internal/ordinal"

func compareEqual(a, b any) bool {
	return ordinal.Equal(a, b)
}

func compareOrdinal(a, b any) (int, bool) {
	return ordinal.Compare(a, b)
}
