package stats

import (
	"sort"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/ordinal"
	"github.com/loicalleyne/lilac/internal/schema"
)

// DefaultDistinctCap bounds an unbinned categorical group-by (spec.md
// §4.8: "more than a configured cap of approx-distinct values (default
// 10 000) and no bins provided, fail").
const DefaultDistinctCap = 10_000

// SortBy selects whether select_groups orders by bucket count or value.
type SortBy int

const (
	SortByCount SortBy = iota
	SortByValue
)

// Order is the select_groups sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

// Bins describes a numeric bucketing request: either raw boundaries, or
// boundaries with matching labels (spec.md §4.8: "len(labels) ==
// len(bins)+1").
type Bins struct {
	Boundaries []float64
	Labels     []string
}

// Group is one (value, count) row from select_groups.
type Group struct {
	// Value is the categorical value, or the bucket label/index for a
	// numeric group-by.
	Value any
	Count int
}

// SelectGroups implements `select_groups(path, ..., bins?)` (spec.md §4.8
// /§6). filtered is the already row-key-filtered row set (filters applied
// upstream, e.g. via internal/executor).
func SelectGroups(filtered []item.Item, sc *schema.Schema, path schema.Path, sortBy SortBy, order Order, limit int, bins *Bins, distinctCap int) ([]Group, error) {
	field, err := sc.GetField(path)
	if err != nil {
		return nil, err
	}
	if distinctCap <= 0 {
		distinctCap = DefaultDistinctCap
	}
	if bins != nil && !schema.IsOrdinal(field.Dtype) {
		return nil, lilacerr.InvalidQuery("path %q is not numeric; bins require a numeric dtype", path.String())
	}
	if bins != nil && bins.Labels != nil && len(bins.Labels) != len(bins.Boundaries)+1 {
		return nil, lilacerr.InvalidQuery("bins: len(labels)=%d must equal len(boundaries)+1=%d", len(bins.Labels), len(bins.Boundaries)+1)
	}

	counts := map[string]int{}
	labelOf := map[string]any{}
	firstSeen := map[string]int{}
	next := 0

	bucket := func(v any) (key string, label any) {
		if bins != nil {
			idx := bucketIndex(ordinal.AsFloatOrZero(v), bins.Boundaries)
			l := bucketLabel(idx, bins)
			return l, l
		}
		return ordinal.KeyString(v), v
	}

	for _, row := range filtered {
		v, ok := item.Get(row, path)
		if !ok || v == nil {
			continue
		}
		flattenLeafValues(v, func(leaf any) {
			if leaf == nil {
				return
			}
			key, label := bucket(leaf)
			counts[key]++
			if _, seen := labelOf[key]; !seen {
				labelOf[key] = label
				firstSeen[key] = next
				next++
			}
		})
	}

	if bins == nil && len(counts) > distinctCap {
		return nil, lilacerr.Cardinality("path %q has more than %d distinct values; provide bins", path.String(), distinctCap)
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return firstSeen[keys[i]] < firstSeen[keys[j]] })

	groups := make([]Group, len(keys))
	for i, key := range keys {
		groups[i] = Group{Value: labelOf[key], Count: counts[key]}
	}
	sortGroups(groups, sortBy, order)
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}
	return groups, nil
}

func sortGroups(groups []Group, sortBy SortBy, order Order) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := i, j
		if order == Desc {
			a, b = j, i
		}
		switch sortBy {
		case SortByCount:
			return groups[a].Count < groups[b].Count
		case SortByValue:
			return ordinal.Less(groups[a].Value, groups[b].Value)
		}
		return false
	})
}

// bucketIndex places v into bucket i such that boundaries[i-1] <= v <
// boundaries[i], with ±Infinity sentinel bounds implicit at the ends
// (spec.md §4.8).
func bucketIndex(v float64, boundaries []float64) int {
	for i, b := range boundaries {
		if v < b {
			return i
		}
	}
	return len(boundaries)
}

func bucketLabel(idx int, bins *Bins) string {
	if bins.Labels != nil && idx < len(bins.Labels) {
		return bins.Labels[idx]
	}
	lower := "-Inf"
	upper := "+Inf"
	if idx > 0 {
		lower = formatBound(bins.Boundaries[idx-1])
	}
	if idx < len(bins.Boundaries) {
		upper = formatBound(bins.Boundaries[idx])
	}
	return "[" + lower + ", " + upper + ")"
}

func formatBound(f float64) string {
	return ordinal.KeyString(f)
}
