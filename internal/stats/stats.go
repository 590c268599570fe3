// Package stats implements C8: per-path statistics and categorical/numeric
// group-by (spec.md §4.8). Statistics estimate the distinct count from the
// first sampleSize leaf values; group-by counts every value.
package stats

import (
	"math"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/ordinal"
	"github.com/loicalleyne/lilac/internal/schema"
)

// DefaultSampleSize is the default N used for the approx-distinct sample
// (spec.md §4.8: "a sample of N rows (default 100 000)").
const DefaultSampleSize = 100_000

// Result is the `stats(path) → StatsResult` surface from spec.md §6.
type Result struct {
	TotalCount          int
	ApproxCountDistinct int
	MinVal              any
	MaxVal              any
	AvgTextLength       float64
}

// Compute scans rows for the leaf at path and returns its Result.
// sampleSize defaults to DefaultSampleSize when <= 0.
func Compute(rows []item.Item, sc *schema.Schema, path schema.Path, sampleSize int) (*Result, error) {
	field, err := sc.GetField(path)
	if err != nil {
		return nil, err
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	res := &Result{}
	seen := map[string]struct{}{}
	sampled := 0
	textLenSum, textLenCount := 0, 0
	isOrdinal := schema.IsOrdinal(field.Dtype)
	isString := field.Dtype == schema.DTypeString

	for _, row := range rows {
		v, ok := item.Get(row, path)
		if !ok || v == nil {
			continue
		}
		flattenLeafValues(v, func(leaf any) {
			if leaf == nil {
				return
			}
			res.TotalCount++
			if isOrdinal {
				res.MinVal = minVal(res.MinVal, leaf)
				res.MaxVal = maxVal(res.MaxVal, leaf)
			}
			if sampled < sampleSize {
				seen[ordinal.KeyString(leaf)] = struct{}{}
				sampled++
				if isString {
					if s, ok := leaf.(string); ok {
						textLenSum += len(s)
						textLenCount++
					}
				}
			}
		})
	}

	if sampled > 0 {
		scale := 1.0
		if res.TotalCount > sampled {
			scale = float64(res.TotalCount) / float64(sampled)
		}
		res.ApproxCountDistinct = int(math.Ceil(float64(len(seen)) * scale))
		if res.ApproxCountDistinct > res.TotalCount {
			res.ApproxCountDistinct = res.TotalCount
		}
	}
	if isString && textLenCount > 0 {
		res.AvgTextLength = float64(textLenSum) / float64(textLenCount)
	}
	return res, nil
}

// flattenLeafValues walks through any repeated-field nesting so a path that
// passes through a wildcard is still counted leaf-by-leaf.
func flattenLeafValues(v any, visit func(any)) {
	if list, ok := v.([]any); ok {
		for _, elem := range list {
			flattenLeafValues(elem, visit)
		}
		return
	}
	visit(v)
}

func minVal(cur, v any) any {
	if cur == nil || ordinal.Less(v, cur) {
		return v
	}
	return cur
}

func maxVal(cur, v any) any {
	if cur == nil || ordinal.Less(cur, v) {
		return v
	}
	return cur
}
