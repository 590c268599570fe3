package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/stats"
)

func categorySchema() *schema.Schema {
	fields := schema.NewFieldMap()
	fields.Set("category", schema.NewLeafField(schema.DTypeString))
	return schema.NewSchema(fields)
}

func TestSelectGroupsCountsByDistinctValue(t *testing.T) {
	rows := []item.Item{
		{"category": "a"},
		{"category": "b"},
		{"category": "a"},
	}
	groups, err := stats.SelectGroups(rows, categorySchema(), schema.Path{"category"}, stats.SortByCount, stats.Desc, 0, nil, stats.DefaultDistinctCap)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Value)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "b", groups[1].Value)
	assert.Equal(t, 1, groups[1].Count)
}

func TestSelectGroupsEnforcesDistinctCapWithoutBins(t *testing.T) {
	rows := []item.Item{{"category": "a"}, {"category": "b"}, {"category": "c"}}
	_, err := stats.SelectGroups(rows, categorySchema(), schema.Path{"category"}, stats.SortByCount, stats.Desc, 0, nil, 2)
	assert.Error(t, err)
}

func TestSelectGroupsBinsNumericValues(t *testing.T) {
	fields := schema.NewFieldMap()
	fields.Set("score", schema.NewLeafField(schema.DTypeFloat64))
	sc := schema.NewSchema(fields)
	rows := []item.Item{{"score": 1.0}, {"score": 5.0}, {"score": 9.0}}
	bins := &stats.Bins{Boundaries: []float64{4, 8}, Labels: []string{"low", "mid", "high"}}

	groups, err := stats.SelectGroups(rows, sc, schema.Path{"score"}, stats.SortByValue, stats.Asc, 0, bins, stats.DefaultDistinctCap)
	require.NoError(t, err)
	require.Len(t, groups, 3)
}

func TestSelectGroupsRejectsBinsOnNonNumericPath(t *testing.T) {
	rows := []item.Item{{"category": "a"}}
	bins := &stats.Bins{Boundaries: []float64{1}}
	_, err := stats.SelectGroups(rows, categorySchema(), schema.Path{"category"}, stats.SortByCount, stats.Desc, 0, bins, stats.DefaultDistinctCap)
	assert.Error(t, err)
}
