package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
)

func textSchema() *schema.Schema {
	fields := schema.NewFieldMap()
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	fields.Set("score", schema.NewLeafField(schema.DTypeFloat32))
	return schema.NewSchema(fields)
}

func TestPlanInjectsRowIDColumn(t *testing.T) {
	plan, err := planner.Plan(textSchema(), planner.Request{
		Columns: []planner.ColumnRequest{{Path: schema.Path{"text"}, Alias: "text"}},
	})
	require.NoError(t, err)
	require.Len(t, plan.Columns, 2)
	assert.Equal(t, schema.RowIDColumn, plan.Columns[0].Alias)
}

func TestPlanRejectsUnknownPath(t *testing.T) {
	_, err := planner.Plan(textSchema(), planner.Request{
		Columns: []planner.ColumnRequest{{Path: schema.Path{"missing"}, Alias: "x"}},
	})
	assert.Error(t, err)
}

func TestPlanClassifiesNonUDFFilterAsPreUDF(t *testing.T) {
	plan, err := planner.Plan(textSchema(), planner.Request{
		Columns: []planner.ColumnRequest{{Path: schema.Path{"text"}, Alias: "text"}},
		Filters: []planner.FilterRequest{
			{Ref: schema.Path{"score"}, Op: planner.OpGt, Value: float32(0.5)},
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.PreFilters, 1)
	assert.Equal(t, schema.Path{"score"}, plan.PreFilters[0].Path)
	assert.False(t, plan.PreFilters[0].PostUDF)
}

func TestPlanRejectsFilterOnNonLeafWithoutExists(t *testing.T) {
	fields := schema.NewFieldMap()
	inner := schema.NewFieldMap()
	inner.Set("a", schema.NewLeafField(schema.DTypeString))
	fields.Set("obj", schema.NewStructField(inner))
	sc := schema.NewSchema(fields)

	_, err := planner.Plan(sc, planner.Request{
		Filters: []planner.FilterRequest{{Ref: schema.Path{"obj"}, Op: planner.OpEq, Value: "x"}},
	})
	assert.Error(t, err)
}

func TestPlanSortOnRepeatedFieldRequiresAggregate(t *testing.T) {
	fields := schema.NewFieldMap()
	fields.Set("tags", schema.NewListField(schema.NewLeafField(schema.DTypeString)))
	sc := schema.NewSchema(fields)

	plan, err := planner.Plan(sc, planner.Request{
		SortBy: []planner.SortRequest{{Ref: schema.Path{"tags", schema.PathWildcard}, Order: planner.Asc}},
	})
	require.NoError(t, err)
	require.Len(t, plan.PreSort, 1)
	assert.Equal(t, "min", plan.PreSort[0].ListAggregate)
}
