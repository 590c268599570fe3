package executor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/executor"
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

type noStores struct{}

func (noStores) Store(schema.Path) (*vectorstore.Store, error) { return nil, nil }

func buildFixtureView(t *testing.T) *signalmanifest.View {
	t.Helper()
	dir := t.TempDir()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	fields.Set("score", schema.NewLeafField(schema.DTypeFloat64))
	sc := schema.NewSchema(fields)

	rows := []item.Item{
		{"text": "alpha", "score": 3.0},
		{"text": "beta", "score": 1.0},
		{"text": "gamma", "score": 2.0},
	}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	view, err := signalmanifest.Build(dir)
	require.NoError(t, err)
	return view
}

func TestExecuteAppliesPreFilterAndSort(t *testing.T) {
	view := buildFixtureView(t)
	req := planner.Request{
		Columns: []planner.ColumnRequest{
			{Path: schema.Path{"text"}, Alias: "text"},
			{Path: schema.Path{"score"}, Alias: "score"},
		},
		Filters: []planner.FilterRequest{{Ref: schema.Path{"score"}, Op: planner.OpGe, Value: 2.0}},
		SortBy:  []planner.SortRequest{{Ref: schema.Path{"score"}, Order: planner.Asc}},
	}
	plan, err := planner.Plan(view.Schema(), req)
	require.NoError(t, err)

	rows, err := executor.Execute(context.Background(), view, noStores{}, plan)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "gamma", rows[0]["text"])
	assert.Equal(t, "alpha", rows[1]["text"])
}

func TestExecuteAppliesLimitAndOffset(t *testing.T) {
	view := buildFixtureView(t)
	req := planner.Request{
		Columns: []planner.ColumnRequest{{Path: schema.Path{"text"}, Alias: "text"}},
		SortBy:  []planner.SortRequest{{Ref: schema.Path{"score"}, Order: planner.Asc}},
		Limit:   1,
		Offset:  1,
	}
	plan, err := planner.Plan(view.Schema(), req)
	require.NoError(t, err)

	rows, err := executor.Execute(context.Background(), view, noStores{}, plan)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "gamma", rows[0]["text"])
}

func TestExecuteCombineColumnsNestsProjectionsIntoOneRow(t *testing.T) {
	view := buildFixtureView(t)
	req := planner.Request{
		Columns: []planner.ColumnRequest{
			{Path: schema.Path{"text"}, Alias: "text"},
			{Path: schema.Path{"score"}, Alias: "score"},
		},
		CombineColumns: true,
	}
	plan, err := planner.Plan(view.Schema(), req)
	require.NoError(t, err)

	rows, err := executor.Execute(context.Background(), view, noStores{}, plan)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Contains(t, row, "text")
		assert.Contains(t, row, "score")
	}
}
