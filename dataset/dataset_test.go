package dataset_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/dataset"
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
)

func writeFixtureDataset(t *testing.T, root, namespace, name string) {
	t.Helper()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)

	dir := root + "/" + namespace + "/" + name
	require.NoError(t, os.MkdirAll(dir, 0o755))

	rows := []item.Item{{"text": "hello"}, {"text": "world"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))
}

func TestOpenRequiresADataRoot(t *testing.T) {
	_, err := dataset.Open("ns", "name")
	assert.Error(t, err)
}

func TestSelectRowsReturnsOneRowPerRowID(t *testing.T) {
	root := t.TempDir()
	writeFixtureDataset(t, root, "ns", "fixture")

	ds, err := dataset.Open("ns", "fixture", dataset.WithDataDir(root))
	require.NoError(t, err)

	rows, err := ds.SelectRows(context.Background(), planner.Request{
		Columns: []planner.ColumnRequest{{Path: schema.Path{"text"}, Alias: "text"}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	seen := map[string]bool{}
	for _, r := range rows {
		id, _ := r[schema.RowIDColumn].(string)
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate row id %q", id)
		seen[id] = true
	}
}

func TestManifestReportsRowCountAndSchema(t *testing.T) {
	root := t.TempDir()
	writeFixtureDataset(t, root, "ns", "fixture")

	ds, err := dataset.Open("ns", "fixture", dataset.WithDataDir(root))
	require.NoError(t, err)

	m, err := ds.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "ns", m.Namespace)
	assert.Equal(t, "fixture", m.Dataset)
	assert.Equal(t, 2, m.NumItems)
	assert.True(t, m.Schema.ContainsPath(schema.Path{"text"}))
}
