package rowstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
)

func textFixtureSchema() *schema.Schema {
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	return schema.NewSchema(fields)
}

func TestStoreRejectsDuplicateRowKeysAcrossShards(t *testing.T) {
	dir := t.TempDir()
	sc := textFixtureSchema()

	rows := []item.Item{{schema.RowIDColumn: "r1", "text": "a"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	m, err := rowstore.ReadManifest(dir + "/" + rowstore.ManifestFilename)
	require.NoError(t, err)
	m.Files = append(m.Files, "data-00000-of-00001.parquet")
	require.NoError(t, rowstore.WriteManifest(dir+"/"+rowstore.ManifestFilename, m))

	_, err = rowstore.Open(dir)
	assert.Error(t, err)
}

func TestStoreStaleDetectsNewShard(t *testing.T) {
	dir := t.TempDir()
	sc := textFixtureSchema()
	require.NoError(t, rowstore.WriteSource(dir, sc, []item.Item{{"text": "a"}}, "data-00000-of-00001.parquet"))

	s, err := rowstore.Open(dir)
	require.NoError(t, err)
	stale, err := s.Stale()
	require.NoError(t, err)
	assert.False(t, stale)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, rowstore.WriteSource(dir, sc, []item.Item{{"text": "b"}}, "data-00001-of-00002.parquet"))
	m, err := rowstore.ReadManifest(dir + "/" + rowstore.ManifestFilename)
	require.NoError(t, err)
	m.Files = []string{"data-00000-of-00001.parquet", "data-00001-of-00002.parquet"}
	require.NoError(t, rowstore.WriteManifest(dir+"/"+rowstore.ManifestFilename, m))

	stale, err = s.Stale()
	require.NoError(t, err)
	assert.True(t, stale)

	require.NoError(t, s.Reload())
	assert.Len(t, s.Rows(), 2)
}
