package rowstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
)

func TestAssignRowIDFillsOnlyMissingIDs(t *testing.T) {
	withID := item.Item{schema.RowIDColumn: "existing"}
	assert.Equal(t, "existing", rowstore.AssignRowID(withID)[schema.RowIDColumn])

	withoutID := item.Item{"text": "hello"}
	stamped := rowstore.AssignRowID(withoutID)
	id, ok := stamped[schema.RowIDColumn].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.Equal(t, "hello", stamped["text"])
}

func TestWriteSourceWritesShardAndManifest(t *testing.T) {
	dir := t.TempDir()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)

	rows := []item.Item{{"text": "a"}, {"text": "b"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	m, err := rowstore.ReadManifest(filepath.Join(dir, rowstore.ManifestFilename))
	require.NoError(t, err)
	assert.Equal(t, []string{"data-00000-of-00001.parquet"}, m.Files)
}
