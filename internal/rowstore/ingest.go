package rowstore

import (
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/pqio"
	"github.com/loicalleyne/lilac/internal/schema"
)

// AssignRowID returns row's existing __rowid__ if it has one, otherwise
// stamps a fresh uuid onto a copy and returns that. Ingestion sources are
// explicitly out of core scope (spec.md §1); this only covers the one
// concrete step the spec's Query API depends on every row having —
// a stable key.
func AssignRowID(row item.Item) item.Item {
	if id, ok := row[schema.RowIDColumn].(string); ok && id != "" {
		return row
	}
	out := make(item.Item, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	out[schema.RowIDColumn] = uuid.NewString()
	return out
}

// WriteSource writes rows as a single new shard under dir and a fresh
// manifest.json naming it, the on-disk layout spec.md §6 describes for a
// source dataset. Any row missing __rowid__ is assigned one via
// AssignRowID first.
func WriteSource(dir string, sc *schema.Schema, rows []item.Item, shardFilename string) error {
	stamped := make([]item.Item, len(rows))
	for i, row := range rows {
		stamped[i] = AssignRowID(row)
	}

	rec, err := pqio.ItemsToRecord(stamped, sc)
	if err != nil {
		return err
	}
	defer rec.Release()

	shardPath := filepath.Join(dir, shardFilename)
	if err := pqio.WriteAtomic(sc, shardPath, []arrow.Record{rec}); err != nil {
		return err
	}

	m := &SourceManifest{Files: []string{shardFilename}, DataSchema: sc}
	return WriteManifest(filepath.Join(dir, ManifestFilename), m)
}
