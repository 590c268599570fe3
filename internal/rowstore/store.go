package rowstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/pqio"
	"github.com/loicalleyne/lilac/internal/schema"
)

// Store owns one dataset's source manifest and shards, caching the
// in-memory union of rows keyed by the directory's max-mtime so it only
// rescans when a shard or the manifest changes (spec.md §4.2).
type Store struct {
	dir          string
	manifestPath string

	manifest *SourceManifest
	rows     []item.Item
	byKey    map[string]int
	mtime    int64
}

// Open loads the manifest and shards under dir.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir, manifestPath: filepath.Join(dir, ManifestFilename)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the dataset directory this store was opened against.
func (s *Store) Dir() string { return s.dir }

// Schema returns the source schema from the current manifest.
func (s *Store) Schema() *schema.Schema { return s.manifest.DataSchema }

// Manifest returns the currently loaded SourceManifest.
func (s *Store) Manifest() *SourceManifest { return s.manifest }

// MaxMtime walks the dataset directory and returns the most recent
// modification time across all files, used to decide whether a reload is
// due.
func (s *Store) MaxMtime() (int64, error) {
	var max int64
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if mt := info.ModTime().UnixNano(); mt > max {
				max = mt
			}
		}
		return nil
	})
	if err != nil {
		return 0, lilacerr.Storage("walking dataset dir %q: %v", s.dir, err)
	}
	return max, nil
}

// Stale reports whether the directory has been modified since the store's
// last load, the trigger condition from spec.md §4.2.
func (s *Store) Stale() (bool, error) {
	mt, err := s.MaxMtime()
	if err != nil {
		return false, err
	}
	return mt != s.mtime, nil
}

// Reload re-reads the manifest and every shard, rejecting duplicate row
// keys per the Open Question in spec.md §9 ("reject duplicates at
// ingest rather than silently produce a cross-product").
func (s *Store) Reload() error {
	manifest, err := ReadManifest(s.manifestPath)
	if err != nil {
		return err
	}
	var rows []item.Item
	for _, f := range manifest.Files {
		shardPath := filepath.Join(s.dir, f)
		shardRows, err := readShard(shardPath, manifest.DataSchema)
		if err != nil {
			return err
		}
		rows = append(rows, shardRows...)
	}
	byKey := make(map[string]int, len(rows))
	for i, row := range rows {
		key := row.RowKey()
		if key == "" {
			return lilacerr.Storage("row at index %d missing %s", i, schema.RowIDColumn)
		}
		if _, exists := byKey[key]; exists {
			return lilacerr.Storage("duplicate row key %q in source shards", key)
		}
		byKey[key] = i
	}
	mt, err := s.MaxMtime()
	if err != nil {
		return err
	}
	s.manifest = manifest
	s.rows = rows
	s.byKey = byKey
	s.mtime = mt
	return nil
}

func readShard(path string, sc *schema.Schema) ([]item.Item, error) {
	r, err := pqio.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	rr, err := r.Records(context.Background())
	if err != nil {
		return nil, err
	}
	var rows []item.Item
	for rr.Next() {
		rec := rr.Record()
		rows = append(rows, pqio.RecordToItems(rec, sc)...)
	}
	return rows, nil
}

// Rows returns the full in-memory row set. Callers must not mutate the
// returned slice or its items; use item.Clone for scratch copies.
func (s *Store) Rows() []item.Item { return s.rows }

// RowByKey returns the row with the given __rowid__, or NotFound.
func (s *Store) RowByKey(key string) (item.Item, error) {
	idx, ok := s.byKey[key]
	if !ok {
		return nil, lilacerr.NotFound("row " + key)
	}
	return s.rows[idx], nil
}

// Media returns the raw bytes at path within the row identified by rowID,
// implementing the `media(row_id, path) → bytes` surface from spec.md §6.
// The leaf at path must be a binary dtype.
func (s *Store) Media(rowID string, path schema.Path) ([]byte, error) {
	row, err := s.RowByKey(rowID)
	if err != nil {
		return nil, err
	}
	field, err := s.manifest.DataSchema.GetField(path)
	if err != nil {
		return nil, err
	}
	if field.Dtype != schema.DTypeBinary {
		return nil, lilacerr.InvalidQuery("media path %q is not binary", path.String())
	}
	v, ok := item.Get(row, path)
	if !ok {
		return nil, lilacerr.UnknownPath(path.String())
	}
	b, _ := v.([]byte)
	return b, nil
}
