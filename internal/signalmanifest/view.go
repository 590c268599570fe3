package signalmanifest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/pqio"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
)

// View is the merged view from spec.md §4.3: the source store left-outer
// joined with every discovered signal shard on row key, with each signal's
// subtree embedded at its enriched path.
type View struct {
	dir     string
	store   *rowstore.Store
	signals []*loadedSignal
	schema  *schema.Schema
	rows    []item.Item
	byKey   map[string]int
}

type loadedSignal struct {
	manifest *Manifest
	dir      string
	byKey    map[string]item.Item
}

// Build loads the source store under dir plus every signal_manifest.json
// found beneath it, and constructs the merged schema and row set.
func Build(dir string) (*View, error) {
	store, err := rowstore.Open(dir)
	if err != nil {
		return nil, err
	}
	v := &View{dir: dir, store: store}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

// Store exposes the underlying source store, e.g. for Media() lookups.
func (v *View) Store() *rowstore.Store { return v.store }

// Schema returns the merged schema.
func (v *View) Schema() *schema.Schema { return v.schema }

// Rows returns the merged row set, source order preserved.
func (v *View) Rows() []item.Item { return v.rows }

// Stale reports whether the source store or any signal directory has
// changed since the view was built.
func (v *View) Stale() (bool, error) {
	return v.store.Stale()
}

// Reload rebuilds the view from scratch; callers hold the process-wide
// merge mutex (spec.md §5) across Stale+Reload to avoid racing rebuilds.
func (v *View) Reload() error {
	if err := v.store.Reload(); err != nil {
		return err
	}
	return v.load()
}

func (v *View) load() error {
	manifestPaths, err := discoverSignalManifests(v.dir)
	if err != nil {
		return err
	}
	signals := make([]*loadedSignal, 0, len(manifestPaths))
	for _, mp := range manifestPaths {
		m, err := Read(mp)
		if err != nil {
			return err
		}
		sigDir := filepath.Dir(mp)
		if err := FilesExist(sigDir, m); err != nil {
			return err
		}
		byKey, err := readSignalRows(sigDir, m)
		if err != nil {
			return err
		}
		signals = append(signals, &loadedSignal{manifest: m, dir: sigDir, byKey: byKey})
	}

	merged := v.store.Schema().Clone()
	for _, sig := range signals {
		if err := schema.MergeSignal(merged, sig.manifest.DataSchema, sig.manifest.EnrichedPath, &sig.manifest.Signal); err != nil {
			return err
		}
	}

	rows := make([]item.Item, len(v.store.Rows()))
	byKey := make(map[string]int, len(rows))
	for i, src := range v.store.Rows() {
		row := item.Clone(src).(item.Item)
		key := row.RowKey()
		for _, sig := range signals {
			sigRow, ok := sig.byKey[key]
			if !ok {
				continue
			}
			value, ok := item.Get(sigRow, sig.manifest.EnrichedPath)
			if !ok || value == nil {
				continue
			}
			item.Set(row, sig.manifest.EnrichedPath, value)
		}
		rows[i] = row
		byKey[key] = i
	}

	v.signals = signals
	v.schema = merged
	v.rows = rows
	v.byKey = byKey
	return nil
}

func readSignalRows(dir string, m *Manifest) (map[string]item.Item, error) {
	byKey := map[string]item.Item{}
	for _, f := range m.Files {
		r, err := pqio.OpenReader(filepath.Join(dir, f))
		if err != nil {
			return nil, err
		}
		rr, err := r.Records(context.Background())
		if err != nil {
			r.Close()
			return nil, err
		}
		for rr.Next() {
			rec := rr.Record()
			for _, row := range pqio.RecordToItems(rec, m.DataSchema) {
				key := row.RowKey()
				if key == "" {
					continue
				}
				byKey[key] = row
			}
		}
		r.Close()
	}
	return byKey, nil
}

// discoverSignalManifests walks dir for every signal_manifest.json sidecar,
// mirroring the on-disk layout in spec.md §6
// (<p1>/<p2>/.../<signal_key>/signal_manifest.json).
func discoverSignalManifests(dir string) ([]string, error) {
	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == Filename {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, lilacerr.Storage("discovering signal manifests under %q: %v", dir, err)
	}
	return found, nil
}

// EmbeddingShard locates the embedding sidecar written for the signal
// mounted at path (or path.TrimSuffixParts(), for a caller passing the
// leaf a VectorComputer's own column query uses), returning its directory
// and filename. ok is false if no discovered signal at that mount point
// carries an embedding sidecar.
func (v *View) EmbeddingShard(path schema.Path) (dir string, filename string, ok bool) {
	mountPath := path.TrimSuffixParts()
	for _, sig := range v.signals {
		if sig.manifest.EmbeddingFilename == "" {
			continue
		}
		if sig.manifest.EnrichedPath.Equal(mountPath) {
			return sig.dir, sig.manifest.EmbeddingFilename, true
		}
	}
	return "", "", false
}

// RowByKey returns the merged row for the given row key.
func (v *View) RowByKey(key string) (item.Item, error) {
	idx, ok := v.byKey[key]
	if !ok {
		return nil, lilacerr.NotFound("row " + key)
	}
	return v.rows[idx], nil
}
