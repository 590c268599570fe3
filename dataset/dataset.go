// Package dataset is the top-level façade wiring C1-C9 together behind
// the external Query API surface from spec.md §6
// (manifest/select_rows/select_rows_schema/compute_signal/stats/
// select_groups/media). It is the one package external callers import.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/loicalleyne/lilac/internal/enrich"
	"github.com/loicalleyne/lilac/internal/executor"
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/stats"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// DataDirEnv is the environment variable naming the dataset root
// (spec.md "Environment": "Working directory root: an environment
// variable naming the dataset root").
const DataDirEnv = "LILAC_DATA_DIR"

// Dataset is one namespace/name dataset directory, opened and kept live
// against its merged view (spec.md §4.2/§4.3/§5).
type Dataset struct {
	dataDirOverride string
	sampleSize      int
	distinctCap     int

	namespace string
	name      string
	dir       string

	mu     sync.Mutex
	view   *signalmanifest.View
	stores *vectorStoreCache
}

// Open builds a Dataset for namespace/name under the configured data
// root ($LILAC_DATA_DIR, or WithDataDir).
func Open(namespace, name string, opts ...Option) (*Dataset, error) {
	ds := &Dataset{namespace: namespace, name: name}
	for _, opt := range opts {
		opt(ds)
	}
	root := ds.dataDirOverride
	if root == "" {
		root = os.Getenv(DataDirEnv)
	}
	if root == "" {
		return nil, lilacerr.InvalidQuery("no dataset root: set %s or pass WithDataDir", DataDirEnv)
	}
	ds.dir = filepath.Join(root, namespace, name)

	view, err := signalmanifest.Build(ds.dir)
	if err != nil {
		return nil, err
	}
	ds.view = view
	ds.stores = &vectorStoreCache{view: view, cache: map[string]*vectorstore.Store{}}
	return ds, nil
}

// refresh blocks callers behind a stale mtime check until the view is
// rebuilt (spec.md §5: "callers entering with a stale mtime block until
// the view is rebuilt").
func (ds *Dataset) refresh() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	stale, err := ds.view.Stale()
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}
	ds.stores.reset()
	return ds.view.Reload()
}

// ManifestResult is `{ namespace, dataset, schema, num_items }` (spec.md §6).
type ManifestResult struct {
	Namespace string         `json:"namespace"`
	Dataset   string         `json:"dataset"`
	Schema    *schema.Schema `json:"schema"`
	NumItems  int            `json:"num_items"`
}

// Manifest implements manifest().
func (ds *Dataset) Manifest() (*ManifestResult, error) {
	if err := ds.refresh(); err != nil {
		return nil, err
	}
	return &ManifestResult{
		Namespace: ds.namespace,
		Dataset:   ds.name,
		Schema:    ds.view.Schema(),
		NumItems:  len(ds.view.Rows()),
	}, nil
}

// SelectRows implements select_rows(...).
func (ds *Dataset) SelectRows(ctx context.Context, req planner.Request) ([]item.Item, error) {
	if err := ds.refresh(); err != nil {
		return nil, err
	}
	plan, err := planner.Plan(ds.view.Schema(), req)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, ds.view, ds.stores, plan)
}

// ComputeSignal implements compute_signal(signal, column).
func (ds *Dataset) ComputeSignal(ctx context.Context, sig signal.Signal, path schema.Path, progress enrich.ProgressFunc) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if err := enrich.ComputeSignal(ctx, ds.dir, ds.view, ds.stores, sig, path, progress); err != nil {
		return err
	}
	ds.stores.reset()
	return nil
}

// Stats implements stats(path).
func (ds *Dataset) Stats(path schema.Path) (*stats.Result, error) {
	if err := ds.refresh(); err != nil {
		return nil, err
	}
	sampleSize := ds.sampleSize
	if sampleSize <= 0 {
		sampleSize = 100_000
	}
	return stats.Compute(ds.view.Rows(), ds.view.Schema(), path, sampleSize)
}

// SelectGroups implements select_groups(path, filters?, sort_by, sort_order, limit?, bins?).
func (ds *Dataset) SelectGroups(ctx context.Context, path schema.Path, filters []planner.FilterRequest, sortBy stats.SortBy, order stats.Order, limit int, bins *stats.Bins) ([]stats.Group, error) {
	if err := ds.refresh(); err != nil {
		return nil, err
	}
	rows := ds.view.Rows()
	if len(filters) > 0 {
		req := planner.Request{
			Columns: []planner.ColumnRequest{{Path: schema.Path{schema.RowIDColumn}, Alias: "rowid"}},
			Filters: filters,
		}
		plan, err := planner.Plan(ds.view.Schema(), req)
		if err != nil {
			return nil, err
		}
		scanned, err := executor.Execute(ctx, ds.view, ds.stores, plan)
		if err != nil {
			return nil, err
		}
		rows = make([]item.Item, 0, len(scanned))
		for _, r := range scanned {
			id, _ := r["rowid"].(string)
			row, err := ds.view.RowByKey(id)
			if err != nil {
				continue
			}
			rows = append(rows, row)
		}
	}

	distinctCap := ds.distinctCap
	if distinctCap <= 0 {
		distinctCap = stats.DefaultDistinctCap
	}
	groups, err := stats.SelectGroups(rows, ds.view.Schema(), path, sortBy, order, limit, bins, distinctCap)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Media implements media(row_id, path) → bytes.
func (ds *Dataset) Media(rowID string, path schema.Path) ([]byte, error) {
	if err := ds.refresh(); err != nil {
		return nil, err
	}
	return ds.view.Store().Media(rowID, path)
}

// Source is the consumer-side contract a concrete source connector would
// implement; no concrete adapter ships here (spec.md §1 Non-goal: "concrete
// source ingestion adapters").
type Source interface {
	Manifest() (*rowstore.SourceManifest, error)
	Shards() ([]string, error)
}
