package dataset

import (
	"path/filepath"
	"sync"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// vectorStoreCache implements executor.VectorStores: it resolves a query
// path to the embedding sidecar internal/enrich wrote for it, lazily
// loading and caching each vectorstore.Store for the process lifetime
// (spec.md §5).
type vectorStoreCache struct {
	view *signalmanifest.View

	mu    sync.Mutex
	cache map[string]*vectorstore.Store
}

// Store implements executor.VectorStores.
func (c *vectorStoreCache) Store(path schema.Path) (*vectorstore.Store, error) {
	key := path.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.cache[key]; ok {
		return s, nil
	}
	dir, filename, ok := c.view.EmbeddingShard(path)
	if !ok {
		return nil, lilacerr.NotFound("vector store for path " + path.String())
	}
	s, err := vectorstore.Load(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	c.cache[key] = s
	return s, nil
}

// reset drops every cached store, forcing a fresh Load on next use — called
// after a view reload or a fresh compute_signal invalidates the sidecars.
func (c *vectorStoreCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = map[string]*vectorstore.Store{}
}
