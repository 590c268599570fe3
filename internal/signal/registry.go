package signal

import (
	"sync"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
)

// Constructor builds a Signal instance from its decoded parameters plus any
// dependency signals the caller has already resolved (spec.md §4.5/§4.6).
type Constructor func(params map[string]any, deps []Signal) (Signal, error)

// registry is process-global and append-only for the life of the process
// (spec.md §5 "Shared resources: Signal registry (process-global, populated
// at startup; append-only)").
var (
	mu       sync.RWMutex
	registry = map[string]Constructor{}
)

// Register adds a constructor under name. Re-registering the same name
// panics, matching the teacher's fail-fast style for programmer errors
// discovered at init time rather than returning a runtime error nobody
// checks.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; exists {
		panic("signal: duplicate registration for " + name)
	}
	registry[name] = ctor
}

// Registered reports whether name has a constructor.
func Registered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

// New constructs a signal by name.
func New(name string, params map[string]any, deps ...Signal) (Signal, error) {
	mu.RLock()
	ctor, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, lilacerr.InvalidQuery("unknown signal %q", name)
	}
	return ctor(params, deps)
}

// DefaultKey implements the `key(is_computed)` default from spec.md §4.5:
// name + "(" + sorted_param_kv + ")". Shared with internal/signalmanifest's
// parquet_id computation so a signal's subtree name and its manifest key
// are always derived the same way.
func DefaultKey(name string, params map[string]any) string {
	return signalmanifest.SignalKey(name, params)
}
