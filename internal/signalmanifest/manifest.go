// Package signalmanifest implements C3: the per-signal SignalManifest
// sidecar and the merged view it contributes to — joining a signal's shard
// onto the source store by row key and folding its output schema into the
// source schema at the signal's enriched path (spec.md §4.3).
package signalmanifest

import (
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
)

// Filename is the fixed sidecar name written next to each signal shard.
const Filename = "signal_manifest.json"

// Manifest is the `{ files, parquet_id, data_schema, signal, enriched_path,
// embedding_filename? }` shape from spec.md §6.
type Manifest struct {
	Files             []string               `json:"files"`
	ParquetID         string                 `json:"parquet_id"`
	DataSchema        *schema.Schema         `json:"data_schema"`
	Signal            schema.SignalDescriptor `json:"signal"`
	EnrichedPath      schema.Path            `json:"enriched_path"`
	EmbeddingFilename string                 `json:"embedding_filename,omitempty"`
}

// ParquetID computes the view name used for merge joins:
// key(signal) + "(" + dotted(enrichedPath minus trailing value-key/wildcard
// parts) + ")" (spec.md §4.3).
func ParquetID(desc *schema.SignalDescriptor, enrichedPath schema.Path) string {
	trimmed := enrichedPath.TrimSuffixParts()
	return desc.Key + "(" + trimmed.String() + ")"
}

// SignalKey builds the default `key(is_computed)` value from spec.md §4.5:
// name + "(" + sorted_param_kv + ")". Signals that need global-uniqueness
// guarantees beyond their parameters may override this before constructing
// their SignalDescriptor.
func SignalKey(name string, params map[string]any) string {
	if len(params) == 0 {
		return name + "()"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+toParamString(params[k]))
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

func toParamString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Read reads and parses a Manifest from path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lilacerr.NotFound("signal manifest " + path)
		}
		return nil, lilacerr.Storage("reading signal manifest %q: %v", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, lilacerr.Storage("parsing signal manifest %q: %v", path, err)
	}
	return &m, nil
}

// Write serializes m to path using write-then-rename, matching spec.md
// §4.9 step 5 ("write the SignalManifest sibling file atomically").
func Write(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return lilacerr.Storage("encoding signal manifest: %v", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return lilacerr.Storage("writing signal manifest %q: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return lilacerr.Storage("renaming signal manifest into place: %v", err)
	}
	return nil
}

// FilesExist reports whether every shard this manifest references is still
// present, the check behind spec.md §4.9's "a manifest whose parquet files
// are missing is an error".
func FilesExist(dir string, m *Manifest) error {
	for _, f := range m.Files {
		if _, err := os.Stat(joinDir(dir, f)); err != nil {
			return lilacerr.Storage("signal manifest references missing shard %q", f)
		}
	}
	return nil
}

func joinDir(dir, file string) string {
	if dir == "" {
		return file
	}
	return dir + string(os.PathSeparator) + file
}
