// Package rowstore implements C2: the source manifest plus the parquet
// shards it references, with row-key uniqueness enforced at load and
// mtime-keyed cache invalidation so readers never see a stale union of
// shards (spec.md §4.2).
package rowstore

import (
	"os"

	json "github.com/goccy/go-json"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
)

// ManifestFilename is the fixed name of the source manifest, per spec.md §6
// on-disk layout.
const ManifestFilename = "manifest.json"

// ImageInfo records where an image's bytes live on disk, carried over from
// the original's lightweight ImageInfo so the Images field below round-trips.
type ImageInfo struct {
	Path schema.Path `json:"path"`
}

// SourceManifest is the `{ files, data_schema, images? }` shape from
// spec.md §6.
type SourceManifest struct {
	Files     []string       `json:"files"`
	DataSchema *schema.Schema `json:"data_schema"`
	Images    []ImageInfo    `json:"images,omitempty"`
}

// ReadManifest reads and parses a SourceManifest from path.
func ReadManifest(path string) (*SourceManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lilacerr.NotFound("source manifest " + path)
		}
		return nil, lilacerr.Storage("reading manifest %q: %v", path, err)
	}
	var m SourceManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, lilacerr.Storage("parsing manifest %q: %v", path, err)
	}
	return &m, nil
}

// WriteManifest serializes m to path using write-then-rename so a reader
// never observes a half-written manifest.
func WriteManifest(path string, m *SourceManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return lilacerr.Storage("encoding manifest: %v", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return lilacerr.Storage("writing manifest %q: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return lilacerr.Storage("renaming manifest into place: %v", err)
	}
	return nil
}
