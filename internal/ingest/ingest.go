package ingest

import (
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
)

const defaultShardFilename = "data-00000-of-00001.parquet"

// WriteDataset decodes every element of inputs with Row and writes the
// result as a fresh source dataset under dir, matching sc. This is the one
// concrete write path this package owns; everything upstream of "I have a
// []any of row-shaped data" is a connector, which is out of scope (spec.md
// §1 Non-goals).
func WriteDataset(dir string, sc *schema.Schema, inputs []any) error {
	rows := make([]item.Item, len(inputs))
	for i, in := range inputs {
		m, err := Row(in)
		if err != nil {
			return err
		}
		rows[i] = item.Item(m)
	}
	return rowstore.WriteSource(dir, sc, rows, defaultShardFilename)
}
