// Package enrich implements C9: the enrichment writer behind
// compute_signal(signal, column) (spec.md §4.9) — it resolves a signal's
// dependencies, streams it over the merged view, shapes its output under
// the enriched path, and writes a new signal shard plus its SignalManifest
// sibling atomically.
package enrich

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/loicalleyne/lilac/internal/executor"
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/pqio"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// ProgressFunc reports how many of the total rows ComputeSignal has
// written so far. The task/progress dashboard itself is named out of
// scope (spec.md §1); this is only the hook such a caller would wire up
// to.
type ProgressFunc func(done, total int)

const (
	shardFilename     = "data-00000-of-00001.parquet"
	embeddingFilename = "embeddings-00000-of-00001.parquet"
)

// ComputeSignal implements compute_signal(signal, column): sig reads the
// leaf at path, auto-computing any of sig's own dependencies first, and
// its output is mounted at path.TrimSuffixParts() — the struct boundary a
// caller reaches by appending __value__ to path when column already
// carries a prior signal (spec.md §3's leaf-with-enrichment convention;
// GetField's PathValueKey case always resolves to the original leaf
// regardless of how many sibling signals already sit there).
func ComputeSignal(ctx context.Context, dir string, view *signalmanifest.View, stores executor.VectorStores, sig signal.Signal, path schema.Path, progress ProgressFunc) error {
	mountPath := path.TrimSuffixParts()

	autoCompute := func(ctx context.Context, dep signal.Signal, enrichedPath schema.Path) (*schema.Schema, error) {
		if err := ComputeSignal(ctx, dir, view, stores, dep, enrichedPath, progress); err != nil {
			return nil, err
		}
		if err := view.Reload(); err != nil {
			return nil, err
		}
		return view.Schema(), nil
	}
	merged, err := signal.ResolveDependencies(ctx, view.Schema(), mountPath, sig, autoCompute)
	if err != nil {
		return err
	}

	req := planner.Request{
		Columns: []planner.ColumnRequest{
			{Path: path, Alias: "original"},
			{Path: path, Alias: "value", Signal: sig},
		},
		ResolveSpans: true,
	}
	plan, err := planner.Plan(merged, req)
	if err != nil {
		return err
	}
	rows, err := executor.Execute(ctx, view, stores, plan)
	if err != nil {
		return err
	}

	original, err := merged.GetField(path)
	if err != nil {
		return err
	}
	enrichedLeaf := schema.EnrichLeaf(original, sig.Key(), sig.Fields(), signal.Descriptor(sig))
	dataSchema := buildOutputSchema(mountPath, enrichedLeaf)

	vstore := vectorstore.New()
	anyEmbeddings := false
	outRows := make([]item.Item, len(rows))
	for i, row := range rows {
		rowID, _ := row[schema.RowIDColumn].(string)
		value := item.Item{schema.PathValueKey: row["original"], sig.Key(): row["value"]}

		var keys []vectorstore.CompoundKey
		var vecs [][]float32
		extractEmbeddings(row["value"], sig.Fields(), rowID, nil, &keys, &vecs)
		if len(keys) > 0 {
			if err := vstore.Add(keys, vecs); err != nil {
				return err
			}
			anyEmbeddings = true
		}

		nested := executor.NestAtPath(mountPath, value)
		out := item.Item{schema.RowIDColumn: rowID}
		if m, ok := nested.(item.Item); ok {
			for k, v := range m {
				out[k] = v
			}
		}
		outRows[i] = out
		if progress != nil {
			progress(i+1, len(rows))
		}
	}

	outDir := filepath.Join(append([]string{dir}, append(append([]string{}, mountPath...), sig.Key())...)...)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return lilacerr.Storage("creating signal output directory %q: %v", outDir, err)
	}

	rec, err := pqio.ItemsToRecord(outRows, dataSchema)
	if err != nil {
		return err
	}
	defer rec.Release()

	shardPath := filepath.Join(outDir, shardFilename)
	if err := pqio.WriteAtomic(dataSchema, shardPath, []arrow.Record{rec}); err != nil {
		return err
	}

	m := &signalmanifest.Manifest{
		Files:        []string{shardFilename},
		DataSchema:   dataSchema,
		Signal:       *signal.Descriptor(sig),
		EnrichedPath: mountPath,
	}
	m.ParquetID = signalmanifest.ParquetID(&m.Signal, mountPath)

	if anyEmbeddings {
		if err := vectorstore.Save(vstore, filepath.Join(outDir, embeddingFilename)); err != nil {
			return err
		}
		m.EmbeddingFilename = embeddingFilename
	}

	if err := signalmanifest.Write(filepath.Join(outDir, signalmanifest.Filename), m); err != nil {
		return err
	}

	return view.Reload()
}

// buildOutputSchema builds the shard schema for a signal mounted at
// mountPath: __rowid__ plus mountPath's struct/list nesting down to leaf,
// the shape spec.md §4.9 step 3 describes ("a (a,*,b) source produces a
// (a,*,b,signal_key) output").
func buildOutputSchema(mountPath schema.Path, leaf *schema.Field) *schema.Schema {
	cur := leaf
	for i := len(mountPath) - 1; i >= 1; i-- {
		if mountPath[i] == schema.PathWildcard {
			cur = schema.NewListField(cur)
			continue
		}
		fields := schema.NewFieldMap()
		fields.Set(mountPath[i], cur)
		cur = schema.NewStructField(fields)
	}
	root := schema.NewFieldMap()
	root.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	if len(mountPath) > 0 {
		root.Set(mountPath[0], cur)
	}
	return schema.NewSchema(root)
}

// extractEmbeddings walks value in lockstep with field (the signal's
// declared output shape) and collects every embedding leaf it finds,
// keyed by row id plus the repeated-field ordinals needed to reach it
// (spec.md §4.9 step 4).
func extractEmbeddings(value any, field *schema.Field, rowID string, indices []int64, keys *[]vectorstore.CompoundKey, vecs *[][]float32) {
	if value == nil || field == nil {
		return
	}
	switch {
	case field.Dtype == schema.DTypeEmbedding:
		vec, ok := value.([]float32)
		if !ok {
			// A leaf output may arrive wrapped as {__value__: vector}.
			if wrapped, isItem := value.(item.Item); isItem {
				vec, ok = wrapped[schema.PathValueKey].([]float32)
			}
		}
		if !ok {
			return
		}
		*keys = append(*keys, vectorstore.NewKey(rowID, indices...))
		*vecs = append(*vecs, vec)
	case field.Fields != nil:
		row, ok := value.(item.Item)
		if !ok {
			if mm, ok2 := value.(map[string]any); ok2 {
				row = item.Item(mm)
			} else {
				return
			}
		}
		for pair := field.Fields.Oldest(); pair != nil; pair = pair.Next() {
			extractEmbeddings(row[pair.Key], pair.Value, rowID, indices, keys, vecs)
		}
	case field.RepeatedField != nil:
		list, ok := value.([]any)
		if !ok {
			return
		}
		for i, elem := range list {
			child := append(append([]int64{}, indices...), int64(i))
			extractEmbeddings(elem, field.RepeatedField, rowID, child, keys, vecs)
		}
	}
}
