// Package pqio writes and reads the parquet shards that back row storage,
// signal manifests, and enrichment output. Adapted from the teacher's
// pq.ParquetWriter (pq/parquet_writer.go), generalized to accept a
// lilac schema.Schema instead of only an arrow.Schema, and to read shards
// back for query execution.
package pqio

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
)

const defaultRowGroupByteLimit = 10 * 1024 * 1024

// DefaultWriterProperties mirrors the teacher's DefaultWrtp (pq/parquet_writer.go):
// dictionary encoding on, v2 format, zstd compression, stats enabled.
var DefaultWriterProperties = parquet.NewWriterProperties(
	parquet.WithDictionaryDefault(true),
	parquet.WithVersion(parquet.V2_LATEST),
	parquet.WithCompression(compress.Codecs.Zstd),
	parquet.WithStats(true),
	parquet.WithRootName("lilac"),
)

// Writer appends arrow.Record batches to a single parquet shard, rotating
// row groups once the byte limit is exceeded.
type Writer struct {
	destFile *os.File
	pqwrt    *pqarrow.FileWriter
	arrowSc  *arrow.Schema
	count    int
}

// NewWriter creates a shard at path for sc, the lilac schema describing the
// rows that will be written to it.
func NewWriter(sc *schema.Schema, path string) (*Writer, error) {
	arrowSc, err := schema.ToArrowSchema(sc)
	if err != nil {
		return nil, lilacerr.Storage("building arrow schema: %v", err)
	}
	return NewWriterWithArrowSchema(arrowSc, path)
}

// NewWriterWithArrowSchema creates a shard at path for an already-computed
// arrow.Schema, used by signal writers that shape output schemas directly
// in arrow terms (e.g. for spans/embeddings).
func NewWriterWithArrowSchema(arrowSc *arrow.Schema, path string) (*Writer, error) {
	destFile, err := os.Create(path)
	if err != nil {
		return nil, lilacerr.Storage("creating shard file %q: %v", path, err)
	}
	artp := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	pqwrt, err := pqarrow.NewFileWriter(arrowSc, destFile, DefaultWriterProperties, artp)
	if err != nil {
		destFile.Close()
		return nil, lilacerr.Storage("creating parquet writer for %q: %v", path, err)
	}
	return &Writer{destFile: destFile, pqwrt: pqwrt, arrowSc: arrowSc}, nil
}

// WriteRecord writes one Arrow record batch to the shard.
func (w *Writer) WriteRecord(rec arrow.Record) error {
	if err := w.pqwrt.WriteBuffered(rec); err != nil {
		return lilacerr.Storage("writing record: %v", err)
	}
	if w.pqwrt.RowGroupTotalBytesWritten() >= defaultRowGroupByteLimit {
		w.pqwrt.NewBufferedRowGroup()
	}
	w.count += int(rec.NumRows())
	return nil
}

// RecordCount returns the total number of rows written so far.
func (w *Writer) RecordCount() int { return w.count }

// Close flushes and closes the underlying parquet file.
func (w *Writer) Close() error {
	if err := w.pqwrt.Close(); err != nil {
		return lilacerr.Storage("closing parquet writer: %v", err)
	}
	return w.destFile.Close()
}

// NewRecordBuilder returns a fresh arrow.RecordBuilder for the writer's
// schema, for callers that build rows incrementally before calling
// NewRecord/WriteRecord (mirrors the teacher's Write([]byte) helper, but
// exposes the builder instead of taking raw JSON so typed callers such as
// the enrichment writer can append Go values directly).
func (w *Writer) NewRecordBuilder() *array.RecordBuilder {
	return array.NewRecordBuilder(memory.DefaultAllocator, w.arrowSc)
}

// ArrowSchema returns the shard's Arrow schema.
func (w *Writer) ArrowSchema() *arrow.Schema { return w.arrowSc }

// WriteAtomic writes all records to a temp file beside path and renames it
// into place, giving write-then-rename atomicity for the caller — the same
// contract spec.md §4.9 asks for on signal shard writes ("write-then-rename
// is sufficient; no cross-file transactions").
func WriteAtomic(sc *schema.Schema, path string, records []arrow.Record) (err error) {
	arrowSc, err := schema.ToArrowSchema(sc)
	if err != nil {
		return lilacerr.Storage("building arrow schema: %v", err)
	}
	return WriteAtomicArrow(arrowSc, path, records)
}

// WriteAtomicArrow is WriteAtomic for a caller that already has an
// arrow.Schema, used by the vector store's own sidecar persistence
// (internal/vectorstore), which has no lilac schema.Schema of its own.
func WriteAtomicArrow(arrowSc *arrow.Schema, path string, records []arrow.Record) (err error) {
	tmp := path + ".tmp"
	w, err := NewWriterWithArrowSchema(arrowSc, tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	for _, rec := range records {
		if werr := w.WriteRecord(rec); werr != nil {
			w.Close()
			return werr
		}
	}
	if cerr := w.Close(); cerr != nil {
		return cerr
	}
	if rerr := os.Rename(tmp, path); rerr != nil {
		return lilacerr.Storage("renaming shard into place: %v", rerr)
	}
	return nil
}
