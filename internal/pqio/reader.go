package pqio

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/loicalleyne/lilac/internal/lilacerr"
)

// Reader streams arrow.Record batches out of a parquet shard.
type Reader struct {
	f        *file.Reader
	fr       *pqarrow.FileReader
	rr       pqarrow.RecordReader
	schema   *arrow.Schema
	osFile   *os.File
	released bool
}

// OpenReader opens the shard at path for row-group-at-a-time scanning.
func OpenReader(path string) (*Reader, error) {
	osFile, err := os.Open(path)
	if err != nil {
		return nil, lilacerr.Storage("opening shard %q: %v", path, err)
	}
	pf, err := file.NewParquetReader(osFile)
	if err != nil {
		osFile.Close()
		return nil, lilacerr.Storage("reading parquet footer for %q: %v", path, err)
	}
	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		osFile.Close()
		return nil, lilacerr.Storage("creating arrow reader for %q: %v", path, err)
	}
	sc, err := fr.Schema()
	if err != nil {
		osFile.Close()
		return nil, lilacerr.Storage("reading schema for %q: %v", path, err)
	}
	return &Reader{f: pf, fr: fr, schema: sc, osFile: osFile}, nil
}

// ArrowSchema returns the shard's Arrow schema.
func (r *Reader) ArrowSchema() *arrow.Schema { return r.schema }

// Records returns a RecordReader over every row group of the shard, in
// file order.
func (r *Reader) Records(ctx context.Context) (pqarrow.RecordReader, error) {
	if r.rr != nil {
		return r.rr, nil
	}
	rowGroups := make([]int, r.f.NumRowGroups())
	for i := range rowGroups {
		rowGroups[i] = i
	}
	cols := make([]int, len(r.schema.Fields()))
	for i := range cols {
		cols[i] = i
	}
	rr, err := r.fr.GetRecordReader(ctx, cols, rowGroups)
	if err != nil {
		return nil, lilacerr.Storage("reading records: %v", err)
	}
	r.rr = rr
	return rr, nil
}

// Close releases the underlying file handles.
func (r *Reader) Close() error {
	if r.released {
		return nil
	}
	r.released = true
	if r.rr != nil {
		r.rr.Release()
	}
	return r.osFile.Close()
}
