package vectorstore

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/loicalleyne/lilac/internal/pqio"
)

// persistSchema is the on-disk shape of a vector-store sidecar shard: one
// row per CompoundKey, its canonical string encoding plus its normalized
// vector. This is the Go-native stand-in for the original's
// embeddings-*.npy / *.keys.pkl pair (spec.md §6) — there is no idiomatic
// Go counterpart to a numpy/pickle sidecar, so persistence reuses the same
// arrow/parquet machinery internal/pqio already provides for every other
// on-disk shape instead of introducing a second serialization format.
var persistSchema = arrow.NewSchema([]arrow.Field{
	{Name: "key", Type: arrow.BinaryTypes.String},
	{Name: "vector", Type: arrow.ListOf(arrow.PrimitiveTypes.Float32)},
}, nil)

// Save writes every key/vector pair in s to path as a single parquet shard.
func Save(s *Store, path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bld := array.NewRecordBuilder(memory.DefaultAllocator, persistSchema)
	defer bld.Release()
	keyBld := bld.Field(0).(*array.StringBuilder)
	vecBld := bld.Field(1).(*array.ListBuilder)
	valBld := vecBld.ValueBuilder().(*array.Float32Builder)
	for i, k := range s.keys {
		keyBld.Append(k.String())
		vecBld.Append(true)
		for _, x := range s.vectors[i] {
			valBld.Append(x)
		}
	}
	rec := bld.NewRecord()
	defer rec.Release()

	return pqio.WriteAtomicArrow(persistSchema, path, []arrow.Record{rec})
}

// Load reads a sidecar shard written by Save into a fresh Store. Vectors
// are re-added through Add so they are re-normalized exactly as they would
// be on first ingest.
func Load(path string) (*Store, error) {
	r, err := pqio.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	s := New()
	rr, err := r.Records(context.Background())
	if err != nil {
		return nil, err
	}
	for rr.Next() {
		rec := rr.Record()
		keyArr := rec.Column(0).(*array.String)
		vecArr := rec.Column(1).(*array.List)
		values := vecArr.ListValues().(*array.Float32)
		n := int(rec.NumRows())
		keys := make([]CompoundKey, n)
		vectors := make([][]float32, n)
		for i := 0; i < n; i++ {
			k, err := ParseKey(keyArr.Value(i))
			if err != nil {
				return nil, err
			}
			keys[i] = k
			start, end := vecArr.ValueOffsets(i)
			vec := make([]float32, end-start)
			for j := start; j < end; j++ {
				vec[j-start] = values.Value(int(j))
			}
			vectors[i] = vec
		}
		if err := s.Add(keys, vectors); err != nil {
			return nil, err
		}
	}
	return s, nil
}
