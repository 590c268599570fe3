package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreTopkOrdersBySimilarityDescending(t *testing.T) {
	s := New()
	keys := []CompoundKey{NewKey("a"), NewKey("b"), NewKey("c")}
	vecs := [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}}
	assert.NoError(t, s.Add(keys, vecs))

	got, err := s.Topk([]float32{1, 0}, 2, nil)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Key.RowID())
	assert.Equal(t, "c", got[1].Key.RowID())
}

func TestStoreTopkHonorsRestrictPrefix(t *testing.T) {
	s := New()
	keys := []CompoundKey{NewKey("a", 0), NewKey("a", 1), NewKey("b", 0)}
	vecs := [][]float32{{1, 0}, {1, 0}, {1, 0}}
	assert.NoError(t, s.Add(keys, vecs))

	got, err := s.Topk([]float32{1, 0}, 5, []CompoundKey{NewKey("a")})
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	for _, sk := range got {
		assert.Equal(t, "a", sk.Key.RowID())
	}
}

func TestStoreAddRejectsDimensionMismatch(t *testing.T) {
	s := New()
	assert.NoError(t, s.Add([]CompoundKey{NewKey("a")}, [][]float32{{1, 0}}))
	err := s.Add([]CompoundKey{NewKey("b")}, [][]float32{{1, 0, 0}})
	assert.Error(t, err)
}

func TestStoreGetReturnsNormalizedVectors(t *testing.T) {
	s := New()
	assert.NoError(t, s.Add([]CompoundKey{NewKey("a")}, [][]float32{{3, 4}}))
	got, err := s.Get([]CompoundKey{NewKey("a")})
	assert.NoError(t, err)
	assert.InDelta(t, 0.6, got[0][0], 1e-6)
	assert.InDelta(t, 0.8, got[0][1], 1e-6)
}
