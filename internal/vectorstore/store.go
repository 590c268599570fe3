package vectorstore

import (
	"math"
	"sync"

	"github.com/loicalleyne/lilac/internal/lilacerr"
)

// ScoredKey is one topk result: a key and its similarity score.
type ScoredKey struct {
	Key   CompoundKey
	Score float32
}

// Store is a keyed, L2-normalized embedding matrix, lazy-loaded per path and
// cached for the process lifetime (spec.md §5 "Shared resources").
type Store struct {
	mu      sync.RWMutex
	dim     int
	keys    []CompoundKey
	index   map[string]int
	vectors [][]float32
}

// New creates an empty store. dim is fixed by the first Add call.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Add appends keys/embeddings to the store, L2-normalizing each vector at
// ingest per spec.md §4.4. Re-adding an existing key overwrites its vector
// in place. All embeddings must share one dimensionality; a mismatch or a
// keys/embeddings length mismatch is a VectorStoreError.
func (s *Store) Add(keys []CompoundKey, embeddings [][]float32) error {
	if len(keys) != len(embeddings) {
		return lilacerr.VectorStore("keys/embeddings length mismatch: %d vs %d", len(keys), len(embeddings))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, vec := range embeddings {
		if s.dim == 0 {
			s.dim = len(vec)
		}
		if len(vec) != s.dim {
			return lilacerr.VectorStore("dimension mismatch: expected %d, got %d", s.dim, len(vec))
		}
		norm := normalize(vec)
		keyStr := keys[i].String()
		if idx, ok := s.index[keyStr]; ok {
			s.vectors[idx] = norm
			continue
		}
		s.index[keyStr] = len(s.keys)
		s.keys = append(s.keys, keys[i])
		s.vectors = append(s.vectors, norm)
	}
	return nil
}

// Get returns the normalized vectors for keys, in the same order. An
// unknown key is a VectorStoreError.
func (s *Store) Get(keys []CompoundKey) ([][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]float32, len(keys))
	for i, k := range keys {
		idx, ok := s.index[k.String()]
		if !ok {
			return nil, lilacerr.VectorStore("unknown key %q", k.String())
		}
		out[i] = s.vectors[idx]
	}
	return out, nil
}

// Topk returns the k highest-scoring keys against query by normalized dot
// product, descending, ties broken by insertion order. When restrict is
// non-empty, only keys whose prefix matches at least one restrict entry are
// scored (spec.md §4.4).
func (s *Store) Topk(query []float32, k int, restrict []CompoundKey) ([]ScoredKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dim != 0 && len(query) != s.dim {
		return nil, lilacerr.VectorStore("dimension mismatch: expected %d, got %d", s.dim, len(query))
	}
	q := normalize(query)

	candidates := make([]int, 0, len(s.keys))
	for i, key := range s.keys {
		if matchesAny(key, restrict) {
			candidates = append(candidates, i)
		}
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil, nil
	}

	scores := make([]float32, len(candidates))
	for i, idx := range candidates {
		scores[i] = dot(q, s.vectors[idx])
	}

	order := partialTopK(candidates, scores, k)
	out := make([]ScoredKey, len(order))
	for i, idx := range order {
		out[i] = ScoredKey{Key: s.keys[idx], Score: dot(q, s.vectors[idx])}
	}
	return out, nil
}

// partialTopK returns the k candidate indices with the highest score,
// ordered descending with ties broken by original (insertion) order. It
// quickselects the k-th largest score in expected O(n) then stable-sorts
// just the head, avoiding a full O(n log n) sort of every candidate — the
// performance contract from spec.md §4.4.
func partialTopK(candidates []int, scores []float32, k int) []int {
	n := len(candidates)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	quickselectDesc(idx, scores, 0, n-1, k)
	head := idx[:k]
	// Stable sort by (score desc, original position asc) for deterministic
	// tie-breaking regardless of quickselect's internal ordering.
	for i := 1; i < len(head); i++ {
		for j := i; j > 0 && less(head[j-1], head[j], scores); j-- {
			head[j-1], head[j] = head[j], head[j-1]
		}
	}
	out := make([]int, k)
	for i, pos := range head {
		out[i] = candidates[pos]
	}
	return out
}

func less(a, b int, scores []float32) bool {
	if scores[a] != scores[b] {
		return scores[a] < scores[b]
	}
	return a > b
}

// quickselectDesc partitions idx[lo:hi+1] by scores so the k largest (by
// score, ties toward lower original index) occupy idx[0:k].
func quickselectDesc(idx []int, scores []float32, lo, hi, k int) {
	for lo < hi {
		p := partition(idx, scores, lo, hi)
		if p == k-1 || p == k {
			return
		}
		if p < k {
			lo = p + 1
		} else {
			hi = p - 1
		}
	}
}

func partition(idx []int, scores []float32, lo, hi int) int {
	pivot := idx[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if less(pivot, idx[j], scores) {
			idx[i], idx[j] = idx[j], idx[i]
			i++
		}
	}
	idx[i], idx[hi] = idx[hi], idx[i]
	return i
}

func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
