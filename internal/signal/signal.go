// Package signal defines the polymorphic Signal protocol (spec.md §4.5): a
// named, parameterized descriptor with one or more compute capabilities
// (plain text compute, vector compute, vector top-k), plus the process-
// global registry and dependency-resolution helpers C7/C9 use to prepare a
// signal before running it.
package signal

import (
	"context"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// InputType enumerates the three shapes a signal can consume or produce,
// per spec.md §4.5 (`input_type ∈ {text, text_embedding, image}`).
type InputType string

const (
	TypeText          InputType = "text"
	TypeTextEmbedding InputType = "text_embedding"
	TypeImage         InputType = "image"
)

// RichData is one input unit handed to a text-capable signal's Compute: the
// raw value plus, when the input is itself a signal's span output, the
// originating span so span-shifting (spec.md §4.7 step 4) can be applied.
type RichData struct {
	Text string
	Span *item.Span
}

// Signal is the capability-agnostic half of the protocol: every signal,
// regardless of which Compute variant it implements, exposes this surface.
type Signal interface {
	Name() string
	DisplayName() string
	InputType() InputType
	ComputeType() InputType
	// Fields describes the schema subtree this signal produces at its
	// enrichment site.
	Fields() *schema.Field
	// Key names the subtree under the enriched path; defaults to
	// Name()+"("+sorted params+")" via signalmanifest.SignalKey, but a
	// signal may override it as long as global uniqueness holds.
	Key() string
	// Params returns the raw parameters this instance was constructed
	// with, used to build its SignalDescriptor for manifests.
	Params() map[string]any
	// Dependencies lists the signals this signal's parameters reference
	// (e.g. a TextEmbeddingModel's `embedding=X`), resolved to concrete
	// instances at construction time.
	Dependencies() []Signal
}

// Descriptor builds the schema.SignalDescriptor persisted in manifests.
func Descriptor(s Signal) *schema.SignalDescriptor {
	return &schema.SignalDescriptor{Name: s.Name(), Key: s.Key(), Params: s.Params()}
}

// TextComputer is the plain `compute(inputs) → Iter<Option<Item>>`
// capability (spec.md §4.5). A nil entry in the returned slice is a
// sparse skip, not an error; returning a different length than len(inputs)
// is a fatal contract violation the caller must reject.
type TextComputer interface {
	Signal
	Compute(ctx context.Context, inputs []RichData) ([]*item.Item, error)
}

// VectorComputer is the `vector_compute(keys, store) → Iter<Option<Item>>`
// capability: it consumes already-stored vectors rather than raw text.
type VectorComputer interface {
	Signal
	VectorCompute(ctx context.Context, keys []vectorstore.CompoundKey, store *vectorstore.Store) ([]*item.Item, error)
}

// TopKResult pairs a vector-store key with the item a top-k signal produced
// for it.
type TopKResult struct {
	Key  vectorstore.CompoundKey
	Item item.Item
}

// VectorTopKComputer is the optional `vector_compute_topk(k, store,
// restrict) → [(key, item)]` capability used to short-circuit a
// sort-by-similarity query (spec.md §4.7 step 4).
type VectorTopKComputer interface {
	Signal
	VectorComputeTopK(ctx context.Context, k int, store *vectorstore.Store, restrict []vectorstore.CompoundKey) ([]TopKResult, error)
}
