package signal

import (
	"context"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
)

// AutoComputeFunc computes dep and merges its output at enrichedPath into
// the dataset, returning the refreshed merged schema. Supplied by C9 (the
// enrichment writer), which is the only caller allowed to create new signal
// shards as a side effect of a read.
type AutoComputeFunc func(ctx context.Context, dep Signal, enrichedPath schema.Path) (*schema.Schema, error)

// ResolveDependencies implements spec.md §4.6: for each of sig's
// dependencies, the merged schema must already contain a child named
// dep.Key() under enrichedPath. On a write path (autoCompute != nil),
// a missing dependency is computed recursively; on a read path, it is
// rejected with MissingDependency.
func ResolveDependencies(ctx context.Context, merged *schema.Schema, enrichedPath schema.Path, sig Signal, autoCompute AutoComputeFunc) (*schema.Schema, error) {
	for _, dep := range sig.Dependencies() {
		childPath := enrichedPath.Append(dep.Key())
		field, err := merged.GetField(childPath)
		if err == nil && dependencySatisfied(field, dep) {
			continue
		}
		if autoCompute == nil {
			return nil, lilacerr.MissingDependency(dep.Key(), childPath.String())
		}
		refreshed, err := autoCompute(ctx, dep, enrichedPath)
		if err != nil {
			return nil, err
		}
		merged = refreshed
	}
	return merged, nil
}

// dependencySatisfied checks the one dtype constraint spec.md §4.6 states
// explicitly: an embedding dependency's child must carry the embedding
// dtype. Other dependency kinds (e.g. a splitter's repeated-span output)
// only need to exist.
func dependencySatisfied(field *schema.Field, dep Signal) bool {
	if dep.ComputeType() != TypeTextEmbedding {
		return true
	}
	for field.Dtype == schema.DTypeList && field.RepeatedField != nil {
		field = field.RepeatedField
	}
	return field.Dtype == schema.DTypeEmbedding
}
