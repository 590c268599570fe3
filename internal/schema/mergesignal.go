package schema

import "github.com/loicalleyne/lilac/internal/lilacerr"

// MergeSignal folds one signal's output schema into dst at enrichedPath,
// implementing the leaf-with-enrichment reshape (spec.md §3) at the schema
// level: dst's field at enrichedPath is replaced by
// EnrichLeaf(original, signalKey, signalFields, desc). signalSchema is the
// signal's own per-shard schema (source nesting down to enrichedPath, with
// signalKey hanging off the bottom); desc describes the signal that produced
// it.
//
// Unlike Merge, MergeSignal does not require dst and signalSchema to agree
// on the dtype at enrichedPath — reshaping a leaf into
// {__value__, signalKey: ...} is exactly the point.
func MergeSignal(dst *Schema, signalSchema *Schema, enrichedPath Path, desc *SignalDescriptor) error {
	original, err := dst.GetField(enrichedPath)
	if err != nil {
		return err
	}
	signalFields, err := signalSchema.GetField(enrichedPath.Append(desc.Key))
	if err != nil {
		return lilacerr.SchemaMismatch(enrichedPath.String(), "signal schema missing key %q at enriched path", desc.Key)
	}
	enriched := EnrichLeaf(original, desc.Key, signalFields, desc)
	return ReplaceField(dst, enrichedPath, enriched)
}
