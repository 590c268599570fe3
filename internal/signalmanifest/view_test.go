package signalmanifest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/enrich"
	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/rowstore"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
	"github.com/loicalleyne/lilac/internal/signalmanifest"
	"github.com/loicalleyne/lilac/internal/vectorstore"
)

// embedSignal emits a fixed-size embedding for every text input, exercising
// the embedding-sidecar path through enrich.ComputeSignal.
type embedSignal struct{}

func (embedSignal) Name() string                  { return "test_embed" }
func (embedSignal) DisplayName() string           { return "Test Embed" }
func (embedSignal) InputType() signal.InputType   { return signal.TypeText }
func (embedSignal) ComputeType() signal.InputType { return signal.TypeTextEmbedding }
func (embedSignal) Fields() *schema.Field         { return schema.NewLeafField(schema.DTypeEmbedding) }
func (embedSignal) Key() string                   { return "test_embed()" }
func (embedSignal) Params() map[string]any        { return map[string]any{} }
func (embedSignal) Dependencies() []signal.Signal { return nil }

func (embedSignal) Compute(ctx context.Context, inputs []signal.RichData) ([]*item.Item, error) {
	out := make([]*item.Item, len(inputs))
	for i := range inputs {
		v := item.Item{schema.PathValueKey: []float32{1, 0}}
		out[i] = &v
	}
	return out, nil
}

type noStores struct{}

func (noStores) Store(schema.Path) (*vectorstore.Store, error) { return nil, nil }

func TestBuildMergesSourceOnlyWhenNoSignalsPresent(t *testing.T) {
	dir := t.TempDir()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)
	rows := []item.Item{{"text": "a"}, {"text": "b"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	view, err := signalmanifest.Build(dir)
	require.NoError(t, err)
	assert.Len(t, view.Rows(), 2)
	assert.True(t, view.Schema().ContainsPath(schema.Path{"text"}))

	_, _, ok := view.EmbeddingShard(schema.Path{"text"})
	assert.False(t, ok)
}

func TestEmbeddingShardResolvesAfterComputeSignal(t *testing.T) {
	dir := t.TempDir()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)
	rows := []item.Item{{"text": "hi"}, {"text": "hello"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	view, err := signalmanifest.Build(dir)
	require.NoError(t, err)

	require.NoError(t, enrich.ComputeSignal(context.Background(), dir, view, noStores{}, embedSignal{}, schema.Path{"text"}, nil))

	sigDir, filename, ok := view.EmbeddingShard(schema.Path{"text"})
	assert.True(t, ok)
	assert.NotEmpty(t, filename)
	assert.NotEmpty(t, sigDir)
}

func TestRowByKeyFindsAndRejectsMissingRows(t *testing.T) {
	dir := t.TempDir()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)
	rows := []item.Item{{schema.RowIDColumn: "r1", "text": "a"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	view, err := signalmanifest.Build(dir)
	require.NoError(t, err)

	row, err := view.RowByKey("r1")
	require.NoError(t, err)
	assert.Equal(t, "a", row["text"])

	_, err = view.RowByKey("missing")
	assert.Error(t, err)
}
