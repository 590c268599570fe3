package enrich_test

import (
	"context"
	"os"
	"path/filepath"
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

// lenSignal reports the byte length of its text input; it has no
// dependencies and produces no embeddings, exercising the common dense-
// signal path through ComputeSignal.
type lenSignal struct{}

func (lenSignal) Name() string                 { return "test_len" }
func (lenSignal) DisplayName() string          { return "Test Len" }
func (lenSignal) InputType() signal.InputType  { return signal.TypeText }
func (lenSignal) ComputeType() signal.InputType { return signal.TypeText }
func (lenSignal) Fields() *schema.Field        { return schema.NewLeafField(schema.DTypeInt32) }
func (lenSignal) Key() string                  { return "test_len()" }
func (lenSignal) Params() map[string]any       { return map[string]any{} }
func (lenSignal) Dependencies() []signal.Signal { return nil }

func (lenSignal) Compute(ctx context.Context, inputs []signal.RichData) ([]*item.Item, error) {
	out := make([]*item.Item, len(inputs))
	for i, in := range inputs {
		v := item.Item{schema.PathValueKey: int32(len(in.Text))}
		out[i] = &v
	}
	return out, nil
}

// noStores implements executor.VectorStores for signals that never touch
// the vector store.
type noStores struct{}

func (noStores) Store(schema.Path) (*vectorstore.Store, error) { return nil, nil }

func TestComputeSignalWritesShardAndMergesIntoView(t *testing.T) {
	dir := t.TempDir()
	fields := schema.NewFieldMap()
	fields.Set(schema.RowIDColumn, schema.NewLeafField(schema.DTypeString))
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)

	rows := []item.Item{{"text": "hi"}, {"text": "hello"}}
	require.NoError(t, rowstore.WriteSource(dir, sc, rows, "data-00000-of-00001.parquet"))

	view, err := signalmanifest.Build(dir)
	require.NoError(t, err)

	err = enrich.ComputeSignal(context.Background(), dir, view, noStores{}, lenSignal{}, schema.Path{"text"}, nil)
	require.NoError(t, err)

	assert.True(t, view.Schema().ContainsPath(schema.Path{"text", "test_len()"}))
	assert.True(t, view.Schema().ContainsPath(schema.Path{"text", schema.PathValueKey}))

	_, err = os.Stat(filepath.Join(dir, "text", "test_len()", "signal_manifest.json"))
	assert.NoError(t, err)

	for _, row := range view.Rows() {
		v, ok := item.Get(row, schema.Path{"text", "test_len()"})
		require.True(t, ok)
		assert.NotNil(t, v)
	}
}
