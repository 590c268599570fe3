package signal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
)

// lenSignal is a minimal TextComputer used only by this test file: it
// reports the length of each input, per the S1/S2 fixtures in spec.md §7.
type lenSignal struct {
	key  string
	deps []signal.Signal
}

func (s *lenSignal) Name() string                { return "test_len" }
func (s *lenSignal) DisplayName() string         { return "Test Len" }
func (s *lenSignal) InputType() signal.InputType { return signal.TypeText }
func (s *lenSignal) ComputeType() signal.InputType { return signal.TypeText }
func (s *lenSignal) Fields() *schema.Field        { return schema.NewLeafField(schema.DTypeInt32) }
func (s *lenSignal) Key() string                  { return s.key }
func (s *lenSignal) Params() map[string]any       { return map[string]any{} }
func (s *lenSignal) Dependencies() []signal.Signal { return s.deps }

func (s *lenSignal) Compute(ctx context.Context, inputs []signal.RichData) ([]*item.Item, error) {
	out := make([]*item.Item, len(inputs))
	for i, in := range inputs {
		v := item.Item{schema.PathValueKey: int32(len(in.Text))}
		out[i] = &v
	}
	return out, nil
}

func init() {
	signal.Register("test_len", func(params map[string]any, deps []signal.Signal) (signal.Signal, error) {
		return &lenSignal{key: signal.DefaultKey("test_len", params), deps: deps}, nil
	})
}

func TestRegisteredSignalConstructsThroughNew(t *testing.T) {
	assert.True(t, signal.Registered("test_len"))
	sig, err := signal.New("test_len", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "test_len()", sig.Key())
}

func TestNewRejectsUnknownSignal(t *testing.T) {
	_, err := signal.New("does_not_exist", nil)
	assert.Error(t, err)
}

func TestResolveDependenciesRejectsMissingOnReadPath(t *testing.T) {
	dep := &lenSignal{key: "test_len()"}
	sig := &lenSignal{key: "test_outer()", deps: []signal.Signal{dep}}

	merged := schema.NewSchema(schema.NewFieldMap())
	_, err := signal.ResolveDependencies(context.Background(), merged, schema.Path{"text"}, sig, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, lilacerr.ErrMissingDependency)
}

func TestResolveDependenciesAutoComputesOnWritePath(t *testing.T) {
	dep := &lenSignal{key: "test_len()"}
	sig := &lenSignal{key: "test_outer()", deps: []signal.Signal{dep}}

	merged := schema.NewSchema(schema.NewFieldMap())
	called := false
	autoCompute := func(ctx context.Context, d signal.Signal, enrichedPath schema.Path) (*schema.Schema, error) {
		called = true
		fields := schema.NewFieldMap()
		fields.Set(d.Key(), schema.NewLeafField(schema.DTypeInt32))
		updated := schema.NewSchema(fields)
		return updated, nil
	}

	out, err := signal.ResolveDependencies(context.Background(), merged, schema.Path{}, sig, autoCompute)
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, out.ContainsPath(schema.Path{"test_len()"}))
}
