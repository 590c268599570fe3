package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/item"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/stats"
)

func TestComputeCountsAndAverageTextLength(t *testing.T) {
	fields := schema.NewFieldMap()
	fields.Set("text", schema.NewLeafField(schema.DTypeString))
	sc := schema.NewSchema(fields)

	rows := []item.Item{{"text": "ab"}, {"text": "abcd"}, {"text": nil}}
	res, err := stats.Compute(rows, sc, schema.Path{"text"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 3.0, res.AvgTextLength)
}

func TestComputeTracksMinMaxForOrdinalDtype(t *testing.T) {
	fields := schema.NewFieldMap()
	fields.Set("score", schema.NewLeafField(schema.DTypeFloat64))
	sc := schema.NewSchema(fields)

	rows := []item.Item{{"score": 3.0}, {"score": 1.0}, {"score": 9.0}}
	res, err := stats.Compute(rows, sc, schema.Path{"score"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.MinVal)
	assert.Equal(t, 9.0, res.MaxVal)
}
