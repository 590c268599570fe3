package ingest_test

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/lilac/internal/ingest"
)

func TestRowDecodesJSONBytesAndStrings(t *testing.T) {
	row, err := ingest.Row([]byte(`{"text":"hello","count":3}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", row["text"])

	row, err = ingest.Row(`{"text":"world"}`)
	require.NoError(t, err)
	assert.Equal(t, "world", row["text"])
}

func TestRowPassesThroughExistingMap(t *testing.T) {
	in := map[string]any{"a": 1}
	row, err := ingest.Row(in)
	require.NoError(t, err)
	assert.Equal(t, in, row)
}

func TestRowRejectsNilInput(t *testing.T) {
	_, err := ingest.Row(nil)
	assert.ErrorIs(t, err, ingest.ErrUndefinedInput)
}

func TestRowRejectsMalformedJSON(t *testing.T) {
	_, err := ingest.Row([]byte(`{not json`))
	assert.ErrorIs(t, err, ingest.ErrInvalidInput)
}

func TestAvroRowRoundTripsSimpleRecord(t *testing.T) {
	sc, err := ingest.ParseAvroSchema(`{
		"type": "record",
		"name": "Row",
		"fields": [
			{"name": "text", "type": "string"},
			{"name": "count", "type": "int"}
		]
	}`)
	require.NoError(t, err)

	type fixture struct {
		Text  string `avro:"text"`
		Count int32  `avro:"count"`
	}
	encoded, err := avro.Marshal(sc, fixture{Text: "hi", Count: 2})
	require.NoError(t, err)

	row, err := ingest.AvroRow(sc, encoded)
	require.NoError(t, err)
	assert.Equal(t, "hi", row["text"])
}
