// Package ingest holds the decoder helpers a caller uses to turn raw input
// into the map[string]any shape internal/rowstore writes as a source
// shard. Concrete source connectors (CSV, Hugging Face, etc.) are out of
// scope (spec.md §1 Non-goals); this package only covers the reusable
// decode step, adapted from the teacher's reader/input.go.
package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	json "github.com/goccy/go-json"
	"github.com/hamba/avro/v2"
)

var (
	ErrUndefinedInput = errors.New("nil input")
	ErrInvalidInput   = errors.New("invalid input")
)

// Row decodes a, one input datum, to map[string]any. a may be a JSON string
// or []byte, an already-decoded map[string]any, or any other Go value
// mapstructure can walk (struct, map of a different value type, etc).
func Row(a any) (map[string]any, error) {
	switch input := a.(type) {
	case nil:
		return nil, ErrUndefinedInput
	case map[string]any:
		return input, nil
	case []byte:
		return decodeJSON(input)
	case string:
		return decodeJSON([]byte(input))
	default:
		m := map[string]any{}
		if err := mapstructure.Decode(a, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return m, nil
	}
}

func decodeJSON(data []byte) (map[string]any, error) {
	m := map[string]any{}
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return m, nil
}

// ParseAvroSchema parses an Avro schema definition (JSON text) once, for
// reuse across every AvroRow call on the same stream.
func ParseAvroSchema(schemaJSON string) (avro.Schema, error) {
	sc, err := avro.Parse(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return sc, nil
}

// AvroRow decodes one Avro-framed record against sc to map[string]any,
// for streaming enrichment input sources that arrive Avro-encoded rather
// than JSON (spec.md's core scope is row storage and querying, not
// ingestion transports, but the teacher already carries an Avro
// dependency and the decode step is equally reusable here).
func AvroRow(sc avro.Schema, data []byte) (map[string]any, error) {
	m := map[string]any{}
	if err := avro.Unmarshal(sc, data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return m, nil
}
