package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompoundKeyRoundTripsThroughParseKey(t *testing.T) {
	k := NewKey("row-1", 3, 12)
	parsed, err := ParseKey(k.String())
	assert.NoError(t, err)
	assert.Equal(t, k, parsed)
	assert.Equal(t, "row-1", parsed.RowID())
}

func TestCompoundKeyHasPrefix(t *testing.T) {
	k := NewKey("row-1", 3)
	assert.True(t, k.HasPrefix(NewKey("row-1")))
	assert.False(t, k.HasPrefix(NewKey("row-2")))
	assert.False(t, k.HasPrefix(NewKey("row-1", 3, 0)))
}

func TestParseKeyRejectsMalformedInput(t *testing.T) {
	_, err := ParseKey("x9:short")
	assert.Error(t, err)
}
