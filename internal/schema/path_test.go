package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStringSplitsOnDots(t *testing.T) {
	assert.Equal(t, Path{"a", "b", "c"}, NormalizeString("a.b.c"))
	assert.Equal(t, Path{"text", PathValueKey}, NormalizeString("text.__value__"))
}

func TestNormalizeStringHonorsQuotedParts(t *testing.T) {
	assert.Equal(t, Path{"a.b", "c"}, NormalizeString(`"a.b".c`))
}

func TestTrimSuffixPartsDropsWildcardAndValueKey(t *testing.T) {
	p := Path{"a", PathWildcard, "b", PathValueKey}
	assert.Equal(t, Path{"a", PathWildcard, "b"}, p.TrimSuffixParts())

	allSuffix := Path{PathWildcard, PathValueKey}
	assert.Equal(t, Path{}, allSuffix.TrimSuffixParts())
}

func TestPathMatches(t *testing.T) {
	assert.True(t, Matches(Path{"a", PathWildcard, "b"}, Path{"a", PathWildcard, "b"}))
	assert.False(t, Matches(Path{"a", "c"}, Path{"a", "b"}))
	assert.False(t, Matches(Path{"a"}, Path{"a", "b"}))
}

func TestGetFieldWalksStructsListsAndValueKey(t *testing.T) {
	leaf := NewLeafField(DTypeString)
	enriched := NewStructField(NewFieldMap())
	enriched.Fields.Set(PathValueKey, leaf)
	list := NewListField(enriched)
	fields := NewFieldMap()
	fields.Set("text", list)
	sc := NewSchema(fields)

	got, err := sc.GetField(Path{"text", PathWildcard, PathValueKey})
	assert.NoError(t, err)
	assert.Same(t, leaf, got)

	_, err = sc.GetField(Path{"text", "missing"})
	assert.Error(t, err)
}
