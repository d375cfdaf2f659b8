package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagVocabulary(t *testing.T) {
	t.Parallel()

	labels := Tags()
	require.Len(t, labels, 17)
	assert.Equal(t, "test", labels[0])
	assert.Equal(t, "music", labels[4])
	assert.Equal(t, "rain", labels[16])

	// Every label must round trip through its ordinal
	for i, label := range labels {
		ordinal, ok := TagOrdinal(label)
		require.True(t, ok, "Label %q should be in the vocabulary", label)
		assert.Equal(t, i, ordinal)

		back, ok := TagLabel(ordinal)
		require.True(t, ok)
		assert.Equal(t, label, back)
	}
}

func TestTagLookupMisses(t *testing.T) {
	t.Parallel()

	_, ok := TagOrdinal("spaceship")
	assert.False(t, ok)

	_, ok = TagLabel(-1)
	assert.False(t, ok)
	_, ok = TagLabel(len(Tags()))
	assert.False(t, ok)
}

func TestTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	labels := Tags()
	labels[0] = "mutated"
	assert.Equal(t, "test", Tags()[0], "Mutating the returned slice must not affect the vocabulary")
}

func TestStandardBands(t *testing.T) {
	t.Parallel()

	bands := StandardBands()
	assert.Equal(t, []int{125, 250, 500, 1000, 2000, 4000, 8000, 16000}, bands)

	bands[0] = 0
	assert.Equal(t, 125, StandardBands()[0], "Mutating the returned slice must not affect the catalog")
}
