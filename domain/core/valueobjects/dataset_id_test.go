package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatasetID(t *testing.T) {
	id := NewDatasetID()
	require.False(t, id.IsZero())

	// Minted IDs must survive the same validation catalog IDs go through.
	parsed, err := NewDatasetIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, id.Equals(parsed))

	assert.NotEqual(t, NewDatasetID().String(), NewDatasetID().String())
}

func TestNewDatasetIDFromString(t *testing.T) {
	t.Run("accepts slugs and uuids", func(t *testing.T) {
		for _, raw := range []string{"hospital-admissions", "c71d84a5-4bbf-4e14-8d6e-0d1c9f4f7a11"} {
			id, err := NewDatasetIDFromString(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, id.String())
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		id, err := NewDatasetIDFromString("  census-2021  ")
		require.NoError(t, err)
		assert.Equal(t, "census-2021", id.String())
	})

	t.Run("rejects empty and internal whitespace", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "two words", "tab\tseparated"} {
			_, err := NewDatasetIDFromString(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})
}
