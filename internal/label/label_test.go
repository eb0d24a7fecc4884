package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgjackson/audioid/internal/label"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	table := label.NewTable(4)
	id1, err := table.GetOrCreate("bark/loud")
	require.NoError(t, err)
	id2, err := table.GetOrCreate("bark/loud")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, table.Len())
}

func TestGroupDerivation(t *testing.T) {
	table := label.NewTable(4)
	id, err := table.GetOrCreate("?bark/loud")
	require.NoError(t, err)
	assert.Equal(t, "bark", table.Get(id).Group)

	id2, err := table.GetOrCreate("silence")
	require.NoError(t, err)
	assert.Equal(t, "silence", table.Get(id2).Group)
}

// TestMatchingGroupIsSmallestSharingID checks spec.md §8: for any label,
// matchingGroup is the smallest label id sharing its group string.
func TestMatchingGroupIsSmallestSharingID(t *testing.T) {
	table := label.NewTable(4)
	loud, err := table.GetOrCreate("bark/loud")
	require.NoError(t, err)
	soft, err := table.GetOrCreate("bark/soft")
	require.NoError(t, err)
	other, err := table.GetOrCreate("purr")
	require.NoError(t, err)

	assert.Equal(t, loud, table.Get(loud).MatchingGroup)
	assert.Equal(t, loud, table.Get(soft).MatchingGroup)
	assert.Equal(t, other, table.Get(other).MatchingGroup)
}

func TestDefaults(t *testing.T) {
	table := label.NewTable(4)
	id, err := table.GetOrCreate("x")
	require.NoError(t, err)
	l := table.Get(id)
	assert.Equal(t, 1.0, l.Scale)
	assert.Equal(t, -1.0, l.Limit)
	assert.Equal(t, -1.0, l.MinDuration)
	assert.Equal(t, -1.0, l.LastFinished)
	assert.Equal(t, label.NoID, l.AfterEvent)
}

func TestMaxLabelsEnforced(t *testing.T) {
	table := label.NewTable(1)
	for i := 0; i < label.MaxLabels; i++ {
		_, err := table.GetOrCreate(string(rune('a' + i%26)) + "-" + string(rune('0'+i%10)))
		require.NoError(t, err)
	}
	_, err := table.GetOrCreate("one-too-many")
	assert.Error(t, err)
}
