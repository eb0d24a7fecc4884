package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielgjackson/audioid/internal/interval"
	"github.com/danielgjackson/audioid/internal/label"
)

func TestAddWarnsOnOverlap(t *testing.T) {
	var list interval.List
	assert.Empty(t, list.Add(0, 0, 1))
	assert.NotEmpty(t, list.Add(0, 0.5, 2)) // starts before the previous interval ends
}

func TestAddWarnsOnInvertedInterval(t *testing.T) {
	var list interval.List
	warnings := list.Add(0, 5, 2) // end before start
	assert.NotEmpty(t, warnings)
}

func TestTrackerAdvanceEntersAndExits(t *testing.T) {
	var list interval.List
	list.Add(label.ID(0), 1.0, 2.0)
	list.Add(label.ID(1), 3.0, 4.0)

	tr := interval.NewTracker(&list)

	cur, entered, exited := tr.Advance(0.5)
	assert.Nil(t, cur)
	assert.False(t, entered)
	assert.False(t, exited)

	cur, entered, exited = tr.Advance(1.5)
	assert.NotNil(t, cur)
	assert.True(t, entered)
	assert.False(t, exited)
	assert.Equal(t, label.ID(0), cur.Label)

	cur, entered, exited = tr.Advance(2.5)
	assert.Nil(t, cur)
	assert.False(t, entered)
	assert.True(t, exited)

	cur, _, _ = tr.Advance(3.5)
	assert.NotNil(t, cur)
	assert.Equal(t, label.ID(1), cur.Label)
}
