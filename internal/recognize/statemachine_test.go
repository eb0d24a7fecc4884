package recognize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/recognize"
)

func TestDetectorStateHearOncePerReportInterval(t *testing.T) {
	table := label.NewTable(1)
	a, err := table.GetOrCreate("a")
	require.NoError(t, err)

	ds := recognize.NewDetectorState()

	events := ds.Advance(table, 0.0, a)
	require.Len(t, events, 1)
	assert.Equal(t, recognize.Hear, events[0].Kind)

	events = ds.Advance(table, 0.5, a)
	assert.Empty(t, events)

	events = ds.Advance(table, 1.0, a)
	require.Len(t, events, 1)
	assert.Equal(t, recognize.Hear, events[0].Kind)
	assert.InDelta(t, 1.0, events[0].Duration, 1e-9)
}

func TestDetectorStateLatchesAfterMinDuration(t *testing.T) {
	table := label.NewTable(1)
	a, err := table.GetOrCreate("a")
	require.NoError(t, err)
	table.Get(a).MinDuration = 0.5

	ds := recognize.NewDetectorState()
	ds.Advance(table, 0.0, a)
	events := ds.Advance(table, 0.3, a)
	for _, e := range events {
		assert.NotEqual(t, recognize.EStart, e.Kind)
	}

	events = ds.Advance(table, 0.5, a)
	require.NotEmpty(t, events)
	assert.Equal(t, recognize.EStart, events[len(events)-1].Kind)
}

func TestDetectorStateEmitsEndOnStateChangeFromLatched(t *testing.T) {
	table := label.NewTable(1)
	a, err := table.GetOrCreate("a")
	require.NoError(t, err)
	table.Get(a).MinDuration = 0

	ds := recognize.NewDetectorState()
	ds.Advance(table, 0.0, a) // latches immediately, minDuration 0
	events := ds.Advance(table, 1.0, recognize.Unknown)
	require.NotEmpty(t, events)
	assert.Equal(t, recognize.EEnd, events[0].Kind)
	assert.InDelta(t, 1.0, table.Get(a).LastFinished, 1e-9)
}

// TestDetectorStateAfterEventGating implements spec.md §8 scenario 4's
// positive case: reply shortly after call ends latches.
func TestDetectorStateAfterEventGating(t *testing.T) {
	table := label.NewTable(1)
	call, err := table.GetOrCreate("call")
	require.NoError(t, err)
	table.Get(call).MinDuration = 0

	reply, err := table.GetOrCreate("reply")
	require.NoError(t, err)
	table.Get(reply).MinDuration = 0.5
	table.Get(reply).AfterEvent = call
	table.Get(reply).WithinInterval = 2.0

	ds := recognize.NewDetectorState()
	ds.Advance(table, 0.0, call)
	events := ds.Advance(table, 0.2, recognize.Unknown) // call ends at t=0.2
	require.NotEmpty(t, events)
	assert.Equal(t, recognize.EEnd, events[0].Kind)
	assert.InDelta(t, 0.2, table.Get(call).LastFinished, 1e-9)

	ds.Advance(table, 1.2, reply)
	events = ds.Advance(table, 1.7, reply) // duration 0.5, now 1.7 <= 0.2+2.0+0.5
	found := false
	for _, e := range events {
		if e.Kind == recognize.EStart {
			found = true
		}
	}
	assert.True(t, found, "expected e:start for reply within the gating window")
}

// TestDetectorStateAfterEventGatingRejectsTooLate mirrors spec.md §8
// scenario 4's negative case: reply 3.0s after call end must not latch.
func TestDetectorStateAfterEventGatingRejectsTooLate(t *testing.T) {
	table := label.NewTable(1)
	call, err := table.GetOrCreate("call")
	require.NoError(t, err)
	table.Get(call).MinDuration = 0

	reply, err := table.GetOrCreate("reply")
	require.NoError(t, err)
	table.Get(reply).MinDuration = 0.5
	table.Get(reply).AfterEvent = call
	table.Get(reply).WithinInterval = 2.0

	ds := recognize.NewDetectorState()
	ds.Advance(table, 0.0, call)
	ds.Advance(table, 0.2, recognize.Unknown) // call ends at t=0.2

	ds.Advance(table, 3.2, reply)
	events := ds.Advance(table, 3.7, reply) // duration 0.5, now 3.7 > 0.2+2.0+0.5
	for _, e := range events {
		assert.NotEqual(t, recognize.EStart, e.Kind)
	}
}
