package fingerprint

import "github.com/danielgjackson/audioid/internal/stats"

// Ring is the cyclic running-statistics accumulator that smooths a
// per-window bucket vector over a trailing window of cycleCount
// fingerprints (spec.md §4.2). Every ring slot is a parallel set of
// per-bucket stats.Running accumulators, phase-offset from the others by
// when it was last reset.
type Ring struct {
	bucketCount int
	cycleCount  int
	slots       [][]stats.Running // cycleCount x bucketCount
	cycle       int
}

// NewRing constructs a Ring with the given bucket and cycle counts. A
// cycleCount of 1 degenerates the ring into a single slot that is cleared
// on every Accumulate, so it holds only the latest window.
func NewRing(bucketCount, cycleCount int) *Ring {
	r := &Ring{
		bucketCount: bucketCount,
		cycleCount:  cycleCount,
		slots:       make([][]stats.Running, cycleCount),
	}
	for i := range r.slots {
		r.slots[i] = make([]stats.Running, bucketCount)
	}
	return r
}

// resetSlot clears all per-bucket stats in the given slot.
func (r *Ring) resetSlot(slot int) {
	for i := range r.slots[slot] {
		r.slots[slot][i].Clear()
	}
}

// Accumulate folds one window's bucket vector into the ring: the oldest
// slot (the current `cycle`) is reset, the cycle is advanced, and buckets
// are added into every slot (spec.md §4.2).
func (r *Ring) Accumulate(buckets []float64) {
	r.resetSlot(r.cycle)
	r.cycle = (r.cycle + 1) % r.cycleCount
	for j := 0; j < r.cycleCount; j++ {
		for i := 0; i < r.bucketCount && i < len(buckets); i++ {
			r.slots[j][i].Add(buckets[i])
		}
	}
}

// Stats returns the slot at the current cycle: the one that will be reset
// next, so it holds the last min(windows, cycleCount) bucket vectors --
// the smoothest short-term view of the bucket vector.
func (r *Ring) Stats() []stats.Running {
	return r.slots[r.cycle]
}

// Slot returns the raw per-bucket stats for ring slot i, for tests and
// diagnostics that need to inspect the whole ring rather than just the
// current phase.
func (r *Ring) Slot(i int) []stats.Running {
	return r.slots[i]
}

// Cycle returns the index of the slot Stats() currently returns. The
// visualizer uses Cycle()==0 as the "start of a new phase" tick for
// reduced-output mode (spec.md §6.1).
func (r *Ring) Cycle() int {
	return r.cycle
}

// CycleCount returns the configured ring depth.
func (r *Ring) CycleCount() int {
	return r.cycleCount
}
