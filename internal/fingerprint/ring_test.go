package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/danielgjackson/audioid/internal/fingerprint"
)

// TestRingPopulationInvariant checks the ring's population bookkeeping:
// every window is added to every slot, and each Accumulate first clears
// the slot at the current cycle. After k windows the per-bucket count
// summed across slots is k(k+1)/2 + (cycleCount-k)*k while k < cycleCount,
// and cycleCount(cycleCount+1)/2 from then on.
func TestRingPopulationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bucketCount := rapid.IntRange(1, 8).Draw(t, "bucketCount")
		cycleCount := rapid.IntRange(1, 8).Draw(t, "cycleCount")
		windows := rapid.IntRange(0, 40).Draw(t, "windows")

		ring := fingerprint.NewRing(bucketCount, cycleCount)
		buckets := make([]float64, bucketCount)
		for i := range buckets {
			buckets[i] = float64(i + 1)
		}

		for w := 0; w < windows; w++ {
			ring.Accumulate(buckets)
		}

		want := cycleCount * (cycleCount + 1) / 2
		if windows < cycleCount {
			want = windows*(windows+1)/2 + (cycleCount-windows)*windows
		}

		for bucket := 0; bucket < bucketCount; bucket++ {
			total := uint32(0)
			for cycle := 0; cycle < cycleCount; cycle++ {
				total += ring.Slot(cycle)[bucket].Count()
			}
			if uint32(want) != total {
				t.Fatalf("bucket %d: want count %d, got %d", bucket, want, total)
			}
		}
	})
}

// TestRingDegenerateSingleCycleHoldsLatestWindow checks that cycleCount=1
// keeps no history: each Accumulate clears the only slot before adding,
// so Stats holds just the latest window's raw bucket values.
func TestRingDegenerateSingleCycleHoldsLatestWindow(t *testing.T) {
	ring := fingerprint.NewRing(2, 1)
	ring.Accumulate([]float64{2, 4})
	ring.Accumulate([]float64{4, 8})
	ring.Accumulate([]float64{6, 12})

	got := ring.Stats()
	assert.InDelta(t, 6.0, got[0].Mean(), 1e-9)
	assert.InDelta(t, 12.0, got[1].Mean(), 1e-9)
	assert.Equal(t, uint32(1), got[0].Count())
}

func TestRingCycleAdvancesModulo(t *testing.T) {
	ring := fingerprint.NewRing(1, 3)
	assert.Equal(t, 0, ring.Cycle())
	ring.Accumulate([]float64{1})
	assert.Equal(t, 1, ring.Cycle())
	ring.Accumulate([]float64{1})
	assert.Equal(t, 2, ring.Cycle())
	ring.Accumulate([]float64{1})
	assert.Equal(t, 0, ring.Cycle())
}
