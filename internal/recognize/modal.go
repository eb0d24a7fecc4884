package recognize

import (
	"math"
	"sort"

	"github.com/danielgjackson/audioid/internal/label"
)

// Unknown is the modal filter and state machine's placeholder for "no
// group selected" (spec.md §3, DetectorState.lastState = UNKNOWN).
const Unknown = label.NoID

// ModalSize computes MODAL_SIZE = ceil(1.5 * cycleCount) (spec.md §4.4),
// e.g. 12 for a cycleCount of 8.
func ModalSize(cycleCount int) int {
	return int(math.Ceil(1.5 * float64(cycleCount)))
}

// Modal is a fixed-size ring of the most recent group hypotheses (or
// Unknown), used to vote a stable hypothesis by plurality (spec.md §4.4).
// The ring is pre-filled with Unknown so it is always fully populated,
// satisfying spec.md §8's invariant that per-group counts plus the
// unknown count always equal MODAL_SIZE.
type Modal struct {
	size    int
	history []label.ID
	pos     int
}

// NewModal constructs a Modal filter sized from cycleCount.
func NewModal(cycleCount int) *Modal {
	size := ModalSize(cycleCount)
	history := make([]label.ID, size)
	for i := range history {
		history[i] = Unknown
	}
	return &Modal{size: size, history: history}
}

// Size returns MODAL_SIZE.
func (m *Modal) Size() int {
	return m.size
}

// Add records group as the latest hypothesis and returns the plurality
// vote over the whole ring.
func (m *Modal) Add(group label.ID) label.ID {
	m.history[m.pos] = group
	m.pos = (m.pos + 1) % m.size
	return m.Hypothesis()
}

// Counts returns a snapshot of the current per-group occurrence counts,
// for tests asserting the MODAL_SIZE population invariant (spec.md §8).
func (m *Modal) Counts() map[label.ID]int {
	counts := make(map[label.ID]int, m.size)
	for _, g := range m.history {
		counts[g]++
	}
	return counts
}

// Hypothesis returns the group with a plurality of occurrences in the
// ring. Ties are broken by earliest group id, with Unknown ordered last
// so a real group always wins a tie against Unknown (spec.md §4.4:
// "Tie-break: earliest group id wins").
func (m *Modal) Hypothesis() label.ID {
	counts := m.Counts()

	ids := make([]label.ID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i] == Unknown {
			return false
		}
		if ids[j] == Unknown {
			return true
		}
		return ids[i] < ids[j]
	})

	best := Unknown
	bestCount := -1
	for _, id := range ids {
		if counts[id] > bestCount {
			bestCount = counts[id]
			best = id
		}
	}
	return best
}
