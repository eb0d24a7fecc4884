package recognize

import (
	"fmt"

	"github.com/danielgjackson/audioid/internal/label"
)

// ReportMaxInterval is the minimum spacing between repeated hear/e:cont
// reports for a persisting state (spec.md §4.4).
const ReportMaxInterval = 1.0

// EventKind enumerates the four event record kinds (spec.md §4.4).
type EventKind string

const (
	Hear   EventKind = "hear"
	EStart EventKind = "e:start"
	ECont  EventKind = "e:cont"
	EEnd   EventKind = "e:end"
)

// Event is one emitted, tab-separated event record (spec.md §4.4).
type Event struct {
	Time     float64
	Kind     EventKind
	Group    label.ID // Unknown renders as "-"
	Duration float64
}

// String renders e as spec.md §4.4's tab-separated record:
// time\tkind\tgroup\tduration.
func (e Event) String(table *label.Table) string {
	name := "-"
	if e.Group != Unknown {
		if l := table.Get(e.Group); l != nil {
			name = l.Group
		}
	}
	return fmt.Sprintf("%f\t%s\t%s\t%f", e.Time, e.Kind, name, e.Duration)
}

// DetectorState is the recognizer's observable event state machine
// (spec.md §3, §4.4): one state per group plus Unknown, transitioning on
// modal-filter hypothesis changes and gating discrete events behind
// minDuration/afterEvent latching.
type DetectorState struct {
	lastState       label.ID // group id, or Unknown
	stateChangeTime float64
	lastReport      float64
	hasReport       bool // spec.md §9: explicit flag instead of overloading lastReport==0 as "just changed"
	latched         bool
}

// NewDetectorState returns a DetectorState starting in the Unknown state.
func NewDetectorState() *DetectorState {
	return &DetectorState{lastState: Unknown}
}

// Advance feeds one window's modal hypothesis through the state machine
// at time now, returning the (zero, one, or two) events produced this
// tick. A state change can produce both an e:end for the outgoing latched
// state and a hear/e:start for the incoming one on the same tick.
func (d *DetectorState) Advance(table *label.Table, now float64, hypothesis label.ID) []Event {
	var events []Event

	if hypothesis != d.lastState {
		if d.latched {
			duration := now - d.stateChangeTime
			if l := table.Get(d.lastState); l != nil {
				l.LastFinished = now
			}
			events = append(events, Event{Time: now, Kind: EEnd, Group: d.lastState, Duration: duration})
			d.latched = false
		}
		d.lastState = hypothesis
		d.stateChangeTime = now
		d.hasReport = false
	}

	duration := now - d.stateChangeTime

	started := false
	if !d.latched && hypothesis != Unknown {
		if l := table.Get(hypothesis); l != nil && l.MinDuration >= 0 && duration >= l.MinDuration {
			gateOK := true
			if l.AfterEvent != label.NoID {
				after := table.Get(l.AfterEvent)
				gateOK = after != nil && after.LastFinished >= 0 && now <= after.LastFinished+l.WithinInterval+duration
			}
			if gateOK {
				d.latched = true
				d.lastReport = now
				d.hasReport = true
				events = append(events, Event{Time: now, Kind: EStart, Group: hypothesis, Duration: duration})
				started = true
			}
		}
	}

	if !started && (!d.hasReport || now-d.lastReport >= ReportMaxInterval) {
		kind := Hear
		if d.latched {
			kind = ECont
		}
		events = append(events, Event{Time: now, Kind: kind, Group: hypothesis, Duration: duration})
		d.lastReport = now
		d.hasReport = true
	}

	return events
}
