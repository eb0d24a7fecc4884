package recognize

import (
	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/stats"
)

// Match is one window's nearest-template result (spec.md §4.4).
type Match struct {
	Label    label.ID // Unknown if no label qualified within its limit
	Distance float64
}

// Recognizer performs nearest-template matching against a label.Table,
// projects the match to its group, folds the group into a Modal filter,
// and drives a DetectorState to emit events (spec.md §4.4).
type Recognizer struct {
	table    *label.Table
	distance DistanceFunc
	modal    *Modal
	state    *DetectorState
}

// NewRecognizer constructs a Recognizer over table using distance as the
// matching metric, with a modal filter sized from cycleCount (the
// fingerprint ring's depth, spec.md §4.2/§4.4).
func NewRecognizer(table *label.Table, distance DistanceFunc, cycleCount int) *Recognizer {
	return &Recognizer{
		table:    table,
		distance: distance,
		modal:    NewModal(cycleCount),
		state:    NewDetectorState(),
	}
}

// Nearest finds the label with the minimum scaled distance to input among
// labels whose scaled distance is within their configured limit (spec.md
// §4.4). Returns Match{Unknown, 0} if no label qualifies.
func (r *Recognizer) Nearest(input []stats.Running) Match {
	best := Unknown
	bestDistance := 0.0
	for _, l := range r.table.All() {
		raw := r.distance(input, r.table.Buckets(l.ID))
		scaled := l.Scale * raw
		withinLimit := l.Limit < 0 || scaled <= l.Limit
		if withinLimit && (best == Unknown || scaled < bestDistance) {
			best = l.ID
			bestDistance = scaled
		}
	}
	return Match{Label: best, Distance: bestDistance}
}

// Group returns the matching group for a nearest-template match, Unknown
// if match.Label is Unknown.
func (r *Recognizer) Group(match Match) label.ID {
	if match.Label == Unknown {
		return Unknown
	}
	if l := r.table.Get(match.Label); l != nil {
		return l.MatchingGroup
	}
	return Unknown
}

// Process advances the recognizer by one window at time now: nearest-
// template matching, group projection, modal voting, and the event state
// machine, returning the raw match and any events produced this tick.
func (r *Recognizer) Process(now float64, input []stats.Running) (Match, []Event) {
	match := r.Nearest(input)
	hypothesis := r.modal.Add(r.Group(match))
	events := r.state.Advance(r.table, now, hypothesis)
	return match, events
}
