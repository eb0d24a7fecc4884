// Package label holds the per-label recognition configuration: learned
// template statistics, matching group, scale/limit and latching gating
// (spec.md §3).
//
// Labels are consolidated into one owning Table keyed by a dense ID, with
// a secondary text->ID hash — spec.md §9 flags the original C program's
// parallel-realloc'd-array approach as a re-architecture smell to avoid.
package label

import (
	"fmt"
	"strings"

	"github.com/danielgjackson/audioid/internal/stats"
)

// ID identifies a Label within a Table. IDs are assigned densely starting
// at 0, so the zero value is the first label's ID; NoID marks "no label".
type ID int

// NoID represents "no label" (spec.md's UNKNOWN / closestLabel < 0).
const NoID ID = -1

// MaxLabels is the source's limit on the number of distinct labels
// (spec.md §7, "Resource-exhausted").
const MaxLabels = 64

// Label is one learned acoustic category.
type Label struct {
	ID   ID
	Text string // raw label string, e.g. "?bark/loud"
	Group string // text with leading '?'/'!' flag and "/..." suffix removed

	Scale       float64 // default 1.0
	Limit       float64 // default -1 (disabled)
	MinDuration float64 // default -1 (latching disabled)

	AfterEvent     ID      // NoID if unset
	WithinInterval float64 // gating window, seconds

	LastFinished float64 // -1 = never

	MatchingGroup ID // id of the earliest label sharing Group
}

// Table owns every Label, keyed by dense ID, plus bucketed template
// statistics per label (kept out of Label itself so Table can size them
// uniformly to bucketCount at construction).
type Table struct {
	bucketCount int
	labels      []*Label
	byText      map[string]ID
	groupOwner  map[string]ID // first label id seen for each group string
	buckets     [][]stats.Running
}

// NewTable constructs an empty label table sized for bucketCount buckets
// per template.
func NewTable(bucketCount int) *Table {
	return &Table{
		bucketCount: bucketCount,
		byText:      make(map[string]ID),
		groupOwner:  make(map[string]ID),
	}
}

// deriveGroup computes the group for a label's raw text: the substring up
// to the first '/', with a leading '?' or '!' flag stripped. Computed once
// at insert time, never re-derived from the text later (spec.md §9).
func deriveGroup(text string) string {
	t := text
	if len(t) > 0 && (t[0] == '?' || t[0] == '!') {
		t = t[1:]
	}
	if i := strings.IndexByte(t, '/'); i >= 0 {
		t = t[:i]
	}
	return t
}

// GetOrCreate returns the ID for text, creating a new Label (with default
// scale=1.0, limit=-1, minDuration=-1, lastFinished=-1) if it doesn't
// already exist. Returns an error if the table is already at MaxLabels
// (spec.md §7, Resource-exhausted).
func (t *Table) GetOrCreate(text string) (ID, error) {
	if id, ok := t.byText[text]; ok {
		return id, nil
	}
	if len(t.labels) >= MaxLabels {
		return NoID, fmt.Errorf("label table: cannot add %q, limit of %d labels reached", text, MaxLabels)
	}

	id := ID(len(t.labels))
	group := deriveGroup(text)
	matching, ok := t.groupOwner[group]
	if !ok {
		matching = id
		t.groupOwner[group] = id
	}

	l := &Label{
		ID:            id,
		Text:          text,
		Group:         group,
		Scale:         1.0,
		Limit:         -1.0,
		MinDuration:   -1.0,
		AfterEvent:    NoID,
		LastFinished:  -1.0,
		MatchingGroup: matching,
	}
	t.labels = append(t.labels, l)
	t.byText[text] = id
	t.buckets = append(t.buckets, make([]stats.Running, t.bucketCount))
	return id, nil
}

// Lookup returns the ID for text and whether it exists, without creating
// it.
func (t *Table) Lookup(text string) (ID, bool) {
	id, ok := t.byText[text]
	return id, ok
}

// Get returns the Label for id, or nil if out of range.
func (t *Table) Get(id ID) *Label {
	if id < 0 || int(id) >= len(t.labels) {
		return nil
	}
	return t.labels[id]
}

// Buckets returns the per-bucket template statistics for id.
func (t *Table) Buckets(id ID) []stats.Running {
	if id < 0 || int(id) >= len(t.buckets) {
		return nil
	}
	return t.buckets[id]
}

// Len returns the number of labels in the table.
func (t *Table) Len() int {
	return len(t.labels)
}

// All returns every label in insertion (ID) order.
func (t *Table) All() []*Label {
	return t.labels
}

// BucketCount returns the configured per-template bucket count.
func (t *Table) BucketCount() int {
	return t.bucketCount
}
