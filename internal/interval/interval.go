// Package interval tracks ground-truth label intervals and a pointer into
// them as the pipeline clock advances (spec.md §4.5).
package interval

import "github.com/danielgjackson/audioid/internal/label"

// Interval is one ground-truth labelled time span.
type Interval struct {
	Label label.ID
	Start float64
	End   float64
}

// Warning describes a non-fatal diagnostic found while adding an
// interval (spec.md §7, Diagnostic-warning): overlap with the previous
// interval, or an inverted (end < start) interval.
type Warning struct {
	Index   int
	Message string
}

// List holds ground-truth intervals in time order, read-only once the
// Tracker starts consuming them (spec.md §3).
type List struct {
	items []Interval
}

// Add appends a new interval, returning any diagnostic warnings produced
// (overlap or inversion are logged, not rejected, per spec.md §7/§6).
func (l *List) Add(id label.ID, start, end float64) []Warning {
	var warnings []Warning
	idx := len(l.items)
	if idx > 0 && start < l.items[idx-1].End {
		warnings = append(warnings, Warning{
			Index:   idx,
			Message: "starts before the previous interval ends -- intervals must not overlap",
		})
	}
	if end < start {
		warnings = append(warnings, Warning{
			Index:   idx,
			Message: "ends before it starts -- does not form a valid interval",
		})
	}
	l.items = append(l.items, Interval{Label: id, Start: start, End: end})
	return warnings
}

// Len returns the number of intervals.
func (l *List) Len() int {
	return len(l.items)
}

// At returns the interval at index i.
func (l *List) At(i int) Interval {
	return l.items[i]
}

// Tracker maintains a pointer into an ordered interval List, advancing it
// as the pipeline's clock moves forward, and reporting the interval (if
// any) containing the current time (spec.md §4.5).
type Tracker struct {
	list    *List
	next    int
	current *Interval
}

// NewTracker returns a Tracker over list, starting before the first
// interval.
func NewTracker(list *List) *Tracker {
	return &Tracker{list: list}
}

// Advance moves the tracker to time `now`, returning the current interval
// (nil if now falls between intervals), and whether this call entered or
// exited an interval (for diagnostic logging).
func (tr *Tracker) Advance(now float64) (current *Interval, entered, exited bool) {
	for tr.next < tr.list.Len() {
		iv := tr.list.At(tr.next)
		if now < iv.Start {
			break
		}
		if now < iv.End {
			current = &iv
			break
		}
		tr.next++
	}

	entered = current != nil && tr.current == nil
	exited = current == nil && tr.current != nil
	if current == nil {
		tr.current = nil
	} else {
		c := *current
		tr.current = &c
	}
	return current, entered, exited
}

// NextIndex returns the index of the next (or current) interval the
// tracker has not yet passed, for diagnostic reporting.
func (tr *Tracker) NextIndex() int {
	return tr.next
}
