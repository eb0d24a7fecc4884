// Package learn implements the template learner: accumulating a label's
// raw per-window bucket values while a ground-truth interval is active
// (spec.md §4.3).
package learn

import (
	"github.com/charmbracelet/log"

	"github.com/danielgjackson/audioid/internal/interval"
	"github.com/danielgjackson/audioid/internal/label"
)

// Learner folds each produced fingerprint into the active interval's
// label template, and logs interval enter/exit transitions to the
// diagnostic stream (supplemented from
// original_source/src/audioid.c AudioIdProcess, lines 660-681).
type Learner struct {
	table   *label.Table
	tracker *interval.Tracker
	log     *log.Logger
}

// NewLearner constructs a Learner over table, driven by tracker.
func NewLearner(table *label.Table, tracker *interval.Tracker, logger *log.Logger) *Learner {
	return &Learner{table: table, tracker: tracker, log: logger}
}

// Process advances the interval tracker to now and, if now falls inside a
// ground-truth interval, adds buckets[i] into that interval's label's
// template stats for every bucket i.
func (l *Learner) Process(now float64, buckets []float64) {
	current, entered, exited := l.tracker.Advance(now)

	if exited {
		l.log.Debug("interval ended")
	}
	if entered {
		name := "?"
		if lbl := l.table.Get(current.Label); lbl != nil {
			name = lbl.Text
		}
		l.log.Debugf("interval #%d (%.2f-%.2f): %s", l.tracker.NextIndex(), current.Start, current.End, name)
	}

	if current == nil {
		return
	}

	template := l.table.Buckets(current.Label)
	for i := range template {
		if i >= len(buckets) {
			break
		}
		template[i].Add(buckets[i])
	}
}
