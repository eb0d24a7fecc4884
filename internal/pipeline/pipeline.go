// Package pipeline wires the framer/fingerprinter, cyclic stats ring,
// template learner and recognizer into the single synchronous
// signal-to-event pipeline described by spec.md §2.
package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/danielgjackson/audioid/internal/clock"
	"github.com/danielgjackson/audioid/internal/fingerprint"
	"github.com/danielgjackson/audioid/internal/interval"
	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/learn"
	"github.com/danielgjackson/audioid/internal/recognize"
)

// advancer is implemented by clock.SampleClock: file-mode time is derived
// from total samples processed, so Process feeds it the chunk size
// before deriving `now`, mirroring
// original_source/src/audioid.c AudioIdProcess's
// `audioid->totalSamples += sampleCount` (line 630). A type assertion,
// not a concrete-type branch, keeps the pipeline from ever asking "is
// this a file" (spec.md §9).
type advancer interface {
	Advance(n int)
}

// Config bundles the fingerprint/ring construction parameters.
type Config struct {
	WindowSize  int
	BucketCount int
	CycleCount  int
	Overlap     int
	Bucketing   fingerprint.BucketFunc // nil ⇒ fingerprint.LogBuckets
}

// Tick reports what one produced analysis window did: the time it was
// produced at, its nearest-template match (recognize mode only, zero
// value otherwise), and any events the state machine emitted.
type Tick struct {
	Time   float64
	Match  recognize.Match
	Events []recognize.Event
}

// Pipeline is the single-threaded, synchronous core: its Process method
// must only ever be called from one goroutine at a time (spec.md §5).
type Pipeline struct {
	fp    *fingerprint.Fingerprint
	ring  *fingerprint.Ring
	clock clock.Clock
	table *label.Table
	log   *log.Logger

	learnMode  bool
	learner    *learn.Learner
	recognizer *recognize.Recognizer
}

// New constructs a Pipeline in recognize mode over table, using c as the
// time source. Call EnableLearning to switch to learn mode instead.
func New(cfg Config, table *label.Table, c clock.Clock, logger *log.Logger) *Pipeline {
	return &Pipeline{
		fp:         fingerprint.New(cfg.WindowSize, cfg.BucketCount, cfg.Overlap, cfg.Bucketing),
		ring:       fingerprint.NewRing(cfg.BucketCount, cfg.CycleCount),
		clock:      c,
		table:      table,
		log:        logger,
		recognizer: recognize.NewRecognizer(table, recognize.L1Mean, cfg.CycleCount),
	}
}

// EnableLearning switches the pipeline into learn mode: every produced
// window's raw buckets are accumulated into whichever label tracker's
// ground-truth intervals say is currently active (spec.md §4.3), instead
// of being recognized.
func (p *Pipeline) EnableLearning(tracker *interval.Tracker) {
	p.learnMode = true
	p.learner = learn.NewLearner(p.table, tracker, p.log)
}

// Process feeds samples into the pipeline, looping internally until
// every sample is consumed, fully processing each produced window
// (learn or recognize, then report) before accepting the next (spec.md
// §5's strict ordering guarantee). emit is called once per window
// produced in recognize mode.
func (p *Pipeline) Process(samples []int16, emit func(Tick)) {
	if a, ok := p.clock.(advancer); ok {
		a.Advance(len(samples))
	}

	offset := 0
	for offset < len(samples) {
		offset += p.fp.AddSamples(samples[offset:])
		buckets := p.fp.Buckets()
		if buckets == nil {
			continue
		}

		now := p.clock.Now()

		if p.learnMode {
			p.learner.Process(now, buckets)
			continue
		}

		p.ring.Accumulate(buckets)
		match, events := p.recognizer.Process(now, p.ring.Stats())
		if emit != nil {
			emit(Tick{Time: now, Match: match, Events: events})
		}
	}
}

// Fingerprint exposes the underlying fingerprint extractor, for a
// visualizer that wants the raw magnitude spectrum alongside Ticks.
func (p *Pipeline) Fingerprint() *fingerprint.Fingerprint {
	return p.fp
}

// Ring exposes the underlying cyclic stats ring.
func (p *Pipeline) Ring() *fingerprint.Ring {
	return p.ring
}
