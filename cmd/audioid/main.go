// Command audioid recognizes acoustic events from a live microphone or a
// recorded WAV file against a table of learned spectral templates,
// emitting hear/e:start/e:cont/e:end events, or (with --learn) folding
// windows into the templates of whichever ground-truth interval is
// currently active.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/danielgjackson/audioid/internal/audiosrc"
	"github.com/danielgjackson/audioid/internal/clock"
	"github.com/danielgjackson/audioid/internal/config"
	"github.com/danielgjackson/audioid/internal/fingerprint"
	"github.com/danielgjackson/audioid/internal/interval"
	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/labelfile"
	"github.com/danielgjackson/audioid/internal/pipeline"
	"github.com/danielgjackson/audioid/internal/statefile"
	"github.com/danielgjackson/audioid/internal/visualize"
)

// readChunkSamples is the largest number of samples main requests from the
// source per Source.Read call. In file mode the SampleClock advances once
// per chunk read; in live mode the WallClock is independent of chunking.
const readChunkSamples = 4096

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	table := label.NewTable(cfg.BucketCount)

	list := &interval.List{}
	hasLabelFile := cfg.LabelFile != ""
	if hasLabelFile {
		errs, warnings, err := labelfile.Load(cfg.LabelFile, table, list)
		if err != nil {
			return fmt.Errorf("loading label file: %w", err)
		}
		if errs > 0 {
			logger.Warn("skipped malformed label-file lines", "count", errs)
		}
		for _, w := range warnings {
			logger.Warn("label-file diagnostic", "interval", w.Index, "message", w.Message)
		}
	}

	// --events loads first so afterevent references resolve against
	// already-known labels, then --state (SPEC_FULL.md §9).
	for _, f := range []string{cfg.EventsFile, cfg.StateFile} {
		if f == "" {
			continue
		}
		errs, err := statefile.Load(f, table)
		if err != nil {
			return fmt.Errorf("loading state file %s: %w", f, err)
		}
		if errs > 0 {
			logger.Warn("skipped malformed state-file lines", "file", f, "count", errs)
		}
	}

	var source audiosrc.Source
	var timeSource clock.Clock
	if cfg.InputFile != "" {
		f, err := audiosrc.NewFileSource(cfg.InputFile, cfg.SampleRate)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		source = f
		timeSource = &clock.SampleClock{SampleRate: cfg.SampleRate}
	} else {
		l, err := audiosrc.NewLiveSource(cfg.SampleRate)
		if err != nil {
			return fmt.Errorf("opening capture device: %w", err)
		}
		source = l
		timeSource = clock.NewWallClock()
	}
	defer source.Close()

	bucketing := fingerprint.LogBuckets
	if cfg.Linear {
		bucketing = fingerprint.LinearBuckets
	}

	p := pipeline.New(pipeline.Config{
		WindowSize:  cfg.WindowSize,
		BucketCount: cfg.BucketCount,
		CycleCount:  cfg.CycleCount,
		Overlap:     cfg.Overlap,
		Bucketing:   bucketing,
	}, table, timeSource, logger)

	var vizTracker *interval.Tracker
	if hasLabelFile {
		vizTracker = interval.NewTracker(list)
	}

	if cfg.Learn {
		p.EnableLearning(interval.NewTracker(list))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	var program *tea.Program
	var progDone chan struct{}
	if cfg.Visualize != config.VisualizeOff {
		model := visualize.New(table, cfg.Visualize == config.VisualizeReduced)
		program = tea.NewProgram(model)
		progDone = make(chan struct{})
		go func() {
			defer close(progDone)
			if _, err := program.Run(); err != nil {
				logger.Error("visualizer exited", "err", err)
			}
			cancel()
		}()
	}

	emit := func(tk pipeline.Tick) {
		if program != nil {
			reduced := cfg.Visualize == config.VisualizeReduced
			cyclePhase := p.Ring().Cycle()

			inLabelledRegion := false
			if vizTracker != nil {
				current, _, _ := vizTracker.Advance(tk.Time)
				if current != nil {
					if l := table.Get(current.Label); l != nil && l.Group != "silence" {
						inLabelledRegion = true
					}
				}
			}

			if visualize.ShouldEmit(reduced, cyclePhase, hasLabelFile, inLabelledRegion) {
				program.Send(visualize.TickMsg{Tick: tk, Magnitude: p.Fingerprint().Magnitude()})
			}
			return
		}

		for _, ev := range tk.Events {
			fmt.Println(ev.String(table))
		}
	}

	buf := make([]int16, readChunkSamples)
readLoop:
	for {
		select {
		case <-ctx.Done():
			break readLoop
		default:
		}

		n, err := source.Read(buf)
		if n > 0 {
			p.Process(buf[:n], emit)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading audio: %w", err)
		}
	}

	if program != nil {
		program.Quit()
		<-progDone
	}

	if cfg.WriteStateFile != "" {
		if err := statefile.Save(cfg.WriteStateFile, table); err != nil {
			return fmt.Errorf("writing state file: %w", err)
		}
	}

	return nil
}
