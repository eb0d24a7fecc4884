// Package config parses AudioId's command-line surface (spec.md §6),
// using github.com/spf13/pflag (the flag library
// doismellburning-samoyed's direwolf CLI uses, cmd/direwolf/main.go) for
// its GNU-style long names, since `--visualize:reduced` needs embedded
// punctuation that the standard flag package's identifier rules forbid.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// VisualizeMode selects the terminal visualizer's render mode (spec.md §6.1).
type VisualizeMode int

const (
	// VisualizeOff disables the terminal visualizer.
	VisualizeOff VisualizeMode = iota
	// VisualizeFull renders every processed window.
	VisualizeFull
	// VisualizeReduced renders only at cycle phase 0, and (when ground
	// truth is loaded) only over non-silence labelled regions.
	VisualizeReduced
)

// Config holds AudioId's resolved command-line configuration.
type Config struct {
	InputFile string // empty ⇒ live capture

	LabelFile  string
	StateFile  string
	EventsFile string

	WriteStateFile string

	Learn bool

	Visualize VisualizeMode

	SampleRate  int
	WindowSize  int
	BucketCount int
	CycleCount  int
	Overlap     int
	Linear      bool // use linear bucketing instead of the default log bucketing

	Verbose bool
}

// defaults returns a Config populated with AudioId's runtime defaults
// (spec.md §3: windowSize typical 2048, bucketCount typical 128-256,
// cycleCount typical 8).
func defaults() *Config {
	return &Config{
		SampleRate:  16000,
		WindowSize:  2048,
		BucketCount: 128,
		CycleCount:  8,
		Overlap:     2,
	}
}

// Parse parses args into a Config, per spec.md §6's CLI surface: a
// positional input file (omitted ⇒ live capture), --labels,
// --state/--events, --write-state, --learn, --visualize /
// --visualize:reduced, --help, --verbose (supplemented from
// original_source/src/main.c's audioid->verbose field).
func Parse(args []string) (*Config, error) {
	cfg := defaults()

	fs := pflag.NewFlagSet("audioid", pflag.ContinueOnError)

	labelFile := fs.String("labels", "", "ground-truth interval file (tab-separated start/end/label)")
	stateFile := fs.String("state", "", "state file to load templates and per-label config from")
	eventsFile := fs.String("events", "", "state file to load first, so afterevent references resolve (spec.md §9)")
	writeState := fs.String("write-state", "", "state file to save learned templates to on exit")
	learn := fs.Bool("learn", false, "learn mode: accumulate template statistics instead of recognizing")
	visualizeFull := fs.Bool("visualize", false, "render every window in the terminal visualizer")
	visualizeReduced := fs.Bool("visualize:reduced", false, "render only at cycle phase 0, over non-silence labelled regions")
	sampleRate := fs.Int("sample-rate", cfg.SampleRate, "PCM sample rate, Hz")
	windowSize := fs.Int("window-size", cfg.WindowSize, "FFT analysis window size, samples (power of two)")
	bucketCount := fs.Int("bucket-count", cfg.BucketCount, "number of log-spaced summary buckets")
	cycleCount := fs.Int("cycle-count", cfg.CycleCount, "cyclic stats ring depth")
	overlap := fs.Int("overlap", cfg.Overlap, "window overlap divisor (2 = half-overlap)")
	linear := fs.Bool("linear-buckets", false, "use linear instead of log-spaced bucketing")
	verbose := fs.BoolP("verbose", "v", false, "raise diagnostic logging to debug level")
	help := fs.BoolP("help", "h", false, "show usage and exit")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: audioid [flags] [input.wav]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *help {
		fs.Usage()
		os.Exit(0)
	}

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("config: unexpected arguments: %v", fs.Args()[1:])
	}
	if fs.NArg() == 1 {
		cfg.InputFile = fs.Arg(0)
	}

	cfg.LabelFile = *labelFile
	cfg.StateFile = *stateFile
	cfg.EventsFile = *eventsFile
	cfg.WriteStateFile = *writeState
	cfg.Learn = *learn
	cfg.SampleRate = *sampleRate
	cfg.WindowSize = *windowSize
	cfg.BucketCount = *bucketCount
	cfg.CycleCount = *cycleCount
	cfg.Overlap = *overlap
	cfg.Linear = *linear
	cfg.Verbose = *verbose

	switch {
	case *visualizeReduced:
		cfg.Visualize = VisualizeReduced
	case *visualizeFull:
		cfg.Visualize = VisualizeFull
	default:
		cfg.Visualize = VisualizeOff
	}

	return cfg, cfg.validate()
}

// validate checks flag combinations a wrong configuration could never
// recover from at runtime (spec.md §7: fatal at configuration time, not
// in the core pipeline).
func (c *Config) validate() error {
	if c.WindowSize <= 0 || c.BucketCount <= 0 || c.CycleCount <= 0 || c.Overlap <= 0 {
		return fmt.Errorf("config: window-size, bucket-count, cycle-count and overlap must all be positive")
	}
	if c.Learn && c.LabelFile == "" {
		return fmt.Errorf("config: --learn requires --labels")
	}
	return nil
}
