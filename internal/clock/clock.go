// Package clock provides the pipeline's time-source capability, so that
// the core processing code never branches on whether its input is a file
// or a live capture device (spec.md §9, "Time source polymorphism").
package clock

import "time"

// Clock reports the current time, in seconds, in whatever frame of
// reference the pipeline was configured with.
type Clock interface {
	Now() float64
}

// SampleClock derives time from the count of audio samples processed so
// far, for file-mode (or any non-realtime) playback: now = totalSamples /
// sampleRate.
type SampleClock struct {
	SampleRate int
	total      uint64
}

// Advance accounts for n additional samples having been processed.
func (c *SampleClock) Advance(n int) {
	c.total += uint64(n)
}

// Now implements Clock.
func (c *SampleClock) Now() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.total) / float64(c.SampleRate)
}

// WallClock uses the monotonic wall-clock time since it was created, for
// live-capture mode.
type WallClock struct {
	start time.Time
}

// NewWallClock returns a WallClock whose Now() starts at 0.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now implements Clock.
func (c *WallClock) Now() float64 {
	return time.Since(c.start).Seconds()
}
