// Package fingerprint implements the overlapped-window FFT spectral
// fingerprint extractor: a Hamming-windowed real FFT over a sliding block
// of PCM samples, summarized into a small number of log- (or linear-)
// spaced magnitude buckets per window (spec.md §4.1).
package fingerprint

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// HammingWeight is the window-function weight used by the original
// AudioId program (25/46), see spec.md §4.1.
const HammingWeight = 25.0 / 46.0

// DefaultOverlap is the fraction of a window shared with the next block:
// 2 means half-overlap, <=1 means no overlap.
const DefaultOverlap = 2

// BucketFunc summarizes a magnitude spectrum into bucketCount buckets.
// Exposed as a selectable strategy (spec.md §9, "Distance metric
// polymorphism" applies equally here) rather than a compile-time switch;
// LogBuckets is the default, LinearBuckets is the documented fallback.
type BucketFunc func(magnitude []float64, bucketCount int) []float64

// LogBuckets maps bucket i to FFT bin range [floor(i^s), floor((i+1)^s))
// where s = ln(R)/ln(B), R = len(magnitude), B = bucketCount. Each
// bucket's value is the mean magnitude over its range; empty ranges are 0.
func LogBuckets(magnitude []float64, bucketCount int) []float64 {
	out := make([]float64, bucketCount)
	r := len(magnitude)
	if r == 0 || bucketCount == 0 {
		return out
	}
	s := math.Log(float64(r)) / math.Log(float64(bucketCount))
	for i := 0; i < bucketCount; i++ {
		start := int(math.Floor(math.Pow(float64(i), s)))
		end := int(math.Floor(math.Pow(float64(i+1), s)))
		out[i] = meanRange(magnitude, start, end)
	}
	return out
}

// LinearBuckets divides [0,R) into bucketCount equal spans. Kept as the
// documented fallback strategy (spec.md §4.1).
func LinearBuckets(magnitude []float64, bucketCount int) []float64 {
	out := make([]float64, bucketCount)
	r := len(magnitude)
	if r == 0 || bucketCount == 0 {
		return out
	}
	for i := 0; i < bucketCount; i++ {
		start := i * r / bucketCount
		end := (i + 1) * r / bucketCount
		out[i] = meanRange(magnitude, start, end)
	}
	return out
}

func meanRange(magnitude []float64, start, end int) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(magnitude) {
		end = len(magnitude)
	}
	if end <= start {
		return 0
	}
	sum := 0.0
	for i := start; i < end; i++ {
		sum += magnitude[i]
	}
	return sum / float64(end-start)
}

// Fingerprint accumulates PCM samples into overlapped analysis windows,
// producing one bucket vector per filled window (spec.md §3).
type Fingerprint struct {
	windowSize  int
	bucketCount int
	overlap     int
	buckets     BucketFunc

	sampleBuffer []float64 // accumulating normalized samples, len windowSize
	sampleOffset int       // write head into sampleBuffer

	weighted []float64        // window-weighted samples, reused each window
	fft      *fourier.FFT      // real-input DFT for windowSize samples
	coeffs   []complex128      // scratch for FFT output, len windowSize/2+1
	magnitude []float64        // len windowSize/2+1
	bucketOut []float64        // len bucketCount, valid iff ready()
}

// New constructs a Fingerprint extractor. windowSize must be a power of
// two (spec.md §3); bucketFunc may be nil to use LogBuckets.
func New(windowSize, bucketCount, overlap int, bucketFunc BucketFunc) *Fingerprint {
	if bucketFunc == nil {
		bucketFunc = LogBuckets
	}
	countResults := windowSize/2 + 1
	return &Fingerprint{
		windowSize:   windowSize,
		bucketCount:  bucketCount,
		overlap:      overlap,
		buckets:      bucketFunc,
		sampleBuffer: make([]float64, windowSize),
		weighted:     make([]float64, windowSize),
		fft:          fourier.NewFFT(windowSize),
		coeffs:       make([]complex128, countResults),
		magnitude:    make([]float64, countResults),
		bucketOut:    make([]float64, bucketCount),
	}
}

// WindowSize returns the configured FFT window size in samples.
func (f *Fingerprint) WindowSize() int { return f.windowSize }

// BucketCount returns the configured number of summary buckets.
func (f *Fingerprint) BucketCount() int { return f.bucketCount }

func (f *Fingerprint) ready() bool {
	return f.sampleOffset >= f.windowSize
}

// AddSamples feeds PCM into the window buffer, returning the number of
// samples consumed in this call (may be less than len(samples); the
// caller loops). An empty call never restarts the buffer (spec.md §4.1).
func (f *Fingerprint) AddSamples(samples []int16) int {
	if len(samples) == 0 {
		return 0
	}

	if f.ready() {
		if f.overlap > 1 {
			offset := f.windowSize / f.overlap
			length := f.windowSize - offset
			copy(f.sampleBuffer[0:length], f.sampleBuffer[offset:offset+length])
			f.sampleOffset = length
		} else {
			f.sampleOffset = 0
		}
	}

	remaining := f.windowSize - f.sampleOffset
	used := len(samples)
	if used > remaining {
		used = remaining
	}
	for i := 0; i < used; i++ {
		f.sampleBuffer[f.sampleOffset+i] = float64(samples[i]) / 32768
	}
	f.sampleOffset += used

	if f.ready() && used > 0 {
		f.computeWindow()
	}
	return used
}

func (f *Fingerprint) computeWindow() {
	n := f.windowSize
	for i := 0; i < n; i++ {
		weight := HammingWeight - (1-HammingWeight)*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		f.weighted[i] = weight * f.sampleBuffer[i]
	}

	f.coeffs = f.fft.Coefficients(f.coeffs, f.weighted)
	for i, c := range f.coeffs {
		f.magnitude[i] = cmplx.Abs(c)
	}

	f.bucketOut = f.buckets(f.magnitude, f.bucketCount)
}

// Magnitude returns the latest window's FFT magnitude spectrum, or nil if
// a full window has not yet been accumulated.
func (f *Fingerprint) Magnitude() []float64 {
	if !f.ready() {
		return nil
	}
	return f.magnitude
}

// Buckets returns the latest window's bucketed magnitudes, or nil if a
// full window has not yet been accumulated (spec.md §8).
func (f *Fingerprint) Buckets() []float64 {
	if !f.ready() {
		return nil
	}
	return f.bucketOut
}
