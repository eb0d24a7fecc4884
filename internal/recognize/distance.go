// Package recognize implements nearest-template matching, the modal
// filter, and the event-emitting state machine (spec.md §4.4).
package recognize

import (
	"math"

	"github.com/danielgjackson/audioid/internal/stats"
)

// DistanceFunc computes a distance between a live bucket-stats vector and
// a learned template's bucket-stats vector. Exposed as a selectable
// strategy per spec.md §9 ("Distance metric polymorphism"): the original
// C source ships four metrics behind a compile-time `#if`, all but one
// disabled. L1Mean is the default; the rest exist for completeness.
type DistanceFunc func(input, template []stats.Running) float64

// L1Mean is the default distance: the mean of |mean(input[i]) -
// mean(template[i])| over all buckets (spec.md §4.4).
func L1Mean(input, template []stats.Running) float64 {
	n := min(len(input), len(template))
	if n == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += math.Abs(input[i].Mean() - template[i].Mean())
	}
	return total / float64(n)
}

// CosineDistance returns 1 - cosine similarity between the two mean
// vectors. Kept for completeness (original_source's first `#if 0`
// branch); not reachable from the CLI by default.
func CosineDistance(input, template []stats.Running) float64 {
	n := min(len(input), len(template))
	var sumAB, sumAA, sumBB float64
	for i := 0; i < n; i++ {
		a := template[i].Mean()
		b := input[i].Mean()
		sumAB += a * b
		sumAA += a * a
		sumBB += b * b
	}
	divisor := math.Sqrt(sumAA) * math.Sqrt(sumBB)
	if divisor < 0.00001 {
		return 1.0
	}
	return 1.0 - sumAB/divisor
}

// NormalizedL2 returns the mean normalized Euclidean distance between the
// two mean vectors, each scaled by its own L2 norm first. Kept for
// completeness (original_source's third `#if 0` branch).
func NormalizedL2(input, template []stats.Running) float64 {
	n := min(len(input), len(template))
	if n == 0 {
		return 0
	}
	var sumAA, sumBB float64
	for i := 0; i < n; i++ {
		a := template[i].Mean()
		b := input[i].Mean()
		sumAA += a * a
		sumBB += b * b
	}
	normA := math.Max(0.001, math.Sqrt(sumAA))
	normB := math.Max(0.001, math.Sqrt(sumBB))
	total := 0.0
	for i := 0; i < n; i++ {
		a := template[i].Mean() / normA
		b := input[i].Mean() / normB
		total += math.Abs(b - a)
	}
	return total / float64(n)
}

// ZScoreDistance sums |z| across buckets where z is the difference in
// means divided by the pooled standard error of each side's sample mean.
// Kept for completeness (original_source's second `#if 0` branch).
func ZScoreDistance(input, template []stats.Running) float64 {
	n := min(len(input), len(template))
	total := 0.0
	for i := 0; i < n; i++ {
		a := &template[i]
		b := &input[i]
		sigmaA := 0.0
		if a.Count() > 0 {
			sigmaA = math.Sqrt(a.Variance()) / math.Sqrt(float64(a.Count()))
		}
		sigmaB := 0.0
		if b.Count() > 0 {
			sigmaB = math.Sqrt(b.Variance()) / math.Sqrt(float64(b.Count()))
		}
		divisor := math.Sqrt(sigmaA*sigmaA + sigmaB*sigmaB)
		if divisor <= 0 {
			divisor = 1
		}
		z := (a.Mean() - b.Mean()) / divisor
		total += math.Abs(z)
	}
	return total
}
