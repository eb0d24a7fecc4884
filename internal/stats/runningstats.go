// Package stats provides an online (Welford-style) running mean/variance
// accumulator for a scalar stream.
package stats

// Running is a numerically stable online accumulator of count, mean and
// sum-of-squared-deviations for a scalar stream, informed by the approach
// described at https://www.johndcook.com/blog/standard_deviation/.
type Running struct {
	count  uint32
	mean   float64
	sumVar float64 // sum of squared deviations from the running mean
}

// Add folds x into the running statistics.
func (r *Running) Add(x float64) {
	r.count++
	if r.count == 1 {
		r.mean = x
		r.sumVar = 0
		return
	}
	newMean := r.mean + (x-r.mean)/float64(r.count)
	r.sumVar += (x - r.mean) * (x - newMean)
	r.mean = newMean
}

// Clear resets the accumulator to its zero state (count 0).
func (r *Running) Clear() {
	*r = Running{}
}

// Count returns the number of values folded in.
func (r *Running) Count() uint32 {
	return r.count
}

// Mean returns the running mean, or 0 if no values have been added.
func (r *Running) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.mean
}

// Variance returns the sample variance (sumVar / (n-1)), or 0 for n<=1.
func (r *Running) Variance() float64 {
	if r.count <= 1 {
		return 0
	}
	return r.sumVar / float64(r.count-1)
}

// SumVar returns the raw sum of squared deviations backing Variance.
func (r *Running) SumVar() float64 {
	return r.sumVar
}

// SetRaw restores an accumulator from previously persisted fields, as used
// when loading a state file (see package statefile).
func (r *Running) SetRaw(count uint32, mean, sumVar float64) {
	r.count = count
	r.mean = mean
	r.sumVar = sumVar
}
