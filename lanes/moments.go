package lanes

import (
	"github.com/xor-shift/lanerand/common"
)

// Moments accumulates a running count, mean, variance, and extrema without
// holding onto the samples themselves.
type Moments struct {
	N   int64
	Min float64
	Max float64

	mean float64
	m2   float64
}

func (moments *Moments) Push(v float64) {
	moments.N++

	if moments.N == 1 {
		moments.Min = v
		moments.Max = v
	} else {
		if v < moments.Min {
			moments.Min = v
		}

		if v > moments.Max {
			moments.Max = v
		}
	}

	delta := v - moments.mean
	moments.mean += delta / float64(moments.N)
	moments.m2 += delta * (v - moments.mean)
}

func (moments *Moments) Mean() float64 {
	return moments.mean
}

func (moments *Moments) Variance() float64 {
	if moments.N == 0 {
		return 0
	}

	return moments.m2 / float64(moments.N)
}

// Merge folds another accumulator into this one. The combined result is the
// same as if every sample had been pushed into a single accumulator.
// https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Parallel_algorithm
func (moments *Moments) Merge(other Moments) {
	if other.N == 0 {
		return
	}

	if moments.N == 0 {
		*moments = other
		return
	}

	n := moments.N + other.N
	delta := other.mean - moments.mean

	moments.m2 += other.m2 + delta*delta*float64(moments.N)*float64(other.N)/float64(n)
	moments.mean += delta * float64(other.N) / float64(n)
	moments.N = n

	if other.Min < moments.Min {
		moments.Min = other.Min
	}

	if other.Max > moments.Max {
		moments.Max = other.Max
	}
}

func (moments *Moments) Summary() common.Summary {
	return common.Summary{
		Draws:    moments.N,
		Mean:     moments.Mean(),
		Variance: moments.Variance(),
		Min:      moments.Min,
		Max:      moments.Max,
	}
}
