package types

import "math"

// Run is a completed nested sampling run: a logl-ascending sequence of dead
// points plus the thread bookkeeping implied by them.
//
// The slices LogL, Theta, ThreadLabels and NliveArray are parallel; index i
// describes the i-th dead point. ThreadMinMax is keyed by thread label and
// holds the [birth contour, death contour] pair for each thread. Labels are
// unique per thread but not necessarily contiguous.
type Run struct {
	// Log-likelihood of each dead point, non-decreasing by index.
	LogL []float64 `json:"logl"`
	// Parameter vector of each dead point (length NDim).
	Theta [][]float64 `json:"theta"`
	// Label of the thread that produced each dead point.
	ThreadLabels []int `json:"thread_labels"`
	// Number of live points active when each point was discarded.
	NliveArray []float64 `json:"nlive_array"`
	// Per-thread [min logl, max logl]. Min is -Inf for threads alive from
	// the run's start.
	ThreadMinMax map[int][2]float64 `json:"thread_min_max"`
	// Parameter space dimension.
	NDim int `json:"ndim"`
}

// Len returns the number of dead points in the run.
func (r *Run) Len() int { return len(r.LogL) }

// MaxThreadLabel returns the largest thread label in the run, or -1 if the
// run has no threads.
func (r *Run) MaxThreadLabel() int {
	max := -1
	for lab := range r.ThreadMinMax {
		if lab > max {
			max = lab
		}
	}
	return max
}

// NThreads returns the number of distinct threads.
func (r *Run) NThreads() int { return len(r.ThreadMinMax) }

// Copy returns a deep copy of the run.
func (r *Run) Copy() *Run {
	out := &Run{
		LogL:         append([]float64(nil), r.LogL...),
		ThreadLabels: append([]int(nil), r.ThreadLabels...),
		NliveArray:   append([]float64(nil), r.NliveArray...),
		ThreadMinMax: make(map[int][2]float64, len(r.ThreadMinMax)),
		NDim:         r.NDim,
	}
	out.Theta = make([][]float64, len(r.Theta))
	for i, t := range r.Theta {
		out.Theta[i] = append([]float64(nil), t...)
	}
	for lab, mm := range r.ThreadMinMax {
		out.ThreadMinMax[lab] = mm
	}
	return out
}

// NegInf is the birth contour of threads alive from the start of a run.
func NegInf() float64 { return math.Inf(-1) }

// AllocationProfile is a steering instruction for the sampler: once the
// current likelihood contour exceeds LogLs[i], the target live point count is
// Nlives[i]. LogLs is ascending and the two slices are paired.
type AllocationProfile struct {
	LogLs  []float64 `json:"loglikes"`
	Nlives []int     `json:"nlives"`
}

// IsZero reports whether the profile holds no steering points.
func (p AllocationProfile) IsZero() bool { return len(p.LogLs) == 0 }
