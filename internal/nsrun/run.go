package nsrun

import (
	"fmt"
	"sort"

	"dynens/pkg/types"
)

// SortByLogL reorders the run's point-wise slices so LogL is ascending.
// The sort is stable so equal-likelihood points keep their relative order.
func SortByLogL(run *types.Run) {
	idx := make([]int, run.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return run.LogL[idx[a]] < run.LogL[idx[b]] })
	logl := make([]float64, run.Len())
	theta := make([][]float64, run.Len())
	labels := make([]int, run.Len())
	nlive := make([]float64, run.Len())
	for i, j := range idx {
		logl[i] = run.LogL[j]
		theta[i] = run.Theta[j]
		labels[i] = run.ThreadLabels[j]
		if len(run.NliveArray) == run.Len() {
			nlive[i] = run.NliveArray[j]
		}
	}
	run.LogL, run.Theta, run.ThreadLabels, run.NliveArray = logl, theta, labels, nlive
}

// RecomputeNlive rebuilds NliveArray from the thread min/max bounds using the
// continuity invariant: nlive[i] is the number of threads whose birth contour
// is below logl[i] and whose death contour is at or above it.
func RecomputeNlive(run *types.Run) {
	if len(run.NliveArray) != run.Len() {
		run.NliveArray = make([]float64, run.Len())
	}
	for i, l := range run.LogL {
		n := 0
		for _, mm := range run.ThreadMinMax {
			if mm[0] < l && l <= mm[1] {
				n++
			}
		}
		run.NliveArray[i] = float64(n)
	}
}

// CheckRun verifies the run's internal bookkeeping invariants. It is used by
// tests and after every combination.
func CheckRun(run *types.Run) error {
	n := run.Len()
	if len(run.Theta) != n || len(run.ThreadLabels) != n || len(run.NliveArray) != n {
		return fmt.Errorf("nsrun: ragged run: logl=%d theta=%d labels=%d nlive=%d",
			n, len(run.Theta), len(run.ThreadLabels), len(run.NliveArray))
	}
	for i := 1; i < n; i++ {
		if run.LogL[i] < run.LogL[i-1] {
			return fmt.Errorf("nsrun: logl decreases at index %d", i)
		}
	}
	last := make(map[int]float64, len(run.ThreadMinMax))
	for i, lab := range run.ThreadLabels {
		mm, ok := run.ThreadMinMax[lab]
		if !ok {
			return fmt.Errorf("nsrun: point %d references unknown thread %d", i, lab)
		}
		if run.LogL[i] <= mm[0] || run.LogL[i] > mm[1] {
			return fmt.Errorf("nsrun: point %d (logl %g) outside thread %d bounds [%g, %g]",
				i, run.LogL[i], lab, mm[0], mm[1])
		}
		last[lab] = run.LogL[i]
	}
	for lab, mm := range run.ThreadMinMax {
		l, ok := last[lab]
		if !ok {
			return fmt.Errorf("nsrun: thread %d has no points", lab)
		}
		if l != mm[1] {
			return fmt.Errorf("nsrun: thread %d max logl %g != last point logl %g", lab, mm[1], l)
		}
	}
	return nil
}

// LogX approximates the log prior volume remaining at each dead point from
// the live point counts: each death shrinks the volume by a factor of about
// exp(-1/nlive).
func LogX(nlive []float64) []float64 {
	out := make([]float64, len(nlive))
	cum := 0.0
	for i, n := range nlive {
		cum -= 1.0 / n
		out[i] = cum
	}
	return out
}

// LogW returns the log of each point's contribution to the evidence integral
// (shrinkage times likelihood).
func LogW(run *types.Run) []float64 {
	logx := LogX(run.NliveArray)
	out := make([]float64, run.Len())
	for i := range out {
		out[i] = logx[i] + run.LogL[i]
	}
	return out
}

// relabelOffset shifts every thread label in the run by off.
func relabelOffset(run *types.Run, off int) {
	for i := range run.ThreadLabels {
		run.ThreadLabels[i] += off
	}
	mm := make(map[int][2]float64, len(run.ThreadMinMax))
	for lab, b := range run.ThreadMinMax {
		mm[lab+off] = b
	}
	run.ThreadMinMax = mm
}
