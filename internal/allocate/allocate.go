package allocate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"dynens/pkg/types"
)

// SmoothingFilter maps an unsmoothed live point target profile to a smoothed
// one of the same length.
type SmoothingFilter func([]float64) []float64

// peakFraction marks where the importance peak is considered to begin, as a
// fraction of the maximum importance.
const peakFraction = 0.9

// insufficientBudgetError signals that the requested sample budget cannot be
// absorbed by the run's remaining structure. This is a caller contract
// violation: the orchestration must not proceed to a dynamic run.
type insufficientBudgetError struct {
	nSampMax int
	nDead    int
}

func (e insufficientBudgetError) Error() string {
	return fmt.Sprintf("allocate: sample budget %d leaves no headroom over the %d dead points already present",
		e.nSampMax, e.nDead)
}

// IsInsufficientBudget reports whether err indicates an allocation request
// exceeding the run's remaining sample budget.
func IsInsufficientBudget(err error) bool {
	_, ok := err.(insufficientBudgetError)
	return ok
}

// emptyRunError signals an allocation request over a run with no dead
// points. There is no structure to spread an allocation over, so this is a
// caller contract violation like an exhausted budget.
type emptyRunError struct{}

func (emptyRunError) Error() string { return "allocate: run has no dead points" }

// IsEmptyRun reports whether err indicates an allocation over an empty run.
func IsEmptyRun(err error) bool {
	_, ok := err.(emptyRunError)
	return ok
}

// Allocation is a concrete target live point profile across the likelihood
// range, plus the metadata needed to steer and resume the dynamic pass.
type Allocation struct {
	// Final per-point live point targets and the pre-smoothing version.
	NliveTarget           []float64
	NliveTargetUnsmoothed []float64
	// Sampler-facing steering instruction built from NliveTarget.
	Profile types.AllocationProfile
	// Importance used to build the targets.
	Importance []float64
	// Index where the importance peak begins.
	PeakStart int
	// Dead point count of the initial-run snapshot the dynamic run should
	// resume from; 0 means start from scratch.
	ResumeNDead int
	// Non-fatal degradations discovered while allocating.
	Warnings []string
}

// Allocate converts importance scores into a target live point profile for
// the dynamic pass. nSampMax is the total sample budget: the extra samples
// distributed are nSampMax minus the dead points already in the run, and a
// budget with no headroom is a fatal contract violation. initStep is the
// snapshot granularity of the initial run, used to pick the resume point
// below the importance peak.
func Allocate(run *types.Run, nSampMax int, dynamicGoal float64, filter SmoothingFilter, initStep int) (*Allocation, error) {
	if run.Len() == 0 {
		return nil, emptyRunError{}
	}
	nExtra := nSampMax - run.Len()
	if nExtra <= 0 {
		return nil, insufficientBudgetError{nSampMax: nSampMax, nDead: run.Len()}
	}
	imp := Importance(run, dynamicGoal)
	impSum := floats.Sum(imp)

	unsmoothed := make([]float64, run.Len())
	for i := range unsmoothed {
		unsmoothed[i] = run.NliveArray[i] + float64(nExtra)*imp[i]/impSum
	}

	a := &Allocation{
		NliveTarget:           unsmoothed,
		NliveTargetUnsmoothed: unsmoothed,
		Importance:            imp,
	}
	if filter != nil {
		smoothed := filter(append([]float64(nil), unsmoothed...))
		if dynamicGoal == 0 && hasIncrease(smoothed) && !hasIncrease(unsmoothed) {
			// An evidence-only allocation should shrink monotonically with
			// the prior volume; smoothing that bends it back up would
			// confuse the sampler's live point bookkeeping.
			a.Warnings = append(a.Warnings,
				"allocate: smoothing introduced a decreasing-then-increasing live point profile "+
					"for an evidence-only goal; using the unsmoothed allocation")
		} else {
			a.NliveTarget = smoothed
		}
	}
	if dynamicGoal > 0 && floats.MaxIdx(imp) == len(imp)-1 {
		a.Warnings = append(a.Warnings,
			"allocate: importance is greatest at the run's final dead point; "+
				"the allocation may be truncated by the termination point")
	}

	a.Profile = buildProfile(run.LogL, a.NliveTarget)
	a.PeakStart = peakStart(imp)
	if initStep > 0 {
		a.ResumeNDead = (a.PeakStart / initStep) * initStep
	}
	return a, nil
}

// buildProfile rounds the per-point targets to integer population sizes and
// collapses them into (logl threshold, nlive) pairs at each change.
func buildProfile(logl, target []float64) types.AllocationProfile {
	var p types.AllocationProfile
	prev := -1
	for i := range target {
		n := int(math.Round(target[i]))
		if n < 1 {
			n = 1
		}
		if n != prev {
			p.LogLs = append(p.LogLs, logl[i])
			p.Nlives = append(p.Nlives, n)
			prev = n
		}
	}
	return p
}

// peakStart returns the first index whose importance reaches peakFraction of
// the maximum.
func peakStart(imp []float64) int {
	for i, v := range imp {
		if v >= peakFraction {
			return i
		}
	}
	return len(imp) - 1
}

// hasIncrease reports whether the profile ever steps upward.
func hasIncrease(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[i-1] {
			return true
		}
	}
	return false
}

// MovingAverage returns a smoothing filter averaging over a centred window
// of the given half width. It is the default filter for dynamic runs; a nil
// SmoothingFilter disables smoothing entirely.
func MovingAverage(halfWidth int) SmoothingFilter {
	return func(xs []float64) []float64 {
		out := make([]float64, len(xs))
		for i := range xs {
			lo := i - halfWidth
			if lo < 0 {
				lo = 0
			}
			hi := i + halfWidth
			if hi > len(xs)-1 {
				hi = len(xs) - 1
			}
			sum := 0.0
			for j := lo; j <= hi; j++ {
				sum += xs[j]
			}
			out[i] = sum / float64(hi-lo+1)
		}
		return out
	}
}
