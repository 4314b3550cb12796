package allocate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"dynens/internal/nsrun"
	"dynens/pkg/types"
)

// Importance scores each dead point of a run by how much additional sampling
// there would improve the blend of evidence and parameter estimates selected
// by dynamicGoal (0 = evidence only, 1 = parameter estimation only).
//
// The returned vector has the same length as the run, values in [0, 1] and
// maximum exactly 1. The function is pure; the run is not modified.
func Importance(run *types.Run, dynamicGoal float64) []float64 {
	logw := nsrun.LogW(run)
	maxLogw := floats.Max(logw)
	w := make([]float64, len(logw))
	for i, lw := range logw {
		w[i] = math.Exp(lw - maxLogw)
	}
	// Evidence importance is the relative evidence weight itself, already
	// normalized to maximum 1.
	if dynamicGoal == 0 {
		return w
	}
	impP := paramImportance(run, w)
	if dynamicGoal == 1 {
		return impP
	}
	// Blend the sum-normalized components, then rescale to maximum 1.
	sumZ := floats.Sum(w)
	sumP := floats.Sum(impP)
	out := make([]float64, len(w))
	for i := range out {
		out[i] = (1-dynamicGoal)*w[i]/sumZ + dynamicGoal*impP[i]/sumP
	}
	normalizeMax(out)
	return out
}

// paramImportance weights the evidence weight by each point's distance from
// the bulk of posterior mass in the first parameter, so points contributing
// most to posterior variance score highest.
func paramImportance(run *types.Run, w []float64) []float64 {
	out := make([]float64, len(w))
	var mean, wsum float64
	for i, wi := range w {
		mean += wi * run.Theta[i][0]
		wsum += wi
	}
	mean /= wsum
	for i, wi := range w {
		out[i] = wi * math.Abs(run.Theta[i][0]-mean)
	}
	if floats.Max(out) == 0 {
		// Degenerate posterior (all mass at one value): fall back to the
		// evidence weights rather than returning an all-zero vector.
		copy(out, w)
		return out
	}
	normalizeMax(out)
	return out
}

// normalizeMax rescales xs so its maximum is exactly 1.
func normalizeMax(xs []float64) {
	max := floats.Max(xs)
	for i := range xs {
		xs[i] /= max
	}
}
