package nsrun

import (
	"math/rand/v2"
	"sort"

	"dynens/pkg/types"
)

// GenerateThread builds one synthetic sampling thread: nsample points with
// sorted uniform log-likelihoods in (0, loglRange) and uniform parameters.
// The source of randomness is explicit so fixtures are reproducible.
func GenerateThread(rng *rand.Rand, nsample, ndim int, loglRange float64) *types.Run {
	run := &types.Run{
		NDim:         ndim,
		ThreadMinMax: map[int][2]float64{0: {types.NegInf(), 0}},
	}
	for i := 0; i < nsample; i++ {
		run.LogL = append(run.LogL, rng.Float64()*loglRange)
		theta := make([]float64, ndim)
		for d := range theta {
			theta[d] = rng.Float64()
		}
		run.Theta = append(run.Theta, theta)
		run.ThreadLabels = append(run.ThreadLabels, 0)
	}
	sort.Float64s(run.LogL)
	run.ThreadMinMax[0] = [2]float64{types.NegInf(), run.LogL[nsample-1]}
	run.NliveArray = make([]float64, nsample)
	RecomputeNlive(run)
	return run
}

// GenerateRun builds a synthetic nested sampling run of nthread threads all
// alive from the start, each with nsample points. The merged run satisfies
// the standard bookkeeping invariants and is useful wherever a cheap
// realistic run is needed (tests, the stub sampler).
func GenerateRun(rng *rand.Rand, nthread, nsample, ndim int, loglRange float64) *types.Run {
	run := &types.Run{
		NDim:         ndim,
		ThreadMinMax: make(map[int][2]float64, nthread),
	}
	for t := 0; t < nthread; t++ {
		logls := make([]float64, nsample)
		for i := range logls {
			logls[i] = rng.Float64() * loglRange
		}
		sort.Float64s(logls)
		for _, l := range logls {
			run.LogL = append(run.LogL, l)
			theta := make([]float64, ndim)
			for d := range theta {
				theta[d] = rng.Float64()
			}
			run.Theta = append(run.Theta, theta)
			run.ThreadLabels = append(run.ThreadLabels, t)
		}
		run.ThreadMinMax[t] = [2]float64{types.NegInf(), logls[nsample-1]}
	}
	SortByLogL(run)
	run.NliveArray = make([]float64, run.Len())
	RecomputeNlive(run)
	return run
}
