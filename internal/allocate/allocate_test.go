package allocate

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dynens/internal/nsrun"
	"dynens/pkg/types"
)

func TestImportancePostconditions(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 0))
	run := nsrun.GenerateRun(rng, 2, 10, 2, 10)
	for _, goal := range []float64{0, 0.25, 0.5, 0.75, 1} {
		imp := Importance(run, goal)
		if len(imp) != run.Len() {
			t.Fatalf("goal %g: importance length %d, want %d", goal, len(imp), run.Len())
		}
		max := 0.0
		for i, v := range imp {
			if v < 0 || v > 1 {
				t.Errorf("goal %g: importance[%d] = %g outside [0, 1]", goal, i, v)
			}
			if v > max {
				max = v
			}
		}
		if max != 1 {
			t.Errorf("goal %g: maximum importance = %g, want exactly 1", goal, max)
		}
	}
}

func TestImportanceSingleThread(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 4))
	thread := nsrun.GenerateThread(rng, 4, 2, 1)
	imp := Importance(thread, 0.5)
	if len(imp) != thread.Len() {
		t.Fatalf("importance length %d, want %d", len(imp), thread.Len())
	}
	// With nlive 1 the weight shrinks by a factor e per point while the
	// likelihood gain stays below 1, so evidence importance must decrease.
	evi := Importance(thread, 0)
	for i := 1; i < len(evi); i++ {
		if evi[i] >= evi[i-1] {
			t.Errorf("single-thread evidence importance should decrease: %v", evi)
			break
		}
	}
}

func TestImportanceIsPure(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	run := nsrun.GenerateRun(rng, 2, 10, 2, 10)
	before := append([]float64(nil), run.NliveArray...)
	_ = Importance(run, 1)
	if diff := cmp.Diff(before, run.NliveArray); diff != "" {
		t.Errorf("run mutated (-want +got):\n%s", diff)
	}
}

func TestAllocateEmptyRunFailsFatally(t *testing.T) {
	// An empty dead-points file reads back as an empty run; allocating over
	// it must fail instead of crashing, even with budget headroom.
	run := &types.Run{NDim: 2, ThreadMinMax: map[int][2]float64{}}
	_, err := Allocate(run, 24, 0, nil, 2)
	if err == nil {
		t.Fatalf("expected fatal error for empty run")
	}
	if !IsEmptyRun(err) {
		t.Fatalf("error %v is not an empty run error", err)
	}
}

func TestAllocateBudgetExhausted(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 0))
	run := nsrun.GenerateRun(rng, 2, 10, 2, 10)
	_, err := Allocate(run, 1, 1, nil, 0)
	if err == nil {
		t.Fatalf("expected fatal error for exhausted budget")
	}
	if !IsInsufficientBudget(err) {
		t.Fatalf("error %v is not an insufficient budget error", err)
	}
}

func TestAllocateDistributesExtraSamples(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 0))
	run := nsrun.GenerateRun(rng, 2, 10, 2, 10)
	a, err := Allocate(run, 40, 1, nil, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if diff := cmp.Diff(a.NliveTargetUnsmoothed, a.NliveTarget); diff != "" {
		t.Errorf("no filter supplied but targets differ (-unsmoothed +final):\n%s", diff)
	}
	extra := 0.0
	for i, v := range a.NliveTarget {
		if v < run.NliveArray[i] {
			t.Errorf("target[%d] = %g below existing live count %g", i, v, run.NliveArray[i])
		}
		extra += v - run.NliveArray[i]
	}
	if want := 40.0 - float64(run.Len()); math.Abs(extra-want) > 1e-9 {
		t.Errorf("extra samples distributed = %g, want %g", extra, want)
	}
	if len(a.Profile.LogLs) != len(a.Profile.Nlives) {
		t.Fatalf("profile pairing broken: %d thresholds, %d sizes",
			len(a.Profile.LogLs), len(a.Profile.Nlives))
	}
	for i := 1; i < len(a.Profile.LogLs); i++ {
		if a.Profile.LogLs[i] <= a.Profile.LogLs[i-1] {
			t.Errorf("profile thresholds not ascending at %d", i)
		}
	}
	if a.ResumeNDead%2 != 0 {
		t.Errorf("resume point %d not aligned to init step 2", a.ResumeNDead)
	}
}

// evidenceRun builds a run whose evidence-only allocation decreases
// monotonically, so any increase must come from smoothing.
func evidenceRun(n int) *types.Run {
	run := &types.Run{NDim: 2, ThreadMinMax: make(map[int][2]float64)}
	for i := 0; i < n; i++ {
		run.LogL = append(run.LogL, 0.1*float64(i))
		run.Theta = append(run.Theta, []float64{float64(i), 0})
		run.ThreadLabels = append(run.ThreadLabels, i%2)
		run.NliveArray = append(run.NliveArray, 2)
	}
	run.NliveArray[n-1] = 1
	run.ThreadMinMax[0] = [2]float64{types.NegInf(), run.LogL[n-2]}
	run.ThreadMinMax[1] = [2]float64{types.NegInf(), run.LogL[n-1]}
	return run
}

func TestAllocateSmoothingConvexityWarning(t *testing.T) {
	run := evidenceRun(20)
	// An adversarial filter that bends the profile upward.
	filter := func(xs []float64) []float64 {
		out := make([]float64, len(xs))
		for i := range xs {
			out[i] = xs[i] + 100*float64(i)
		}
		return out
	}
	a, err := Allocate(run, 60, 0, filter, 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(a.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", a.Warnings)
	}
	if diff := cmp.Diff(a.NliveTargetUnsmoothed, a.NliveTarget); diff != "" {
		t.Errorf("allocation should revert to unsmoothed (-unsmoothed +final):\n%s", diff)
	}
}

// endPeakRun builds a run whose parameter importance is greatest at the
// final dead point: the last sample sits far from the posterior bulk in the
// first parameter while carrying full evidence weight.
func endPeakRun() *types.Run {
	run := &types.Run{NDim: 2, ThreadMinMax: make(map[int][2]float64)}
	run.LogL = []float64{0, 1, 2, 3}
	run.ThreadLabels = []int{0, 1, 0, 1}
	run.NliveArray = []float64{2, 2, 2, 1}
	run.Theta = [][]float64{{0, 0}, {0, 0}, {0, 0}, {100, 0}}
	run.ThreadMinMax[0] = [2]float64{types.NegInf(), 2}
	run.ThreadMinMax[1] = [2]float64{types.NegInf(), 3}
	return run
}

func TestAllocateWarnsWhenImportancePeaksAtEnd(t *testing.T) {
	run := endPeakRun()
	a, err := Allocate(run, 10, 1, nil, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(a.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", a.Warnings)
	}
	if !strings.Contains(a.Warnings[0], "final dead point") {
		t.Fatalf("warning %q does not identify the end peak", a.Warnings[0])
	}
}

func TestAllocateEvidenceGoalIgnoresEndPeak(t *testing.T) {
	run := endPeakRun()
	a, err := Allocate(run, 10, 0, nil, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(a.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", a.Warnings)
	}
}

func TestAllocateBenignSmoothing(t *testing.T) {
	run := evidenceRun(20)
	a, err := Allocate(run, 60, 0, MovingAverage(2), 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(a.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", a.Warnings)
	}
}
