package nsrun

import (
	"fmt"
	"sort"

	"dynens/pkg/types"
)

// CombineResumed merges an initial run with a dynamic run that was resumed
// from the initial run's saved state after resumeNDead dead points.
//
// The dynamic run carries the shared history: the first resumeNDead points of
// the initial run, followed by re-recorded deaths of the points that were
// live at the resume boundary. Those duplicates are identified in the
// initial run and dropped exactly once; whatever the initial run recorded
// beyond them (threads that ran to completion before the resume state was
// revisited) is appended as new threads labelled after the dynamic run's
// highest label.
//
// When the dynamic run's boundary points do not exactly match the expected
// resume-time live set, exact verification is impossible: the merge falls
// back to positional truncation of the initial run and a warning is
// returned. The merged run always satisfies the nlive continuity invariant.
func CombineResumed(initRun, dynRun *types.Run, resumeNDead int) (*types.Run, []string) {
	var warnings []string
	init := initRun.Copy()
	dyn := dynRun.Copy()
	if resumeNDead < 0 {
		resumeNDead = 0
	}
	if resumeNDead > init.Len() {
		resumeNDead = init.Len()
	}

	// Expected resume-time live set: for every thread still alive at the
	// boundary, its first death at or past it.
	liveIdx := expectedLiveSet(init, resumeNDead)

	dropped := make(map[int]bool, resumeNDead+len(liveIdx))
	if resumedBoundaryMatches(init, dyn, resumeNDead, liveIdx) {
		for i := 0; i < resumeNDead; i++ {
			dropped[i] = true
		}
		for _, i := range liveIdx {
			dropped[i] = true
		}
	} else {
		warnings = append(warnings, fmt.Sprintf(
			"nsrun: resume boundary mismatch at ndead=%d: live points at resume "+
				"are not present in both runs; merging by positional truncation",
			resumeNDead))
		ndrop := resumeNDead + len(liveIdx)
		if ndrop > init.Len() {
			ndrop = init.Len()
		}
		for i := 0; i < ndrop; i++ {
			dropped[i] = true
		}
	}

	// Birth contour for each surviving initial-run segment: the logl of the
	// thread's last dropped point (its previous death defines the contour the
	// segment was sampled above).
	birth := make(map[int]float64)
	for lab, mm := range init.ThreadMinMax {
		birth[lab] = mm[0]
	}
	for i := 0; i < init.Len(); i++ {
		if dropped[i] {
			birth[init.ThreadLabels[i]] = init.LogL[i]
		}
	}

	// Relabel surviving initial-run segments as fresh threads after the
	// dynamic run's labels.
	next := dyn.MaxThreadLabel() + 1
	segment := make(map[int]int) // init label -> new label
	out := dyn
	for i := 0; i < init.Len(); i++ {
		if dropped[i] {
			continue
		}
		lab := init.ThreadLabels[i]
		newLab, ok := segment[lab]
		if !ok {
			newLab = next
			next++
			segment[lab] = newLab
			out.ThreadMinMax[newLab] = [2]float64{birth[lab], init.LogL[i]}
		}
		out.LogL = append(out.LogL, init.LogL[i])
		out.Theta = append(out.Theta, init.Theta[i])
		out.ThreadLabels = append(out.ThreadLabels, newLab)
		out.NliveArray = append(out.NliveArray, 0)
		mm := out.ThreadMinMax[newLab]
		if init.LogL[i] > mm[1] {
			mm[1] = init.LogL[i]
		}
		out.ThreadMinMax[newLab] = mm
	}

	SortByLogL(out)
	RecomputeNlive(out)
	return out, warnings
}

// expectedLiveSet returns, in index order, the first point at or past the
// boundary for each thread with points remaining there.
func expectedLiveSet(run *types.Run, boundary int) []int {
	seen := make(map[int]bool)
	var out []int
	for i := boundary; i < run.Len(); i++ {
		lab := run.ThreadLabels[i]
		if !seen[lab] {
			seen[lab] = true
			out = append(out, i)
		}
	}
	return out
}

// resumedBoundaryMatches reports whether the dynamic run re-states exactly
// the initial run's history up to the boundary plus its resume-time live
// set: the shared prefix positionally, then the live deaths as a sorted
// likelihood multiset.
func resumedBoundaryMatches(init, dyn *types.Run, boundary int, liveIdx []int) bool {
	if dyn.Len() < boundary+len(liveIdx) {
		return false
	}
	for i := 0; i < boundary; i++ {
		if dyn.LogL[i] != init.LogL[i] {
			return false
		}
	}
	want := make([]float64, len(liveIdx))
	for k, i := range liveIdx {
		want[k] = init.LogL[i]
	}
	got := append([]float64(nil), dyn.LogL[boundary:boundary+len(liveIdx)]...)
	sort.Float64s(want)
	sort.Float64s(got)
	for k := range want {
		if want[k] != got[k] {
			return false
		}
	}
	return true
}

// CombineIndependent merges two runs that explored the space independently
// (the dynamic pass started from scratch rather than resuming). Thread
// labels from the second run are offset past the first run's maximum label,
// the points are merged in likelihood order and the live point counts are
// rebuilt, since threads of both runs are concurrently live.
func CombineIndependent(a, b *types.Run) *types.Run {
	out := a.Copy()
	dyn := b.Copy()
	relabelOffset(dyn, out.MaxThreadLabel()+1)
	out.LogL = append(out.LogL, dyn.LogL...)
	out.Theta = append(out.Theta, dyn.Theta...)
	out.ThreadLabels = append(out.ThreadLabels, dyn.ThreadLabels...)
	out.NliveArray = append(out.NliveArray, dyn.NliveArray...)
	for lab, mm := range dyn.ThreadMinMax {
		out.ThreadMinMax[lab] = mm
	}
	SortByLogL(out)
	RecomputeNlive(out)
	return out
}
