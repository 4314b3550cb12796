package nsrun

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dynens/pkg/types"
)

// DeadBirthPath returns the sampler's native dead points file for a run root.
func DeadBirthPath(baseDir, fileRoot string) string {
	return filepath.Join(baseDir, fileRoot+"_dead-birth.txt")
}

// WriteDeadBirth writes the run in the sampler's native dead points format:
// one whitespace-separated row per point holding the parameter vector, the
// point's logl and the birth contour it was sampled above.
func WriteDeadBirth(run *types.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nsrun: write dead points: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	births := birthContours(run)
	for i := range run.LogL {
		for _, t := range run.Theta[i] {
			fmt.Fprintf(w, "%s ", formatFloat(t))
		}
		fmt.Fprintf(w, "%s %s\n", formatFloat(run.LogL[i]), formatFloat(births[i]))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("nsrun: write dead points: %w", err)
	}
	return nil
}

// birthContours returns, per point, the logl of the previous point in its
// thread, or the thread's birth contour for thread-opening points.
func birthContours(run *types.Run) []float64 {
	out := make([]float64, run.Len())
	last := make(map[int]float64, len(run.ThreadMinMax))
	for lab, mm := range run.ThreadMinMax {
		last[lab] = mm[0]
	}
	for i, lab := range run.ThreadLabels {
		out[i] = last[lab]
		last[lab] = run.LogL[i]
	}
	return out
}

// ReadDeadBirth loads a dead points file and reconstructs the run's thread
// structure by chaining birth contours: a point whose birth contour equals a
// live thread's current death contour continues that thread, anything else
// opens a new one.
func ReadDeadBirth(path string) (*types.Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nsrun: read dead points: %w", err)
	}
	defer f.Close()

	run := &types.Run{ThreadMinMax: make(map[int][2]float64)}
	var births []float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("nsrun: dead points row needs theta, logl, birth: %q", line)
		}
		row := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("nsrun: parse dead points value %q: %w", s, err)
			}
			row[i] = v
		}
		d := len(row) - 2
		if run.NDim == 0 {
			run.NDim = d
		} else if run.NDim != d {
			return nil, fmt.Errorf("nsrun: inconsistent dimension %d vs %d", d, run.NDim)
		}
		run.Theta = append(run.Theta, row[:d])
		run.LogL = append(run.LogL, row[d])
		births = append(births, row[d+1])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("nsrun: read dead points: %w", err)
	}
	return buildThreads(run, births)
}

// buildThreads assigns thread labels from birth contours and rebuilds the
// thread bounds and live point counts. Points must already be logl-sorted,
// which the sampler's output format guarantees.
func buildThreads(run *types.Run, births []float64) (*types.Run, error) {
	run.ThreadLabels = make([]int, run.Len())
	// death contour -> labels of threads currently ending there
	open := make(map[float64][]int)
	next := 0
	for i := range run.LogL {
		b := births[i]
		var lab int
		if labs := open[b]; len(labs) > 0 && !math.IsInf(b, -1) {
			lab = labs[0]
			open[b] = labs[1:]
		} else {
			lab = next
			next++
			run.ThreadMinMax[lab] = [2]float64{b, run.LogL[i]}
		}
		run.ThreadLabels[i] = lab
		mm := run.ThreadMinMax[lab]
		mm[1] = run.LogL[i]
		run.ThreadMinMax[lab] = mm
		open[run.LogL[i]] = append(open[run.LogL[i]], lab)
	}
	RecomputeNlive(run)
	return run, nil
}

func formatFloat(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'g', 17, 64)
}
