package nsrun

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"dynens/pkg/types"
)

// PosteriorPath returns the flat posterior sample table file for a run root.
func PosteriorPath(baseDir, fileRoot string) string {
	return filepath.Join(baseDir, fileRoot+".txt")
}

// StatsPath returns the run statistics file for a run root.
func StatsPath(baseDir, fileRoot string) string {
	return filepath.Join(baseDir, fileRoot+".stats")
}

// WritePosteriors writes the flat posterior sample table: one row per dead
// point holding weight / max weight, -2*logl and the parameter vector.
func WritePosteriors(run *types.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nsrun: write posteriors: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	logw := LogW(run)
	maxLogw := floats.Max(logw)
	for i := range run.LogL {
		fmt.Fprintf(w, "%s %s", formatFloat(math.Exp(logw[i]-maxLogw)), formatFloat(-2*run.LogL[i]))
		for _, t := range run.Theta[i] {
			fmt.Fprintf(w, " %s", formatFloat(t))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("nsrun: write posteriors: %w", err)
	}
	return nil
}

// WriteStats writes a small statistics summary: the log evidence estimate
// and the dead point and thread counts.
func WriteStats(run *types.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nsrun: write stats: %w", err)
	}
	defer f.Close()
	logZ := floats.LogSumExp(LogW(run))
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "log_evidence = %s\n", formatFloat(logZ))
	fmt.Fprintf(w, "ndead = %d\n", run.Len())
	fmt.Fprintf(w, "nthreads = %d\n", run.NThreads())
	if err := w.Flush(); err != nil {
		return fmt.Errorf("nsrun: write stats: %w", err)
	}
	return nil
}

// WriteRun persists the combined run in the sampler's native formats:
// always the dead points file and stats summary, plus the posterior table
// when requested.
func WriteRun(run *types.Run, baseDir, fileRoot string, posteriors bool) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("nsrun: output dir: %w", err)
	}
	if err := WriteDeadBirth(run, DeadBirthPath(baseDir, fileRoot)); err != nil {
		return err
	}
	if err := WriteStats(run, StatsPath(baseDir, fileRoot)); err != nil {
		return err
	}
	if posteriors {
		return WritePosteriors(run, PosteriorPath(baseDir, fileRoot))
	}
	return nil
}
