package orchestrator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dynens/internal/allocate"
	"dynens/internal/nsrun"
	"dynens/internal/sampler"
	"dynens/pkg/types"
)

// Options configures an Orchestrator. Zero values get sensible defaults
// from New.
type Options struct {
	// Blend between evidence (0) and parameter estimation (1) goals.
	DynamicGoal float64
	// Population size of the initial exploratory run.
	NInit int
	// Snapshot granularity of the initial run; resume points are multiples
	// of this.
	InitStep int
	// Population constant used to size the dynamic run's sample budget when
	// no max_ndead cap is set.
	NLiveConst int
	// Resume the dynamic run from the initial run's snapshot instead of
	// starting fresh.
	Resume bool
	// Applied to the target profile before steering; nil disables smoothing.
	SmoothingFilter allocate.SmoothingFilter

	Sampler sampler.Sampler
	Comm    sampler.Communicator
	Logger  zerolog.Logger
}

// Orchestrator runs the dynamic nested sampling phase machine. Each
// Orchestrator owns its output location for the duration of one Run call;
// no state is revisited and failures terminate the run without retry.
type Orchestrator struct {
	opts Options

	mu     sync.Mutex
	status types.StatusResponse
}

// New constructs an Orchestrator, filling unset options with defaults.
func New(opts Options) *Orchestrator {
	if opts.NInit <= 0 {
		opts.NInit = 10
	}
	if opts.InitStep <= 0 {
		opts.InitStep = opts.NInit
	}
	if opts.Comm == nil {
		opts.Comm = sampler.SingleProcess{}
	}
	o := &Orchestrator{opts: opts}
	o.status.Phase = types.PhaseValidate
	o.status.DynamicGoal = opts.DynamicGoal
	return o
}

// Status returns a snapshot of the current run state.
func (o *Orchestrator) Status() types.StatusResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.status
	st.Warnings = append([]string(nil), o.status.Warnings...)
	st.ServerTimeUnix = time.Now().Unix()
	return st
}

// Ready reports whether the orchestrator is progressing or has finished.
func (o *Orchestrator) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status.Phase != types.PhaseFailed
}

func (o *Orchestrator) setPhase(p types.Phase) {
	o.mu.Lock()
	o.status.Phase = p
	o.mu.Unlock()
	phaseTransitionsTotal.WithLabelValues(string(p)).Inc()
	o.opts.Logger.Info().Str("phase", string(p)).Msg("phase transition")
}

func (o *Orchestrator) warn(msg string) {
	o.mu.Lock()
	o.status.Warnings = append(o.status.Warnings, msg)
	o.mu.Unlock()
	warningsTotal.Inc()
	o.opts.Logger.Warn().Msg(msg)
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.status.Phase = types.PhaseFailed
	o.status.Error = err.Error()
	o.mu.Unlock()
	phaseTransitionsTotal.WithLabelValues(string(types.PhaseFailed)).Inc()
	o.opts.Logger.Error().Err(err).Msg("run failed")
	return err
}

// Run executes the full phase sequence on the supplied open settings
// mapping and returns the combined run plus every non-fatal warning
// emitted along the way. Unrecognized settings fail before any file is
// touched.
func (o *Orchestrator) Run(ctx context.Context, settingsMap map[string]any) (*types.Run, []string, error) {
	comm := o.opts.Comm
	primary := comm.Rank() == 0

	o.setPhase(types.PhaseValidate)
	s, provided, err := SettingsFromMap(settingsMap)
	if err != nil {
		return nil, nil, o.fail(err)
	}
	s, warnings := CheckSettings(s, provided)
	for _, w := range warnings {
		o.warn(w)
	}
	if s.Seed >= 0 && comm.Size() > 1 {
		o.warn("seeding is not reproducible across a process group")
	}
	nliveConst := o.opts.NLiveConst
	if nliveConst <= 0 {
		nliveConst = s.NLive
	}
	if s.MaxNDead <= 0 && nliveConst <= o.opts.NInit {
		return nil, nil, o.fail(fmt.Errorf(
			"nlive_const %d must exceed ninit %d when max_ndead is unset", nliveConst, o.opts.NInit))
	}
	o.mu.Lock()
	o.status.BaseDir = s.BaseDir
	o.status.FileRoot = s.FileRoot
	o.mu.Unlock()

	o.setPhase(types.PhaseInitialRun)
	initSettings := s
	initSettings.NLive = o.opts.NInit
	initSettings.FileRoot = s.FileRoot + "_init"
	initSettings.WriteResume = o.opts.Resume
	if err := o.runSampler(ctx, "initial", initSettings); err != nil {
		return nil, nil, o.fail(err)
	}

	var initRun *types.Run
	if primary {
		initRun, err = nsrun.ReadDeadBirth(nsrun.DeadBirthPath(s.BaseDir, initSettings.FileRoot))
		if err != nil {
			return nil, nil, o.fail(fmt.Errorf("read initial run: %w", err))
		}
		o.mu.Lock()
		o.status.NDeadInit = initRun.Len()
		o.mu.Unlock()
	}

	o.setPhase(types.PhaseAllocate)
	var alloc *allocate.Allocation
	if primary {
		nSampMax := s.MaxNDead
		if nSampMax <= 0 {
			nSampMax = initRun.Len() * nliveConst / o.opts.NInit
		}
		alloc, err = allocate.Allocate(initRun, nSampMax, o.opts.DynamicGoal, o.opts.SmoothingFilter, o.opts.InitStep)
		if err != nil {
			return nil, nil, o.fail(err)
		}
		for _, w := range alloc.Warnings {
			o.warn(w)
		}
	}
	profile, resumeNDead := broadcastAllocation(comm, alloc)

	o.setPhase(types.PhaseDynamicRun)
	dynSettings := s
	dynSettings.FileRoot = s.FileRoot + "_dyn"
	dynSettings.NLives = profile
	if len(profile.Nlives) > 0 {
		dynSettings.NLive = profile.Nlives[0]
	}
	if s.Seed >= 0 {
		dynSettings.Seed = s.Seed + 100
	}
	if o.opts.Resume && resumeNDead > 0 {
		if primary {
			if err := copyFile(
				sampler.ResumePath(s.BaseDir, initSettings.FileRoot),
				sampler.ResumePath(s.BaseDir, dynSettings.FileRoot)); err != nil {
				return nil, nil, o.fail(fmt.Errorf("stage resume snapshot: %w", err))
			}
		}
		dynSettings.ReadResume = true
	}
	if err := o.runSampler(ctx, "dynamic", dynSettings); err != nil {
		return nil, nil, o.fail(err)
	}

	o.setPhase(types.PhaseCombine)
	var combined *types.Run
	if primary {
		dynRun, err := nsrun.ReadDeadBirth(nsrun.DeadBirthPath(s.BaseDir, dynSettings.FileRoot))
		if err != nil {
			return nil, nil, o.fail(fmt.Errorf("read dynamic run: %w", err))
		}
		o.mu.Lock()
		o.status.NDeadDyn = dynRun.Len()
		o.mu.Unlock()
		if dynSettings.ReadResume {
			var combineWarnings []string
			combined, combineWarnings = nsrun.CombineResumed(initRun, dynRun, resumeNDead)
			for _, w := range combineWarnings {
				o.warn(w)
			}
		} else {
			combined = nsrun.CombineIndependent(initRun, dynRun)
		}
		deadPointsTotal.Add(float64(combined.Len()))
	}

	o.setPhase(types.PhasePersist)
	if primary {
		if err := nsrun.WriteRun(combined, s.BaseDir, s.FileRoot, s.Posteriors); err != nil {
			return nil, nil, o.fail(fmt.Errorf("persist combined run: %w", err))
		}
	}

	o.setPhase(types.PhaseDone)
	st := o.Status()
	return combined, st.Warnings, nil
}

func (o *Orchestrator) runSampler(ctx context.Context, stage string, s types.Settings) error {
	start := time.Now()
	err := o.opts.Sampler.Run(ctx, s, o.opts.Comm)
	samplerDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s run: %w", stage, err)
	}
	return nil
}

// broadcastAllocation distributes the primary rank's allocation across the
// process group as a flat float vector.
func broadcastAllocation(comm sampler.Communicator, alloc *allocate.Allocation) (types.AllocationProfile, int) {
	var data []float64
	if alloc != nil {
		data = append(data, float64(len(alloc.Profile.LogLs)))
		data = append(data, alloc.Profile.LogLs...)
		for _, n := range alloc.Profile.Nlives {
			data = append(data, float64(n))
		}
		data = append(data, float64(alloc.ResumeNDead))
	}
	data = comm.Bcast(0, data)
	if len(data) == 0 {
		return types.AllocationProfile{}, 0
	}
	n := int(data[0])
	p := types.AllocationProfile{
		LogLs:  append([]float64(nil), data[1:1+n]...),
		Nlives: make([]int, n),
	}
	for i := 0; i < n; i++ {
		p.Nlives[i] = int(data[1+n+i])
	}
	return p, int(data[1+2*n])
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
