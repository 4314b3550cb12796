package sampler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"dynens/internal/nsrun"
	"dynens/pkg/types"
)

// Stub is a synthetic in-process sampler. It writes dead-point files with
// the same shape a real sampler would produce, deterministically when the
// settings carry a non-negative seed. Resume requests are served by
// regenerating from the same seed, so only the resume snapshot's presence
// is checked.
type Stub struct {
	NDim      int
	LoglRange float64
	NSample   int
}

// NewStub constructs a Stub for ndim-dimensional runs with default
// per-thread length.
func NewStub(ndim int) Stub {
	return Stub{NDim: ndim, LoglRange: 1, NSample: 10}
}

func (st Stub) Run(ctx context.Context, s types.Settings, comm Communicator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.ReadResume {
		path := ResumePath(s.BaseDir, s.FileRoot)
		if _, err := os.Stat(path); err != nil {
			return ErrResumeUnavailable(path)
		}
	}

	nlive := s.NLive
	for _, n := range s.NLives.Nlives {
		if n > nlive {
			nlive = n
		}
	}
	if nlive < 1 {
		return fmt.Errorf("no live points requested")
	}

	nsample := st.NSample
	if nsample < 1 {
		nsample = 10
	}
	if s.MaxNDead > 0 && nlive*nsample > s.MaxNDead {
		nsample = s.MaxNDead / nlive
		if nsample < 1 {
			nsample = 1
		}
	}

	seed := uint64(time.Now().UnixNano())
	if s.Seed >= 0 {
		seed = uint64(s.Seed)
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	loglRange := st.LoglRange
	if loglRange == 0 {
		loglRange = 1
	}
	run := nsrun.GenerateRun(rng, nlive, nsample, st.NDim, loglRange)
	if err := nsrun.WriteRun(run, s.BaseDir, s.FileRoot, s.Posteriors); err != nil {
		return err
	}
	if s.WriteResume {
		path := ResumePath(s.BaseDir, s.FileRoot)
		if err := os.WriteFile(path, []byte(fmt.Sprintf("%d\n", run.Len())), 0o644); err != nil {
			return fmt.Errorf("write resume snapshot: %w", err)
		}
	}
	return nil
}
