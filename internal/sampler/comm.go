package sampler

// Communicator abstracts the process group a sampler may be running
// across. The orchestrator performs allocation and combination on the
// primary rank only and broadcasts results to the rest of the group.
type Communicator interface {
	Rank() int
	Size() int
	// Bcast distributes data from the given root rank to every rank and
	// returns the received copy.
	Bcast(root int, data []float64) []float64
}

// SingleProcess is the default Communicator for non-MPI execution.
type SingleProcess struct{}

func (SingleProcess) Rank() int { return 0 }

func (SingleProcess) Size() int { return 1 }

func (SingleProcess) Bcast(root int, data []float64) []float64 { return data }
