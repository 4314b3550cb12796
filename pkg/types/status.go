package types

// Phase identifies one stage of an orchestrated dynamic run.
type Phase string

const (
	PhaseValidate   Phase = "validate"
	PhaseInitialRun Phase = "initial_run"
	PhaseAllocate   Phase = "allocate"
	PhaseDynamicRun Phase = "dynamic_run"
	PhaseCombine    Phase = "combine"
	PhasePersist    Phase = "persist"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// StatusResponse is returned by GET /status while a run is in flight.
type StatusResponse struct {
	// Current orchestration phase.
	Phase Phase `json:"phase"`
	// Output identifier (base_dir/file_root).
	BaseDir  string `json:"base_dir"`
	FileRoot string `json:"file_root"`
	// Blend between evidence and parameter goals, in [0, 1].
	DynamicGoal float64 `json:"dynamic_goal"`
	// Dead point counts, populated as the runs complete.
	NDeadInit int `json:"ndead_init"`
	NDeadDyn  int `json:"ndead_dyn"`
	// Non-fatal degradations accumulated so far.
	Warnings []string `json:"warnings,omitempty"`
	// Error message when Phase is failed.
	Error string `json:"error,omitempty"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
