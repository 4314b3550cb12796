package types

// Settings holds the sampler configuration for one invocation. Field names
// follow the sampler's own setting names (see internal/sampler for the
// key = value rendering used when driving a compiled sampler binary).
//
// Zero values mean "unspecified"; defaults are applied during validation.
type Settings struct {
	// Population size for a constant-nlive run.
	NLive int `json:"nlive" yaml:"nlive" toml:"nlive"`
	// Optional profile steering population size by logl threshold. Must be
	// empty on entry to an orchestrated run; the allocator fills it in for
	// the dynamic pass.
	NLives AllocationProfile `json:"nlives" yaml:"nlives" toml:"nlives"`
	// Number of slice sampling repeats per new point.
	NumRepeats int `json:"num_repeats" yaml:"num_repeats" toml:"num_repeats"`

	DoClustering      bool `json:"do_clustering" yaml:"do_clustering" toml:"do_clustering"`
	Posteriors        bool `json:"posteriors" yaml:"posteriors" toml:"posteriors"`
	Equals            bool `json:"equals" yaml:"equals" toml:"equals"`
	ClusterPosteriors bool `json:"cluster_posteriors" yaml:"cluster_posteriors" toml:"cluster_posteriors"`

	WriteDead   bool `json:"write_dead" yaml:"write_dead" toml:"write_dead"`
	WriteStats  bool `json:"write_stats" yaml:"write_stats" toml:"write_stats"`
	WritePrior  bool `json:"write_prior" yaml:"write_prior" toml:"write_prior"`
	WriteLive   bool `json:"write_live" yaml:"write_live" toml:"write_live"`
	ReadResume  bool `json:"read_resume" yaml:"read_resume" toml:"read_resume"`
	WriteResume bool `json:"write_resume" yaml:"write_resume" toml:"write_resume"`

	// Termination: stop once the remaining evidence fraction drops below
	// this value.
	PrecisionCriterion float64 `json:"precision_criterion" yaml:"precision_criterion" toml:"precision_criterion"`
	// Hard cap on dead points; <= 0 means unlimited.
	MaxNDead int `json:"max_ndead" yaml:"max_ndead" toml:"max_ndead"`
	// Random seed; negative means unseeded.
	Seed int64 `json:"seed" yaml:"seed" toml:"seed"`
	// Verbosity passed through to the sampler.
	Feedback int `json:"feedback" yaml:"feedback" toml:"feedback"`

	// Output location: BaseDir/FileRoot* is exclusively owned by one run.
	BaseDir  string `json:"base_dir" yaml:"base_dir" toml:"base_dir"`
	FileRoot string `json:"file_root" yaml:"file_root" toml:"file_root"`
}
