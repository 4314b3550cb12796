package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dynens/internal/allocate"
	"dynens/internal/common/fsutil"
	"dynens/internal/config"
	"dynens/internal/httpapi"
	"dynens/internal/likelihoods"
	"dynens/internal/nsrun"
	"dynens/internal/orchestrator"
	"dynens/internal/priors"
	"dynens/internal/registry"
	"dynens/internal/sampler"
	"dynens/pkg/types"
)

func likelihoodByName(name string) (likelihoods.Likelihood, error) {
	switch name {
	case "gaussian", "":
		return likelihoods.Gaussian{Sigma: 1}, nil
	case "gshell":
		return likelihoods.GaussianShell{Sigma: 0.2, RShell: 2}, nil
	case "gmix":
		return likelihoods.GaussianMix{Sigma: 1, Sep: 4}, nil
	case "lgmix":
		return likelihoods.LogGammaMix{}, nil
	case "rastrigin":
		return likelihoods.Rastrigin{}, nil
	case "rosenbrock":
		return likelihoods.Rosenbrock{}, nil
	default:
		return nil, fmt.Errorf("unknown likelihood %q", name)
	}
}

func priorByName(name string, scale float64) (priors.Prior, error) {
	if scale <= 0 {
		scale = 10
	}
	switch name {
	case "uniform", "":
		return priors.Uniform{Min: -scale, Max: scale}, nil
	case "gaussian":
		return priors.Gaussian{Sigma: scale}, nil
	case "half_gaussian":
		return priors.Gaussian{Sigma: scale, Half: true}, nil
	case "exponential":
		return priors.Exponential{Lambda: scale}, nil
	default:
		return nil, fmt.Errorf("unknown prior %q", name)
	}
}

// applyFlagOverrides copies flag values into cfg. With onlyChanged it touches
// just the flags the user set, so a config file keeps its say; without it the
// flag defaults seed the config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, onlyChanged bool) error {
	f := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && (!onlyChanged || f.Changed(name)) {
			err = apply()
		}
	}
	set("base-dir", func() error { cfg.BaseDir, err = f.GetString("base-dir"); return err })
	set("file-root", func() error { cfg.FileRoot, err = f.GetString("file-root"); return err })
	set("likelihood", func() error { cfg.Likelihood, err = f.GetString("likelihood"); return err })
	set("prior", func() error { cfg.Prior, err = f.GetString("prior"); return err })
	set("prior-scale", func() error { cfg.PriorScale, err = f.GetFloat64("prior-scale"); return err })
	set("ndim", func() error { cfg.NDim, err = f.GetInt("ndim"); return err })
	set("dynamic-goal", func() error { cfg.DynamicGoal, err = f.GetFloat64("dynamic-goal"); return err })
	set("ninit", func() error { cfg.NInit, err = f.GetInt("ninit"); return err })
	set("init-step", func() error { cfg.InitStep, err = f.GetInt("init-step"); return err })
	set("nlive", func() error { cfg.NLiveConst, err = f.GetInt("nlive"); return err })
	set("num-repeats", func() error { cfg.NumRepeats, err = f.GetInt("num-repeats"); return err })
	set("seed", func() error { cfg.Seed, err = f.GetInt64("seed"); return err })
	set("max-ndead", func() error { cfg.MaxNDead, err = f.GetInt("max-ndead"); return err })
	set("posteriors", func() error { cfg.Posteriors, err = f.GetBool("posteriors"); return err })
	set("resume", func() error { cfg.Resume, err = f.GetBool("resume"); return err })
	set("status-addr", func() error { cfg.StatusAddr, err = f.GetString("status-addr"); return err })
	return err
}

func applyDefaults(cfg *config.Config) {
	if cfg.NDim <= 0 {
		cfg.NDim = 2
	}
	if cfg.NInit <= 0 {
		cfg.NInit = 10
	}
	if cfg.InitStep <= 0 {
		cfg.InitStep = cfg.NInit
	}
	if cfg.NLiveConst <= 0 {
		cfg.NLiveConst = 100
	}
	if cfg.NumRepeats <= 0 {
		cfg.NumRepeats = 5 * cfg.NDim
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = "chains"
	}
	if cfg.Seed == 0 {
		cfg.Seed = -1
	}
	if cfg.MaxNDead == 0 {
		cfg.MaxNDead = -1
	}
}

func runDynamic(cmd *cobra.Command, samplerExec, mpiStr string) error {
	cfg := config.Config{}
	fromFile := false
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		fromFile = true
	}
	if err := applyFlagOverrides(cmd, &cfg, fromFile); err != nil {
		return err
	}
	applyDefaults(&cfg)
	if expanded, err := fsutil.ExpandHome(cfg.BaseDir); err == nil {
		cfg.BaseDir = expanded
	}

	likelihood, err := likelihoodByName(cfg.Likelihood)
	if err != nil {
		return err
	}
	prior, err := priorByName(cfg.Prior, cfg.PriorScale)
	if err != nil {
		return err
	}
	if cfg.FileRoot == "" {
		cfg.FileRoot = nsrun.SettingsRoot(likelihood.Name(), prior.BlockName(), cfg.NDim, nsrun.RootOptions{
			PriorScale:  cfg.PriorScale,
			DynamicGoal: cfg.DynamicGoal,
			NLiveConst:  cfg.NLiveConst,
			NInit:       cfg.NInit,
			InitStep:    cfg.InitStep,
			NRepeats:    cfg.NumRepeats,
		})
	}

	var smp sampler.Sampler
	if samplerExec != "" {
		compiled := sampler.NewCompiled(samplerExec, sampler.PriorString(prior, cfg.NDim), sampler.DerivedString)
		compiled.MPIStr = mpiStr
		compiled.Logger = log.Logger
		smp = compiled
	} else {
		smp = sampler.NewStub(cfg.NDim)
	}

	orch := orchestrator.New(orchestrator.Options{
		DynamicGoal:     cfg.DynamicGoal,
		NInit:           cfg.NInit,
		InitStep:        cfg.InitStep,
		NLiveConst:      cfg.NLiveConst,
		Resume:          cfg.Resume,
		SmoothingFilter: allocate.MovingAverage(cfg.NInit / 2),
		Sampler:         smp,
		Logger:          log.Logger,
	})

	if cfg.StatusAddr != "" {
		httpapi.SetLogger(log.Logger)
		if origins, _ := cmd.Flags().GetStringSlice("cors-origins"); len(origins) > 0 {
			httpapi.SetCORSOptions(true, origins,
				[]string{http.MethodGet, http.MethodOptions},
				[]string{"Accept", "Content-Type"})
		}
		srv := &http.Server{Addr: cfg.StatusAddr, Handler: httpapi.NewMux(orch)}
		go func() {
			log.Info().Str("addr", cfg.StatusAddr).Msg("status server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("status server error")
			}
		}()
		defer srv.Close()
	}

	settings := map[string]any{
		"base_dir":    cfg.BaseDir,
		"file_root":   cfg.FileRoot,
		"seed":        cfg.Seed,
		"max_ndead":   cfg.MaxNDead,
		"posteriors":  cfg.Posteriors,
		"nlive":       cfg.NLiveConst,
		"num_repeats": cfg.NumRepeats,
	}
	start := time.Now()
	combined, warnings, err := orch.Run(cmd.Context(), settings)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	log.Info().
		Str("file_root", cfg.FileRoot).
		Int("ndead", combined.Len()).
		Int("nthreads", combined.NThreads()).
		Dur("dur", time.Since(start)).
		Msg("dynamic run complete")
	return nil
}

func runCombine(cmd *cobra.Command, args []string) error {
	initRun, err := nsrun.ReadDeadBirth(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	dynRun, err := nsrun.ReadDeadBirth(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}
	resumeNDead, _ := cmd.Flags().GetInt("resume-ndead")
	baseDir, _ := cmd.Flags().GetString("base-dir")
	fileRoot, _ := cmd.Flags().GetString("file-root")
	posteriors, _ := cmd.Flags().GetBool("posteriors")

	var combined *types.Run
	if resumeNDead > 0 {
		var warnings []string
		combined, warnings = nsrun.CombineResumed(initRun, dynRun, resumeNDead)
		for _, w := range warnings {
			log.Warn().Msg(w)
		}
	} else {
		combined = nsrun.CombineIndependent(initRun, dynRun)
	}
	if err := nsrun.WriteRun(combined, baseDir, fileRoot, posteriors); err != nil {
		return err
	}
	log.Info().Int("ndead", combined.Len()).Str("file_root", fileRoot).Msg("runs combined")
	return nil
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dynens",
		Short:         "Dynamic nested sampling orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var samplerExec, mpiStr string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full dynamic nested sampling pass",
		Example: "  dynens run --likelihood gaussian --prior uniform --ndim 4 --dynamic-goal 0.25\n" +
			"  dynens run --config run.yaml --status-addr :8080",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDynamic(cmd, samplerExec, mpiStr)
		},
	}
	// Flags with environment variable defaults
	defaultStatusAddr := os.Getenv("DYNENS_STATUS_ADDR")
	defaultConfig := os.Getenv("DYNENS_CONFIG")

	f := runCmd.Flags()
	f.String("config", defaultConfig, "Config file (.yaml/.json/.toml)")
	f.String("base-dir", "chains", "Output directory")
	f.String("file-root", "", "Output file root (derived from settings when empty)")
	f.String("likelihood", "gaussian", "Likelihood: gaussian|gshell|gmix|lgmix|rastrigin|rosenbrock")
	f.String("prior", "uniform", "Prior: uniform|gaussian|half_gaussian|exponential")
	f.Float64("prior-scale", 10, "Prior scale (half-width, sigma or rate)")
	f.Int("ndim", 2, "Parameter dimension")
	f.Float64("dynamic-goal", 0.25, "Blend between evidence (0) and parameter (1) goals")
	f.Int("ninit", 10, "Initial run population size")
	f.Int("init-step", 0, "Resume snapshot granularity (defaults to ninit)")
	f.Int("nlive", 100, "Population constant sizing the dynamic budget")
	f.Int("num-repeats", 0, "Slice sampling repeats (defaults to 5*ndim)")
	f.Int64("seed", -1, "Random seed; negative for unseeded")
	f.Int("max-ndead", -1, "Total dead point cap; <= 0 for unlimited")
	f.Bool("posteriors", true, "Write the posterior sample table")
	f.Bool("resume", false, "Resume the dynamic run from the initial snapshot")
	f.String("status-addr", defaultStatusAddr, "Listen address for /status and /metrics (empty disables)")
	f.StringSlice("cors-origins", nil, "Origins allowed to read the status API (empty disables CORS)")
	f.StringVar(&samplerExec, "sampler-exec", "", "Compiled sampler executable (empty uses the built-in stub)")
	f.StringVar(&mpiStr, "mpi", "", "MPI launcher prefix, e.g. 'mpirun -np 4'")
	root.AddCommand(runCmd)

	combineCmd := &cobra.Command{
		Use:   "combine <init_dead-birth.txt> <dyn_dead-birth.txt>",
		Short: "Combine two dead-birth files into one run",
		Args:  cobra.ExactArgs(2),
		RunE:  runCombine,
	}
	combineCmd.Flags().Int("resume-ndead", 0, "Dead points at the resume boundary; 0 combines independently")
	combineCmd.Flags().String("base-dir", "chains", "Output directory")
	combineCmd.Flags().String("file-root", "combined", "Output file root")
	combineCmd.Flags().Bool("posteriors", true, "Write the posterior sample table")
	root.AddCommand(combineCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List completed runs in an output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, _ := cmd.Flags().GetString("base-dir")
			runs, err := registry.LoadDir(baseDir)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%s\tposteriors=%v\tstats=%v\n", r.Root, r.HasPosteriors, r.HasStats)
			}
			return nil
		},
	}
	listCmd.Flags().String("base-dir", "chains", "Output directory to scan")
	root.AddCommand(listCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dynens", version)
		},
	})

	return root
}
