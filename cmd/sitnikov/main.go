package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/sitnikov/internal/analysis"
	"github.com/san-kum/sitnikov/internal/config"
	"github.com/san-kum/sitnikov/internal/integrators"
	"github.com/san-kum/sitnikov/internal/metrics"
	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/orbit"
	"github.com/san-kum/sitnikov/internal/physics"
	"github.com/san-kum/sitnikov/internal/scan"
	"github.com/san-kum/sitnikov/internal/sim"
	"github.com/san-kum/sitnikov/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	a          float64
	ecc        float64
	periods    int
	step       float64
	integrator string
	tolerance  float64

	z0 float64
	v0 float64

	zStart, zStop float64
	vStart, vStop float64
	gridStep      float64
	fixedVelocity bool
	workers       int

	escapeThreshold float64
	lyapunov        bool
)

var log zerolog.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitnikov",
		Short: "Sitnikov problem trajectory scanner",
		Long: "Integrates the out-of-plane motion of the massless body in the " +
			"Sitnikov restricted three-body problem, parameterized by the " +
			"eccentric anomaly of the primaries.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sitnikov", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a single trajectory",
		RunE:  runTrajectory,
	}
	addOrbitFlags(runCmd)
	runCmd.Flags().Float64Var(&z0, "z0", config.DefaultZ0, "initial out-of-plane displacement")
	runCmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial out-of-plane velocity")
	runCmd.Flags().Float64Var(&escapeThreshold, "escape", 50.0, "escape threshold on |z|")
	runCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest Lyapunov exponent")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "integrate a grid of initial conditions",
		RunE:  runScan,
	}
	addOrbitFlags(scanCmd)
	scanCmd.Flags().Float64Var(&zStart, "z-start", 0.1, "grid z range start")
	scanCmd.Flags().Float64Var(&zStop, "z-stop", 2.0, "grid z range stop (exclusive)")
	scanCmd.Flags().Float64Var(&vStart, "v-start", 0.0, "grid v range start")
	scanCmd.Flags().Float64Var(&vStop, "v-stop", 0.0, "grid v range stop (exclusive)")
	scanCmd.Flags().Float64Var(&gridStep, "grid-step", 0.1, "grid step for both ranges")
	scanCmd.Flags().BoolVar(&fixedVelocity, "fixed-velocity", false, "hold velocity at v-start for every row")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = one per CPU)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, scanCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addOrbitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&a, "a", config.DefaultA, "semi-major axis of the primaries")
	cmd.Flags().Float64Var(&ecc, "e", config.DefaultEcc, "eccentricity of the primaries")
	cmd.Flags().IntVar(&periods, "periods", config.DefaultPeriods, "number of primary periods to cover")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "anomaly sample step")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler|rk4|dopri)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-9, "adaptive local error tolerance")
}

// loadConfig resolves precedence: preset, then config file, then flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		*cfg = *p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("a") {
		cfg.A = a
	}
	if cmd.Flags().Changed("e") {
		cfg.Ecc = ecc
	}
	if cmd.Flags().Changed("periods") {
		cfg.Periods = periods
	}
	if cmd.Flags().Changed("step") {
		cfg.Step = step
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	return cfg, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	el, err := cfg.Elements()
	if err != nil {
		return err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("z0") {
		cfg.Init.Z0 = z0
	}
	if cmd.Flags().Changed("v0") {
		cfg.Init.V0 = v0
	}

	sys := physics.NewSitnikov(el)
	s := sim.New(sys, integ)
	s.AddMetric(metrics.NewEnergyDrift(sys))
	s.AddMetric(metrics.NewEscape(escapeThreshold))

	ctx, cancel := interruptContext()
	defer cancel()

	simCfg := cfg.SimConfig()
	x0 := ode.State{cfg.Init.Z0, cfg.Init.V0}

	log.Info().
		Float64("a", el.A).Float64("e", el.Ecc).
		Float64("z0", x0[0]).Float64("v0", x0[1]).
		Int("periods", simCfg.Periods).Str("integrator", cfg.Integrator).
		Msg("integrating trajectory")

	tr, err := s.Run(ctx, x0, simCfg)
	if err != nil {
		log.Error().Err(err).Msg("integration failed")
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.SaveTrajectory(el.A, el.Ecc, simCfg.Periods, simCfg.Step, cfg.Integrator, tr)
	if err != nil {
		return err
	}
	log.Info().Str("run", runID).Int("samples", len(tr.States)).Msg("saved")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", len(tr.States))
	for name, val := range tr.Metrics {
		fmt.Fprintf(w, "%s\t%g\n", name, val)
	}
	if lyapunov {
		span := simCfg.Period * float64(simCfg.Periods)
		lam := analysis.LyapunovExponent(sys, integrators.NewRK4(), x0, simCfg.Step, span, 1e-8)
		fmt.Fprintf(w, "lyapunov\t%g\n", lam)
	}
	section := analysis.Section(tr, orbit.Period)
	fmt.Fprintf(w, "section points\t%d\n", len(section))
	return w.Flush()
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gridFlagged := cmd.Flags().Changed("z-start") || cmd.Flags().Changed("z-stop") ||
		cmd.Flags().Changed("v-start") || cmd.Flags().Changed("v-stop") ||
		cmd.Flags().Changed("grid-step") || cmd.Flags().Changed("fixed-velocity")
	if gridFlagged {
		cfg.Grid.Z = scan.Range{Start: zStart, Stop: zStop, Step: gridStep}
		cfg.Grid.V = scan.Range{Start: vStart, Stop: vStop, Step: gridStep}
		cfg.Grid.Mode = "full_grid"
		if fixedVelocity {
			cfg.Grid.Mode = "fixed_velocity"
		}
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	el, err := cfg.Elements()
	if err != nil {
		return err
	}
	spec, err := cfg.Grid.Spec()
	if err != nil {
		return err
	}
	grid, err := spec.Build()
	if err != nil {
		return err
	}

	// Fail fast on a bad integrator name instead of inside the pool.
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return err
	}

	sys := physics.NewSitnikov(el)
	batch := sim.NewBatch(sys, func() ode.Integrator {
		integ, _ := integrators.New(cfg.Integrator)
		return integ
	})
	batch.SetWorkers(cfg.Workers)

	ctx, cancel := interruptContext()
	defer cancel()

	simCfg := cfg.SimConfig()
	log.Info().
		Float64("a", el.A).Float64("e", el.Ecc).
		Int("rows", len(grid)).Str("mode", spec.Mode.String()).
		Int("workers", cfg.Workers).
		Msg("scanning initial-condition grid")

	sol, err := batch.Run(ctx, grid, simCfg)
	if err != nil {
		log.Error().Err(err).Msg("scan failed")
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.SaveSolution(el.A, el.Ecc, simCfg.Periods, simCfg.Step, cfg.Integrator, sol)
	if err != nil {
		return err
	}

	log.Info().Str("run", runID).
		Int("rows", sol.Rows()).Int("stride", sol.Stride).
		Int("states", len(sol.States)).
		Msg("scan complete")
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tA\tE\tROWS\tSAMPLES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%d\t%d\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.A, r.Ecc, r.Rows, r.Samples)
	}
	return w.Flush()
}
