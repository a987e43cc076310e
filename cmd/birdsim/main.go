package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/birdsim/internal/automation"
	"github.com/san-kum/birdsim/internal/config"
	"github.com/san-kum/birdsim/internal/damage"
	"github.com/san-kum/birdsim/internal/experiment"
	"github.com/san-kum/birdsim/internal/export"
	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/logging"
	"github.com/san-kum/birdsim/internal/optim"
	"github.com/san-kum/birdsim/internal/replay"
	"github.com/san-kum/birdsim/internal/sim"
	"github.com/san-kum/birdsim/internal/storage"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	configFile  string
	preset      string
	bird        string
	force       float64
	angle       float64
	boost       float64
	attack      string
	airDensity  float64
	drag        float64
	area        float64
	dt          float64
	gravity     float64
	contactTime float64
	maxSteps    int

	localized bool
	outPath   string

	sweepFrom    float64
	sweepTo      float64
	sweepStep    float64
	sweepWorkers int
	sweepMetric  string

	noStore bool

	aimTarget string
	aimX      float64
	aimForces []float64
	aimFrom   float64
	aimTo     float64
	aimStep   float64

	mcTrials      int
	mcAngleJitter float64
	mcForceJitter float64
	mcSeed        int64

	log     = zerolog.Nop()
	logSink *os.File
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "birdsim",
		Short:         "projectile flight, collision and damage simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
				if err != nil {
					return err
				}
				logSink = f
				log = logging.New(os.Stderr, f, logLevel)
				return nil
			}
			log = logging.New(os.Stderr, nil, logLevel)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logSink != nil {
				logSink.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".birdsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a launch and resolve its impact",
		Args:  cobra.NoArgs,
		RunE:  runLaunch,
	}
	addLaunchFlags(runCmd)
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not save the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot height and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&localized, "localized", false, "semicolon-separated layout with localized header")
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a full run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a launch over a range of angles",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addLaunchFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 5, "first angle (degrees)")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 85, "last angle (degrees)")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 5, "angle increment (degrees)")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel workers (default GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "range", "metric to maximize")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play a stored run, or a fresh launch, in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReplay,
	}
	addLaunchFlags(replayCmd)

	aimCmd := &cobra.Command{
		Use:   "aim",
		Short: "grid-search angle and force to hit an obstacle or land at a distance",
		Args:  cobra.NoArgs,
		RunE:  runAim,
	}
	addLaunchFlags(aimCmd)
	aimCmd.Flags().StringVar(&aimTarget, "target", "", "obstacle label to hit")
	aimCmd.Flags().Float64Var(&aimX, "x", 0, "landing distance to aim for (m)")
	aimCmd.Flags().Float64Var(&aimFrom, "from", 5, "first angle (degrees)")
	aimCmd.Flags().Float64Var(&aimTo, "to", 85, "last angle (degrees)")
	aimCmd.Flags().Float64Var(&aimStep, "step", 1, "angle increment (degrees)")
	aimCmd.Flags().Float64SliceVar(&aimForces, "forces", nil, "launch forces to try (default: configured force)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "fire a scripted sequence of shots at one level",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "estimate hit rates of a noisy launch",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addLaunchFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 200, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcAngleJitter, "angle-jitter", 2, "uniform angle noise (± degrees)")
	monteCarloCmd.Flags().Float64Var(&mcForceJitter, "force-jitter", 0.5, "uniform force noise (± N)")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 = time based)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, birds, boosts and attack modes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, sweepCmd, replayCmd, aimCmd, scenarioCmd, monteCarloCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addLaunchFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset (see presets)")
	f.StringVar(&bird, "bird", def.Bird, "bird (blues, stella, red)")
	f.Float64Var(&force, "force", def.Force, "launch force (N)")
	f.Float64Var(&angle, "angle", def.Angle, "launch angle (degrees)")
	f.Float64Var(&boost, "boost", def.Boost, "launch force multiplier (1, 1.2, 1.5, 2)")
	f.StringVar(&attack, "attack", def.Attack, "attack mode (normal, accelerated, explosive)")
	f.Float64Var(&airDensity, "density", def.AirDensity, "air density (kg/m³)")
	f.Float64Var(&drag, "drag", def.DragCoefficient, "drag coefficient")
	f.Float64Var(&area, "area", def.Area, "cross-section area (m²)")
	f.Float64Var(&dt, "dt", def.Dt, "time step (s)")
	f.Float64Var(&gravity, "gravity", def.Gravity, "gravity (m/s²)")
	f.Float64Var(&contactTime, "contact-time", def.ContactTime, "impact contact time (s)")
	f.IntVar(&maxSteps, "max-steps", sim.DefaultMaxSteps, "integration step bound")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bird") {
		cfg.Bird = bird
		cfg.Mass = 0
	}
	if flags.Changed("force") {
		cfg.Force = force
	}
	if flags.Changed("angle") {
		cfg.Angle = angle
	}
	if flags.Changed("boost") {
		cfg.Boost = boost
	}
	if flags.Changed("attack") {
		cfg.Attack = attack
	}
	if flags.Changed("density") {
		cfg.AirDensity = airDensity
	}
	if flags.Changed("drag") {
		cfg.DragCoefficient = drag
	}
	if flags.Changed("area") {
		cfg.Area = area
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("contact-time") {
		cfg.ContactTime = contactTime
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out, err := experiment.Run(ctx, cfg, log)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, out)

	if noStore {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(out)
	if err != nil {
		return err
	}
	log.Info().Str("run", runID).Str("dir", dataDir).Msg("run stored")
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBIRD\tTIME\tANGLE\tV0\tFLIGHT\tRANGE\tFORCE\tHIT")

	for _, run := range runs {
		hit := "-"
		if run.Collision != nil {
			hit = run.Collision.Obstacle.Label
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f°\t%.2fm/s\t%.2fs\t%.2fm\t%.1fN\t%s\n",
			run.ID,
			run.Bird,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.AngleDeg,
			run.InitialSpeed,
			run.Metrics["flight_time"],
			run.Metrics["range"],
			run.ImpactForce,
			hit,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bird: %s  angle: %.1f°  v0: %.2f m/s\n", meta.Bird, meta.Params.AngleDeg, meta.InitialSpeed)
	fmt.Printf("samples: %d\n\n", len(traj))

	heights := make([]float64, len(traj))
	speeds := make([]float64, len(traj))
	for i, s := range traj {
		heights[i] = s.Y
		speeds[i] = s.Speed
	}

	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("height (m) vs sample"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("speed (m/s) vs sample"),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	format := export.Standard
	if localized {
		format = export.Localized
	}

	if outPath == "" {
		return export.WriteCSV(os.Stdout, traj, format)
	}
	if err := export.WriteFile(outPath, traj, format); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(traj), outPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	out, err := st.LoadOutcome(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.WriteJSON(os.Stdout, out)
	}
	if err := export.WriteJSONFile(outPath, out); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outPath)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}

	angles := sim.Angles(sweepFrom, sweepTo, sweepStep)
	if len(angles) == 0 {
		return fmt.Errorf("%w: empty angle range %g..%g step %g", flight.ErrInvalidParameter, sweepFrom, sweepTo, sweepStep)
	}

	ctx, cancel := signalContext()
	defer cancel()

	points, err := sim.Sweep(ctx, base, angles, sim.SweepConfig{
		Workers:  sweepWorkers,
		MaxSteps: cfg.MaxSteps,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tFLIGHT\tRANGE\tMAX HEIGHT\tFINAL SPEED")
	for _, p := range points {
		m := p.Result.Metrics
		fmt.Fprintf(w, "%.1f°\t%.2fs\t%.2fm\t%.2fm\t%.2fm/s\n",
			p.AngleDeg, m["flight_time"], m["range"], m["max_height"], p.Result.FinalSpeed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sim.Best(points, sweepMetric); ok {
		fmt.Printf("\nbest %s: %.2f at %.1f°\n", sweepMetric, best.Result.Metrics[sweepMetric], best.AngleDeg)
	}
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		out, err := storage.New(dataDir).LoadOutcome(args[0])
		if err != nil {
			return err
		}
		return replay.Run(out.Result.Trajectory, out.Obstacles, out.Result.Params.TimeStep)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := experiment.Run(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := replay.Run(out.Result.Trajectory, out.Obstacles, out.Result.Params.TimeStep); err != nil {
		return err
	}
	printSummary(os.Stdout, out)
	return nil
}

func runAim(cmd *cobra.Command, args []string) error {
	var objective optim.Objective
	switch {
	case aimTarget != "":
		objective = optim.HitObstacle(aimTarget)
	case cmd.Flags().Changed("x"):
		objective = optim.LandAt(aimX)
	default:
		return fmt.Errorf("aim needs --target or --x")
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	grid := &optim.GridSearch{Angles: sim.Angles(aimFrom, aimTo, aimStep), Forces: aimForces}
	best, err := grid.Search(ctx, func() (*experiment.Experiment, error) {
		return experiment.New(cfg, zerolog.Nop())
	}, objective)
	if err != nil {
		return err
	}

	p := best.Outcome.Result.Params
	fmt.Printf("best shot: angle %.1f°, force %.1f N (score %.3f)\n\n", p.AngleDeg, p.LaunchForce, best.Score)
	printSummary(os.Stdout, best.Outcome)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, log)
	if err != nil {
		return err
	}

	fmt.Println(heading.Render(fmt.Sprintf("scenario %s: %d/%d shots", sc.Name, len(results), len(sc.Shots))))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHOT\tBIRD\tANGLE\tFORCE\tHIT")
	for i, out := range results {
		hit := "-"
		if out.Collision != nil {
			hit = out.Collision.Obstacle.Label
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f°\t%.1fN\t%s\n", i+1, out.Bird, out.Result.Params.AngleDeg, out.ImpactForce, hit)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if n := len(results); n > 0 {
		fmt.Println()
		fmt.Println(impactTable(results[n-1].Impacts))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := automation.RunMonteCarlo(ctx, cfg, automation.MonteCarloConfig{
		Trials:      mcTrials,
		AngleJitter: mcAngleJitter,
		ForceJitter: mcForceJitter,
		Seed:        mcSeed,
	}, log)
	if err != nil {
		return err
	}

	fmt.Printf("trials: %d  mean impact force: %.1f N\n", res.Trials, res.MeanForce)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSTACLE\tHITS\tRATE")
	for _, o := range cfg.Obstacles {
		if o.Bounds == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", o.Label, res.Hits[o.Label], 100*res.HitRate(o.Label))
	}
	fmt.Fprintf(w, "(miss)\t%d\t%.1f%%\n", res.Misses, 100*float64(res.Misses)/float64(max(res.Trials, 1)))
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println("birds:")
	for _, name := range config.ListBirds() {
		fmt.Printf("  %-8s %.1f kg\n", name, config.Birds[name])
	}

	fmt.Println("boosts:")
	for _, b := range config.Boosts {
		fmt.Printf("  x%g\n", b)
	}

	fmt.Println("attack modes:")
	for _, m := range damage.Modes() {
		f, err := damage.MultiplierFor(m)
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s x%g\n", m, f)
	}
	return nil
}
