package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/morph/internal/compose"
	"github.com/san-kum/morph/internal/config"
	"github.com/san-kum/morph/internal/export"
	"github.com/san-kum/morph/internal/logging"
	"github.com/san-kum/morph/internal/metrics"
	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/shape"
	"github.com/san-kum/morph/internal/sim"
	"github.com/san-kum/morph/internal/storage"
	"github.com/san-kum/morph/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	scriptFile string
	initial    string
	population int
	seed       int64
	workers    int
	fastTrig   bool
	logLevel   string
	logFile    string
	// live view
	frameRate int
	theme     string
	// headless
	frames   int
	schedule []string
	save     bool
	jsonOut  string
	svgOut   string
	// bench
	runs int
)

// main registers the morph commands and runs the live view when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "morph",
		Short:        "particle morphing in the terminal",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".morph", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&scriptFile, "script", "", "composition script (yaml)")
	pf.StringVar(&initial, "initial", "", "initial scene, overriding the script")
	pf.IntVar(&population, "population", config.DefaultPopulation, "number of particles")
	pf.Int64Var(&seed, "seed", 1, "random seed")
	pf.IntVar(&workers, "workers", 1, "tick workers")
	pf.BoolVar(&fastTrig, "fast-trig", false, "use table trigonometry")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to a file")

	rootCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().StringVar(&theme, "theme", "minimal", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report convergence",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	runCmd.Flags().StringSliceVar(&schedule, "at", nil, "apply a scene at a frame, as frame=scene")
	runCmd.Flags().BoolVar(&save, "save", false, "record the run in the data directory")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "export metrics and series to a JSON file")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "render the final frame to an SVG file")
	runCmd.Flags().StringVar(&theme, "theme", "minimal", "color theme for --svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric series of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run independent populations in parallel",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	benchCmd.Flags().IntVar(&runs, "runs", 4, "number of runs")

	shapesCmd := &cobra.Command{
		Use:   "shapes",
		Short: "list shape generators and their default parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHAPE\tDEFAULTS")
			for _, name := range shape.Names() {
				d, err := shape.Defaults(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%v\n", name, d)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration and script presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("configurations:")
			for _, p := range config.ListPresets() {
				c := config.GetPreset(p)
				fmt.Printf("  %-8s population=%d workers=%d script=%s\n", p, c.Population, c.Run.Workers, c.Preset)
			}
			fmt.Println("scripts:")
			for _, p := range compose.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list the scenes of the active script",
		RunE:  listScenes,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "morph.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, benchCmd, shapesCmd, presetsCmd, scenesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves defaults, then a preset, then a config file, then any
// flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("script") {
		cfg.Script = scriptFile
	}
	if flags.Changed("initial") {
		cfg.Initial = initial
	}
	if flags.Changed("population") {
		cfg.Population = population
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = workers
	}
	if flags.Changed("fast-trig") {
		cfg.Run.FastTrig = fastTrig
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.View.Theme = theme
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Frames:        cfg.Run.Frames,
		Workers:       cfg.Run.Workers,
		FastTrig:      cfg.Run.FastTrig,
		LogEvery:      cfg.Run.LogEvery,
		ValidateState: true,
	}
}

// setup builds the arena and applies the script's initial scene.
func setup(cfg *config.Config) (*sim.Simulator, *compose.Script, error) {
	script, err := cfg.LoadScript()
	if err != nil {
		return nil, nil, err
	}
	a, err := particle.NewArena(cfg.Population, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if err := script.ApplyInitial(a.Root()); err != nil {
		return nil, nil, err
	}
	zap.S().Infow("arena ready", "population", a.Len(), "seed", cfg.Seed, "script", script.Name, "scene", script.Initial)
	return sim.New(a), script, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stderr belongs to the terminal UI; only log when a file is given
	if cfg.Log.File != "" {
		if _, err := logging.Init(logging.Config(cfg.Log)); err != nil {
			return err
		}
	} else {
		logging.Nop()
	}
	defer zap.L().Sync()

	s, script, err := setup(cfg)
	if err != nil {
		return err
	}
	step := simConfig(cfg)
	step.ValidateState = false

	m := viz.NewModel(s, script, script.Initial, viz.Options{
		FPS:    cfg.View.FPS,
		Width:  cfg.View.Width,
		Height: cfg.View.Height,
		Zoom:   cfg.View.Zoom,
		Theme:  cfg.View.Theme,
		Step:   step,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// parseSchedule reads frame=scene pairs.
func parseSchedule(entries []string, script *compose.Script) (map[int]string, error) {
	out := make(map[int]string, len(entries))
	for _, e := range entries {
		f, name, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid schedule entry %q, want frame=scene", e)
		}
		frame, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || frame < 0 {
			return nil, fmt.Errorf("invalid frame in %q", e)
		}
		name = strings.TrimSpace(name)
		if _, ok := script.Scenes[name]; !ok {
			return nil, fmt.Errorf("%w: %s", compose.ErrUnknownScene, name)
		}
		out[frame] = name
	}
	return out, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := logging.Init(logging.Config(cfg.Log)); err != nil {
		return err
	}
	defer zap.L().Sync()

	s, script, err := setup(cfg)
	if err != nil {
		return err
	}
	at, err := parseSchedule(schedule, script)
	if err != nil {
		return err
	}

	s.AddMetric(metrics.NewConvergence())
	s.AddMetric(metrics.NewSettleFrame(1))
	s.AddMetric(metrics.NewSpread())
	s.AddMetric(metrics.NewChase())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var applyErr error
	result, err := s.RunWithCallback(ctx, simConfig(cfg), func(frame int) bool {
		name, ok := at[frame]
		if !ok {
			return true
		}
		if applyErr = script.Apply(s.Root(), name); applyErr != nil {
			return false
		}
		zap.S().Infow("scene applied", "scene", name, "frame", frame)
		return true
	})
	if applyErr != nil {
		return applyErr
	}
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		zap.S().Warnw("run interrupted", "frame", result.Frames, "error", err)
	}

	idle, seeking := s.Arena().Counts()
	fmt.Printf("\n%d particles, %d frames in %v (%.0f fps)\n", s.Arena().Len(), result.Frames, result.Elapsed.Round(time.Millisecond), result.FPS())
	fmt.Printf("idle %d, seeking %d\n\n", idle, seeking)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tFINAL")
	for _, m := range s.Metrics() {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Name(), result.Metrics[m.Name()])
	}
	w.Flush()
	fmt.Println()

	plotSeries(result.Series, []string{"convergence", "spread"})

	if err := writeOutputs(cfg, script, at, s, result); err != nil {
		return err
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %v\n", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("run stopped with %d errors", len(result.Errors))
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := logging.Init(logging.Config(cfg.Log)); err != nil {
		return err
	}
	defer zap.L().Sync()

	script, err := cfg.LoadScript()
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	e := sim.NewEnsemble(cfg.Population, runs, cfg.Seed, func(s *sim.Simulator) error {
		s.AddMetric(metrics.NewSettleFrame(1))
		s.AddMetric(metrics.NewConvergence())
		return script.ApplyInitial(s.Root())
	})

	step := simConfig(cfg)
	step.LogEvery = 0

	fmt.Printf("benchmarking %d x %d particles, %d frames, %d workers\n\n", runs, cfg.Population, step.Frames, step.Workers)
	start := time.Now()
	results, err := e.Run(cmd.Context(), step)
	if err != nil {
		return err
	}
	total := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tTIME\tFPS\tSETTLED AT\tCONVERGED")
	for i, r := range results {
		settle := "-"
		if f := r.Metrics["settle_frame"]; f >= 0 {
			settle = strconv.Itoa(int(f))
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%s\t%.3f\n",
			cfg.Seed+int64(i), r.Frames, r.Elapsed.Round(time.Millisecond), r.FPS(), settle, r.Metrics["convergence"])
	}
	w.Flush()

	particleFrames := float64(runs*cfg.Population) * float64(step.Frames)
	fmt.Printf("\ntotal %v, %.2fM particle-frames/sec\n", total.Round(time.Millisecond), particleFrames/total.Seconds()/1e6)
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	script, err := cfg.LoadScript()
	if err != nil {
		return err
	}

	keys := make(map[string][]string)
	for k, name := range script.Keys {
		keys[name] = append(keys[name], k)
	}

	fmt.Printf("script %s\n\n", script.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tSTEPS\tKEYS\tDESCRIPTION")
	for _, name := range script.SceneNames() {
		sc := script.Scenes[name]
		label := name
		if name == script.Initial {
			label += " *"
		}
		ks := keys[name]
		sort.Strings(ks)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", label, len(sc.Steps), strings.Join(ks, ","), sc.Description)
	}
	return w.Flush()
}

func plotSeries(series map[string][]float64, names []string) {
	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
}

// writeOutputs handles --save, --json and --svg after a headless run.
func writeOutputs(cfg *config.Config, script *compose.Script, at map[int]string, s *sim.Simulator, result *sim.Result) error {
	meta := storage.NewRunMetadata(storage.RunMetadata{
		Script:     script.Name,
		Initial:    script.Initial,
		Schedule:   at,
		Population: cfg.Population,
		Seed:       cfg.Seed,
		Workers:    cfg.Run.Workers,
		FastTrig:   cfg.Run.FastTrig,
	}, result)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		fmt.Printf("saved run: %s\n", runID)
	}
	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, meta, result); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", jsonOut)
	}
	if svgOut != "" {
		canvas := viz.NewCanvas(cfg.View.Width, cfg.View.Height)
		cam := viz.NewCamera()
		cam.Zoom = cfg.View.Zoom
		viz.RenderPoints(canvas, s.Arena().Positions(nil), cam)
		if err := export.WriteSVG(svgOut, canvas, 4, string(viz.GetTheme(cfg.View.Theme).Particles)); err != nil {
			return err
		}
		fmt.Printf("rendered: %s\n", svgOut)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCRIPT\tPOPULATION\tSEED\tFRAMES\tFPS\tCONVERGED\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.0f\t%.3f\t%s\n",
			r.ID, r.Script, r.Population, r.Seed, r.Frames, r.FPS, r.Metrics["convergence"],
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %d particles, %d frames)\n\n", meta.ID, meta.Script, meta.Population, meta.Frames)
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	plotSeries(series, names)
	return nil
}
