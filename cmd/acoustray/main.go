package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/acoustray/internal/config"
	"github.com/san-kum/acoustray/internal/render"
	"github.com/san-kum/acoustray/internal/scenario"
	"github.com/san-kum/acoustray/internal/sim"
	"github.com/san-kum/acoustray/internal/storage"
	"github.com/san-kum/acoustray/internal/viz"
)

var (
	logLevel string
	logger   *log.Logger

	configFile string
	preset     string
	outputDir  string
	dt         float64
	duration   float64
	frames     int
	cellSize   float64

	showProgress bool
	renderMode   string
	jsonOut      bool
	frequencies  []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "acoustray",
		Short:         "2-D underwater acoustic ray propagation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "acoustray",
				Level:           level,
			})
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and write its frames",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames to write")
	runCmd.Flags().Float64Var(&cellSize, "cell", config.DefaultCellSize, "grid cell size in metres")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", config.DefaultOutput, "output directory (recreated)")
	runCmd.Flags().BoolVar(&showProgress, "progress", false, "show a live progress view")
	runCmd.Flags().StringVar(&renderMode, "render", "none", "animate the run: none, gif, command")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run manifest as JSON")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "rerun a scenario at several source frequencies in parallel",
		Args:  cobra.NoArgs,
		RunE:  sweepScenario,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&frequencies, "freq", []float64{10, 50, 200}, "frequencies in Hz")
	sweepCmd.Flags().StringVarP(&outputDir, "output", "o", config.DefaultOutput, "root output directory")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot the water column against depth",
		Args:  cobra.NoArgs,
		RunE:  plotProfile,
	}
	scenarioFlags(profileCmd)
	profileCmd.Flags().Float64Var(&maxDepth, "depth", 5000, "deepest sample in metres")
	profileCmd.Flags().IntVar(&samples, "samples", 200, "number of depth samples")
	profileCmd.Flags().Float64Var(&frequency, "freq", 1000, "frequency for absorption in Hz")
	profileCmd.Flags().BoolVar(&table, "table", false, "print a table instead of plots")

	plotCmd := &cobra.Command{
		Use:   "plot [dir]",
		Short: "plot per-frame statistics of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	previewCmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "draw one frame in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  previewFrame,
	}
	previewCmd.Flags().IntVar(&previewIndex, "frame", 0, "frame index")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "width in characters")
	previewCmd.Flags().IntVar(&height, "height", 24, "height in characters")
	previewCmd.Flags().Float64Var(&floor, "floor", 1e-6, "hide cells dimmer than this fraction of the strongest ray")

	tlCmd := &cobra.Command{
		Use:   "tl [dir]",
		Short: "transmission loss along a depth",
		Args:  cobra.MaximumNArgs(1),
		RunE:  transmissionLoss,
	}
	tlCmd.Flags().IntVar(&tlIndex, "frame", -1, "frame index (default last)")
	tlCmd.Flags().Float64Var(&depthY, "y", -200, "receiver height in metres")
	tlCmd.Flags().Float64Var(&tolerance, "tol", 0, "height tolerance (default half a cell)")
	tlCmd.Flags().Float64Var(&reference, "ref", 0, "reference intensity (default strongest ray)")

	receiverCmd := &cobra.Command{
		Use:   "receiver [dir]",
		Short: "intensity time series and spectrum at a point",
		Args:  cobra.MaximumNArgs(1),
		RunE:  receiverSpectrum,
	}
	receiverCmd.Flags().Float64Var(&receiverX, "x", 0, "receiver x in metres")
	receiverCmd.Flags().Float64Var(&depthY, "y", -200, "receiver y in metres")
	receiverCmd.Flags().Float64Var(&tolerance, "tol", 0, "search radius (default one cell)")

	svgCmd := &cobra.Command{
		Use:   "export-svg [dir]",
		Short: "export one frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&svgIndex, "frame", 0, "frame index")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "width in pixels")
	svgCmd.Flags().StringVarP(&svgFile, "out", "f", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVar(&dumpPreset, "dump", "", "print the named preset as YAML")

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list boundary materials",
		Args:  cobra.NoArgs,
		RunE:  listMaterials,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, profileCmd, plotCmd, previewCmd, tlCmd, receiverCmd, svgCmd, presetsCmd, materialsCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "built-in scenario")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
}

// loadScenario resolves --config or --preset, falling back to the default
// scenario, and applies any flags the user set explicitly.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("cell") {
		cfg.CellSize = cellSize
	}
	if flags.Changed("output") {
		cfg.Output = outputDir
	}
	return cfg, nil
}

func pickRenderer(mode string, cfg *config.Config) (sim.Renderer, error) {
	switch mode {
	case "", "none":
		return nil, nil
	case "gif":
		return &viz.GIFRenderer{Logger: logger}, nil
	case "command":
		return &render.Command{
			Name:   cfg.Render.Command,
			Args:   cfg.Render.Args,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
			Logger: logger,
		}, nil
	}
	return nil, fmt.Errorf("unknown render mode: %s (none, gif, command)", mode)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	renderer, err := pickRenderer(renderMode, cfg)
	if err != nil {
		return err
	}
	sc, err := scenario.Build(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := storage.New(cfg.Output)
	logger.Info("running", "scenario", cfg.Name, "output", store.Dir(), "frames", cfg.Frames)
	start := time.Now()

	var (
		res      *sim.Result
		manifest *storage.Manifest
	)
	if showProgress {
		res, manifest, err = runWithProgress(ctx, sc, store, renderer)
	} else {
		res, manifest, err = sc.Run(ctx, store, renderer)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return storage.EncodeManifest(os.Stdout, manifest)
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("output: %s\n", store.Dir())
	fmt.Printf("frames: %d (every %d of %d steps)\n", res.Frames, res.Spacing, res.Steps)
	fmt.Printf("peak rays: %d\n", res.PeakRays)
	fmt.Printf("events: %d crossings, %d reflections, %d total internal, %d removed\n",
		res.Events.Crossings, res.Events.Reflections, res.Events.TotalInternal, res.Events.Removed)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, res.Metrics[name])
	}
	return nil
}

// runWithProgress runs the scenario on its own goroutine while a Bubble Tea
// view follows the frames. Quitting the view cancels the run.
func runWithProgress(ctx context.Context, sc *scenario.Scenario, store *storage.Store, renderer sim.Renderer) (*sim.Result, *storage.Manifest, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := sc.Simulation()
	feed := viz.NewFeed(ctx, 1)
	s.AddObserver(feed)

	xr, yr := s.Ranges()
	model := viz.NewProgress(viz.ProgressConfig{
		Title:     sc.Config().Name,
		Frames:    sc.Config().Frames,
		Feed:      feed,
		Preview:   viz.Preview{XRange: xr, YRange: yr, Floor: 1e-6},
		Outlines:  s.Outlines(),
		Reference: strongestRay(s),
		Cancel:    cancel,
	})

	var (
		res      *sim.Result
		manifest *storage.Manifest
		runErr   error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		res, manifest, runErr = sc.Run(ctx, store, renderer)
		feed.Finish(runErr)
	}()

	_, err := tea.NewProgram(model).Run()
	if err != nil {
		cancel()
	}
	<-finished
	if err != nil {
		return nil, nil, err
	}
	return res, manifest, runErr
}

func strongestRay(s *sim.Simulation) float64 {
	best := 0.0
	for _, src := range s.Sources() {
		best = max(best, src.RayIntensity())
	}
	return best
}

func sweepScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sweeping", "scenario", cfg.Name, "frequencies", frequencies)
	runs, err := scenario.Sweep(ctx, cfg, frequencies, cfg.Output, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FREQ\tDIR\tFRAMES\tPEAK RAYS\tMEAN ENERGY\tREMOVED")
	for _, r := range runs {
		if r.Manifest == nil {
			fmt.Fprintf(w, "%gHz\t%s\tfailed\t\t\t\n", r.Frequency, r.Dir)
			continue
		}
		m := r.Manifest
		fmt.Fprintf(w, "%gHz\t%s\t%d\t%d\t%.4g\t%d\n",
			r.Frequency, r.Dir, m.Frames, m.PeakRays, m.Metrics["mean_energy"], m.Events.Removed)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}
