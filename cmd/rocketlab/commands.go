package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/tufankoc/acik-kaynak-roket/internal/automation"
	"github.com/tufankoc/acik-kaynak-roket/internal/calc"
	"github.com/tufankoc/acik-kaynak-roket/internal/config"
	"github.com/tufankoc/acik-kaynak-roket/internal/export"
	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/server"
	"github.com/tufankoc/acik-kaynak-roket/internal/sim"
	"github.com/tufankoc/acik-kaynak-roket/internal/viz"
)

var (
	plotFlag   bool
	jsonFlag   bool
	outFile    string
	sweepFrom  int
	sweepTo    int
	sweepStep  int
	workers    int
	listenAddr string
	themeName  string
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveProfile(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the view; only network log writers stay active
	a, err := setup(cmd.Context(), io.Discard)
	if err != nil {
		return err
	}
	defer a.close()

	ctrl, err := a.controller(cfg)
	if err != nil {
		return err
	}

	if themeName != "" {
		viz.SetTheme(themeName)
	}
	p := tea.NewProgram(viz.NewModel(ctrl, cfg.Inputs()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "fly one mission headless and print the result",
		RunE:  runHeadless,
	}
	addProfileFlags(cmd)
	cmd.Flags().BoolVar(&plotFlag, "plot", false, "plot altitude and velocity")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the flight as JSON")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the flight as JSON to a file")
	return cmd
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveProfile(cmd)
	if err != nil {
		return err
	}

	a, err := setup(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctrl, err := a.controller(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := sim.NewRunner(cfg.Dt, cfg.Duration).Run(ctx, ctrl, cfg.Inputs())
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := export.ExportJSON(outFile, result); err != nil {
			return fmt.Errorf("failed to export flight: %w", err)
		}
	}
	if jsonFlag {
		return export.WriteJSON(os.Stdout, result)
	}

	printResult(os.Stdout, result)
	if plotFlag {
		alt, vel := downsample(result, 80)
		fmt.Println()
		fmt.Println(asciigraph.Plot(alt, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("altitude (m)")))
		fmt.Println()
		fmt.Println(asciigraph.Plot(vel, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("velocity (m/s)")))
	}
	return nil
}

func printResult(w io.Writer, result *sim.Result) {
	final := result.Final
	fmt.Fprintf(w, "outcome: %s (%s)\n", result.Outcome, final.Status.Text)
	fmt.Fprintf(w, "mission time: %s\n", final.Clock())
	fmt.Fprintf(w, "steps: %d\n", result.Steps)
	if final.ImpactSpeed > 0 {
		fmt.Fprintf(w, "impact speed: %.1f m/s\n", final.ImpactSpeed)
	}
	fmt.Fprintln(w, "\nmetrics:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range []string{"apogee_m", "max_speed_mps", "max_q_pa", "max_q_dwell", "burn_time_s", "peak_g", "control_effort", "specific_energy_jkg"} {
		if v, ok := result.Metrics[name]; ok {
			fmt.Fprintf(tw, "  %s\t%.3f\n", name, v)
		}
	}
	tw.Flush()

	var events []flight.Event
	for _, s := range result.Snapshots {
		events = append(events, s.Events...)
	}
	if len(events) > 0 {
		fmt.Fprintln(w, "\nevents:")
		for _, e := range events {
			fmt.Fprintf(w, "  %8.2fs  %-10s alt %.0f m  vel %.0f m/s\n", e.MissionTime, e.Kind, e.Altitude, e.Velocity)
		}
	}
}

// downsample picks n evenly spaced samples of the flight.
func downsample(result *sim.Result, n int) ([]float64, []float64) {
	snaps := result.Snapshots
	if len(snaps) <= n {
		n = len(snaps)
	}
	alt := make([]float64, n)
	vel := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := 0
		if n > 1 {
			idx = i * (len(snaps) - 1) / (n - 1)
		}
		alt[i] = snaps[idx].State.Altitude
		vel[i] = snaps[idx].State.Velocity
	}
	return alt, vel
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly the same vehicle across a throttle range",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveProfile(cmd)
			if err != nil {
				return err
			}

			results, err := automation.RunSweep(cmd.Context(), &automation.Sweep{
				Fuel:     cfg.Fuel,
				Payload:  cfg.Payload,
				From:     sweepFrom,
				To:       sweepTo,
				Step:     sweepStep,
				Dt:       cfg.Dt,
				Duration: cfg.Duration,
				Workers:  workers,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "THROTTLE\tAPOGEE (m)\tMAX Q (Pa)\tBURN (s)\tPEAK G\tOUTCOME")
			for _, r := range results {
				fmt.Fprintf(tw, "%d%%\t%.0f\t%.0f\t%.2f\t%.1f\t%s\n", r.Throttle, r.Apogee, r.MaxQ, r.BurnTime, r.PeakG, r.Outcome)
			}
			tw.Flush()

			if best, ok := automation.Best(results); ok {
				fmt.Printf("\nhighest safe apogee: %.0f m at %d%%\n", best.Apogee, best.Throttle)
			}
			return nil
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().IntVar(&sweepFrom, "from", 10, "lowest throttle percent")
	cmd.Flags().IntVar(&sweepTo, "to", 100, "highest throttle percent")
	cmd.Flags().IntVar(&sweepStep, "step", 10, "throttle increment in percent")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = unlimited)")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "fly a scripted throttle schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			a, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Printf("running scenario %s: %s\n", sc.Name, sc.Description)
			result, err := automation.RunScenario(cmd.Context(), sc, mission.WithSink(a.sink()), mission.WithLogger(a.logger))
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the mission over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveProfile(cmd)
			if err != nil {
				return err
			}

			a, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			ctrl, err := a.controller(cfg)
			if err != nil {
				return err
			}

			addr := a.settings.HTTP.Listen
			if cmd.Flags().Changed("listen") {
				addr = listenAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(ctrl,
				server.WithGatherer(a.registry),
				server.WithFPS(a.settings.FPS),
				server.WithLogger(a.logger),
				server.WithController(cfg.Controller),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "listen address")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list mission presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFUEL (t)\tPAYLOAD (t)\tTHROTTLE\tCONTROLLER")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%s\n", name, p.Fuel, p.Payload, p.Throttle, p.Controller)
			}
			return tw.Flush()
		},
	}
}

func newCalcCmd() *cobra.Command {
	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "rocketry calculators",
	}

	dvCmd := &cobra.Command{
		Use:   "dv [isp] [wet kg] [dry kg]",
		Short: "ideal delta-v",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseArgs(args)
			if err != nil {
				return err
			}
			fmt.Printf("delta-v: %.0f m/s\n", calc.DeltaV(v[0], v[1], v[2]))
			return nil
		},
	}

	twrCmd := &cobra.Command{
		Use:   "twr [thrust N] [mass kg]",
		Short: "thrust-to-weight ratio",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseArgs(args)
			if err != nil {
				return err
			}
			twr := calc.TWR(v[0], v[1])
			fmt.Printf("TWR: %.2f (%s)\n", twr, calc.ClassifyTWR(twr))
			return nil
		},
	}

	atmoCmd := &cobra.Command{
		Use:   "atmo [altitude km]",
		Short: "exponential atmosphere readout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseArgs(args)
			if err != nil {
				return err
			}
			r := calc.Atmosphere(v[0])
			fmt.Printf("pressure: %.0f Pa\ndensity: %.4f kg/m³\n", r.Pressure, r.Density)
			return nil
		},
	}

	orbitCmd := &cobra.Command{
		Use:   "orbit [speed m/s]",
		Short: "classify a speed by orbit regime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseArgs(args)
			if err != nil {
				return err
			}
			fmt.Println(calc.OrbitRegime(v[0]))
			return nil
		},
	}

	calcCmd.AddCommand(dvCmd, twrCmd, atmoCmd, orbitCmd)
	return calcCmd
}

func parseArgs(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "fly one mission headless and write the strip chart as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveProfile(cmd)
			if err != nil {
				return err
			}

			a, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			ctrl, err := a.controller(cfg)
			if err != nil {
				return err
			}

			result, err := sim.NewRunner(cfg.Dt, cfg.Duration).Run(cmd.Context(), ctrl, cfg.Inputs())
			if err != nil {
				return err
			}

			alt, vel := downsample(result, export.ChartSlots)
			svg := export.ChartSVG(alt, vel)
			if outFile == "" {
				fmt.Println(svg)
				return nil
			}
			return os.WriteFile(outFile, []byte(svg), 0644)
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}
