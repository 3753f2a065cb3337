package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tufankoc/acik-kaynak-roket/internal/config"
	"github.com/tufankoc/acik-kaynak-roket/internal/control"
	"github.com/tufankoc/acik-kaynak-roket/internal/logging"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

var (
	settingsDir string
	logLevel    string
	configFile  string
	preset      string
	fuel        string
	payload     string
	throttle    string
	controller  string
	kp          float64
	ki          float64
	kd          float64
	target      float64
	bias        float64
	dt          float64
	duration    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rocketlab",
		Short:         "single-stage rocket flight lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&settingsDir, "settings", ".", "directory holding rocketlab.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	addProfileFlags(rootCmd)
	rootCmd.Flags().StringVar(&themeName, "theme", "", "color theme")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly a mission in the terminal",
		RunE:  runLive,
	}
	addProfileFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", "", "color theme")

	rootCmd.AddCommand(
		liveCmd,
		newRunCmd(),
		newSweepCmd(),
		newScenarioCmd(),
		newServeCmd(),
		newPresetsCmd(),
		newCalcCmd(),
		newChartCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "mission profile (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset profile")
	cmd.Flags().StringVar(&fuel, "fuel", config.DefaultFuel, "fuel load in tonnes")
	cmd.Flags().StringVar(&payload, "payload", config.DefaultPayload, "payload in tonnes")
	cmd.Flags().StringVar(&throttle, "throttle", config.DefaultThrottle, "throttle percent")
	cmd.Flags().StringVar(&controller, "controller", "manual", "throttle controller (manual, fixed, pid)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", 0, "pid kd")
	cmd.Flags().Float64Var(&target, "target", config.DefaultTarget, "pid target vertical speed (m/s)")
	cmd.Flags().Float64Var(&bias, "bias", config.DefaultBias, "pid throttle bias")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep for headless runs")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "max mission time for headless runs")
}

// resolveProfile layers preset, profile file and explicitly set flags.
func resolveProfile(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if (preset == "" && configFile == "") || flags.Changed("fuel") {
		cfg.Fuel = fuel
	}
	if (preset == "" && configFile == "") || flags.Changed("payload") {
		cfg.Payload = payload
	}
	if (preset == "" && configFile == "") || flags.Changed("throttle") {
		cfg.Throttle = throttle
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if flags.Changed("bias") {
		cfg.ControllerParams.Bias = bias
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	return cfg, nil
}

// throttleSource returns nil for the manual lever.
func throttleSource(cfg *config.Config) (mission.ThrottleSource, error) {
	if cfg.Controller == "" || cfg.Controller == "manual" {
		return nil, nil
	}
	return control.NewRegistry().Get(cfg.Controller, cfg.GetControllerParams())
}

// app carries the ambient stack shared by every command.
type app struct {
	settings *config.Settings
	logger   zerolog.Logger
	registry *prometheus.Registry
	sinks    []telemetry.Sink
	closers  []func()
}

func setup(ctx context.Context, console io.Writer) (*app, error) {
	settings, err := config.LoadSettings(settingsDir)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}

	opts := logging.Options{Level: settings.LogLevel, Out: console}
	if settings.Graylog.Enabled {
		opts.GraylogAddress = settings.Graylog.Address
	}
	logger, closeLog, err := logging.Setup(opts)
	if err != nil {
		return nil, err
	}

	a := &app{
		settings: settings,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		closers:  []func(){closeLog},
	}

	prom, err := telemetry.NewPrometheusSink(a.registry)
	if err != nil {
		a.close()
		return nil, err
	}
	a.sinks = append(a.sinks, prom, telemetry.NewLogSink(logger))

	if settings.Influx.Enabled {
		influx, closeInflux, err := telemetry.DialInflux(ctx, telemetry.InfluxOptions{
			URL:    settings.Influx.URL,
			Token:  settings.Influx.Token,
			Org:    settings.Influx.Org,
			Bucket: settings.Influx.Bucket,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("InfluxDB unavailable, flight points will not be written")
		} else {
			a.sinks = append(a.sinks, influx)
			a.closers = append(a.closers, closeInflux)
		}
	}

	if settings.Otel.Enabled {
		otelSink, err := telemetry.NewOtelSink(nil)
		if err != nil {
			logger.Warn().Err(err).Msg("OpenTelemetry instruments unavailable")
		} else {
			a.sinks = append(a.sinks, otelSink)
		}
	}

	return a, nil
}

func (a *app) sink() telemetry.Sink { return telemetry.Multi(a.sinks...) }

func (a *app) controller(cfg *config.Config) (*mission.Controller, error) {
	src, err := throttleSource(cfg)
	if err != nil {
		return nil, err
	}
	opts := []mission.Option{
		mission.WithSink(a.sink()),
		mission.WithLogger(a.logger.With().Str("subsys", "mission").Logger()),
	}
	if src != nil {
		opts = append(opts, mission.WithThrottle(src))
	}
	return mission.New(opts...), nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
