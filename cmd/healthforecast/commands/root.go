// Package commands implements the healthforecast command line
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aouyang1/go-healthforecast/config"
	"github.com/aouyang1/go-healthforecast/metrics"
	"github.com/aouyang1/go-healthforecast/pipeline"
)

var ErrUnknownProfile = errors.New("unknown profile mode")

var (
	configFile  string
	profileMode string
	profileDir  string

	cfg         *config.Config
	stopProfile func()
)

var profileModes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

var rootCmd = &cobra.Command{
	Use:   "healthforecast",
	Short: "Forecast yearly disease series from public health indicators",
	Long: `healthforecast cleans processed vaccination and disease tables, aggregates them with
anomaly flags and forecasts every (country, disease) series with the best of four models.

Stages read the newest dated input from the configured store and write dated outputs:
  prepare    processed/{vaccination,disease} -> processed/forecasting, logs/eda
  aggregate  processed/forecasting -> aggregated/forecasting
  forecast   processed/forecasting -> processed/forecast, logs/forecast`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and stops any profile it started
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "profile mode (cpu|mem|block|mutex|goroutine|trace)")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile-dir", ".", "directory profiles are written to")

	rootCmd.AddCommand(normalizeCmd, prepareCmd, aggregateCmd, forecastCmd, plotCmd, serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configFile); err != nil {
		return err
	}
	slog.SetDefault(cfg.Log.Logger(cmd.ErrOrStderr()))

	if profileMode == "" {
		return nil
	}
	mode, ok := profileModes[profileMode]
	if !ok {
		modes := make([]string, 0, len(profileModes))
		for m := range profileModes {
			modes = append(modes, m)
		}
		sort.Strings(modes)
		return fmt.Errorf("got %q, expected one of %v, %w", profileMode, modes, ErrUnknownProfile)
	}
	stopProfile = profile.Start(mode, profile.ProfilePath(profileDir), profile.NoShutdownHook, profile.Quiet).Stop
	return nil
}

func teardown() {
	if stopProfile != nil {
		stopProfile()
		stopProfile = nil
	}
}

// openPipeline opens the configured store and builds a pipeline over it. Metrics are registered
// on reg when it is not nil.
func openPipeline(reg prometheus.Registerer) (*pipeline.Pipeline, func() error, error) {
	store, closeStore, err := cfg.Storage.Open()
	if err != nil {
		return nil, nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}
	p, err := pipeline.New(store, &pipeline.Options{
		Engine:     cfg.Engine,
		Preprocess: cfg.Preprocess,
		WriteXLSX:  cfg.Output.XLSX,
	}, m)
	if err != nil {
		closeStore() //nolint:errcheck
		return nil, nil, err
	}
	return p, closeStore, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
