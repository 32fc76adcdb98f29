package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aouyang1/go-healthforecast/pipeline"
	"github.com/aouyang1/go-healthforecast/storage"
)

var (
	normalizeCategory string
	prepareDate       string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rename raw indicator exports into the processed tables and update the master tables",
	Example: `  healthforecast normalize
  healthforecast normalize --category disease`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeStore, err := openPipeline(nil)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		if normalizeCategory != "" {
			m, err := p.Normalize(cmd.Context(), normalizeCategory)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), []*pipeline.Manifest{m})
		}
		manifests, err := p.NormalizeAll(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), manifests)
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean the processed tables of a day into the forecast input",
	Example: `  healthforecast prepare
  healthforecast prepare --date 20240301`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if prepareDate != "" {
			var err error
			if date, err = time.Parse(storage.DateLayout, prepareDate); err != nil {
				return fmt.Errorf("invalid date %q, expected YYYYMMDD, %w", prepareDate, err)
			}
		}

		p, closeStore, err := openPipeline(nil)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		m, err := p.Prepare(cmd.Context(), date)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), m)
	},
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Average the newest forecast input per country and flag year over year anomalies",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeStore, err := openPipeline(nil)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		m, err := p.Aggregate(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), m)
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast every disease series of the newest forecast input",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeStore, err := openPipeline(nil)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		run, err := p.Forecast(cmd.Context())
		if err != nil {
			return err
		}
		// per series reports stay in the stored manifest
		m := *run.Manifest
		m.Reports = nil
		return printJSON(cmd.OutOrStdout(), m)
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeCategory, "category", "", "raw export category, vaccination or disease (default both)")
	prepareCmd.Flags().StringVar(&prepareDate, "date", "", "date stamp of the processed tables, YYYYMMDD (default today)")
}
