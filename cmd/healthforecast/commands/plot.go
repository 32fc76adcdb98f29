package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	healthforecast "github.com/aouyang1/go-healthforecast"
)

var ErrNoMatchingSeries = errors.New("no series matches")

var (
	plotCountry string
	plotDisease string
	plotOut     string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the history and every model's forecast as an HTML chart page",
	Long: `plot fits the newest forecast input without writing any outputs and renders one chart per
series. --country and --disease filter the series case insensitively.`,
	Example: `  healthforecast plot --country Fra --disease Measles --out measles.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeStore, err := openPipeline(nil)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		out, err := p.Evaluate(cmd.Context())
		if err != nil {
			return err
		}

		keys := matchKeys(out.Reports, plotCountry, plotDisease)
		if len(keys) == 0 {
			return fmt.Errorf("country %q disease %q, %w", plotCountry, plotDisease, ErrNoMatchingSeries)
		}

		f, err := os.Create(plotOut)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := out.Plot(f, keys...); err != nil {
			return err
		}
		slog.Info("wrote plot", "path", plotOut, "series", len(keys))
		return nil
	},
}

func matchKeys(reports []healthforecast.SeriesReport, country, disease string) []healthforecast.EntityKey {
	var keys []healthforecast.EntityKey
	for _, r := range reports {
		if country != "" && !strings.EqualFold(r.Key.Country, country) {
			continue
		}
		if disease != "" && !strings.EqualFold(r.Key.Disease, disease) {
			continue
		}
		keys = append(keys, r.Key)
	}
	return keys
}

func init() {
	plotCmd.Flags().StringVar(&plotCountry, "country", "", "country code to plot")
	plotCmd.Flags().StringVar(&plotDisease, "disease", "", "disease to plot")
	plotCmd.Flags().StringVar(&plotOut, "out", "forecast.html", "output HTML file")
}
