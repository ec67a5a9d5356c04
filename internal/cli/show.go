package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"campaign-sim/internal/app"
	"campaign-sim/internal/metrics"
)

var (
	showLevel    string
	showLookback int
	showLimit    int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current portfolio at one entity level",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, ok := metrics.ParseLevel(showLevel)
		if !ok {
			return fmt.Errorf("unknown --level %q (campaign, ad_group, ad)", showLevel)
		}
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Level:        level,
			LookbackDays: showLookback,
			Limit:        showLimit,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showLevel, "level", "campaign", "Entity level (campaign, ad_group, ad)")
	showCmd.Flags().IntVar(&showLookback, "lookback", 0, "Lookback window in days (defaults to config)")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of entities to display")
}
