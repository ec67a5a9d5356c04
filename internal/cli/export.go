package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"campaign-sim/internal/app"
	"campaign-sim/internal/metrics"
)

var (
	exportEntity    string
	exportLevel     string
	exportLookback  int
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an entity's history and fitted response curve as CSV and/or PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, ok := metrics.ParseLevel(exportLevel)
		if !ok {
			return fmt.Errorf("unknown --level %q (campaign, ad_group, ad)", exportLevel)
		}

		opts := app.ExportOptions{
			EntityID:     exportEntity,
			Level:        level,
			LookbackDays: exportLookback,
			PNGPath:      exportPNGPath,
			CSVPath:      exportCSVPath,
			MaxPoints:    exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportEntity, "entity", "", "Entity ID to export")
	exportCmd.Flags().StringVar(&exportLevel, "level", "campaign", "Entity level (campaign, ad_group, ad)")
	exportCmd.Flags().IntVar(&exportLookback, "lookback", 0, "Lookback window in days (defaults to config)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")

	_ = exportCmd.MarkFlagRequired("entity")
}
