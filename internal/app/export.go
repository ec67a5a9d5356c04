package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"campaign-sim/internal/metrics"
	"campaign-sim/internal/simulation"
)

// Export renders an entity's spend/conversion history as CSV and/or a PNG
// scatter with the fitted power-law response curve overlaid.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	if opts.EntityID == "" {
		return errors.New("--entity is required")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = a.Config.Simulation.ModelLookbackDays
	}

	repo := metrics.NewRepository(store, a.Logger)
	history := repo.EntityHistory(ctx, opts.EntityID, opts.Level, lookback)
	if len(history) == 0 {
		a.Logger.Info().Str("entity_id", opts.EntityID).Msg("no history found for export window")
		return nil
	}

	downsampled := downsamplePoints(history, opts.MaxPoints)
	model := simulation.FitPowerLaw(history)
	a.Logger.Info().
		Int("total", len(history)).
		Int("exported", len(downsampled)).
		Float64("alpha", model.Alpha).
		Float64("r_squared", model.RSquared).
		Msg("exporting entity history")

	if opts.CSVPath != "" {
		if err := writeHistoryCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeFitPNG(opts.PNGPath, opts.EntityID, downsampled, model); err != nil {
			return err
		}
	}

	return nil
}

func downsamplePoints(points []metrics.HistoricalDataPoint, max int) []metrics.HistoricalDataPoint {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]metrics.HistoricalDataPoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func writeHistoryCSV(path string, points []metrics.HistoricalDataPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "spend_cents", "conversions", "impressions", "clicks"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		record := []string{
			p.Date.Format(time.DateOnly),
			fmt.Sprintf("%d", p.SpendCents),
			fmt.Sprintf("%g", p.Conversions),
			fmt.Sprintf("%d", p.Impressions),
			fmt.Sprintf("%d", p.Clicks),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeFitPNG(path, entityID string, points []metrics.HistoricalDataPoint, model simulation.Model) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var xs, ys []float64
	for _, p := range points {
		if p.SpendCents <= 0 {
			continue
		}
		xs = append(xs, float64(p.SpendCents)/100)
		ys = append(ys, p.Conversions)
	}
	if len(xs) == 0 {
		return errors.New("no active days to plot")
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Observed",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
			},
		},
	}

	if model.K > 0 {
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		lo, hi := sorted[0], sorted[len(sorted)-1]
		curveX := make([]float64, 0, 100)
		curveY := make([]float64, 0, 100)
		for i := 0; i < 100; i++ {
			x := lo + (hi-lo)*float64(i)/99
			curveX = append(curveX, x)
			curveY = append(curveY, model.K*math.Pow(x*100, model.Alpha))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Fit: k*spend^%.2f (R^2=%.2f)", model.Alpha, model.RSquared),
			XValues: curveX,
			YValues: curveY,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Conversions vs spend: %s", entityID),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name: "Daily spend ($)",
		},
		YAxis: chart.YAxis{
			Name: "Daily conversions",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
