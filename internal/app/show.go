package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"campaign-sim/internal/metrics"
)

// Show prints the current portfolio at one entity level.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show portfolio")
	}
	if closeStore != nil {
		defer closeStore()
	}

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = a.Config.Simulation.LookbackDays
	}

	repo := metrics.NewRepository(store, a.Logger)
	entities := repo.Portfolio(ctx, opts.Level, lookback)
	if len(entities) == 0 {
		fmt.Fprintln(os.Stdout, "no entities found")
		return nil
	}
	if opts.Limit > 0 && len(entities) > opts.Limit {
		entities = entities[:opts.Limit]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tName\tPlatform\tSpend\tConversions\tCAC\tCTR%\tCPC")

	for _, e := range entities {
		cac := "-"
		if e.Conversions > 0 {
			cac = money(float64(e.SpendCents) / e.Conversions)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			e.ID,
			sanitizeInline(e.Name),
			e.Platform,
			money(float64(e.SpendCents)),
			number(e.Conversions),
			cac,
			e.CTR*100,
			money(e.CPCCents),
		)
	}

	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
