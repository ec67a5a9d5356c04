package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"campaign-sim/internal/simulation"
)

// Simulate runs a single simulation and prints the result to stdout.
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot simulate")
	}
	if closeStore != nil {
		defer closeStore()
	}

	engine := a.newEngine(store)
	result := engine.Simulate(ctx, opts.Request)

	if opts.JSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}

	printResult(result)
	return nil
}

func printResult(result simulation.Result) {
	fmt.Fprintf(os.Stdout, "action: %s\nsuccess: %t\nconfidence: %s\n",
		result.Action, result.Success, result.Confidence)
	if result.EntityName != "" {
		fmt.Fprintf(os.Stdout, "entity: %s (%s)\n", result.EntityName, result.EntityID)
	}

	if result.CurrentState != nil && result.SimulatedState != nil {
		cur := result.CurrentState
		sim := result.SimulatedState

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "\tCurrent\tSimulated\tChange")
		fmt.Fprintf(writer, "Spend\t%s\t%s\t%s\n",
			money(float64(cur.TotalSpendCents)), money(sim.TotalSpendCents), change(sim.SpendChangePct))
		fmt.Fprintf(writer, "Conversions\t%s\t%s\t%s\n",
			number(cur.TotalConversions), number(sim.TotalConversions), change(sim.ConversionChangePct))
		fmt.Fprintf(writer, "Blended CAC\t%s\t%s\t%s\n",
			money(cur.BlendedCACCents), money(sim.BlendedCACCents), change(sim.CACChangePct))
		writer.Flush()
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", result.MathExplanation)

	if len(result.Assumptions) > 0 {
		fmt.Fprintln(os.Stdout, "\nassumptions:")
		for _, assumption := range result.Assumptions {
			fmt.Fprintf(os.Stdout, "  - %s\n", assumption)
		}
	}
}

func money(cents float64) string {
	return "$" + decimal.NewFromFloat(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func number(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

func change(pct float64) string {
	s := decimal.NewFromFloat(pct).StringFixed(1)
	if pct >= 0 {
		return "+" + s + "%"
	}
	return s + "%"
}
