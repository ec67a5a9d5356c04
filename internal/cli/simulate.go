package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"campaign-sim/internal/app"
	"campaign-sim/internal/metrics"
	"campaign-sim/internal/simulation"
)

var (
	simAction    string
	simTarget    string
	simTo        string
	simLevel     string
	simLookback  int
	simBudgetPct float64
	simAmount    float64
	simAudience  string
	simReachPct  float64
	simBidPct    float64
	simStrategy  string
	simAddHours  []int
	simRemove    []int
	simJSON      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project the portfolio impact of one campaign change",
	RunE: func(cmd *cobra.Command, args []string) error {
		action, ok := simulation.ParseAction(simAction)
		if !ok {
			return fmt.Errorf("unknown --action %q", simAction)
		}
		level, ok := metrics.ParseLevel(simLevel)
		if !ok {
			return fmt.Errorf("unknown --level %q (campaign, ad_group, ad)", simLevel)
		}
		if simTarget == "" {
			return fmt.Errorf("--target is required")
		}

		amountCents := decimal.NewFromFloat(simAmount).Mul(decimal.NewFromInt(100)).IntPart()

		opts := app.SimulateOptions{
			Request: simulation.Request{
				Action:       action,
				TargetRef:    simTarget,
				SecondaryRef: simTo,
				Level:        level,
				LookbackDays: simLookback,
				Params: simulation.ActionParams{
					BudgetChangePct: simBudgetPct,
					AmountCents:     amountCents,
					AudienceAction:  simAudience,
					ReachChangePct:  simReachPct,
					BidChangePct:    simBidPct,
					BidStrategy:     simStrategy,
					AddHours:        simAddHours,
					RemoveHours:     simRemove,
				},
			},
			JSON: simJSON,
		}

		return getApp().Simulate(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simAction, "action", "", "Action to simulate (pause, enable, budget_change, reallocate_budget, audience_change, bid_change, schedule_change)")
	simulateCmd.Flags().StringVar(&simTarget, "target", "", "Target entity: ID, exact name, or name fragment")
	simulateCmd.Flags().StringVar(&simTo, "to", "", "Destination entity for reallocate_budget")
	simulateCmd.Flags().StringVar(&simLevel, "level", "campaign", "Entity level (campaign, ad_group, ad)")
	simulateCmd.Flags().IntVar(&simLookback, "lookback", 0, "Lookback window in days (defaults to config)")
	simulateCmd.Flags().Float64Var(&simBudgetPct, "budget-pct", 0, "Budget change percentage for budget_change")
	simulateCmd.Flags().Float64Var(&simAmount, "amount", 0, "Dollar amount to move for reallocate_budget")
	simulateCmd.Flags().StringVar(&simAudience, "audience", "", "Audience action (expand, narrow, shift)")
	simulateCmd.Flags().Float64Var(&simReachPct, "reach-pct", 0, "Estimated reach change percentage for audience_change")
	simulateCmd.Flags().Float64Var(&simBidPct, "bid-pct", 0, "Bid change percentage for bid_change")
	simulateCmd.Flags().StringVar(&simStrategy, "strategy", "", "Named bid strategy for bid_change")
	simulateCmd.Flags().IntSliceVar(&simAddHours, "add-hours", nil, "Hours of day (0-23) to add for schedule_change")
	simulateCmd.Flags().IntSliceVar(&simRemove, "remove-hours", nil, "Hours of day (0-23) to remove for schedule_change")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "Print the raw simulation result as JSON")

	_ = simulateCmd.MarkFlagRequired("action")
	_ = simulateCmd.MarkFlagRequired("target")
}
