package simulation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"campaign-sim/internal/metrics"
)

// Config tunes the lookback windows the engine fetches over.
type Config struct {
	LookbackDays       int
	ModelLookbackDays  int
	EnableLookbackDays int
	HourlyLookbackDays int
}

func (c Config) withDefaults() Config {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 30
	}
	if c.ModelLookbackDays <= 0 {
		c.ModelLookbackDays = 90
	}
	if c.EnableLookbackDays <= 0 {
		c.EnableLookbackDays = 90
	}
	if c.HourlyLookbackDays <= 0 {
		c.HourlyLookbackDays = 14
	}
	return c
}

// Engine is the simulation façade: it resolves the target entity, fetches
// whatever history the action needs, and dispatches to the matching
// simulator. It holds no mutable state between calls and never mutates
// external state.
type Engine struct {
	repo   *metrics.Repository
	cfg    Config
	logger zerolog.Logger
}

// NewEngine constructs an Engine over a metrics repository.
func NewEngine(repo *metrics.Repository, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		repo:   repo,
		cfg:    cfg.withDefaults(),
		logger: logger.With().Str("component", "simulation_engine").Logger(),
	}
}

// Simulate runs one simulation and always returns a Result; every "cannot
// simulate confidently" situation is expressed as a value, not an error.
func (e *Engine) Simulate(ctx context.Context, req Request) Result {
	lookback := req.LookbackDays
	if lookback <= 0 {
		lookback = e.cfg.LookbackDays
	}

	if _, ok := ParseAction(string(req.Action)); !ok {
		return e.finish(req, Result{
			Confidence:      ConfidenceLow,
			MathExplanation: fmt.Sprintf("Unknown action %q.", req.Action),
		})
	}
	if req.TargetRef == "" {
		return e.finish(req, Result{
			Confidence:      ConfidenceLow,
			MathExplanation: "A target entity reference is required.",
		})
	}

	entities := e.repo.Portfolio(ctx, req.Level, lookback)
	if len(entities) == 0 {
		return e.finish(req, Result{
			Confidence: ConfidenceLow,
			MathExplanation: fmt.Sprintf(
				"No entity metrics available at the %s level for the last %d days.", req.Level, lookback),
		})
	}

	target, ok := resolveEntity(req.TargetRef, entities)
	if !ok {
		return e.finish(req, notFoundResult(req.TargetRef, entities))
	}

	state := BuildPortfolioState(entities, target)

	var res Result
	switch req.Action {
	case ActionPause:
		res = simulatePause(state, target)

	case ActionEnable:
		history := e.repo.EntityHistory(ctx, target.ID, req.Level, e.cfg.EnableLookbackDays)
		res = simulateEnable(state, target, history, lookback)

	case ActionBudgetChange:
		history := e.repo.EntityHistory(ctx, target.ID, req.Level, e.cfg.ModelLookbackDays)
		res = simulateBudgetChange(state, target, history, req.Params.BudgetChangePct)

	case ActionReallocate:
		if req.SecondaryRef == "" {
			res = Result{
				Confidence:      ConfidenceLow,
				MathExplanation: "Reallocation requires a destination entity reference.",
			}
			break
		}
		dest, ok := resolveEntity(req.SecondaryRef, entities)
		if !ok {
			res = notFoundResult(req.SecondaryRef, entities)
			break
		}
		if dest.ID == target.ID {
			res = Result{
				Confidence:      ConfidenceLow,
				MathExplanation: "Reallocation source and destination resolve to the same entity.",
			}
			break
		}

		// The two histories are independent; fetch them concurrently.
		var fromHistory, toHistory []metrics.HistoricalDataPoint
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			fromHistory = e.repo.EntityHistory(gctx, target.ID, req.Level, e.cfg.ModelLookbackDays)
			return nil
		})
		g.Go(func() error {
			toHistory = e.repo.EntityHistory(gctx, dest.ID, req.Level, e.cfg.ModelLookbackDays)
			return nil
		})
		_ = g.Wait()

		res = simulateReallocation(state, target, dest, fromHistory, toHistory, req.Params.AmountCents)

	case ActionAudienceChange:
		res = simulateAudienceChange(state, target, req.Params.AudienceAction, req.Params.ReachChangePct)

	case ActionBidChange:
		res = simulateBidChange(state, target, req.Params.BidChangePct, req.Params.BidStrategy)

	case ActionScheduleChange:
		hourly := e.repo.HourlyHistory(ctx, target.ID, req.Level, e.cfg.HourlyLookbackDays)
		res = simulateScheduleChange(state, target, hourly, req.Params.AddHours, req.Params.RemoveHours)
	}

	res.EntityID = target.ID
	res.EntityName = target.Name
	return e.finish(req, res)
}

func (e *Engine) finish(req Request, res Result) Result {
	res.Action = req.Action
	e.logger.Info().
		Str("action", string(req.Action)).
		Str("target", req.TargetRef).
		Str("level", string(req.Level)).
		Bool("success", res.Success).
		Str("confidence", string(res.Confidence)).
		Msg("simulation completed")
	return res
}

func notFoundResult(ref string, entities []metrics.EntityMetrics) Result {
	return Result{
		Success:    false,
		Confidence: ConfidenceLow,
		MathExplanation: fmt.Sprintf(
			"No entity matches %q. Closest candidates: %s.", ref, candidateSummary(entities)),
	}
}
