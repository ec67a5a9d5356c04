package app

import (
	"context"

	"github.com/rs/zerolog"

	"campaign-sim/internal/config"
	"campaign-sim/internal/metrics"
	"campaign-sim/internal/simulation"
	"campaign-sim/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newEngine(store *storage.Store) *simulation.Engine {
	repo := metrics.NewRepository(store, a.Logger)
	cfg := simulation.Config{
		LookbackDays:       a.Config.Simulation.LookbackDays,
		ModelLookbackDays:  a.Config.Simulation.ModelLookbackDays,
		EnableLookbackDays: a.Config.Simulation.EnableLookbackDays,
		HourlyLookbackDays: a.Config.Simulation.HourlyLookbackDays,
	}
	return simulation.NewEngine(repo, cfg, a.Logger)
}

// SimulateOptions hold the parameters of one simulation run.
type SimulateOptions struct {
	Request simulation.Request
	JSON    bool
}

// ShowOptions configure the portfolio listing.
type ShowOptions struct {
	Level        metrics.EntityLevel
	LookbackDays int
	Limit        int
}

// ExportOptions hold parameters for exporting an entity's history and fit.
type ExportOptions struct {
	EntityID     string
	Level        metrics.EntityLevel
	LookbackDays int
	PNGPath      string
	CSVPath      string
	MaxPoints    int
}
