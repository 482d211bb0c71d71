package engine

import (
	"context"

	"github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// Lifecycle callback types for run phases.
// All callbacks with an error return abort the run if they return an error.

// OnRunStartCallback is called once the combinations are known and before any
// kernel work. runID identifies the run in logs and exported results.
type OnRunStartCallback func(runID string, totalCombinations int) error

// OnPlanCallback is called after the scheduler has decided how the run executes.
type OnPlanCallback func(plan types.ExecutionPlan, totalGroups int, totalUnits int) error

// OnProgressCallback is called each time a unit of combinations finishes.
// done counts finished combinations, including ones rejected at validation.
type OnProgressCallback func(done int, total int) error

// OnRunEndCallback is called when the run ends (always called via defer).
type OnRunEndCallback func(runID string, stats types.RunStats, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart *OnRunStartCallback
	OnPlan     *OnPlanCallback
	OnProgress *OnProgressCallback
	OnRunEnd   *OnRunEndCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// LoadSeries initializes source with the parquet or csv file at path and
	// reads the series inside the configured time window.
	LoadSeries(ctx context.Context, source datasource.DataSource, path string) (*types.PriceSeries, error)
	// Run expands the configured strategy grid and backtests every combination
	// against series. The context can be used to cancel the run; a cancelled or
	// timed out run returns the finished results with RunResult.Partial set.
	Run(ctx context.Context, series *types.PriceSeries, callbacks LifecycleCallbacks) (types.RunResult, error)
	// RunStrategies backtests an explicit list of combinations. Results are
	// ordered by CombinationID, the index of the combination in specs.
	RunStrategies(ctx context.Context, series *types.PriceSeries, specs []types.StrategySpec, callbacks LifecycleCallbacks) (types.RunResult, error)
	// GetConfigSchema returns the JSON schema of the engine configuration
	GetConfigSchema() (string, error)
}
