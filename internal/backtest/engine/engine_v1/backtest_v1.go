package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-vector/internal/aggregator"
	"github.com/rxtech-lab/argo-vector/internal/backtest/engine"
	"github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-vector/internal/grouping"
	"github.com/rxtech-lab/argo-vector/internal/indicator"
	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/internal/metrics"
	"github.com/rxtech-lab/argo-vector/internal/scheduler"
	"github.com/rxtech-lab/argo-vector/internal/simulator"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/internal/version"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1 struct {
	config            BacktestEngineV1Config
	log               *logger.Logger
	indicatorRegistry indicator.IndicatorRegistry
	probe             scheduler.HostProbe
	metrics           *metrics.Metrics
	simulator         *simulator.Simulator
	initialized       bool
}

// Option customizes the collaborators of a BacktestEngineV1.
type Option func(*BacktestEngineV1)

// WithIndicatorRegistry replaces the built-in kernel registry.
func WithIndicatorRegistry(registry indicator.IndicatorRegistry) Option {
	return func(b *BacktestEngineV1) {
		b.indicatorRegistry = registry
	}
}

// WithHostProbe replaces the gopsutil host probe.
func WithHostProbe(probe scheduler.HostProbe) Option {
	return func(b *BacktestEngineV1) {
		b.probe = probe
	}
}

// WithMetricsRegisterer registers the engine collectors on reg instead of a
// private registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(b *BacktestEngineV1) {
		b.metrics = metrics.New(reg)
	}
}

// WithLogger sets the logger. Without it Initialize builds one at the
// configured level.
func WithLogger(log *logger.Logger) Option {
	return func(b *BacktestEngineV1) {
		b.log = log
	}
}

func NewBacktestEngineV1(opts ...Option) engine.Engine {
	b := &BacktestEngineV1{
		config:            EmptyConfig(),
		log:               nil,
		indicatorRegistry: indicator.NewDefaultRegistry(),
		probe:             scheduler.NewSystemProbe(),
		metrics:           nil,
		simulator:         nil,
		initialized:       false,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.metrics == nil {
		b.metrics = metrics.New(prometheus.NewRegistry())
	}

	return b
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed := EmptyConfig()

	if err := yaml.Unmarshal([]byte(config), &parsed); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse engine config", err)
	}

	if err := parsed.Validate(); err != nil {
		return err
	}

	if parsed.Version != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), parsed.Version); err != nil {
			return err
		}
	}

	b.config = parsed

	if b.log == nil {
		var loggerError error

		b.log, loggerError = logger.NewLoggerWithLevel(parsed.LogLevel)
		if loggerError != nil {
			return errors.Wrap(errors.ErrCodeRunInitFailed, "failed to create logger", loggerError)
		}
	}

	b.simulator = simulator.NewSimulator(b.log)
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
		zap.Int("strategies", len(parsed.Strategies)),
		zap.String("predictor", parsed.PredictorColumn()),
	)

	return nil
}

// LoadSeries implements engine.Engine.
func (b *BacktestEngineV1) LoadSeries(ctx context.Context, source datasource.DataSource, path string) (*types.PriceSeries, error) {
	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	if err := source.Initialize(path); err != nil {
		b.log.Error("Failed to initialize data source",
			zap.String("path", path),
			zap.Error(err),
		)

		return nil, err
	}

	series, err := source.ReadSeries(ctx, b.config.StartTime, b.config.EndTime)
	if err != nil {
		return nil, err
	}

	b.log.Info("Series loaded",
		zap.String("path", path),
		zap.Int("bars", series.Len()),
		zap.Int("extra_columns", len(series.Extra)),
	)

	return series, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, series *types.PriceSeries, callbacks engine.LifecycleCallbacks) (types.RunResult, error) {
	if err := b.preRunCheck(); err != nil {
		return types.RunResult{}, err
	}

	specs, err := ExpandStrategies(b.indicatorRegistry, b.config.Strategies)
	if err != nil {
		b.log.Error("Failed to expand strategies", zap.Error(err))

		return types.RunResult{}, err
	}

	b.log.Debug("Strategies expanded",
		zap.Int("templates", len(b.config.Strategies)),
		zap.Int("combinations", len(specs)),
	)

	return b.RunStrategies(ctx, series, specs, callbacks)
}

// RunStrategies implements engine.Engine.
func (b *BacktestEngineV1) RunStrategies(ctx context.Context, series *types.PriceSeries, specs []types.StrategySpec, callbacks engine.LifecycleCallbacks) (result types.RunResult, err error) {
	if err := b.preRunCheck(); err != nil {
		return types.RunResult{}, err
	}

	if len(specs) == 0 {
		return types.RunResult{}, errors.New(errors.ErrCodeNoStrategies, "no strategy combinations to run")
	}

	result.RunID = uuid.New().String()

	defer func() {
		b.metrics.ObserveRun(outcomeOf(result, err))

		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(result.RunID, result.Stats, err)
		}
	}()

	series, err = windowSeries(series, b.config.StartTime, b.config.EndTime)
	if err != nil {
		return result, err
	}

	predictor, err := series.Column(b.config.PredictorColumn())
	if err != nil {
		return result, err
	}

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(result.RunID, len(specs)); err != nil {
			return result, errors.Wrap(errors.ErrCodeCallbackFailed, "OnRunStart callback failed", err)
		}
	}

	members, rejected := b.admit(specs)

	plan, err := scheduler.PlanFor(ctx, b.probe, len(members), b.config.Scheduler)
	if err != nil {
		b.log.Error("Failed to plan run",
			zap.String("run_id", result.RunID),
			zap.Int("combinations", len(members)),
			zap.Error(err),
		)

		return result, err
	}

	result.Plan = plan
	b.metrics.ObservePlan(plan)

	groups := grouping.GroupMembers(members)
	units := grouping.Units(groups, plan.BatchSize)

	b.log.Info("Run planned",
		zap.String("run_id", result.RunID),
		zap.Int("combinations", len(specs)),
		zap.Int("rejected", len(rejected)),
		zap.Int("groups", len(groups)),
		zap.Int("units", len(units)),
		zap.Int("workers", plan.WorkerCount),
		zap.Int("batch_size", plan.BatchSize),
		zap.Bool("parallel", plan.Parallel),
	)

	if callbacks.OnPlan != nil {
		if err := (*callbacks.OnPlan)(plan, len(groups), len(units)); err != nil {
			return result, errors.Wrap(errors.ErrCodeCallbackFailed, "OnPlan callback failed", err)
		}
	}

	runCtx := ctx

	if b.config.Timeout.IsSome() {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, b.config.Timeout.Unwrap())
		defer cancel()
	}

	state := &runState{
		series:    series,
		predictor: predictor,
		signals:   cache.NewSignalCache(),
		total:     len(specs),
		done:      len(rejected),
		progress:  callbacks.OnProgress,
	}
	defer state.signals.Reset()

	parts, err := b.execute(runCtx, state, units, plan)
	if err != nil {
		return result, err
	}

	results, missing := aggregator.Merge(len(specs), append(parts, rejected)...)

	result.Results = results
	result.Incomplete = missing
	result.Partial = len(missing) > 0
	result.Stats = aggregator.Tally(results)
	result.Stats.Incomplete = len(missing)

	b.metrics.ObserveResults(results)

	if result.Partial {
		b.log.Warn("Run stopped before all combinations finished",
			zap.String("run_id", result.RunID),
			zap.Int("incomplete", len(missing)),
			zap.NamedError("cause", runCtx.Err()),
		)
	}

	b.log.Info("Run finished",
		zap.String("run_id", result.RunID),
		zap.Int("success", result.Stats.Success),
		zap.Int("failure", result.Stats.Failure),
		zap.Int("no_trade", result.Stats.NoTrade),
		zap.Int("trades", result.Stats.Trades),
	)

	return result, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	return schema, nil
}

// runState is shared by the workers of one run. Only the collector goroutine
// touches done.
type runState struct {
	series    *types.PriceSeries
	predictor []float64
	signals   *cache.SignalCache
	total     int
	done      int
	progress  *engine.OnProgressCallback
}

// report advances progress by n finished combinations.
func (s *runState) report(n int) error {
	s.done += n

	if s.progress == nil {
		return nil
	}

	if err := (*s.progress)(s.done, s.total); err != nil {
		return errors.Wrap(errors.ErrCodeCallbackFailed, "OnProgress callback failed", err)
	}

	return nil
}

// admit validates every spec. Invalid specs become failure results at once
// and never reach a kernel.
func (b *BacktestEngineV1) admit(specs []types.StrategySpec) ([]grouping.Member, []types.CombinationResult) {
	members := make([]grouping.Member, 0, len(specs))

	var rejected []types.CombinationResult

	for i, spec := range specs {
		member := grouping.Member{Index: i, Spec: spec}

		if err := b.validateSpec(spec); err != nil {
			b.log.Warn("Combination rejected",
				zap.String("strategy_id", spec.ID),
				zap.Error(err),
			)

			rejected = append(rejected, simulator.FailedResult(member, err))

			continue
		}

		members = append(members, member)
	}

	return members, rejected
}

func (b *BacktestEngineV1) validateSpec(spec types.StrategySpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	for _, params := range spec.Params() {
		if err := b.indicatorRegistry.ValidateParams(params); err != nil {
			return errors.Wrapf(errors.GetCode(err), err, "strategy %s: %s", spec.ID, params)
		}
	}

	return nil
}

// execute runs the units serially or on plan.WorkerCount goroutines. A
// cancelled ctx stops the run quietly: the finished parts are returned and
// the rest is reported as incomplete by the caller.
func (b *BacktestEngineV1) execute(ctx context.Context, state *runState, units []grouping.Unit, plan types.ExecutionPlan) ([][]types.CombinationResult, error) {
	if !plan.Parallel {
		return b.executeSerial(ctx, state, units)
	}

	return b.executeParallel(ctx, state, units, plan.WorkerCount)
}

func (b *BacktestEngineV1) executeSerial(ctx context.Context, state *runState, units []grouping.Unit) ([][]types.CombinationResult, error) {
	parts := make([][]types.CombinationResult, 0, len(units))

	for _, unit := range units {
		if ctx.Err() != nil {
			break
		}

		results, err := b.runUnit(ctx, state, unit)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			return nil, err
		}

		parts = append(parts, results)

		if err := state.report(len(results)); err != nil {
			return nil, err
		}
	}

	return parts, nil
}

func (b *BacktestEngineV1) executeParallel(ctx context.Context, state *runState, units []grouping.Unit, workers int) ([][]types.CombinationResult, error) {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan grouping.Unit)
	out := make(chan []types.CombinationResult, len(units))

	g, gctx := errgroup.WithContext(workCtx)

	g.Go(func() error {
		defer close(jobs)

		for _, unit := range units {
			select {
			case jobs <- unit:
			case <-gctx.Done():
				return nil
			}
		}

		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for unit := range jobs {
				results, err := b.runUnit(gctx, state, unit)
				if err != nil {
					if gctx.Err() != nil {
						return nil
					}

					return err
				}

				out <- results
			}

			return nil
		})
	}

	var waitErr error

	go func() {
		waitErr = g.Wait()
		close(out)
	}()

	parts := make([][]types.CombinationResult, 0, len(units))

	var callbackErr error

	for results := range out {
		if callbackErr != nil {
			continue
		}

		parts = append(parts, results)

		if err := state.report(len(results)); err != nil {
			callbackErr = err
			cancel()
		}
	}

	if callbackErr != nil {
		return nil, callbackErr
	}

	if waitErr != nil {
		return nil, waitErr
	}

	return parts, nil
}

// runUnit computes the signals of one unit and simulates it. Columns whose
// signals cannot be computed fail alone; the rest of the unit still runs.
func (b *BacktestEngineV1) runUnit(ctx context.Context, state *runState, unit grouping.Unit) ([]types.CombinationResult, error) {
	start := time.Now()
	sig := unit.Signature
	arena := state.signals.Arena(sig)
	failed := map[int]error{}

	entries := make([]*types.SignalMatrix, sig.EntryCount)
	for slot := 0; slot < sig.EntryCount; slot++ {
		params := make([]types.ParamSet, len(unit.Members))
		for j, member := range unit.Members {
			params[j] = member.Spec.Entries[slot]
		}

		entries[slot] = b.slotMatrix(arena, state.predictor, types.SignalRoleEntry, sig.EntryKinds[slot], params, failed)
	}

	exits := make([]*types.SignalMatrix, sig.ExitCount)
	for slot := 0; slot < sig.ExitCount; slot++ {
		// exit-only kinds are derived from the composite entry by the simulator
		if sig.ExitKinds[slot].IsExitOnly() {
			continue
		}

		params := make([]types.ParamSet, len(unit.Members))
		for j, member := range unit.Members {
			params[j] = member.Spec.Exits[slot]
		}

		exits[slot] = b.slotMatrix(arena, state.predictor, types.SignalRoleExit, sig.ExitKinds[slot], params, failed)
	}

	results := make([]types.CombinationResult, 0, len(unit.Members))
	keep := make([]int, 0, len(unit.Members))

	for j, member := range unit.Members {
		if err, ok := failed[j]; ok {
			b.log.Warn("Combination failed during signal computation",
				zap.String("strategy_id", member.Spec.ID),
				zap.Error(err),
			)

			results = append(results, simulator.FailedResult(member,
				errors.Wrapf(errors.ErrCodeCombinationFailed, err, "combination %s: signal computation failed", member.Spec.ID)))

			continue
		}

		keep = append(keep, j)
	}

	if len(keep) > 0 {
		input := simulator.Input{
			Series:           state.series,
			Signature:        sig,
			Entries:          selectColumns(entries, keep),
			Exits:            selectColumns(exits, keep),
			Members:          selectMembers(unit.Members, keep),
			Params:           b.config.Trading,
			RecordTrajectory: b.config.RecordTrajectory,
		}

		simulated, err := b.simulator.Simulate(ctx, input)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeRunCancelled) {
				return nil, err
			}

			for _, member := range input.Members {
				results = append(results, simulator.FailedResult(member,
					errors.Wrapf(errors.ErrCodeCombinationFailed, err, "combination %s: simulation failed", member.Spec.ID)))
			}
		} else {
			results = append(results, simulated...)
		}
	}

	b.metrics.ObserveUnit(sig.Key(), time.Since(start))

	b.log.Debug("Unit finished",
		zap.String("signature", sig.Key()),
		zap.Int("seq", unit.Seq),
		zap.Int("combinations", len(unit.Members)),
		zap.Int("failed", len(failed)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return results, nil
}

// slotMatrix returns the len(predictor) x len(params) signal matrix of one
// slot. Columns missing from the arena are computed with one kernel call
// over the distinct ParamSets; if that call fails each ParamSet is retried
// alone. Members whose column cannot be computed are recorded in failed and
// keep an all-flat column.
func (b *BacktestEngineV1) slotMatrix(arena *cache.Arena, predictor []float64, role types.SignalRole, kind types.IndicatorKind, params []types.ParamSet, failed map[int]error) *types.SignalMatrix {
	seen := map[string]bool{}

	var missing []types.ParamSet

	for _, p := range params {
		if seen[p.Hash()] || arena.Get(kind, role, p.Hash()).IsSome() {
			continue
		}

		seen[p.Hash()] = true
		missing = append(missing, p)
	}

	columnErrors := map[string]error{}

	if len(missing) > 0 {
		computed, err := b.indicatorRegistry.ComputeSignals(kind, role, predictor, missing)
		if err == nil {
			err = checkShape(computed, len(predictor), len(missing))
		}

		if err == nil {
			for j, p := range missing {
				arena.Put(kind, role, p.Hash(), computed.Column(j))
			}
		} else {
			b.log.Warn("Batch kernel failed, computing columns one at a time",
				zap.String("kind", string(kind)),
				zap.String("role", string(role)),
				zap.Int("batch", len(missing)),
				zap.Error(err),
			)
			b.metrics.ObserveFallback(kind)

			for _, p := range missing {
				single, err := b.indicatorRegistry.ComputeSignals(kind, role, predictor, []types.ParamSet{p})
				if err == nil {
					err = checkShape(single, len(predictor), 1)
				}

				if err != nil {
					columnErrors[p.Hash()] = err

					continue
				}

				arena.Put(kind, role, p.Hash(), single.Column(0))
			}
		}
	}

	matrix := types.NewSignalMatrix(len(predictor), len(params))

	for j, p := range params {
		column := arena.Get(kind, role, p.Hash())
		if column.IsNone() {
			if _, ok := failed[j]; !ok {
				err := columnErrors[p.Hash()]
				if err == nil {
					err = errors.Newf(errors.ErrCodeIndicatorCalculation, "%s signal of %s is unavailable", role, p)
				}

				failed[j] = err
			}

			continue
		}

		if err := matrix.SetColumn(j, column.Unwrap()); err != nil {
			failed[j] = err
		}
	}

	return matrix
}

func checkShape(m *types.SignalMatrix, rows, cols int) error {
	if m == nil || m.Rows != rows || m.Cols != cols {
		return errors.Newf(errors.ErrCodeSignalShapeMismatch, "kernel returned a matrix of the wrong shape, want %dx%d", rows, cols)
	}

	return nil
}

func selectColumns(slots []*types.SignalMatrix, keep []int) []*types.SignalMatrix {
	out := make([]*types.SignalMatrix, len(slots))

	for i, m := range slots {
		if m == nil {
			continue
		}

		if len(keep) == m.Cols {
			out[i] = m

			continue
		}

		sub := types.NewSignalMatrix(m.Rows, len(keep))
		for k, j := range keep {
			// shapes match by construction
			_ = sub.SetColumn(k, m.Column(j))
		}

		out[i] = sub
	}

	return out
}

func selectMembers(members []grouping.Member, keep []int) []grouping.Member {
	out := make([]grouping.Member, len(keep))
	for k, j := range keep {
		out[k] = members[j]
	}

	return out
}

func outcomeOf(result types.RunResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case result.Partial:
		return "partial"
	default:
		return "complete"
	}
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		return errors.New(errors.ErrCodeRunInitFailed, "engine is not initialized, call Initialize first")
	}

	return nil
}
