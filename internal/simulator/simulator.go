package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/grouping"
	"github.com/rxtech-lab/argo-vector/internal/indicator"
	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"go.uber.org/zap"
)

// cancelCheckInterval is the number of bars walked between context checks.
const cancelCheckInterval = 256

// Simulator walks the position state machine of every column of a unit in
// one pass over time.
type Simulator struct {
	logger *logger.Logger
}

func NewSimulator(logger *logger.Logger) *Simulator {
	return &Simulator{logger: logger}
}

// panicError carries a value recovered from a panicking walk.
type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic during simulation: %v", p.value)
}

// Simulate returns one result per member, in member order. Per column
// problems become failed results; the returned error is reserved for
// malformed input and cancellation, in which case no results are returned.
func (s *Simulator) Simulate(ctx context.Context, input Input) ([]types.CombinationResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	results, err := s.guardedRun(ctx, input)
	if err == nil {
		return results, nil
	}

	var recovered *panicError
	if !errors.As(err, &recovered) {
		return nil, err
	}

	s.logger.Warn("Simulation panicked, retrying combinations one at a time",
		zap.String("signature", input.Signature.Key()),
		zap.Int("combinations", len(input.Members)),
		zap.Any("panic", recovered.value),
	)

	results = make([]types.CombinationResult, len(input.Members))

	for j, member := range input.Members {
		single, err := s.guardedRun(ctx, input.column(j))
		if err == nil {
			results[j] = single[0]

			continue
		}

		if !errors.As(err, &recovered) {
			return nil, err
		}

		results[j] = FailedResult(member, errors.Wrapf(errors.ErrCodeCombinationFailed, err, "combination %s", member.Spec.ID))
	}

	return results, nil
}

func (s *Simulator) guardedRun(ctx context.Context, input Input) (results []types.CombinationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = &panicError{value: r}
		}
	}()

	return s.run(ctx, input)
}

// column is the mutable state of one combination during the walk.
type column struct {
	member     grouping.Member
	state      types.PositionState
	entryIndex int
	entryPrice float64
	trades     []types.TradeRecord
	equity     float64
	positions  []types.PositionState
	curve      []float64
	open       optional.Option[types.OpenPosition]
	err        error
}

func (s *Simulator) run(ctx context.Context, in Input) ([]types.CombinationResult, error) {
	rows := in.Series.Len()

	entry, err := Combine(in.Entries)
	if err != nil {
		return nil, err
	}

	columns := make([]column, len(in.Members))
	for j, m := range in.Members {
		columns[j] = column{member: m, equity: 1}

		if in.RecordTrajectory {
			columns[j].positions = make([]types.PositionState, 0, rows)
			columns[j].curve = make([]float64, 0, rows)
		}
	}

	exitSlots := make([]*types.SignalMatrix, len(in.Exits))

	for slot, m := range in.Exits {
		if !in.Signature.ExitKinds[slot].IsExitOnly() {
			exitSlots[slot] = m

			continue
		}

		derived := types.NewSignalMatrix(rows, len(in.Members))

		for j, member := range in.Members {
			period, err := indicator.NDayPeriod(member.Spec.Exits[slot])
			if err != nil {
				columns[j].err = err

				continue
			}

			if err := derived.SetColumn(j, indicator.DeriveNDayExit(entry.Column(j), period)); err != nil {
				columns[j].err = err
			}
		}

		exitSlots[slot] = derived
	}

	exit, err := Combine(exitSlots)
	if err != nil {
		return nil, err
	}

	w := walker{series: in.Series, params: in.Params, costs: newCostModel(in.Params)}

	for t := 0; t < rows; t++ {
		if t%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeRunCancelled, "simulation cancelled", err)
			}
		}

		src := t - in.Params.TradeDelay
		price := in.Series.Price(t, in.Params.TradePriceRule)

		for j := range columns {
			c := &columns[j]

			if c.err == nil && src >= 0 {
				w.step(c, t, price, entry.At(src, j), exit.At(src, j))
			}

			if in.RecordTrajectory {
				c.positions = append(c.positions, c.state)
				c.curve = append(c.curve, c.equity)
			}
		}
	}

	results := make([]types.CombinationResult, len(columns))

	for j := range columns {
		c := &columns[j]

		if c.err == nil && c.state != types.PositionFlat {
			w.finish(c, rows-1, in.RecordTrajectory)
		}

		results[j] = c.result(in.RecordTrajectory)
	}

	return results, nil
}

type walker struct {
	series *types.PriceSeries
	params types.TradingParams
	costs  costModel
}

// step applies at most one transition to c at bar t.
func (w walker) step(c *column, t int, price float64, entrySignal, exitSignal int8) {
	switch c.state {
	case types.PositionFlat:
		if entrySignal == types.SignalFlat {
			return
		}

		if !types.ValidPrice(price) {
			c.err = w.invalidPrice(c, t, price)

			return
		}

		c.state = types.PositionState(entrySignal)
		c.entryIndex = t
		c.entryPrice = price
	case types.PositionLong:
		if exitSignal == types.SignalShort {
			w.close(c, t, price, false)
		}
	case types.PositionShort:
		if exitSignal == types.SignalLong {
			w.close(c, t, price, false)
		}
	}
}

func (w walker) close(c *column, t int, price float64, forced bool) {
	if !types.ValidPrice(price) {
		c.err = w.invalidPrice(c, t, price)

		return
	}

	dir := types.DirectionOf(c.state)

	settled, err := w.costs.settle(dir, c.entryPrice, price)
	if err != nil {
		c.err = errors.Wrapf(errors.ErrCodeUndefinedLogReturn, err, "combination %s at bar %d", c.member.Spec.ID, t)

		return
	}

	c.trades = append(c.trades, types.TradeRecord{
		EntryTime:     w.timeAt(c.entryIndex),
		ExitTime:      w.timeAt(t),
		EntryIndex:    c.entryIndex,
		ExitIndex:     t,
		Direction:     dir,
		EntryPrice:    c.entryPrice,
		ExitPrice:     price,
		HoldingPeriod: t - c.entryIndex,
		GrossReturn:   settled.gross,
		NetReturn:     settled.net,
		GrossPnL:      settled.grossPnL,
		NetPnL:        settled.netPnL,
		Fee:           settled.fee,
		ForcedClose:   forced,
	})

	c.equity *= 1 + settled.simpleNet
	c.state = types.PositionFlat
}

// finish applies the open position policy at the last bar.
func (w walker) finish(c *column, last int, trajectory bool) {
	price := w.series.Price(last, w.params.TradePriceRule)

	if w.params.OpenPositionPolicy == types.OpenPositionLeaveOpen {
		if !types.ValidPrice(price) {
			c.err = w.invalidPrice(c, last, price)

			return
		}

		dir := types.DirectionOf(c.state)
		c.open = optional.Some(types.OpenPosition{
			Direction:        dir,
			EntryTime:        w.timeAt(c.entryIndex),
			EntryIndex:       c.entryIndex,
			EntryPrice:       c.entryPrice,
			MarkPrice:        price,
			UnrealizedReturn: dir.Sign() * (price - c.entryPrice) / c.entryPrice,
		})

		return
	}

	w.close(c, last, price, true)

	if trajectory && c.err == nil && len(c.positions) > 0 {
		c.positions[len(c.positions)-1] = c.state
		c.curve[len(c.curve)-1] = c.equity
	}
}

func (w walker) invalidPrice(c *column, t int, price float64) error {
	return errors.Newf(errors.ErrCodeInvalidExecutionPrice,
		"combination %s: invalid %s price %v at bar %d", c.member.Spec.ID, w.params.TradePriceRule, price, t)
}

func (w walker) timeAt(i int) time.Time {
	if i < len(w.series.Time) {
		return w.series.Time[i]
	}

	return time.Time{}
}

func (c *column) result(trajectory bool) types.CombinationResult {
	if c.err != nil {
		return FailedResult(c.member, c.err)
	}

	res := baseResult(c.member)
	res.Trades = c.trades
	res.OpenPosition = c.open

	if trajectory {
		res.Trajectory = optional.Some(types.Trajectory{Positions: c.positions, Equity: c.curve})
	}

	return res
}

func baseResult(member grouping.Member) types.CombinationResult {
	return types.CombinationResult{
		CombinationID: member.Index,
		StrategyID:    member.Spec.ID,
		StrategyName:  member.Spec.Name,
		Params:        member.Spec.Params(),
		OpenPosition:  optional.None[types.OpenPosition](),
		Trajectory:    optional.None[types.Trajectory](),
	}
}

// FailedResult builds the failure result of a member that could not be simulated.
func FailedResult(member grouping.Member, err error) types.CombinationResult {
	res := baseResult(member)
	res.Err = err

	return res
}
