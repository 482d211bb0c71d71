package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	CombinationsFile = "combinations.parquet"
	TradesFile       = "trades.parquet"
)

// ResultsWriter stages run results in an in-memory DuckDB database and
// exports them as parquet files.
type ResultsWriter struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewResultsWriter(logger *logger.Logger) (*ResultsWriter, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open database", err)
	}

	return &ResultsWriter{
		logger: logger,
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the combinations and trades tables.
func (w *ResultsWriter) Initialize() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS combinations (
			run_id TEXT,
			combination_id INTEGER,
			strategy_id TEXT,
			strategy_name TEXT,
			params TEXT,
			status TEXT,
			error TEXT,
			trades INTEGER,
			total_net_return DOUBLE,
			total_net_pnl DOUBLE,
			total_fee DOUBLE,
			win_rate DOUBLE,
			open_position BOOLEAN
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create combinations table", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			combination_id INTEGER,
			strategy_id TEXT,
			direction TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_index INTEGER,
			exit_index INTEGER,
			entry_price DOUBLE,
			exit_price DOUBLE,
			holding_period INTEGER,
			gross_return DOUBLE,
			net_return DOUBLE,
			gross_pnl DOUBLE,
			net_pnl DOUBLE,
			fee DOUBLE,
			forced_close BOOLEAN
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create trades table", err)
	}

	return nil
}

// Add stages the results of a run in one transaction.
func (w *ResultsWriter) Add(runID string, results []types.CombinationResult) error {
	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to begin transaction", err)
	}

	for _, r := range results {
		if err := w.insertCombination(tx, runID, r); err != nil {
			tx.Rollback()

			return err
		}

		for _, trade := range r.Trades {
			if err := w.insertTrade(tx, runID, r, trade); err != nil {
				tx.Rollback()

				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to commit results", err)
	}

	return nil
}

func (w *ResultsWriter) insertCombination(tx *sql.Tx, runID string, r types.CombinationResult) error {
	summary := summarize(r.Trades)

	params := make([]string, len(r.Params))
	for i, p := range r.Params {
		params[i] = p.String()
	}

	_, err := w.sq.
		Insert("combinations").
		Columns(
			"run_id", "combination_id", "strategy_id", "strategy_name", "params", "status", "error",
			"trades", "total_net_return", "total_net_pnl", "total_fee", "win_rate", "open_position",
		).
		Values(
			runID, r.CombinationID, r.StrategyID, r.StrategyName, strings.Join(params, ";"), string(r.Status()), r.ErrorMessage(),
			len(r.Trades), summary.netReturn, summary.netPnL.InexactFloat64(), summary.fee.InexactFloat64(), summary.winRate(len(r.Trades)), r.OpenPosition.IsSome(),
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to insert combination %s", r.StrategyID)
	}

	return nil
}

func (w *ResultsWriter) insertTrade(tx *sql.Tx, runID string, r types.CombinationResult, trade types.TradeRecord) error {
	_, err := w.sq.
		Insert("trades").
		Columns(
			"run_id", "combination_id", "strategy_id", "direction", "entry_time", "exit_time",
			"entry_index", "exit_index", "entry_price", "exit_price", "holding_period",
			"gross_return", "net_return", "gross_pnl", "net_pnl", "fee", "forced_close",
		).
		Values(
			runID, r.CombinationID, r.StrategyID, string(trade.Direction), trade.EntryTime, trade.ExitTime,
			trade.EntryIndex, trade.ExitIndex, trade.EntryPrice, trade.ExitPrice, trade.HoldingPeriod,
			trade.GrossReturn, trade.NetReturn, trade.GrossPnL.InexactFloat64(), trade.NetPnL.InexactFloat64(),
			trade.Fee.InexactFloat64(), trade.ForcedClose,
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to insert trade of %s", r.StrategyID)
	}

	return nil
}

type tradeSummary struct {
	netReturn float64
	netPnL    decimal.Decimal
	fee       decimal.Decimal
	wins      int
}

func summarize(trades []types.TradeRecord) tradeSummary {
	s := tradeSummary{netPnL: decimal.Zero, fee: decimal.Zero}

	for _, t := range trades {
		s.netReturn += t.NetReturn
		s.netPnL = s.netPnL.Add(t.NetPnL)
		s.fee = s.fee.Add(t.Fee)

		if t.NetPnL.IsPositive() {
			s.wins++
		}
	}

	return s
}

func (s tradeSummary) winRate(trades int) float64 {
	if trades == 0 {
		return 0
	}

	return float64(s.wins) / float64(trades)
}

// Count returns the number of staged rows of table.
func (w *ResultsWriter) Count(table string) (int, error) {
	var count int

	err := w.sq.
		Select("COUNT(*)").
		From(table).
		RunWith(w.db).
		QueryRow().
		Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count %s", table)
	}

	return count, nil
}

// Write exports the staged tables to dir and returns the file paths.
func (w *ResultsWriter) Write(dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create directory", err)
	}

	// squirrel has no COPY builder
	combinationsPath := filepath.Join(dir, CombinationsFile)
	if _, err := w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM combinations ORDER BY combination_id) TO '%s' (FORMAT PARQUET)`, combinationsPath)); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to export combinations to parquet", err)
	}

	tradesPath := filepath.Join(dir, TradesFile)
	if _, err := w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM trades ORDER BY combination_id, entry_index) TO '%s' (FORMAT PARQUET)`, tradesPath)); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to export trades to parquet", err)
	}

	w.logger.Info("Exported run results to parquet files",
		zap.String("combinations", combinationsPath),
		zap.String("trades", tradesPath),
	)

	return combinationsPath, tradesPath, nil
}

// Cleanup drops the staged rows so the writer can be reused for another run.
func (w *ResultsWriter) Cleanup() error {
	_, err := w.db.Exec(`
		DROP TABLE IF EXISTS trades;
		DROP TABLE IF EXISTS combinations;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to cleanup tables", err)
	}

	return w.Initialize()
}

func (w *ResultsWriter) Close() error {
	return w.db.Close()
}
