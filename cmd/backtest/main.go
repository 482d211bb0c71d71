package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	engine_types "github.com/rxtech-lab/argo-vector/internal/backtest/engine"
	engine "github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/internal/metrics"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const summaryFile = "stats.yaml"

type runOptions struct {
	ConfigPath  string
	DataPath    string
	OutputDir   string
	MetricsPath string
	Progress    bool
}

// run executes one backtest and writes the parquet exports and the run
// summary into OutputDir.
func run(ctx context.Context, log *logger.Logger, opts runOptions) (types.RunSummary, error) {
	config, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("failed to read config: %w", err)
	}

	reg := prometheus.NewRegistry()
	backtester := engine.NewBacktestEngineV1(engine.WithMetricsRegisterer(reg))

	if err := backtester.Initialize(string(config)); err != nil {
		return types.RunSummary{}, fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	source, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return types.RunSummary{}, err
	}
	defer source.Close()

	series, err := backtester.LoadSeries(ctx, source, opts.DataPath)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("failed to load series: %w", err)
	}

	var bar *progressbar.ProgressBar

	onRunStart := engine_types.OnRunStartCallback(func(runID string, totalCombinations int) error {
		if opts.Progress {
			bar = progressbar.Default(int64(totalCombinations), "backtesting")
		}

		return nil
	})
	onProgress := engine_types.OnProgressCallback(func(done int, total int) error {
		if bar != nil {
			return bar.Set(done)
		}

		return nil
	})

	result, err := backtester.Run(ctx, series, engine_types.LifecycleCallbacks{
		OnRunStart: &onRunStart,
		OnProgress: &onProgress,
	})
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return types.RunSummary{}, fmt.Errorf("backtest failed: %w", err)
	}

	writer, err := writers.NewResultsWriter(log)
	if err != nil {
		return types.RunSummary{}, err
	}
	defer writer.Close()

	if err := writer.Initialize(); err != nil {
		return types.RunSummary{}, err
	}

	if err := writer.Add(result.RunID, result.Results); err != nil {
		return types.RunSummary{}, err
	}

	combinationsPath, tradesPath, err := writer.Write(opts.OutputDir)
	if err != nil {
		return types.RunSummary{}, err
	}

	summary := types.RunSummary{
		ID:                   result.RunID,
		Timestamp:            time.Now(),
		Version:              version.GetVersion(),
		Plan:                 result.Plan,
		Stats:                result.Stats,
		Partial:              result.Partial,
		Strategies:           types.SummarizeByStrategy(result.Results),
		DataPath:             opts.DataPath,
		CombinationsFilePath: combinationsPath,
		TradesFilePath:       tradesPath,
	}

	if err := types.WriteRunSummary(filepath.Join(opts.OutputDir, summaryFile), summary); err != nil {
		return types.RunSummary{}, err
	}

	if opts.MetricsPath != "" {
		if err := metrics.WriteToTextfile(opts.MetricsPath, reg); err != nil {
			return types.RunSummary{}, fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return summary, nil
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	// Ctrl-C stops the run and keeps the finished combinations
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := run(ctx, log, runOptions{
		ConfigPath:  cmd.String("config"),
		DataPath:    cmd.String("data"),
		OutputDir:   cmd.String("output"),
		MetricsPath: cmd.String("metrics-out"),
		Progress:    !cmd.Bool("quiet"),
	})
	if err != nil {
		return err
	}

	log.Info("Backtest completed",
		zap.String("run_id", summary.ID),
		zap.Int("combinations", summary.Stats.Total),
		zap.Int("success", summary.Stats.Success),
		zap.Int("failure", summary.Stats.Failure),
		zap.Int("no_trade", summary.Stats.NoTrade),
		zap.Int("incomplete", summary.Stats.Incomplete),
		zap.Bool("partial", summary.Partial),
		zap.String("combinations_file", summary.CombinationsFilePath),
		zap.String("trades_file", summary.TradesFilePath),
	)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run a batch of indicator strategy combinations over one price series",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the engine config `FILE`",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the series file in parquet or csv format",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the parquet exports and the run summary",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:  "metrics-out",
				Usage: "Write Prometheus metrics of the run to this text file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Hide the progress bar",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
