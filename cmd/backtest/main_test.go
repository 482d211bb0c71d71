package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-vector/internal/logger"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/mocks"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

const testConfig = `
version: main
log_level: error
trading:
  transaction_cost: 0.001
  trade_delay: 1
  trade_price: open
strategies:
  - name: ma-cycle
    entries:
      - indicator: MA
        params:
          variant: 1
          ma_type: SMA
          period: 5,10
    exits:
      - indicator: NDAY
        params:
          n: 3,5
`

type BacktestCmdTestSuite struct {
	suite.Suite
	dir        string
	configPath string
	dataPath   string
}

func TestBacktestCmdSuite(t *testing.T) {
	suite.Run(t, new(BacktestCmdTestSuite))
}

func (suite *BacktestCmdTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.configPath = filepath.Join(suite.dir, "config.yaml")
	suite.dataPath = filepath.Join(suite.dir, "bars.csv")

	suite.Require().NoError(os.WriteFile(suite.configPath, []byte(testConfig), 0644))
	suite.Require().NoError(writeCSV(suite.dataPath, mocks.GenerateSeriesN(200)))
}

func writeCSV(path string, series *types.PriceSeries) error {
	var b strings.Builder

	b.WriteString("time,open,high,low,close,volume\n")

	for i := 0; i < series.Len(); i++ {
		fmt.Fprintf(&b, "%s,%f,%f,%f,%f,%f\n",
			series.Time[i].Format(time.RFC3339), series.Open[i], series.High[i], series.Low[i], series.Close[i], series.Volume[i])
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

func (suite *BacktestCmdTestSuite) TestRun() {
	output := filepath.Join(suite.dir, "results")
	metricsPath := filepath.Join(suite.dir, "metrics.prom")

	summary, err := run(context.Background(), logger.NewNopLogger(), runOptions{
		ConfigPath:  suite.configPath,
		DataPath:    suite.dataPath,
		OutputDir:   output,
		MetricsPath: metricsPath,
	})
	suite.Require().NoError(err)

	suite.NotEmpty(summary.ID)
	suite.Equal(4, summary.Stats.Total)
	suite.False(summary.Partial)
	suite.Require().Len(summary.Strategies, 1)
	suite.Equal("ma-cycle", summary.Strategies[0].Name)

	suite.FileExists(summary.CombinationsFilePath)
	suite.FileExists(summary.TradesFilePath)

	raw, err := os.ReadFile(filepath.Join(output, summaryFile))
	suite.Require().NoError(err)

	var written types.RunSummary
	suite.Require().NoError(yaml.Unmarshal(raw, &written))
	suite.Equal(summary.ID, written.ID)
	suite.Equal(summary.Stats, written.Stats)

	exported, err := os.ReadFile(metricsPath)
	suite.Require().NoError(err)
	suite.Contains(string(exported), "argo_vector_runs_total")
	suite.Contains(string(exported), "argo_vector_combinations_total")
}

func (suite *BacktestCmdTestSuite) TestRunMissingConfig() {
	_, err := run(context.Background(), logger.NewNopLogger(), runOptions{
		ConfigPath: filepath.Join(suite.dir, "missing.yaml"),
		DataPath:   suite.dataPath,
		OutputDir:  suite.dir,
	})
	suite.Error(err)
	suite.Contains(err.Error(), "failed to read config")
}

func (suite *BacktestCmdTestSuite) TestRunMissingData() {
	_, err := run(context.Background(), logger.NewNopLogger(), runOptions{
		ConfigPath: suite.configPath,
		DataPath:   filepath.Join(suite.dir, "missing.parquet"),
		OutputDir:  suite.dir,
	})
	suite.Error(err)
	suite.Contains(err.Error(), "failed to load series")
}
