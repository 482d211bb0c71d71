package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StrategySummary counts the outcomes of all combinations expanded from one strategy.
type StrategySummary struct {
	Name         string `yaml:"name" json:"name"`
	Combinations int    `yaml:"combinations" json:"combinations"`
	Success      int    `yaml:"success" json:"success"`
	Failure      int    `yaml:"failure" json:"failure"`
	NoTrade      int    `yaml:"no_trade" json:"no_trade"`
	Trades       int    `yaml:"trades" json:"trades"`
}

// RunSummary is the YAML document written next to the parquet exports.
type RunSummary struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the run finished.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Version is the engine version that produced the results.
	Version    string            `yaml:"version" json:"version"`
	Plan       ExecutionPlan     `yaml:"plan" json:"plan"`
	Stats      RunStats          `yaml:"stats" json:"stats"`
	Partial    bool              `yaml:"partial" json:"partial"`
	Strategies []StrategySummary `yaml:"strategies" json:"strategies"`
	// DataPath is the path to the market data file used for this run.
	DataPath string `yaml:"data_path" json:"data_path"`
	// CombinationsFilePath is the path to the combinations parquet file.
	CombinationsFilePath string `yaml:"combinations_file_path" json:"combinations_file_path"`
	// TradesFilePath is the path to the trades parquet file.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
}

// SummarizeByStrategy groups results by StrategyName in first-seen order.
func SummarizeByStrategy(results []CombinationResult) []StrategySummary {
	index := map[string]int{}
	summaries := []StrategySummary{}

	for _, r := range results {
		i, ok := index[r.StrategyName]
		if !ok {
			i = len(summaries)
			index[r.StrategyName] = i
			summaries = append(summaries, StrategySummary{Name: r.StrategyName})
		}

		s := &summaries[i]
		s.Combinations++
		s.Trades += len(r.Trades)

		switch r.Status() {
		case StatusSuccess:
			s.Success++
		case StatusFailure:
			s.Failure++
		case StatusNoTrade:
			s.NoTrade++
		}
	}

	return summaries
}

func WriteRunSummary(path string, summary RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary to file: %w", err)
	}

	return nil
}
