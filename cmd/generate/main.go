package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	engine "github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "backtest-engine-v1-config.json"
	sampleConfigName = "backtest-engine-v1-config.yaml"
)

// sampleConfig sweeps a moving average entry against N-day exits.
const sampleConfig = `version: main
log_level: info
predictor: Close
record_trajectory: false
trading:
  transaction_cost: 0.001
  slippage: 0
  trade_delay: 1
  trade_price: open
  return_mode: simple
  open_position_policy: force_close
  fee_model: proportional
scheduler:
  serial_threshold: 100
  min_batch_per_worker: 50
  per_worker_memory_bytes: 268435456
  memory_safety_fraction: 0.7
  max_batch_size: 1000
strategies:
  - name: ma-nday
    entries:
      - indicator: MA
        params:
          variant: 1,3
          ma_type: SMA,EMA
          period: "5:60:5"
    exits:
      - indicator: NDAY
        params:
          n: "3:20"
  - name: boll-ma
    entries:
      - indicator: BOLL
        params:
          variant: 1
          ma_length: 10,20,30
          std_multiplier: "1:3:0.5"
    exits:
      - indicator: MA
        params:
          variant: 3
          ma_type: EMA
          period: 10,20
`

func generateSchemaFile(config engine.BacktestEngineV1Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes the sample config with a yaml-language-server
// schema reference. An existing file is left untouched.
func generateSampleConfig(samplePath string, schema string) error {
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	config := engine.EmptyConfig()
	if err := yaml.Unmarshal([]byte(sampleConfig), &config); err != nil {
		return fmt.Errorf("failed to parse sample config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("failed to validate sample config: %w", err)
	}

	content := "# yaml-language-server: $schema=" + schema + "\n" + sampleConfig

	if err := os.WriteFile(samplePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	return nil
}

func main() {
	config := engine.EmptyConfig()
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", sampleConfigName)

	if err := generateSchemaFile(config, schemaPath); err != nil {
		log.Fatal(err)
	}

	if err := generateSampleConfig(sampleConfigPath, schemaName); err != nil {
		log.Fatal(err)
	}

	log.Printf("Schema generated at %s, sample config at %s", schemaPath, sampleConfigPath)
}
