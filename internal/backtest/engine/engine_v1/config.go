package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/scheduler"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"gopkg.in/yaml.v3"
)

// IndicatorConfig is one indicator slot of a strategy template. Every param
// value is a string: a single value, a comma list, or an inclusive
// "start:end:step" range.
type IndicatorConfig struct {
	Indicator string            `yaml:"indicator" json:"indicator" validate:"required" jsonschema:"title=Indicator,description=Indicator kind,enum=MA,enum=BOLL,enum=NDAY,enum=VALUE,enum=HL,enum=PERC"`
	Params    map[string]string `yaml:"params" json:"params" jsonschema:"title=Params,description=Parameter grid. Values are a single value or a comma list or start:end:step"`
}

// StrategyConfig is a strategy template that expands into many combinations.
type StrategyConfig struct {
	Name    string            `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Strategy name used as the combination ID prefix"`
	Entries []IndicatorConfig `yaml:"entries" json:"entries" validate:"required,min=1,dive" jsonschema:"title=Entries,description=Entry indicators combined unanimously,minItems=1"`
	Exits   []IndicatorConfig `yaml:"exits" json:"exits" validate:"required,min=1,dive" jsonschema:"title=Exits,description=Exit indicators combined unanimously,minItems=1"`
}

type BacktestEngineV1Config struct {
	// Version is the engine version the config was written for.
	Version  string `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version the config targets"`
	LogLevel string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	// Predictor names the series column the kernels read. Defaults to Close.
	Predictor optional.Option[string] `yaml:"predictor" json:"predictor" jsonschema:"title=Predictor,description=Series column fed to the indicator kernels"`
	// Timeout bounds the wall time of a run. Unfinished combinations are reported as incomplete.
	Timeout          optional.Option[time.Duration] `yaml:"timeout" json:"timeout" jsonschema:"title=Timeout,description=Maximum wall time of a run such as 30s or 5m"`
	StartTime        optional.Option[time.Time]     `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time of the series window"`
	EndTime          optional.Option[time.Time]     `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time of the series window"`
	RecordTrajectory bool                           `yaml:"record_trajectory" json:"record_trajectory" jsonschema:"title=Record Trajectory,description=Keep per bar positions and equity for every combination"`
	Trading          types.TradingParams            `yaml:"trading" json:"trading" jsonschema:"title=Trading,description=Execution and cost settings shared by all combinations"`
	Scheduler        scheduler.Policy               `yaml:"scheduler" json:"scheduler" jsonschema:"title=Scheduler,description=Execution planner tunables"`
	Strategies       []StrategyConfig               `yaml:"strategies" json:"strategies" validate:"dive" jsonschema:"title=Strategies,description=Strategy templates to expand"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Missing fields keep the values of EmptyConfig.
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		Version          string              `yaml:"version"`
		LogLevel         string              `yaml:"log_level"`
		Predictor        *string             `yaml:"predictor"`
		Timeout          *time.Duration      `yaml:"timeout"`
		StartTime        *time.Time          `yaml:"start_time"`
		EndTime          *time.Time          `yaml:"end_time"`
		RecordTrajectory bool                `yaml:"record_trajectory"`
		Trading          types.TradingParams `yaml:"trading"`
		Scheduler        scheduler.Policy    `yaml:"scheduler"`
		Strategies       []StrategyConfig    `yaml:"strategies"`
	}

	defaults := EmptyConfig()
	config := Config{
		LogLevel:  defaults.LogLevel,
		Trading:   defaults.Trading,
		Scheduler: defaults.Scheduler,
	}

	if err := value.Decode(&config); err != nil {
		return err
	}

	c.Version = config.Version
	c.LogLevel = config.LogLevel
	c.Predictor = optionOf(config.Predictor)
	c.Timeout = optionOf(config.Timeout)
	c.StartTime = optionOf(config.StartTime)
	c.EndTime = optionOf(config.EndTime)
	c.RecordTrajectory = config.RecordTrajectory
	c.Trading = config.Trading
	c.Scheduler = config.Scheduler
	c.Strategies = config.Strategies

	return nil
}

// Validate checks the struct tags, the nested trading and scheduler settings
// and the time window.
func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid engine config", err)
	}

	if err := c.Trading.Validate(); err != nil {
		return err
	}

	if err := c.Scheduler.Validate(); err != nil {
		return err
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidRange, "end_time %s is before start_time %s",
			c.EndTime.Unwrap().Format(time.RFC3339), c.StartTime.Unwrap().Format(time.RFC3339))
	}

	if c.Timeout.IsSome() && c.Timeout.Unwrap() <= 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "timeout must be positive, got %s", c.Timeout.Unwrap())
	}

	return nil
}

func optionOf[T any](v *T) optional.Option[T] {
	if v == nil {
		return optional.None[T]()
	}

	return optional.Some(*v)
}

// PredictorColumn returns the configured predictor or Close.
func (c BacktestEngineV1Config) PredictorColumn() string {
	return c.Predictor.TakeOr(types.ColumnClose)
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t.String() {
			case "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case "optional.Option[time.Duration]":
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|ms|s|m|h))+$`,
				}
			case "optional.Option[string]":
				return &jsonschema.Schema{
					Type: "string",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// TestConfig returns a config over the given window with no costs, used by tests.
func TestConfig(startTime time.Time, endTime time.Time, strategies ...StrategyConfig) BacktestEngineV1Config {
	config := EmptyConfig()
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)
	config.Trading.TransactionCost = 0
	config.Trading.Slippage = 0
	config.Strategies = strategies

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Version:          "",
		LogLevel:         "info",
		Predictor:        optional.None[string](),
		Timeout:          optional.None[time.Duration](),
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
		RecordTrajectory: false,
		Trading:          types.DefaultTradingParams(),
		Scheduler:        scheduler.DefaultPolicy(),
		Strategies:       nil,
	}
}
