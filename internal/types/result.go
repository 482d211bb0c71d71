package types

import "github.com/moznion/go-optional"

// Status is the outcome class of a combination.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusNoTrade Status = "no_trade"
)

// Classify is the single status rule used by every consumer:
// failure when an error is present, no_trade when there is no error and no
// realized entry, success otherwise.
func Classify(err error, realizedEntries int) Status {
	if err != nil {
		return StatusFailure
	}

	if realizedEntries == 0 {
		return StatusNoTrade
	}

	return StatusSuccess
}

// CombinationResult is the only data that outlives an engine call.
type CombinationResult struct {
	// CombinationID is the position of the combination in the caller's list.
	CombinationID int
	StrategyID    string
	StrategyName  string
	Params        []ParamSet
	Trades        []TradeRecord
	OpenPosition  optional.Option[OpenPosition]
	Trajectory    optional.Option[Trajectory]
	Err           error
}

// RealizedEntries counts closed trades. A position left open is reported
// through OpenPosition and does not count.
func (r CombinationResult) RealizedEntries() int {
	return len(r.Trades)
}

// Status derives the outcome through Classify.
func (r CombinationResult) Status() Status {
	return Classify(r.Err, r.RealizedEntries())
}

// ErrorMessage returns the error text or an empty string.
func (r CombinationResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}

// RunStats are the aggregate counts of a run.
type RunStats struct {
	Total      int `yaml:"total" json:"total"`
	Success    int `yaml:"success" json:"success"`
	Failure    int `yaml:"failure" json:"failure"`
	NoTrade    int `yaml:"no_trade" json:"no_trade"`
	Incomplete int `yaml:"incomplete" json:"incomplete"`
	Trades     int `yaml:"trades" json:"trades"`
}

// Add counts one result.
func (s *RunStats) Add(r CombinationResult) {
	s.Total++
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

// ExecutionPlan is the scheduler's decision for a run.
type ExecutionPlan struct {
	WorkerCount int  `yaml:"worker_count" json:"worker_count"`
	BatchSize   int  `yaml:"batch_size" json:"batch_size"`
	Parallel    bool `yaml:"parallel" json:"parallel"`
}

// RunResult is returned by the engine for one run.
type RunResult struct {
	RunID   string
	Results []CombinationResult
	Stats   RunStats
	Plan    ExecutionPlan
	// Partial is set when the run was cancelled or timed out. Incomplete lists
	// the combination IDs that have no result.
	Partial    bool
	Incomplete []int
}
