package scheduler

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// Policy holds the tunables of the execution planner.
type Policy struct {
	// SerialThreshold is the largest run executed on the calling goroutine.
	SerialThreshold int `yaml:"serial_threshold" json:"serial_threshold" validate:"gte=0" jsonschema:"title=Serial Threshold,minimum=0,default=100"`
	// MinBatchPerWorker bounds the worker count so each worker gets at least this many combinations.
	MinBatchPerWorker int `yaml:"min_batch_per_worker" json:"min_batch_per_worker" validate:"gte=1" jsonschema:"title=Minimum Batch Per Worker,minimum=1,default=50"`
	// PerWorkerMemoryBytes is the memory budget assumed for one worker.
	PerWorkerMemoryBytes uint64 `yaml:"per_worker_memory_bytes" json:"per_worker_memory_bytes" validate:"gte=1" jsonschema:"title=Per Worker Memory,minimum=1"`
	// MemorySafetyFraction is the share of available memory the run may plan against.
	MemorySafetyFraction float64 `yaml:"memory_safety_fraction" json:"memory_safety_fraction" validate:"gt=0,lte=1" jsonschema:"title=Memory Safety Fraction,exclusiveMinimum=0,maximum=1,default=0.7"`
	// MaxBatchSize caps the number of combinations in one unit.
	MaxBatchSize int `yaml:"max_batch_size" json:"max_batch_size" validate:"gte=1" jsonschema:"title=Max Batch Size,minimum=1,default=1000"`
}

// DefaultPolicy returns the stock planner settings.
func DefaultPolicy() Policy {
	return Policy{
		SerialThreshold:      100,
		MinBatchPerWorker:    50,
		PerWorkerMemoryBytes: 256 << 20,
		MemorySafetyFraction: 0.7,
		MaxBatchSize:         1000,
	}
}

// Validate checks the struct tags.
func (p Policy) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSchedulePolicy, "invalid scheduler policy", err)
	}

	return nil
}

// Plan decides the worker count and batch size for total combinations on a
// host with cpu cores and mem bytes of available memory. It is a pure
// function of its inputs.
func Plan(total, cpu int, mem uint64, policy Policy) (types.ExecutionPlan, error) {
	if err := policy.Validate(); err != nil {
		return types.ExecutionPlan{}, err
	}

	budget := uint64(policy.MemorySafetyFraction * float64(mem))
	memCap := budget / policy.PerWorkerMemoryBytes

	if memCap < 1 {
		return types.ExecutionPlan{}, errors.NewResourceErrorf(policy.PerWorkerMemoryBytes, budget,
			"insufficient memory: one worker needs %d bytes, %d of %d available bytes are usable",
			policy.PerWorkerMemoryBytes, budget, mem)
	}

	if total <= policy.SerialThreshold {
		return types.ExecutionPlan{
			WorkerCount: 1,
			BatchSize:   batchSize(total, 1, policy.MaxBatchSize),
			Parallel:    false,
		}, nil
	}

	workers := max(cpu, 1)
	workers = min(workers, ceilDiv(total, policy.MinBatchPerWorker))

	if memCap < uint64(workers) {
		workers = int(memCap)
	}

	return types.ExecutionPlan{
		WorkerCount: workers,
		BatchSize:   batchSize(total, workers, policy.MaxBatchSize),
		Parallel:    workers > 1,
	}, nil
}

func batchSize(total, workers, maxBatch int) int {
	size := min(ceilDiv(total, workers), maxBatch)

	return max(size, 1)
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return math.MaxInt
	}

	return (a + b - 1) / b
}
