package scheduler

import (
	"context"

	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostProbe reports the resources the planner sizes a run against.
type HostProbe interface {
	// CPUCount returns the number of logical cores.
	CPUCount(ctx context.Context) (int, error)
	// AvailableMemory returns the memory available for new allocations, in bytes.
	AvailableMemory(ctx context.Context) (uint64, error)
}

// SystemProbe reads the host through gopsutil.
type SystemProbe struct{}

func NewSystemProbe() HostProbe {
	return &SystemProbe{}
}

func (p *SystemProbe) CPUCount(ctx context.Context) (int, error) {
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeHostProbeFailed, "failed to count cpus", err)
	}

	if count < 1 {
		count = 1
	}

	return count, nil
}

func (p *SystemProbe) AvailableMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeHostProbeFailed, "failed to read memory", err)
	}

	return vm.Available, nil
}

// PlanFor probes the host and plans total combinations.
func PlanFor(ctx context.Context, probe HostProbe, total int, policy Policy) (types.ExecutionPlan, error) {
	cpus, err := probe.CPUCount(ctx)
	if err != nil {
		return types.ExecutionPlan{}, err
	}

	available, err := probe.AvailableMemory(ctx)
	if err != nil {
		return types.ExecutionPlan{}, err
	}

	return Plan(total, cpus, available, policy)
}
