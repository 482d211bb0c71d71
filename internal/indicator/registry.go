package indicator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// IndicatorRegistry is the dispatch table from indicator kind to kernel.
type IndicatorRegistry interface {
	RegisterKernel(kernel Kernel) error
	GetKernel(kind types.IndicatorKind) (Kernel, error)
	ListKinds() []types.IndicatorKind
	// ComputeSignals runs the kernel of kind over a homogeneous batch.
	// Exit-only kinds asked for entry signals return an all-flat matrix.
	ComputeSignals(kind types.IndicatorKind, role types.SignalRole, predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error)
	// ValidateParams checks a ParamSet against its kernel.
	ValidateParams(params types.ParamSet) error
}

// IndicatorRegistryV1 manages all available kernels.
type IndicatorRegistryV1 struct {
	kernels map[types.IndicatorKind]Kernel
	mu      sync.RWMutex
}

// NewIndicatorRegistry creates an empty registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		kernels: make(map[types.IndicatorKind]Kernel),
		mu:      sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding every built-in kernel.
func NewDefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()

	for _, kernel := range []Kernel{NewMA(), NewBollingerBands(), NewNDayCycle(), NewValue(), NewHighLow(), NewPercentile()} {
		// kinds are distinct, registration cannot fail
		_ = registry.RegisterKernel(kernel)
	}

	return registry
}

// RegisterKernel adds a kernel to the registry.
func (r *IndicatorRegistryV1) RegisterKernel(kernel Kernel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := kernel.Kind()
	if _, exists := r.kernels[kind]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterKernel: kernel for %s already registered", kind)
	}

	r.kernels[kind] = kernel

	return nil
}

// GetKernel retrieves a kernel by kind.
func (r *IndicatorRegistryV1) GetKernel(kind types.IndicatorKind) (Kernel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kernel, exists := r.kernels[kind]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "GetKernel: kernel for %s not found", kind)
	}

	return kernel, nil
}

// ListKinds returns the registered kinds in sorted order.
func (r *IndicatorRegistryV1) ListKinds() []types.IndicatorKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]types.IndicatorKind, 0, len(r.kernels))
	for kind := range r.kernels {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

func (r *IndicatorRegistryV1) ComputeSignals(kind types.IndicatorKind, role types.SignalRole, predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	for i, params := range batch {
		if params.Kind() != kind {
			return nil, errors.Newf(errors.ErrCodeMixedIndicatorBatch, "ComputeSignals: batch of %s contains %s at column %d", kind, params.Kind(), i)
		}
	}

	if role == types.SignalRoleEntry && kind.IsExitOnly() {
		return types.NewSignalMatrix(len(predictor), len(batch)), nil
	}

	kernel, err := r.GetKernel(kind)
	if err != nil {
		return nil, err
	}

	matrix, err := kernel.Compute(predictor, batch)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "ComputeSignals: %s batch of %d failed", kind, len(batch))
	}

	return matrix, nil
}

func (r *IndicatorRegistryV1) ValidateParams(params types.ParamSet) error {
	kernel, err := r.GetKernel(params.Kind())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "unknown indicator", err)
	}

	return kernel.Validate(params)
}

func invalidParam(params types.ParamSet, format string, args ...any) error {
	return errors.Newf(errors.ErrCodeInvalidParameter, "%s: %s", params.Kind(), fmt.Sprintf(format, args...))
}
