package types

import (
	"fmt"
	"strings"

	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// StrategySpec is one concrete combination: an ordered list of entry
// indicators and an ordered list of exit indicators, each fully parameterized.
type StrategySpec struct {
	// ID identifies the combination, e.g. "ma-cross#3".
	ID string
	// Name is the strategy template the combination was expanded from.
	Name    string
	Entries []ParamSet
	Exits   []ParamSet
}

// ShapeSignature is the grouping key of a StrategySpec. Strategies with equal
// signatures produce signal tensors of identical dimensionality.
type ShapeSignature struct {
	EntryCount int
	ExitCount  int
	EntryKinds []IndicatorKind
	ExitKinds  []IndicatorKind
}

// Key renders the signature as a comparable string, e.g. "1x1:MA|NDAY".
func (s ShapeSignature) Key() string {
	entries := make([]string, len(s.EntryKinds))
	for i, k := range s.EntryKinds {
		entries[i] = string(k)
	}

	exits := make([]string, len(s.ExitKinds))
	for i, k := range s.ExitKinds {
		exits[i] = string(k)
	}

	return fmt.Sprintf("%dx%d:%s|%s", s.EntryCount, s.ExitCount, strings.Join(entries, ","), strings.Join(exits, ","))
}

func (s ShapeSignature) String() string {
	return s.Key()
}

// Signature computes the shape signature of the combination.
func (s StrategySpec) Signature() ShapeSignature {
	sig := ShapeSignature{
		EntryCount: len(s.Entries),
		ExitCount:  len(s.Exits),
		EntryKinds: make([]IndicatorKind, len(s.Entries)),
		ExitKinds:  make([]IndicatorKind, len(s.Exits)),
	}

	for i, p := range s.Entries {
		sig.EntryKinds[i] = p.Kind()
	}

	for i, p := range s.Exits {
		sig.ExitKinds[i] = p.Kind()
	}

	return sig
}

// Params returns entries followed by exits.
func (s StrategySpec) Params() []ParamSet {
	out := make([]ParamSet, 0, len(s.Entries)+len(s.Exits))
	out = append(out, s.Entries...)
	out = append(out, s.Exits...)

	return out
}

// Validate checks the structural rules of a combination. Kind-specific
// parameter checks live with the indicator kernels.
func (s StrategySpec) Validate() error {
	if len(s.Entries) == 0 {
		return errors.Newf(errors.ErrCodeStrategyConfigError, "strategy %s has no entry indicator", s.ID)
	}

	if len(s.Exits) == 0 {
		return errors.Newf(errors.ErrCodeStrategyConfigError, "strategy %s has no exit indicator", s.ID)
	}

	for i, p := range s.Params() {
		if !p.Kind().Valid() {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "strategy %s: unknown indicator kind %q at slot %d", s.ID, p.Kind(), i)
		}
	}

	for i, p := range s.Entries {
		if p.Kind().IsExitOnly() {
			return errors.Newf(errors.ErrCodeExitOnlyAsEntry, "strategy %s: %s is exit-only and cannot be entry %d", s.ID, p.Kind(), i)
		}
	}

	return nil
}
