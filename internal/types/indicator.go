package types

import "strings"

// IndicatorKind is the closed set of indicator families the kernels know.
type IndicatorKind string

const (
	IndicatorKindMA    IndicatorKind = "MA"
	IndicatorKindBOLL  IndicatorKind = "BOLL"
	IndicatorKindNDAY  IndicatorKind = "NDAY"
	IndicatorKindVALUE IndicatorKind = "VALUE"
	IndicatorKindHL    IndicatorKind = "HL"
	IndicatorKindPERC  IndicatorKind = "PERC"
)

// AllIndicatorKinds lists every kind in a stable order.
var AllIndicatorKinds = []IndicatorKind{
	IndicatorKindMA,
	IndicatorKindBOLL,
	IndicatorKindNDAY,
	IndicatorKindVALUE,
	IndicatorKindHL,
	IndicatorKindPERC,
}

// IsExitOnly reports whether the kind can only be used as an exit.
func (k IndicatorKind) IsExitOnly() bool {
	return k == IndicatorKindNDAY
}

// Valid reports whether k is one of AllIndicatorKinds.
func (k IndicatorKind) Valid() bool {
	for _, kind := range AllIndicatorKinds {
		if k == kind {
			return true
		}
	}

	return false
}

// ParseIndicatorKind accepts any letter case.
func ParseIndicatorKind(s string) (IndicatorKind, bool) {
	kind := IndicatorKind(strings.ToUpper(strings.TrimSpace(s)))

	return kind, kind.Valid()
}

// SignalRole tells a kernel whether its output drives entries or exits.
type SignalRole string

const (
	SignalRoleEntry SignalRole = "entry"
	SignalRoleExit  SignalRole = "exit"
)
