package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// ParamType tags the value stored in a ParamValue.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
	ParamTypeEnum  ParamType = "enum"
)

// ParamValue is a single typed parameter value.
type ParamValue struct {
	Type  ParamType
	Int   int
	Float float64
	Enum  string
}

func IntParam(v int) ParamValue {
	return ParamValue{Type: ParamTypeInt, Int: v}
}

func FloatParam(v float64) ParamValue {
	return ParamValue{Type: ParamTypeFloat, Float: v}
}

func EnumParam(v string) ParamValue {
	return ParamValue{Type: ParamTypeEnum, Enum: v}
}

// String renders the value without its type tag.
func (v ParamValue) String() string {
	switch v.Type {
	case ParamTypeInt:
		return strconv.Itoa(v.Int)
	case ParamTypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Enum
	}
}

// ParamSet is the immutable parameter record of one indicator instance.
// Items are kept sorted by name and the hash is fixed at construction.
type ParamSet struct {
	kind   IndicatorKind
	names  []string
	values []ParamValue
	hash   string
}

// NewParamSet builds a ParamSet. The input map is copied.
func NewParamSet(kind IndicatorKind, values map[string]ParamValue) ParamSet {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	sort.Strings(names)

	ps := ParamSet{
		kind:   kind,
		names:  names,
		values: make([]ParamValue, len(names)),
	}

	for i, name := range names {
		ps.values[i] = values[name]
	}

	ps.hash = computeParamHash(kind, names, ps.values)

	return ps
}

// computeParamHash returns SHA256(kind|name=type:value|...) as hex.
func computeParamHash(kind IndicatorKind, names []string, values []ParamValue) string {
	var b strings.Builder

	b.WriteString(string(kind))

	for i, name := range names {
		fmt.Fprintf(&b, "|%s=%s:%s", name, values[i].Type, values[i].String())
	}

	hash := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(hash[:])
}

func (p ParamSet) Kind() IndicatorKind {
	return p.kind
}

// Hash is stable for equal kind and items, whatever order they were supplied in.
func (p ParamSet) Hash() string {
	return p.hash
}

// Names returns a copy of the sorted parameter names.
func (p ParamSet) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)

	return out
}

// Len returns the number of parameters.
func (p ParamSet) Len() int {
	return len(p.names)
}

// Value looks up a raw typed value.
func (p ParamSet) Value(name string) (ParamValue, bool) {
	i := sort.SearchStrings(p.names, name)
	if i < len(p.names) && p.names[i] == name {
		return p.values[i], true
	}

	return ParamValue{}, false
}

// Has reports whether the parameter is present.
func (p ParamSet) Has(name string) bool {
	_, ok := p.Value(name)

	return ok
}

// Int returns an int parameter.
func (p ParamSet) Int(name string) (int, error) {
	v, ok := p.Value(name)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeMissingParameter, "%s: parameter %s not found", p.kind, name)
	}

	if v.Type != ParamTypeInt {
		return 0, errors.Newf(errors.ErrCodeInvalidType, "%s: parameter %s is %s, want int", p.kind, name, v.Type)
	}

	return v.Int, nil
}

// Float returns a float parameter. Int parameters are widened.
func (p ParamSet) Float(name string) (float64, error) {
	v, ok := p.Value(name)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeMissingParameter, "%s: parameter %s not found", p.kind, name)
	}

	switch v.Type {
	case ParamTypeFloat:
		return v.Float, nil
	case ParamTypeInt:
		return float64(v.Int), nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "%s: parameter %s is %s, want float", p.kind, name, v.Type)
	}
}

// Enum returns an enum parameter.
func (p ParamSet) Enum(name string) (string, error) {
	v, ok := p.Value(name)
	if !ok {
		return "", errors.Newf(errors.ErrCodeMissingParameter, "%s: parameter %s not found", p.kind, name)
	}

	if v.Type != ParamTypeEnum {
		return "", errors.Newf(errors.ErrCodeInvalidType, "%s: parameter %s is %s, want enum", p.kind, name, v.Type)
	}

	return v.Enum, nil
}

// Map returns a name to value copy, used by exporters.
func (p ParamSet) Map() map[string]ParamValue {
	out := make(map[string]ParamValue, len(p.names))
	for i, name := range p.names {
		out[name] = p.values[i]
	}

	return out
}

// String renders the set as KIND(a=1,b=2).
func (p ParamSet) String() string {
	items := make([]string, len(p.names))
	for i, name := range p.names {
		items[i] = name + "=" + p.values[i].String()
	}

	return fmt.Sprintf("%s(%s)", p.kind, strings.Join(items, ","))
}
