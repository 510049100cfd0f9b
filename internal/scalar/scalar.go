// Package scalar defines the closed set of scalar kinds that filename
// placeholders and schema overrides may be typed with, and the casting of
// raw captured literals into cty values of those kinds.
package scalar

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies one scalar kind from the closed set recognized by
// dataset definitions.
type Kind int

const (
	// String is the default kind for untyped placeholders.
	String Kind = iota
	Int
	Int64
	Float
	Float32
	Bool
)

// kindNames maps each Kind to its keyword as written in definition files.
var kindNames = map[Kind]string{
	String:  "string",
	Int:     "int",
	Int64:   "int64",
	Float:   "float",
	Float32: "float32",
	Bool:    "bool",
}

// String returns the keyword for the kind, as used in definition files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("scalar.Kind(%d)", int(k))
}

// ParseKind resolves a kind keyword into its Kind. The keyword set is
// closed; anything else is an error.
func ParseKind(keyword string) (Kind, error) {
	for kind, name := range kindNames {
		if name == keyword {
			return kind, nil
		}
	}
	return String, fmt.Errorf("unknown scalar kind %q", keyword)
}

// CtyType returns the cty type that values of this kind are represented as.
func (k Kind) CtyType() cty.Type {
	switch k {
	case Bool:
		return cty.Bool
	case String:
		return cty.String
	default:
		return cty.Number
	}
}

// Cast converts a raw captured literal into a cty value of this kind.
// The literal is never coerced silently: a literal that does not parse as
// the declared kind is an error.
func (k Kind) Cast(literal string) (cty.Value, error) {
	switch k {
	case String:
		return cty.StringVal(literal), nil
	case Int, Int64:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot parse %q as %s", literal, k)
		}
		return cty.NumberIntVal(n), nil
	case Float, Float32:
		bits := 64
		if k == Float32 {
			bits = 32
		}
		f, err := strconv.ParseFloat(literal, bits)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot parse %q as %s", literal, k)
		}
		return cty.NumberFloatVal(f), nil
	case Bool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot parse %q as %s", literal, k)
		}
		return cty.BoolVal(b), nil
	default:
		return cty.NilVal, fmt.Errorf("unknown scalar kind %d", int(k))
	}
}
