// Package types implements the StreamC type lattice (spec §4.1, §3):
// interned type descriptors, conversion rules, common-type resolution,
// and the bit-width/HDL-vector-form queries the other components need.
package types

import "fmt"

// Kind distinguishes the shape of a Type. The zero value is KindVoid.
type Kind byte

const (
	KindVoid Kind = iota
	KindBool
	KindBit
	KindInt
	KindAPInt
	KindFloat
	KindComplex
	KindArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "boolean"
	case KindBit:
		return "bit"
	case KindInt:
		return "int"
	case KindAPInt:
		return "apint"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Field is one member of a Struct type, in declaration order.
type Field struct {
	Name string
	Type *Type
}

// Type is a canonical, interned type descriptor. Two Type values
// produced by the same Interner with equal Kind and parameters are the
// same pointer — callers may compare Types with ==.
type Type struct {
	Kind Kind

	// APInt only.
	Width  int
	Signed bool

	// Float only. 0 is the canonical single-precision width; a
	// nonzero value records a wider source width (e.g. 80 for a
	// source "long double") that the HDL backend cannot represent
	// natively.
	SourceWidth int

	// Array only.
	Elem   *Type
	Length uint32

	// Struct only.
	Name   string
	Fields []Field
}

func (t *Type) String() string {
	switch t.Kind {
	case KindAPInt:
		sign := "u"
		if t.Signed {
			sign = "s"
		}
		return fmt.Sprintf("apint<%d,%s>", t.Width, sign)
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Length)
	case KindStruct:
		return "struct " + t.Name
	default:
		return t.Kind.String()
	}
}

// IsScalar reports whether t is one of the fixed-size scalar kinds
// (Bool, Bit, Int, APInt, Float, Complex) as opposed to Array/Struct/Void.
func (t *Type) IsScalar() bool {
	switch t.Kind {
	case KindBool, KindBit, KindInt, KindAPInt, KindFloat, KindComplex:
		return true
	default:
		return false
	}
}

// IsIntegral reports whether t participates in the integer conversion
// chain Bool -> Bit -> APInt_n -> Int (spec §4.1).
func (t *Type) IsIntegral() bool {
	switch t.Kind {
	case KindBool, KindBit, KindAPInt, KindInt:
		return true
	default:
		return false
	}
}
