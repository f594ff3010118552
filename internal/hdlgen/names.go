// Package hdlgen implements C5: it walks the SSA module C3 produced and
// the stream graph C4 built to emit (a) HLS-ready C source per filter
// and (b) a VHDL wrapper/top-level/test bench per spec §4.5.
package hdlgen

import (
	"fmt"
	"strings"

	lltypes "github.com/llir/llvm/ir/types"
)

// mangle escapes a source name's non-alphanumeric characters to
// `_<hex>_` (spec §4.5's "Name mangling"), leaving ASCII
// letters/digits/underscore untouched.
func mangle(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%x_", r)
		}
	}
	return sb.String()
}

// anonCounter names anonymous SSA values and unnamed structs with a
// job-local monotone counter (spec §4.5: "a global numeric counter
// names anonymous values and unnamed structs").
type anonCounter struct{ n int }

func (c *anonCounter) next(prefix string) string {
	c.n++
	return fmt.Sprintf("%s%d", prefix, c.n)
}

// roundedWidth rounds an integer bit width up to the nearest C-native
// size (spec §4.5: "integer widths round up to 8/16/32/64/128").
func roundedWidth(width int) int {
	switch {
	case width <= 1:
		return 8
	case width <= 8:
		return 8
	case width <= 16:
		return 16
	case width <= 32:
		return 32
	case width <= 64:
		return 64
	default:
		return 128
	}
}

// cIntType returns the C type name for an integer of the given bit
// width and signedness, after rounding.
func cIntType(width int, signed bool) string {
	w := roundedWidth(width)
	if w == 128 {
		if signed {
			return "__int128"
		}
		return "unsigned __int128"
	}
	if signed {
		return fmt.Sprintf("int%d_t", w)
	}
	return fmt.Sprintf("uint%d_t", w)
}

// cType renders an LLVM IR type as a C type name. An array or struct
// type renders as "struct <name>" only when structNames holds it, which
// cemit.go's declareStruct fills for the struct types in the module's
// TypeDefs; any other array or struct type renders as "struct anon".
// Arrays are not wrapped in a declared struct.
func cType(t lltypes.Type, structNames map[lltypes.Type]string) string {
	switch tt := t.(type) {
	case *lltypes.VoidType:
		return "void"
	case *lltypes.IntType:
		return cIntType(int(tt.BitSize), true)
	case *lltypes.FloatType:
		switch tt.Kind {
		case lltypes.FloatKindFloat:
			return "float"
		case lltypes.FloatKindDouble:
			return "double"
		default:
			return "long double" // SPEC_FULL.md §4: long-double warned, not rejected
		}
	case *lltypes.PointerType:
		return cType(tt.ElemType, structNames) + "*"
	case *lltypes.ArrayType, *lltypes.StructType:
		if name, ok := structNames[t]; ok {
			return "struct " + name
		}
		return "struct anon"
	default:
		return "void"
	}
}
