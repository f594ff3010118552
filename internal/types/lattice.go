package types

import "fmt"

// FIFOSizeMultiplier is the default depth/multiplicity ratio from
// spec §3 ("Channel... depth (derived: FIFO_SIZE_MULTIPLIER ·
// multiplicity, default multiplier = 4)"). Lives here rather than in
// streamgraph; streamgraph re-exports it as its own FIFOSizeMultiplier
// and the driver's Options default to it.
const FIFOSizeMultiplier = 4

// rank places every integral kind on the monotone chain
// Bool -> Bit -> APInt_n -> Int -> Float (spec §4.1). Two APInt types
// are compared by width, not by this rank, since they share a rank.
func rank(t *Type) int {
	switch t.Kind {
	case KindBool:
		return 0
	case KindBit:
		return 1
	case KindAPInt:
		return 2
	case KindInt:
		return 3
	case KindFloat:
		return 4
	case KindComplex:
		return 5
	default:
		return -1
	}
}

// ConvertibleTo reports whether a value of type `from` converts to
// type `to` per the monotone lattice in spec §4.1: Bool -> Bit ->
// APInt_n -> Int -> Float, APInt_n -> APInt_m iff n <= m, and any
// integral type converts to Float. Complex accepts Float and Int
// (SPEC_FULL.md §3); nothing converts into Complex's reverse direction.
func (in *Interner) ConvertibleTo(from, to *Type) bool {
	if from == to {
		return true
	}
	if from.Kind == KindComplex || to.Kind == KindComplex {
		if to.Kind == KindComplex {
			return from.Kind == KindFloat || from.Kind == KindInt || from.Kind == KindAPInt || from.Kind == KindBit || from.Kind == KindBool
		}
		return false
	}
	if !from.IsIntegral() && from.Kind != KindFloat {
		return false
	}
	if !to.IsIntegral() && to.Kind != KindFloat {
		return false
	}
	if from.Kind == KindAPInt && to.Kind == KindAPInt {
		return from.Width <= to.Width
	}
	fr, tr := rank(from), rank(to)
	if fr < 0 || tr < 0 {
		return false
	}
	if from.Kind == KindAPInt || to.Kind == KindAPInt {
		// An APInt only compares against non-APInt peers by rank;
		// same-kind case handled above.
		if from.Kind == KindAPInt && to.Kind != KindFloat && to.Kind != KindInt {
			return false
		}
		if to.Kind == KindAPInt {
			// Bool and Bit sit below APInt_n on the chain and widen into
			// it; Int never narrows into a fixed-width APInt implicitly.
			return from.Kind == KindBool || from.Kind == KindBit
		}
	}
	return fr <= tr
}

// CommonType computes the least upper bound of a and b in the
// conversion lattice (spec §4.1's "common type"). Returns an error
// (surfaced by the caller as diag.TypeMismatch) if no common type
// exists.
func (in *Interner) CommonType(a, b *Type) (*Type, error) {
	if a == b {
		return a, nil
	}
	if in.ConvertibleTo(a, b) {
		return b, nil
	}
	if in.ConvertibleTo(b, a) {
		return a, nil
	}
	if a.Kind == KindAPInt && b.Kind == KindAPInt {
		width := a.Width
		if b.Width > width {
			width = b.Width
		}
		signed := a.Signed || b.Signed
		return in.APInt(width, signed), nil
	}
	return nil, fmt.Errorf("no common type for %s and %s", a, b)
}

// BitWidth computes the hardware bit width of t (spec §4.1): Bool=1,
// Bit=1, APInt_n=n, Int=32, Float=32, Complex=64, Array{e,k}=k*width(e),
// Struct=sum of field widths.
func (in *Interner) BitWidth(t *Type) int {
	switch t.Kind {
	case KindBool, KindBit:
		return 1
	case KindAPInt:
		return t.Width
	case KindInt:
		return 32
	case KindFloat:
		return 32
	case KindComplex:
		return 64
	case KindArray:
		return int(t.Length) * in.BitWidth(t.Elem)
	case KindStruct:
		w := 0
		for _, f := range t.Fields {
			w += in.BitWidth(f.Type)
		}
		return w
	default:
		return 0
	}
}

// HDLVectorForm renders t as a textual bit-vector type suitable for
// VHDL/C emission (spec §4.1's "textual bit-vector form of T").
func (in *Interner) HDLVectorForm(t *Type) string {
	switch t.Kind {
	case KindBool:
		return "std_logic"
	case KindBit:
		return "std_logic"
	case KindAPInt:
		return fmt.Sprintf("std_logic_vector(%d downto 0)", t.Width-1)
	case KindInt:
		return "std_logic_vector(31 downto 0)"
	case KindFloat:
		return "std_logic_vector(31 downto 0)"
	case KindComplex:
		return "std_logic_vector(63 downto 0)"
	case KindArray:
		return fmt.Sprintf("std_logic_vector(%d downto 0)", in.BitWidth(t)-1)
	case KindStruct:
		return fmt.Sprintf("std_logic_vector(%d downto 0)", in.BitWidth(t)-1)
	default:
		return "std_logic_vector(-1 downto 0)"
	}
}

// RoundedCBitWidth rounds a bit width up to the nearest C integer width
// StreamC's emitted helper headers support — 8/16/32/64/128 (spec §4.5:
// "integer widths round up to 8/16/32/64/128").
func RoundedCBitWidth(width int) int {
	for _, w := range []int{8, 16, 32, 64, 128} {
		if width <= w {
			return w
		}
	}
	return 128
}
