package types

import "testing"

func TestInterningIsCanonical(t *testing.T) {
	in := NewInterner()
	a := in.APInt(7, false)
	b := in.APInt(7, false)
	if a != b {
		t.Fatalf("APInt(7,false) returned distinct handles: %p vs %p", a, b)
	}

	elem := in.Int()
	arr1 := in.Array(elem, 7)
	arr2 := in.Array(elem, 7)
	if arr1 != arr2 {
		t.Fatalf("Array(Int,7) returned distinct handles")
	}
}

func TestConversionChain(t *testing.T) {
	in := NewInterner()

	cases := []struct {
		from, to *Type
		want     bool
	}{
		{in.Bool(), in.Bit(), true},
		{in.Bit(), in.APInt(8, false), true},
		{in.APInt(8, false), in.Int(), true},
		{in.Int(), in.Float(), true},
		{in.Float(), in.Int(), false},
		{in.APInt(16, false), in.APInt(8, false), false},
		{in.APInt(8, false), in.APInt(16, false), true},
		{in.Bool(), in.Float(), true},
	}
	for _, c := range cases {
		got := in.ConvertibleTo(c.from, c.to)
		if got != c.want {
			t.Errorf("ConvertibleTo(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestCommonTypeFailure(t *testing.T) {
	in := NewInterner()
	structT := in.Struct("Point", []Field{{Name: "x", Type: in.Int()}})
	if _, err := in.CommonType(structT, in.Int()); err == nil {
		t.Fatalf("expected no common type for struct and int")
	}
}

func TestBitWidth(t *testing.T) {
	in := NewInterner()
	arr := in.Array(in.APInt(3, false), 7)
	if w := in.BitWidth(arr); w != 21 {
		t.Fatalf("BitWidth(apint<3>[7]) = %d, want 21", w)
	}

	structT := in.Struct("S", []Field{
		{Name: "a", Type: in.Int()},
		{Name: "b", Type: in.Bit()},
	})
	if w := in.BitWidth(structT); w != 33 {
		t.Fatalf("BitWidth(struct{int,bit}) = %d, want 33", w)
	}
}

func TestRoundedCBitWidth(t *testing.T) {
	cases := map[int]int{1: 8, 3: 8, 8: 8, 9: 16, 32: 32, 33: 64, 65: 128}
	for in, want := range cases {
		if got := RoundedCBitWidth(in); got != want {
			t.Errorf("RoundedCBitWidth(%d) = %d, want %d", in, got, want)
		}
	}
}

// TestLongDoubleIsDistinctFromFloat confirms LongDouble is still
// KindFloat (so every lattice/conversion rule treats it identically to
// Float) but is a distinct, canonically-interned handle carrying the
// wider SourceWidth the HDL backend narrows.
func TestLongDoubleIsDistinctFromFloat(t *testing.T) {
	in := NewInterner()
	ld := in.LongDouble()

	if ld.Kind != KindFloat {
		t.Fatalf("LongDouble().Kind = %v, want KindFloat", ld.Kind)
	}
	if ld == in.Float() {
		t.Fatal("LongDouble() returned the same handle as Float()")
	}
	if ld.SourceWidth != 80 {
		t.Errorf("LongDouble().SourceWidth = %d, want 80", ld.SourceWidth)
	}
	if in.Float().SourceWidth != 0 {
		t.Errorf("Float().SourceWidth = %d, want 0", in.Float().SourceWidth)
	}
	if in.LongDouble() != ld {
		t.Fatal("LongDouble() is not canonically interned")
	}
	if !in.ConvertibleTo(in.Int(), ld) {
		t.Error("expected Int to be convertible to LongDouble, same as to Float")
	}
}
