package hdlgen

import (
	"testing"

	lltypes "github.com/llir/llvm/ir/types"
)

func TestMangleEscapesNonAlnum(t *testing.T) {
	got := mangle("counter$0")
	want := "counter_24_0"
	if got != want {
		t.Errorf("mangle(%q) = %q, want %q", "counter$0", got, want)
	}
}

func TestMangleLeavesPlainIdentifiersAlone(t *testing.T) {
	if got := mangle("filter_instance_1"); got != "filter_instance_1" {
		t.Errorf("mangle left a plain identifier altered: %q", got)
	}
}

func TestRoundedWidth(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 8}, {3, 8}, {8, 8},
		{9, 16}, {16, 16},
		{17, 32}, {32, 32},
		{33, 64}, {64, 64},
		{65, 128}, {128, 128},
	}
	for _, tc := range tests {
		if got := roundedWidth(tc.in); got != tc.want {
			t.Errorf("roundedWidth(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCIntTypeSignedness(t *testing.T) {
	if got := cIntType(17, true); got != "int32_t" {
		t.Errorf("cIntType(17, true) = %q, want int32_t", got)
	}
	if got := cIntType(17, false); got != "uint32_t" {
		t.Errorf("cIntType(17, false) = %q, want uint32_t", got)
	}
	if got := cIntType(100, true); got != "__int128" {
		t.Errorf("cIntType(100, true) = %q, want __int128", got)
	}
}

func TestCTypeVoidAndFloat(t *testing.T) {
	sn := map[lltypes.Type]string{}
	if got := cType(lltypes.Void, sn); got != "void" {
		t.Errorf("cType(void) = %q, want void", got)
	}
	if got := cType(lltypes.Double, sn); got != "double" {
		t.Errorf("cType(double) = %q, want double", got)
	}
	if got := cType(lltypes.Float, sn); got != "float" {
		t.Errorf("cType(float) = %q, want float", got)
	}
}

func TestCTypePointerRecurses(t *testing.T) {
	sn := map[lltypes.Type]string{}
	pt := lltypes.NewPointer(lltypes.I32)
	if got := cType(pt, sn); got != "int32_t*" {
		t.Errorf("cType(i32*) = %q, want int32_t*", got)
	}
}
