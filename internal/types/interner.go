package types

import "fmt"

// Interner owns every Type handle created during one compilation job.
// Per spec §5, two concurrent jobs must use disjoint instances — an
// Interner is never shared, so it carries no synchronization.
type Interner struct {
	byKey map[string]*Type

	voidT *Type
	boolT *Type
	bitT  *Type
	intT  *Type
	fltT  *Type
	cplxT *Type
}

// NewInterner creates an empty, job-local type table.
func NewInterner() *Interner {
	in := &Interner{byKey: make(map[string]*Type)}
	in.voidT = in.intern(fmt.Sprintf("void"), &Type{Kind: KindVoid})
	in.boolT = in.intern("bool", &Type{Kind: KindBool})
	in.bitT = in.intern("bit", &Type{Kind: KindBit})
	in.intT = in.intern("int", &Type{Kind: KindInt})
	in.fltT = in.intern("float", &Type{Kind: KindFloat})
	in.cplxT = in.intern("complex", &Type{Kind: KindComplex})
	return in
}

func (in *Interner) intern(key string, t *Type) *Type {
	if existing, ok := in.byKey[key]; ok {
		return existing
	}
	in.byKey[key] = t
	return t
}

// Void returns the canonical void type.
func (in *Interner) Void() *Type { return in.voidT }

// Bool returns the canonical 1-bit boolean type.
func (in *Interner) Bool() *Type { return in.boolT }

// Bit returns the canonical 1-bit unsigned bit type.
func (in *Interner) Bit() *Type { return in.bitT }

// Int returns the canonical 32-bit signed int type.
func (in *Interner) Int() *Type { return in.intT }

// Float returns the canonical 32-bit float type.
func (in *Interner) Float() *Type { return in.fltT }

// LongDouble returns the canonical float type for a source "long
// double": still KindFloat for every lattice/conversion rule, but
// carrying a SourceWidth that irgen inspects to lower it as an x86
// 80-bit float; BitWidth still reports 32. The warning is issued by
// sema when it resolves the type name (SPEC_FULL.md §4's long-double
// resolution).
func (in *Interner) LongDouble() *Type {
	return in.intern("float:longdouble", &Type{Kind: KindFloat, SourceWidth: 80})
}

// Complex returns the canonical complex type (two Float lanes, §3 of
// SPEC_FULL.md).
func (in *Interner) Complex() *Type { return in.cplxT }

// APInt returns the canonical arbitrary-precision integer type of the
// given width (2..128) and signedness.
func (in *Interner) APInt(width int, signed bool) *Type {
	if width < 2 || width > 128 {
		panic(fmt.Sprintf("types: APInt width %d out of range [2,128]", width))
	}
	key := fmt.Sprintf("apint:%d:%v", width, signed)
	return in.intern(key, &Type{Kind: KindAPInt, Width: width, Signed: signed})
}

// Array returns the canonical fixed-size array type.
func (in *Interner) Array(elem *Type, length uint32) *Type {
	if length == 0 {
		panic("types: array length must be > 0")
	}
	key := fmt.Sprintf("array:%p:%d", elem, length)
	return in.intern(key, &Type{Kind: KindArray, Elem: elem, Length: length})
}

// Struct returns the canonical struct type for the given name and
// ordered field list. Structs are interned by name: redeclaring a
// struct with the same name returns the first definition's handle, the
// way every other kind is interned by its shape.
func (in *Interner) Struct(name string, fields []Field) *Type {
	key := "struct:" + name
	if existing, ok := in.byKey[key]; ok {
		return existing
	}
	t := &Type{Kind: KindStruct, Name: name, Fields: fields}
	in.byKey[key] = t
	return t
}
