package ast

import "streamc/internal/types"

// Expr is any expression node (spec §3). Every concrete type carries
// its source Pos and a ResolvedType filled in by C2; ResolvedType is
// nil until semantic analysis succeeds (spec §8's "type preservation"
// invariant).
type Expr interface {
	Position() Pos
	Type() *types.Type
	SetType(*types.Type)
}

// ExprBase factors the Pos/ResolvedType pair every Expr carries.
type ExprBase struct {
	Pos          Pos
	ResolvedType *types.Type
}

func (e *ExprBase) Position() Pos          { return e.Pos }
func (e *ExprBase) Type() *types.Type      { return e.ResolvedType }
func (e *ExprBase) SetType(t *types.Type)  { e.ResolvedType = t }

// IntLit is an integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase
	Value bool
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	ExprBase
	Value float64
}

// Ident is an identifier expression, resolved to a Decl by C2 (spec
// §3: "identifier (resolved to a Declaration pointer)").
type Ident struct {
	ExprBase
	Name string
	Decl Decl // filled in by C2
}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	ExprBase
	Base  Expr
	Index Expr
}

// UnaryOp enumerates unary operators, including pre/post inc/dec.
type UnaryOp string

const (
	UnaryNeg       UnaryOp = "-"
	UnaryNot       UnaryOp = "!"
	UnaryBitNot    UnaryOp = "~"
	UnaryPreIncr   UnaryOp = "++pre"
	UnaryPreDecr   UnaryOp = "--pre"
	UnaryPostIncr  UnaryOp = "++post"
	UnaryPostDecr  UnaryOp = "--post"
)

// UnaryExpr applies a unary operator to an operand.
type UnaryExpr struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr is an arithmetic or relational binary operator
// application (spec §3: "binary arithmetic; relational").
type BinaryExpr struct {
	ExprBase
	Op    string // +,-,*,/,%,==,!=,<,<=,>,>=,&,|,^,<<,>>
	Left  Expr
	Right Expr
}

// LogicalExpr is a short-circuiting && or ||.
type LogicalExpr struct {
	ExprBase
	Op    string // "&&" or "||"
	Left  Expr
	Right Expr
}

// CommaExpr evaluates Left for effect and yields Right's value.
type CommaExpr struct {
	ExprBase
	Left  Expr
	Right Expr
}

// AssignExpr is `target op= value` with op one of "", "+", "-", "*",
// "/", "%" for the compound variants (spec §3: "assignment (with
// compound operator variants)"). Target must be an lvalue: an Ident or
// IndexExpr (spec §4.2).
type AssignExpr struct {
	ExprBase
	Target Expr
	Op     string // "", "+", "-", "*", "/", "%"
	Value  Expr
}

// PeekExpr is `peek(idx)`.
type PeekExpr struct {
	ExprBase
	Index Expr
}

// PopExpr is `pop()`.
type PopExpr struct {
	ExprBase
}

// FunctionReference is what a CallExpr resolves its callee name to
// after overload resolution (spec §3: "call (resolved to a
// FunctionReference)").
type FunctionReference struct {
	Decl   *FunctionDecl
	Params []*types.Type
	Ret    *types.Type
}

// CallExpr is a function call, resolved to a FunctionReference by C2's
// overload resolution (spec §4.2).
type CallExpr struct {
	ExprBase
	Callee string
	Args   []Expr
	Ref    *FunctionReference
}

// CastExpr is an explicit type cast.
type CastExpr struct {
	ExprBase
	TargetType *TypeExpr
	Operand    Expr
}

// InitListExpr is a brace-enclosed initializer list, e.g. for array or
// struct literals: `{1, 1, 0, 1, 1, 0, 0}`.
type InitListExpr struct {
	ExprBase
	Elements []Expr
}
