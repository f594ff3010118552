package irgen

import (
	"testing"

	"streamc/internal/ast"
	"streamc/internal/types"
)

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

// TestLowerFunctionReturnsZeroValue checks that a function with no
// explicit trailing return still terminates with a well-typed ret
// instruction (the fallthrough case spec §4.3 requires every lowering
// to handle).
func TestLowerFunctionReturnsZeroValue(t *testing.T) {
	in := types.NewInterner()
	fn := &ast.FunctionDecl{
		DeclBase: ast.DeclBase{Name: "zero", Resolved: in.Int()},
	}

	lw := NewLowerer(nil)
	lw.funcs["zero"] = lw.declareFunc(fn)
	lw.lowerFunc(fn)

	block := lw.funcs["zero"].Blocks[0]
	if block.Term == nil {
		t.Fatalf("expected fallthrough block to be terminated")
	}
}

// TestLowerIfProducesThreeBlocks checks the if/else lowering shape:
// then, else, and merge blocks (spec §4.3's control-flow lowering).
func TestLowerIfProducesThreeBlocks(t *testing.T) {
	in := types.NewInterner()
	cond := &ast.BoolLit{Value: true}
	cond.SetType(in.Bool())

	ifStmt := &ast.IfStmt{
		Cond: cond,
		Then: []ast.Stmt{&ast.ReturnStmt{Value: intLit(1)}},
		Else: []ast.Stmt{&ast.ReturnStmt{Value: intLit(2)}},
	}
	fn := &ast.FunctionDecl{
		DeclBase: ast.DeclBase{Name: "pick", Resolved: in.Int()},
		Body:     []ast.Stmt{ifStmt},
	}

	lw := NewLowerer(nil)
	lw.funcs["pick"] = lw.declareFunc(fn)
	lw.lowerFunc(fn)

	blocks := lw.funcs["pick"].Blocks
	// entry + then + else + merge
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks (entry/then/else/merge), got %d", len(blocks))
	}
	for i, b := range blocks {
		if b.Term == nil {
			t.Errorf("block %d left unterminated", i)
		}
	}
}

// TestLowerForLoopProducesFiveBlocks checks that a for loop lowers to
// entry, header, body, step and exit blocks.
func TestLowerForLoopProducesFiveBlocks(t *testing.T) {
	in := types.NewInterner()
	cond := &ast.BoolLit{Value: false}
	cond.SetType(in.Bool())

	forStmt := &ast.ForStmt{
		Cond: cond,
		Body: []ast.Stmt{},
	}
	fn := &ast.FunctionDecl{
		DeclBase: ast.DeclBase{Name: "loop", Resolved: in.Void()},
		Body:     []ast.Stmt{forStmt},
	}

	lw := NewLowerer(nil)
	lw.funcs["loop"] = lw.declareFunc(fn)
	lw.lowerFunc(fn)

	blocks := lw.funcs["loop"].Blocks
	// entry + header + body + step + exit
	if len(blocks) != 5 {
		t.Fatalf("expected 5 blocks (entry/header/body/step/exit), got %d", len(blocks))
	}
}
