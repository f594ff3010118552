package streamgraph

import "streamc/internal/ast"

// evalConst folds expr to an int64 given bindings for any stream
// parameter it references — the call-site-aware constant evaluation
// sema's const_fold.go defers to this package (its foldIdent explicitly
// refuses to fold a ParameterDecl "within a bare semantic-analysis pass
// (no call-site context)").
func evalConst(expr ast.Expr, args bindings) (int64, bool) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return e.Value, true
	case *ast.BoolLit:
		if e.Value {
			return 1, true
		}
		return 0, true
	case *ast.Ident:
		if e.Decl != nil {
			if vd, ok := e.Decl.(*ast.VariableDecl); ok && vd.Constant && vd.Init != nil {
				return evalConst(vd.Init, args)
			}
		}
		v, ok := args[e.Name]
		return v, ok
	case *ast.UnaryExpr:
		v, ok := evalConst(e.Operand, args)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case ast.UnaryNeg:
			return -v, true
		case ast.UnaryBitNot:
			return ^v, true
		case ast.UnaryNot:
			if v == 0 {
				return 1, true
			}
			return 0, true
		default:
			return 0, false
		}
	case *ast.BinaryExpr:
		l, lok := evalConst(e.Left, args)
		r, rok := evalConst(e.Right, args)
		if !lok || !rok {
			return 0, false
		}
		return evalBinOp(e.Op, l, r)
	case *ast.LogicalExpr:
		l, lok := evalConst(e.Left, args)
		if !lok {
			return 0, false
		}
		switch e.Op {
		case "&&":
			if l == 0 {
				return 0, true
			}
			r, rok := evalConst(e.Right, args)
			if !rok {
				return 0, false
			}
			return boolInt(r != 0), true
		case "||":
			if l != 0 {
				return 1, true
			}
			r, rok := evalConst(e.Right, args)
			if !rok {
				return 0, false
			}
			return boolInt(r != 0), true
		default:
			return 0, false
		}
	case *ast.CommaExpr:
		return evalConst(e.Right, args)
	default:
		return 0, false
	}
}

func evalBinOp(op string, l, r int64) (int64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case "%":
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case "&":
		return l & r, true
	case "|":
		return l | r, true
	case "^":
		return l ^ r, true
	case "<<":
		return l << uint(r), true
	case ">>":
		return l >> uint(r), true
	case "==":
		return boolInt(l == r), true
	case "!=":
		return boolInt(l != r), true
	case "<":
		return boolInt(l < r), true
	case "<=":
		return boolInt(l <= r), true
	case ">":
		return boolInt(l > r), true
	case ">=":
		return boolInt(l >= r), true
	default:
		return 0, false
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
