package analysis

import (
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/cee-lang/cee/dataflow"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/source"
)

// CheckDeadStores reports stores to block-local variables whose
// values are never read. It is an observer over the live-variables
// result: a store is dead when its target is not live immediately
// after it.
func CheckDeadStores(g *cfg.Graph, srcs *source.Manager, diags *diag.Engine) {
	res := Liveness(g)
	escaped := escapedVars(g)
	consumed := consumedElems(g)

	res.Observe(g, LiveVars{}, func(b *cfg.Block, s ast.Stmt, before, after dataflow.Fact) {
		// The analysis is backward, so the incoming fact is the
		// liveness holding after s in program order.
		live := before.(LiveSet)

		switch s := s.(type) {
		case *ast.BinaryOperator:
			if !s.Op.IsAssignmentOp() || consumed[s] {
				return
			}
			v := localRef(s.LHS)
			if v == nil || !v.HasLocalStorage() || escaped[v] || live[v] {
				return
			}
			// Stores synthesized by macro expansion are idiom, not
			// mistakes. Substituted argument tokens keep their use
			// site, so either span end marks the expansion.
			if fromExpansion(srcs, s) {
				return
			}
			diags.Report(s.Start(), diag.WarnDeadStore, v.Name)

		case *ast.UnaryOperator:
			if !s.Op.IsIncDec() || consumed[s] {
				return
			}
			v := localRef(s.Operand)
			if v == nil || !v.HasLocalStorage() || escaped[v] || live[v] {
				return
			}
			diags.Report(s.Start(), diag.WarnDeadIncrement, v.Name)

		case *ast.DeclStmt:
			for _, d := range s.Decls {
				v, ok := d.(*ast.VarDecl)
				if !ok || v.Init == nil || !v.HasLocalStorage() {
					continue
				}
				if escaped[v] || live[v] {
					continue
				}
				// A constant initializer is the defensive-init
				// idiom and stays quiet.
				if isConstantExpr(v.Init) {
					continue
				}
				diags.Report(v.Loc(), diag.WarnDeadInit, v.Name)
			}
		}
	})
}

func fromExpansion(srcs *source.Manager, s ast.Stmt) bool {
	if srcs == nil {
		return false
	}
	lo, hi := s.Start(), s.End()
	return srcs.LogicalLoc(lo) != lo || srcs.LogicalLoc(hi) != hi
}

// isConstantExpr reports a compile-time constant expression:
// literals, enum constants, sizeof, and operators over them.
func isConstantExpr(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntegerLiteral, *ast.CharacterLiteral, *ast.FloatingLiteral,
		*ast.StringLiteral, *ast.CXXBoolLiteralExpr, *ast.SizeOfAlignOfTypeExpr,
		*ast.AddrLabelExpr:
		return true
	case *ast.DeclRefExpr:
		_, ok := e.Decl.(*ast.EnumConstantDecl)
		return ok
	case *ast.ParenExpr:
		return isConstantExpr(e.Inner)
	case *ast.CastExpr:
		return isConstantExpr(e.Operand)
	case *ast.ImplicitCastExpr:
		return isConstantExpr(e.Operand)
	case *ast.UnaryOperator:
		switch e.Op {
		case ast.UOPlus, ast.UOMinus, ast.UONot, ast.UOLNot:
			return isConstantExpr(e.Operand)
		case ast.UOSizeOf, ast.UOAlignOf:
			return true
		}
	case *ast.BinaryOperator:
		if e.Op.IsAssignmentOp() {
			return false
		}
		return isConstantExpr(e.LHS) && isConstantExpr(e.RHS)
	case *ast.ConditionalOperator:
		return isConstantExpr(e.Cond) &&
			(e.Then == nil || isConstantExpr(e.Then)) &&
			isConstantExpr(e.Else)
	}
	return false
}
