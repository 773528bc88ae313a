package analysis

import (
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/cee-lang/cee/dataflow"
	"github.com/cee-lang/cee/diag"
)

// InitStates is the uninitialized-values fact: true means the
// variable has been assigned on every path tracked so far. Variables
// absent from the map are not yet declared.
type InitStates map[*ast.VarDecl]bool

func (s InitStates) set(v *ast.VarDecl, init bool) InitStates {
	if cur, ok := s[v]; ok && cur == init {
		return s
	}
	out := make(InitStates, len(s)+1)
	for k, b := range s {
		out[k] = b
	}
	out[v] = init
	return out
}

// UninitValues is the forward uninitialized-values analysis. Strict
// mode propagates Uninit across a confluence when any incoming path
// is uninitialized; loose mode requires all paths to be.
type UninitValues struct {
	Strict bool
}

func (UninitValues) Backward() bool          { return false }
func (UninitValues) Bottom() dataflow.Fact   { return InitStates{} }
func (UninitValues) Boundary() dataflow.Fact { return InitStates{} }

func (a UninitValues) Merge(x, y dataflow.Fact) dataflow.Fact {
	xs, ys := x.(InitStates), y.(InitStates)
	if len(xs) == 0 {
		return ys
	}
	if len(ys) == 0 {
		return xs
	}
	out := make(InitStates, len(xs)+len(ys))
	for v, b := range xs {
		out[v] = b
	}
	for v, b := range ys {
		if cur, ok := out[v]; ok {
			if a.Strict {
				out[v] = cur && b
			} else {
				out[v] = cur || b
			}
		} else {
			out[v] = b
		}
	}
	return out
}

func (UninitValues) Equal(x, y dataflow.Fact) bool {
	xs, ys := x.(InitStates), y.(InitStates)
	if len(xs) != len(ys) {
		return false
	}
	for v, b := range xs {
		if yb, ok := ys[v]; !ok || yb != b {
			return false
		}
	}
	return true
}

func (UninitValues) Step(s ast.Stmt, pre dataflow.Fact) dataflow.Fact {
	st := pre.(InitStates)
	switch s := s.(type) {
	case *ast.DeclStmt:
		out := st
		for _, d := range s.Decls {
			if v, ok := d.(*ast.VarDecl); ok && v.HasLocalStorage() {
				out = out.set(v, v.Init != nil || v.LoopElement)
			}
		}
		return out

	case *ast.BinaryOperator:
		if s.Op.IsAssignmentOp() {
			if v := localRef(s.LHS); v != nil {
				return st.set(v, true)
			}
		}

	case *ast.UnaryOperator:
		if s.Op.IsIncDec() {
			if v := localRef(s.Operand); v != nil {
				return st.set(v, true)
			}
		}
		if s.Op == ast.UOAddrOf {
			// Assume anything whose address escapes gets written.
			if v := localRef(s.Operand); v != nil {
				return st.set(v, true)
			}
		}

	case *ast.ObjCForCollectionStmt:
		if v := loopElementVar(s.Element); v != nil {
			return st.set(v, true)
		}
	}
	return st
}

// CheckUninitialized reports reads of block-local variables before
// any assignment. Each variable is reported at most once; the first
// bad read warns and later cascades stay quiet.
func CheckUninitialized(g *cfg.Graph, diags *diag.Engine, strict bool) {
	an := UninitValues{Strict: strict}
	res := dataflow.Run(g, an)
	warned := make(map[*ast.VarDecl]bool)

	res.Observe(g, an, func(b *cfg.Block, s ast.Stmt, before, after dataflow.Fact) {
		st := before.(InitStates)
		var v *ast.VarDecl
		switch s := s.(type) {
		case *ast.ImplicitCastExpr:
			v = localRef(s.Operand)
		case *ast.UnaryOperator:
			if s.Op.IsIncDec() {
				v = localRef(s.Operand)
			}
		case *ast.BinaryOperator:
			if s.Op.IsCompoundAssignmentOp() {
				v = localRef(s.LHS)
			}
		}
		if v == nil || warned[v] {
			return
		}
		if init, tracked := st[v]; tracked && !init {
			warned[v] = true
			diags.Report(s.Start(), diag.WarnUninitValue, v.Name)
		}
	})
}
