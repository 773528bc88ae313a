// Package analysis holds the local flow-sensitive checkers: live
// variables, dead stores, and uninitialized values. Each is a
// dataflow analysis over the function's control-flow graph, with the
// checkers layered as observers over the solved result.
package analysis

import (
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/cee-lang/cee/dataflow"
)

// A LiveSet is the live-variables fact: the block-local variables
// live at a program point.
type LiveSet map[*ast.VarDecl]bool

func (s LiveSet) with(v *ast.VarDecl) LiveSet {
	if s[v] {
		return s
	}
	out := make(LiveSet, len(s)+1)
	for k := range s {
		out[k] = true
	}
	out[v] = true
	return out
}

func (s LiveSet) without(v *ast.VarDecl) LiveSet {
	if !s[v] {
		return s
	}
	out := make(LiveSet, len(s))
	for k := range s {
		if k != v {
			out[k] = true
		}
	}
	return out
}

// LiveVars is the backward live-variables analysis. A load makes a
// variable live, a plain assignment makes it dead, and a compound
// assignment or increment is a use and a def at once, so the
// variable is live before it.
type LiveVars struct{}

func (LiveVars) Backward() bool          { return true }
func (LiveVars) Bottom() dataflow.Fact   { return LiveSet{} }
func (LiveVars) Boundary() dataflow.Fact { return LiveSet{} }

func (LiveVars) Merge(a, b dataflow.Fact) dataflow.Fact {
	as, bs := a.(LiveSet), b.(LiveSet)
	if len(as) == 0 {
		return bs
	}
	out := make(LiveSet, len(as)+len(bs))
	for v := range as {
		out[v] = true
	}
	for v := range bs {
		out[v] = true
	}
	return out
}

func (LiveVars) Equal(a, b dataflow.Fact) bool {
	as, bs := a.(LiveSet), b.(LiveSet)
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if !bs[v] {
			return false
		}
	}
	return true
}

func (LiveVars) Step(s ast.Stmt, pre dataflow.Fact) dataflow.Fact {
	live := pre.(LiveSet)
	switch s := s.(type) {
	case *ast.ImplicitCastExpr:
		// Loads and decays are the reads.
		if v := localRef(s.Operand); v != nil {
			return live.with(v)
		}

	case *ast.UnaryOperator:
		if s.Op == ast.UOAddrOf || s.Op.IsIncDec() {
			if v := localRef(s.Operand); v != nil {
				return live.with(v)
			}
		}

	case *ast.MemberExpr:
		// A dot access touches the aggregate directly; an arrow
		// goes through a load that is already an element.
		if !s.Arrow {
			if v := localRef(s.Base); v != nil {
				return live.with(v)
			}
		}

	case *ast.BinaryOperator:
		if s.Op == ast.BOAssign {
			if v := localRef(s.LHS); v != nil {
				return live.without(v)
			}
		} else if s.Op.IsCompoundAssignmentOp() {
			if v := localRef(s.LHS); v != nil {
				return live.with(v)
			}
		}

	case *ast.DeclStmt:
		out := live
		for _, d := range s.Decls {
			if v, ok := d.(*ast.VarDecl); ok && v.HasLocalStorage() {
				out = out.without(v)
			}
		}
		return out
	}
	return live
}

// Liveness solves live variables over g.
func Liveness(g *cfg.Graph) *dataflow.Result {
	return dataflow.Run(g, LiveVars{})
}

// localRef returns the block-local variable a bare reference names,
// or nil.
func localRef(e ast.Expr) *ast.VarDecl {
	ref, ok := ast.IgnoreParens(e).(*ast.DeclRefExpr)
	if !ok {
		return nil
	}
	v, ok := ref.Decl.(*ast.VarDecl)
	if !ok || !v.BlockLocal {
		return nil
	}
	return v
}

// loopElementVar returns the variable a collection loop writes, in
// either its declaration or expression element form.
func loopElementVar(elem ast.Stmt) *ast.VarDecl {
	switch e := elem.(type) {
	case *ast.DeclStmt:
		if len(e.Decls) == 1 {
			if v, ok := e.Decls[0].(*ast.VarDecl); ok {
				return v
			}
		}
	case ast.Expr:
		return localRef(e)
	}
	return nil
}

// escapedVars collects the variables whose address is taken anywhere
// in the graph. The checkers do not reason about stores through
// pointers, so escaped variables are exempt.
func escapedVars(g *cfg.Graph) map[*ast.VarDecl]bool {
	out := make(map[*ast.VarDecl]bool)
	for _, b := range g.Blocks {
		for _, e := range b.Elems {
			u, ok := e.(*ast.UnaryOperator)
			if !ok || u.Op != ast.UOAddrOf {
				continue
			}
			if v := localRef(u.Operand); v != nil {
				out[v] = true
			}
		}
	}
	return out
}

// consumedElems marks every element that is a sub-expression of a
// later element in its block. Unmarked expression elements are
// statement-level.
func consumedElems(g *cfg.Graph) map[ast.Stmt]bool {
	out := make(map[ast.Stmt]bool)
	for _, b := range g.Blocks {
		for _, e := range b.Elems {
			for _, c := range e.Children() {
				out[c] = true
			}
		}
		if b.Term != nil {
			// A branch condition consumes its value.
			for _, c := range b.Term.Children() {
				out[c] = true
			}
		}
	}
	return out
}
