// Package symexec runs a path-sensitive symbolic execution over a
// function's control-flow graph. The engine builds an exploded graph
// whose nodes pair a program point with a persistent symbolic state,
// branching wherever a condition can hold both ways, and layers a
// Core Foundation / Objective-C reference-count checker on top.
package symexec

import (
	"fmt"

	"github.com/cee-lang/cee/ast"
)

// A SymbolID names one conjured symbolic value. Symbols stand for
// run-time values the analysis cannot see: parameters, globals, and
// the results of opaque calls.
type SymbolID int

// An SVal is the symbolic value of an expression in some state.
type SVal interface {
	isSVal()
	profile() string
}

// UnknownVal is a value the engine cannot reason about. Operations
// on unknown inputs stay unknown.
type UnknownVal struct{}

// UninitializedVal is the value of a local read before any write.
type UninitializedVal struct{}

// ConcreteInt is a known integer rvalue.
type ConcreteInt struct{ Value int64 }

// SymbolVal is an opaque rvalue named by a symbol.
type SymbolVal struct{ Sym SymbolID }

// SymIntVal is a comparison of a symbol against a known integer,
// kept unevaluated until a branch imposes it as a constraint.
type SymIntVal struct {
	Sym SymbolID
	Op  ast.BinaryOp
	RHS int64
}

// LValAsInteger is an lvalue reinterpreted as an integer rvalue of
// the given bit width.
type LValAsInteger struct {
	LVal  SVal
	Width int
}

// DeclVal is the lvalue of a named variable.
type DeclVal struct{ Decl *ast.VarDecl }

// FuncVal is the value of a function designator.
type FuncVal struct{ Fn *ast.FunctionDecl }

// GotoLabelVal is the value of a GNU &&label expression.
type GotoLabelVal struct{ Label *ast.LabelStmt }

func (UnknownVal) isSVal()       {}
func (UninitializedVal) isSVal() {}
func (ConcreteInt) isSVal()      {}
func (SymbolVal) isSVal()        {}
func (SymIntVal) isSVal()        {}
func (LValAsInteger) isSVal()    {}
func (DeclVal) isSVal()          {}
func (FuncVal) isSVal()          {}
func (GotoLabelVal) isSVal()     {}

func (UnknownVal) profile() string       { return "unk" }
func (UninitializedVal) profile() string { return "undef" }
func (v ConcreteInt) profile() string    { return fmt.Sprintf("ci:%d", v.Value) }
func (v SymbolVal) profile() string      { return fmt.Sprintf("sym:%d", v.Sym) }
func (v SymIntVal) profile() string {
	return fmt.Sprintf("symint:%d:%d:%d", v.Sym, v.Op, v.RHS)
}
func (v LValAsInteger) profile() string { return "lvint:" + v.LVal.profile() }
func (v DeclVal) profile() string       { return fmt.Sprintf("decl:%p", v.Decl) }
func (v FuncVal) profile() string       { return fmt.Sprintf("fn:%p", v.Fn) }
func (v GotoLabelVal) profile() string  { return fmt.Sprintf("label:%p", v.Label) }

// evalBin folds a binary operator over two values. Concrete inputs
// fold to a concrete result, a symbol compared against a constant
// defers as a SymIntVal, and everything else is unknown.
func evalBin(op ast.BinaryOp, a, b SVal) SVal {
	if x, ok := a.(ConcreteInt); ok {
		if y, ok := b.(ConcreteInt); ok {
			return foldConcrete(op, x.Value, y.Value)
		}
	}
	if s, ok := a.(SymbolVal); ok {
		if y, ok := b.(ConcreteInt); ok && isDeferrable(op) {
			return SymIntVal{Sym: s.Sym, Op: op, RHS: y.Value}
		}
	}
	if s, ok := b.(SymbolVal); ok {
		if x, ok := a.(ConcreteInt); ok {
			if rev, ok := mirrorCmp(op); ok {
				return SymIntVal{Sym: s.Sym, Op: rev, RHS: x.Value}
			}
		}
	}
	return UnknownVal{}
}

// isDeferrable reports the operators a SymIntVal may carry.
func isDeferrable(op ast.BinaryOp) bool {
	switch op {
	case ast.BOLT, ast.BOGT, ast.BOLE, ast.BOGE, ast.BOEQ, ast.BONE:
		return true
	}
	return false
}

// mirrorCmp swaps a comparison's operand order: c < s is s > c.
func mirrorCmp(op ast.BinaryOp) (ast.BinaryOp, bool) {
	switch op {
	case ast.BOLT:
		return ast.BOGT, true
	case ast.BOGT:
		return ast.BOLT, true
	case ast.BOLE:
		return ast.BOGE, true
	case ast.BOGE:
		return ast.BOLE, true
	case ast.BOEQ, ast.BONE:
		return op, true
	}
	return op, false
}

func foldConcrete(op ast.BinaryOp, x, y int64) SVal {
	b2i := func(b bool) SVal {
		if b {
			return ConcreteInt{Value: 1}
		}
		return ConcreteInt{Value: 0}
	}
	switch op {
	case ast.BOMul:
		return ConcreteInt{Value: x * y}
	case ast.BODiv:
		if y == 0 {
			return UnknownVal{}
		}
		return ConcreteInt{Value: x / y}
	case ast.BORem:
		if y == 0 {
			return UnknownVal{}
		}
		return ConcreteInt{Value: x % y}
	case ast.BOAdd:
		return ConcreteInt{Value: x + y}
	case ast.BOSub:
		return ConcreteInt{Value: x - y}
	case ast.BOShl:
		if y < 0 || y > 63 {
			return UnknownVal{}
		}
		return ConcreteInt{Value: x << uint(y)}
	case ast.BOShr:
		if y < 0 || y > 63 {
			return UnknownVal{}
		}
		return ConcreteInt{Value: x >> uint(y)}
	case ast.BOLT:
		return b2i(x < y)
	case ast.BOGT:
		return b2i(x > y)
	case ast.BOLE:
		return b2i(x <= y)
	case ast.BOGE:
		return b2i(x >= y)
	case ast.BOEQ:
		return b2i(x == y)
	case ast.BONE:
		return b2i(x != y)
	case ast.BOAnd:
		return ConcreteInt{Value: x & y}
	case ast.BOXor:
		return ConcreteInt{Value: x ^ y}
	case ast.BOOr:
		return ConcreteInt{Value: x | y}
	case ast.BOLAnd:
		return b2i(x != 0 && y != 0)
	case ast.BOLOr:
		return b2i(x != 0 || y != 0)
	case ast.BOComma:
		return ConcreteInt{Value: y}
	}
	return UnknownVal{}
}

// evalUnary folds a unary operator over a value.
func evalUnary(op ast.UnaryOp, v SVal) SVal {
	c, ok := v.(ConcreteInt)
	if !ok {
		return UnknownVal{}
	}
	switch op {
	case ast.UOPlus:
		return c
	case ast.UOMinus:
		return ConcreteInt{Value: -c.Value}
	case ast.UONot:
		return ConcreteInt{Value: ^c.Value}
	case ast.UOLNot:
		if c.Value == 0 {
			return ConcreteInt{Value: 1}
		}
		return ConcreteInt{Value: 0}
	}
	return UnknownVal{}
}
