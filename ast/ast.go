// Package ast is the tree model: statements, expressions, and
// declarations, each tagged with a kind from one central table.
// Traversal is uniform: every node exposes its immediate
// sub-statements through Children, so walkers match on Kind
// without knowing the node shapes.
package ast

import (
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/types"
)

// Kind tags every statement and expression class.
// All tags live here so a missing case in a match is a bug
// in exactly one known place.
type Kind uint8

const (
	// Statements.
	NullStmtKind Kind = iota
	CompoundStmtKind
	CaseStmtKind
	DefaultStmtKind
	LabelStmtKind
	IfStmtKind
	SwitchStmtKind
	WhileStmtKind
	DoStmtKind
	ForStmtKind
	GotoStmtKind
	IndirectGotoStmtKind
	ContinueStmtKind
	BreakStmtKind
	ReturnStmtKind
	AsmStmtKind
	DeclStmtKind
	ObjCAtTryStmtKind
	ObjCAtCatchStmtKind
	ObjCAtFinallyStmtKind
	ObjCAtThrowStmtKind
	ObjCForCollectionStmtKind

	// Expressions.
	DeclRefExprKind
	PredefinedExprKind
	CharacterLiteralKind
	IntegerLiteralKind
	FloatingLiteralKind
	StringLiteralKind
	ParenExprKind
	UnaryOperatorKind
	SizeOfAlignOfTypeExprKind
	ArraySubscriptExprKind
	CallExprKind
	MemberExprKind
	CastExprKind
	ImplicitCastExprKind
	CompoundLiteralExprKind
	BinaryOperatorKind
	ConditionalOperatorKind
	AddrLabelExprKind
	StmtExprKind
	TypesCompatibleExprKind
	ChooseExprKind
	ObjCMessageExprKind
	CXXBoolLiteralExprKind
	CXXCastExprKind
	CXXNewExprKind
	CXXDeleteExprKind
	CXXThisExprKind
	CXXThrowExprKind

	numKinds
)

var kindNames = [numKinds]string{
	NullStmtKind:              "NullStmt",
	CompoundStmtKind:          "CompoundStmt",
	CaseStmtKind:              "CaseStmt",
	DefaultStmtKind:           "DefaultStmt",
	LabelStmtKind:             "LabelStmt",
	IfStmtKind:                "IfStmt",
	SwitchStmtKind:            "SwitchStmt",
	WhileStmtKind:             "WhileStmt",
	DoStmtKind:                "DoStmt",
	ForStmtKind:               "ForStmt",
	GotoStmtKind:              "GotoStmt",
	IndirectGotoStmtKind:      "IndirectGotoStmt",
	ContinueStmtKind:          "ContinueStmt",
	BreakStmtKind:             "BreakStmt",
	ReturnStmtKind:            "ReturnStmt",
	AsmStmtKind:               "AsmStmt",
	DeclStmtKind:              "DeclStmt",
	ObjCAtTryStmtKind:         "ObjCAtTryStmt",
	ObjCAtCatchStmtKind:       "ObjCAtCatchStmt",
	ObjCAtFinallyStmtKind:     "ObjCAtFinallyStmt",
	ObjCAtThrowStmtKind:       "ObjCAtThrowStmt",
	ObjCForCollectionStmtKind: "ObjCForCollectionStmt",
	DeclRefExprKind:           "DeclRefExpr",
	PredefinedExprKind:        "PredefinedExpr",
	CharacterLiteralKind:      "CharacterLiteral",
	IntegerLiteralKind:        "IntegerLiteral",
	FloatingLiteralKind:       "FloatingLiteral",
	StringLiteralKind:         "StringLiteral",
	ParenExprKind:             "ParenExpr",
	UnaryOperatorKind:         "UnaryOperator",
	SizeOfAlignOfTypeExprKind: "SizeOfAlignOfTypeExpr",
	ArraySubscriptExprKind:    "ArraySubscriptExpr",
	CallExprKind:              "CallExpr",
	MemberExprKind:            "MemberExpr",
	CastExprKind:              "CastExpr",
	ImplicitCastExprKind:      "ImplicitCastExpr",
	CompoundLiteralExprKind:   "CompoundLiteralExpr",
	BinaryOperatorKind:        "BinaryOperator",
	ConditionalOperatorKind:   "ConditionalOperator",
	AddrLabelExprKind:         "AddrLabelExpr",
	StmtExprKind:              "StmtExpr",
	TypesCompatibleExprKind:   "TypesCompatibleExpr",
	ChooseExprKind:            "ChooseExpr",
	ObjCMessageExprKind:       "ObjCMessageExpr",
	CXXBoolLiteralExprKind:    "CXXBoolLiteralExpr",
	CXXCastExprKind:           "CXXCastExpr",
	CXXNewExprKind:            "CXXNewExpr",
	CXXDeleteExprKind:         "CXXDeleteExpr",
	CXXThisExprKind:           "CXXThisExpr",
	CXXThrowExprKind:          "CXXThrowExpr",
}

func (k Kind) String() string { return kindNames[k] }

// IsExpr reports whether the kind tags an expression.
func (k Kind) IsExpr() bool { return k >= DeclRefExprKind }

// A Stmt is any statement or expression node.
type Stmt interface {
	Kind() Kind
	Start() source.Loc
	End() source.Loc

	// Children returns the immediate sub-statements in source
	// order, with nil slots elided.
	Children() []Stmt
}

// An Expr is a statement that produces a value.
type Expr interface {
	Stmt
	Type() types.QualType
}

// A Span is the source extent of a node, begin and end both
// inclusive of the first byte of their token.
type Span struct {
	Lo, Hi source.Loc
}

func (s Span) Start() source.Loc { return s.Lo }
func (s Span) End() source.Loc   { return s.Hi }

// ExprBase carries the span and result type every expression has.
type ExprBase struct {
	Span
	Ty types.QualType
}

func (e *ExprBase) Type() types.QualType { return e.Ty }

// children builds a child list with nil nodes elided.
func children(nodes ...Stmt) []Stmt {
	var out []Stmt
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// IgnoreParens strips ParenExpr wrappers.
func IgnoreParens(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

// IgnoreParenCasts strips parens and both cast flavors.
func IgnoreParenCasts(e Expr) Expr {
	for {
		switch n := e.(type) {
		case *ParenExpr:
			e = n.Inner
		case *CastExpr:
			e = n.Operand
		case *ImplicitCastExpr:
			e = n.Operand
		default:
			return e
		}
	}
}
