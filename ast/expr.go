package ast

import (
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
)

// A DeclRefExpr names a declared entity.
type DeclRefExpr struct {
	ExprBase
	Decl Decl
}

func (*DeclRefExpr) Kind() Kind       { return DeclRefExprKind }
func (*DeclRefExpr) Children() []Stmt { return nil }

// A PredefinedExpr is __func__ and friends.
type PredefinedExpr struct {
	ExprBase
	Name string
}

func (*PredefinedExpr) Kind() Kind       { return PredefinedExprKind }
func (*PredefinedExpr) Children() []Stmt { return nil }

type CharacterLiteral struct {
	ExprBase
	Value int64
	Wide  bool
}

func (*CharacterLiteral) Kind() Kind       { return CharacterLiteralKind }
func (*CharacterLiteral) Children() []Stmt { return nil }

type IntegerLiteral struct {
	ExprBase
	Value uint64
}

func (*IntegerLiteral) Kind() Kind       { return IntegerLiteralKind }
func (*IntegerLiteral) Children() []Stmt { return nil }

type FloatingLiteral struct {
	ExprBase
	Value float64
}

func (*FloatingLiteral) Kind() Kind       { return FloatingLiteralKind }
func (*FloatingLiteral) Children() []Stmt { return nil }

type StringLiteral struct {
	ExprBase
	Value []byte
	Wide  bool
}

func (*StringLiteral) Kind() Kind       { return StringLiteralKind }
func (*StringLiteral) Children() []Stmt { return nil }

type ParenExpr struct {
	ExprBase
	Inner Expr
}

func (*ParenExpr) Kind() Kind { return ParenExprKind }

func (e *ParenExpr) Children() []Stmt { return children(e.Inner) }

// UnaryOp is the operator of a UnaryOperator.
type UnaryOp uint8

const (
	UOPostInc UnaryOp = iota
	UOPostDec
	UOPreInc
	UOPreDec
	UOAddrOf
	UODeref
	UOPlus
	UOMinus
	UONot  // ~
	UOLNot // !
	UOSizeOf
	UOAlignOf
)

var unaryOpSpellings = [...]string{
	UOPostInc: "++",
	UOPostDec: "--",
	UOPreInc:  "++",
	UOPreDec:  "--",
	UOAddrOf:  "&",
	UODeref:   "*",
	UOPlus:    "+",
	UOMinus:   "-",
	UONot:     "~",
	UOLNot:    "!",
	UOSizeOf:  "sizeof",
	UOAlignOf: "__alignof",
}

func (op UnaryOp) String() string { return unaryOpSpellings[op] }

// IsIncDec reports ++ or --, either fix.
func (op UnaryOp) IsIncDec() bool { return op <= UOPreDec }

// IsPostfix reports a postfix ++ or --.
func (op UnaryOp) IsPostfix() bool { return op == UOPostInc || op == UOPostDec }

type UnaryOperator struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

func (*UnaryOperator) Kind() Kind { return UnaryOperatorKind }

func (e *UnaryOperator) Children() []Stmt { return children(e.Operand) }

// A SizeOfAlignOfTypeExpr is sizeof(T) or __alignof(T) on a type.
type SizeOfAlignOfTypeExpr struct {
	ExprBase
	SizeOf  bool
	Queried types.QualType
}

func (*SizeOfAlignOfTypeExpr) Kind() Kind       { return SizeOfAlignOfTypeExprKind }
func (*SizeOfAlignOfTypeExpr) Children() []Stmt { return nil }

type ArraySubscriptExpr struct {
	ExprBase
	Base  Expr
	Index Expr
}

func (*ArraySubscriptExpr) Kind() Kind { return ArraySubscriptExprKind }

func (e *ArraySubscriptExpr) Children() []Stmt { return children(e.Base, e.Index) }

type CallExpr struct {
	ExprBase
	Fn   Expr
	Args []Expr
}

func (*CallExpr) Kind() Kind { return CallExprKind }

func (e *CallExpr) Children() []Stmt {
	out := children(e.Fn)
	for _, a := range e.Args {
		out = append(out, a)
	}
	return out
}

// Callee returns the function declaration called, if the callee
// is a direct reference to one.
func (e *CallExpr) Callee() *FunctionDecl {
	ref, ok := IgnoreParenCasts(e.Fn).(*DeclRefExpr)
	if !ok {
		return nil
	}
	fn, _ := ref.Decl.(*FunctionDecl)
	return fn
}

type MemberExpr struct {
	ExprBase
	Base   Expr
	Member Decl
	Arrow  bool
}

func (*MemberExpr) Kind() Kind { return MemberExprKind }

func (e *MemberExpr) Children() []Stmt { return children(e.Base) }

// A CastExpr is an explicit (T)e cast; Ty is T.
type CastExpr struct {
	ExprBase
	Operand Expr
}

func (*CastExpr) Kind() Kind { return CastExprKind }

func (e *CastExpr) Children() []Stmt { return children(e.Operand) }

// An ImplicitCastExpr is a conversion the semantic analyzer
// inserted; it never corresponds to source text.
type ImplicitCastExpr struct {
	ExprBase
	Operand Expr
}

func (*ImplicitCastExpr) Kind() Kind { return ImplicitCastExprKind }

func (e *ImplicitCastExpr) Children() []Stmt { return children(e.Operand) }

type CompoundLiteralExpr struct {
	ExprBase
	Init Expr
}

func (*CompoundLiteralExpr) Kind() Kind { return CompoundLiteralExprKind }

func (e *CompoundLiteralExpr) Children() []Stmt { return children(e.Init) }

// BinaryOp is the operator of a BinaryOperator.
type BinaryOp uint8

const (
	BOMul BinaryOp = iota
	BODiv
	BORem
	BOAdd
	BOSub
	BOShl
	BOShr
	BOLT
	BOGT
	BOLE
	BOGE
	BOEQ
	BONE
	BOAnd
	BOXor
	BOOr
	BOLAnd
	BOLOr
	BOAssign
	BOMulAssign
	BODivAssign
	BORemAssign
	BOAddAssign
	BOSubAssign
	BOShlAssign
	BOShrAssign
	BOAndAssign
	BOXorAssign
	BOOrAssign
	BOComma
)

var binaryOpSpellings = [...]string{
	BOMul: "*", BODiv: "/", BORem: "%", BOAdd: "+", BOSub: "-",
	BOShl: "<<", BOShr: ">>",
	BOLT: "<", BOGT: ">", BOLE: "<=", BOGE: ">=", BOEQ: "==", BONE: "!=",
	BOAnd: "&", BOXor: "^", BOOr: "|", BOLAnd: "&&", BOLOr: "||",
	BOAssign: "=", BOMulAssign: "*=", BODivAssign: "/=", BORemAssign: "%=",
	BOAddAssign: "+=", BOSubAssign: "-=", BOShlAssign: "<<=", BOShrAssign: ">>=",
	BOAndAssign: "&=", BOXorAssign: "^=", BOOrAssign: "|=",
	BOComma: ",",
}

func (op BinaryOp) String() string { return binaryOpSpellings[op] }

// IsAssignmentOp covers = and all compound assignments.
func (op BinaryOp) IsAssignmentOp() bool { return op >= BOAssign && op <= BOOrAssign }

// IsCompoundAssignmentOp covers *= through |=.
func (op BinaryOp) IsCompoundAssignmentOp() bool { return op > BOAssign && op <= BOOrAssign }

// IsLogicalOp reports && or ||.
func (op BinaryOp) IsLogicalOp() bool { return op == BOLAnd || op == BOLOr }

// IsEqualityOp reports == or !=.
func (op BinaryOp) IsEqualityOp() bool { return op == BOEQ || op == BONE }

type BinaryOperator struct {
	ExprBase
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func (*BinaryOperator) Kind() Kind { return BinaryOperatorKind }

func (e *BinaryOperator) Children() []Stmt { return children(e.LHS, e.RHS) }

type ConditionalOperator struct {
	ExprBase
	Cond Expr
	Then Expr // nil for the GNU a ?: b form
	Else Expr
}

func (*ConditionalOperator) Kind() Kind { return ConditionalOperatorKind }

func (e *ConditionalOperator) Children() []Stmt { return children(e.Cond, e.Then, e.Else) }

// An AddrLabelExpr is the GNU &&label.
type AddrLabelExpr struct {
	ExprBase
	Label string
}

func (*AddrLabelExpr) Kind() Kind       { return AddrLabelExprKind }
func (*AddrLabelExpr) Children() []Stmt { return nil }

// A StmtExpr is the GNU ({ ... }) form.
type StmtExpr struct {
	ExprBase
	Body *CompoundStmt
}

func (*StmtExpr) Kind() Kind { return StmtExprKind }

func (e *StmtExpr) Children() []Stmt {
	if e.Body == nil {
		return nil
	}
	return []Stmt{e.Body}
}

// A TypesCompatibleExpr is __builtin_types_compatible_p(T1, T2).
type TypesCompatibleExpr struct {
	ExprBase
	T1, T2 types.QualType
}

func (*TypesCompatibleExpr) Kind() Kind       { return TypesCompatibleExprKind }
func (*TypesCompatibleExpr) Children() []Stmt { return nil }

// A ChooseExpr is __builtin_choose_expr(c, a, b).
type ChooseExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (*ChooseExpr) Kind() Kind { return ChooseExprKind }

func (e *ChooseExpr) Children() []Stmt { return children(e.Cond, e.Then, e.Else) }

// An ObjCMessageExpr is [receiver sel:args] or [ClassName sel:args].
type ObjCMessageExpr struct {
	ExprBase
	Receiver  Expr   // nil for class messages
	ClassName string // set for class messages
	Selector  *token.Selector
	Args      []Expr
}

func (*ObjCMessageExpr) Kind() Kind { return ObjCMessageExprKind }

func (e *ObjCMessageExpr) Children() []Stmt {
	out := children(e.Receiver)
	for _, a := range e.Args {
		out = append(out, a)
	}
	return out
}

type CXXBoolLiteralExpr struct {
	ExprBase
	Value bool
}

func (*CXXBoolLiteralExpr) Kind() Kind       { return CXXBoolLiteralExprKind }
func (*CXXBoolLiteralExpr) Children() []Stmt { return nil }

// A CXXCastExpr is one of the C++ named casts; Ty is the target.
type CXXCastExpr struct {
	ExprBase
	CastName string // "static_cast", "const_cast", ...
	Operand  Expr
}

func (*CXXCastExpr) Kind() Kind { return CXXCastExprKind }

func (e *CXXCastExpr) Children() []Stmt { return children(e.Operand) }

type CXXNewExpr struct {
	ExprBase
	Allocated types.QualType
	ArraySize Expr // nil unless new T[n]
}

func (*CXXNewExpr) Kind() Kind { return CXXNewExprKind }

func (e *CXXNewExpr) Children() []Stmt { return children(e.ArraySize) }

type CXXDeleteExpr struct {
	ExprBase
	Operand Expr
	Array   bool
}

func (*CXXDeleteExpr) Kind() Kind { return CXXDeleteExprKind }

func (e *CXXDeleteExpr) Children() []Stmt { return children(e.Operand) }

type CXXThisExpr struct {
	ExprBase
}

func (*CXXThisExpr) Kind() Kind       { return CXXThisExprKind }
func (*CXXThisExpr) Children() []Stmt { return nil }

type CXXThrowExpr struct {
	ExprBase
	Operand Expr // nil rethrows
}

func (*CXXThrowExpr) Kind() Kind { return CXXThrowExprKind }

func (e *CXXThrowExpr) Children() []Stmt { return children(e.Operand) }
