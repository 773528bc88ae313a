package ast

// Statement nodes. Each implements Kind and Children; spans come
// from the embedded Span.

type NullStmt struct {
	Span
}

func (*NullStmt) Kind() Kind       { return NullStmtKind }
func (*NullStmt) Children() []Stmt { return nil }

type CompoundStmt struct {
	Span
	Body []Stmt
}

func (*CompoundStmt) Kind() Kind { return CompoundStmtKind }

func (s *CompoundStmt) Children() []Stmt { return s.Body }

// A CaseStmt is one `case V:` label with the statement it prefixes.
type CaseStmt struct {
	Span
	Value Expr
	Body  Stmt
}

func (*CaseStmt) Kind() Kind { return CaseStmtKind }

func (s *CaseStmt) Children() []Stmt { return children(s.Value, s.Body) }

type DefaultStmt struct {
	Span
	Body Stmt
}

func (*DefaultStmt) Kind() Kind { return DefaultStmtKind }

func (s *DefaultStmt) Children() []Stmt { return children(s.Body) }

type LabelStmt struct {
	Span
	Name string
	Body Stmt
}

func (*LabelStmt) Kind() Kind { return LabelStmtKind }

func (s *LabelStmt) Children() []Stmt { return children(s.Body) }

type IfStmt struct {
	Span
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) Kind() Kind { return IfStmtKind }

func (s *IfStmt) Children() []Stmt { return children(s.Cond, s.Then, s.Else) }

type SwitchStmt struct {
	Span
	Cond Expr
	Body Stmt
}

func (*SwitchStmt) Kind() Kind { return SwitchStmtKind }

func (s *SwitchStmt) Children() []Stmt { return children(s.Cond, s.Body) }

type WhileStmt struct {
	Span
	Cond Expr
	Body Stmt
}

func (*WhileStmt) Kind() Kind { return WhileStmtKind }

func (s *WhileStmt) Children() []Stmt { return children(s.Cond, s.Body) }

type DoStmt struct {
	Span
	Body Stmt
	Cond Expr
}

func (*DoStmt) Kind() Kind { return DoStmtKind }

func (s *DoStmt) Children() []Stmt { return children(s.Body, s.Cond) }

// A ForStmt's Init, Cond, and Inc may each be nil.
type ForStmt struct {
	Span
	Init Stmt
	Cond Expr
	Inc  Expr
	Body Stmt
}

func (*ForStmt) Kind() Kind { return ForStmtKind }

func (s *ForStmt) Children() []Stmt { return children(s.Init, s.Cond, s.Inc, s.Body) }

type GotoStmt struct {
	Span
	Label  string
	Target *LabelStmt
}

func (*GotoStmt) Kind() Kind       { return GotoStmtKind }
func (*GotoStmt) Children() []Stmt { return nil }

type IndirectGotoStmt struct {
	Span
	Target Expr
}

func (*IndirectGotoStmt) Kind() Kind { return IndirectGotoStmtKind }

func (s *IndirectGotoStmt) Children() []Stmt { return children(s.Target) }

type ContinueStmt struct {
	Span
}

func (*ContinueStmt) Kind() Kind       { return ContinueStmtKind }
func (*ContinueStmt) Children() []Stmt { return nil }

type BreakStmt struct {
	Span
}

func (*BreakStmt) Kind() Kind       { return BreakStmtKind }
func (*BreakStmt) Children() []Stmt { return nil }

// A ReturnStmt's Value is nil for a bare return.
type ReturnStmt struct {
	Span
	Value Expr
}

func (*ReturnStmt) Kind() Kind { return ReturnStmtKind }

func (s *ReturnStmt) Children() []Stmt { return children(s.Value) }

type AsmStmt struct {
	Span
	Text string
}

func (*AsmStmt) Kind() Kind       { return AsmStmtKind }
func (*AsmStmt) Children() []Stmt { return nil }

// A DeclStmt carries the declarations of one `int a, b = 1;` line.
type DeclStmt struct {
	Span
	Decls []Decl
}

func (*DeclStmt) Kind() Kind { return DeclStmtKind }

func (s *DeclStmt) Children() []Stmt {
	var out []Stmt
	for _, d := range s.Decls {
		if v, ok := d.(*VarDecl); ok && v.Init != nil {
			out = append(out, v.Init)
		}
	}
	return out
}

type ObjCAtTryStmt struct {
	Span
	Try     Stmt
	Catches []*ObjCAtCatchStmt
	Finally Stmt
}

func (*ObjCAtTryStmt) Kind() Kind { return ObjCAtTryStmtKind }

func (s *ObjCAtTryStmt) Children() []Stmt {
	out := children(s.Try)
	for _, c := range s.Catches {
		out = append(out, c)
	}
	return append(out, children(s.Finally)...)
}

type ObjCAtCatchStmt struct {
	Span
	Param Decl // nil for @catch (...)
	Body  Stmt
}

func (*ObjCAtCatchStmt) Kind() Kind { return ObjCAtCatchStmtKind }

func (s *ObjCAtCatchStmt) Children() []Stmt { return children(s.Body) }

type ObjCAtFinallyStmt struct {
	Span
	Body Stmt
}

func (*ObjCAtFinallyStmt) Kind() Kind { return ObjCAtFinallyStmtKind }

func (s *ObjCAtFinallyStmt) Children() []Stmt { return children(s.Body) }

type ObjCAtThrowStmt struct {
	Span
	Value Expr // nil rethrows the current exception
}

func (*ObjCAtThrowStmt) Kind() Kind { return ObjCAtThrowStmtKind }

func (s *ObjCAtThrowStmt) Children() []Stmt { return children(s.Value) }

// An ObjCForCollectionStmt is `for (element in collection) body`.
// Element is either a DeclStmt declaring the loop variable or an
// expression statement naming an existing lvalue.
type ObjCForCollectionStmt struct {
	Span
	Element    Stmt
	Collection Expr
	Body       Stmt
}

func (*ObjCForCollectionStmt) Kind() Kind { return ObjCForCollectionStmtKind }

func (s *ObjCForCollectionStmt) Children() []Stmt {
	return children(s.Element, s.Collection, s.Body)
}
