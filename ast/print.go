package ast

import (
	"strconv"
	"strings"

	"github.com/cee-lang/cee/types"
)

// Print renders a statement subtree as approximate surface syntax.
// The output is for humans and tools, not byte-exact reproduction;
// literals, however, round-trip their values.
func Print(s Stmt) string {
	var b strings.Builder
	buildStmtString(s, 0, &b)
	return b.String()
}

// PrintExpr renders one expression with no trailing newline.
func PrintExpr(e Expr) string {
	var b strings.Builder
	buildExprString(e, &b)
	return b.String()
}

func indent(n int, b *strings.Builder) {
	for i := 0; i < n; i++ {
		b.WriteString("    ")
	}
}

func buildStmtString(s Stmt, ind int, b *strings.Builder) {
	if e, ok := s.(Expr); ok {
		indent(ind, b)
		buildExprString(e, b)
		b.WriteString(";\n")
		return
	}
	switch n := s.(type) {
	case *NullStmt:
		indent(ind, b)
		b.WriteString(";\n")
	case *CompoundStmt:
		indent(ind, b)
		b.WriteString("{\n")
		for _, c := range n.Body {
			buildStmtString(c, ind+1, b)
		}
		indent(ind, b)
		b.WriteString("}\n")
	case *CaseStmt:
		indent(ind, b)
		b.WriteString("case ")
		buildExprString(n.Value, b)
		b.WriteString(":\n")
		if n.Body != nil {
			buildStmtString(n.Body, ind+1, b)
		}
	case *DefaultStmt:
		indent(ind, b)
		b.WriteString("default:\n")
		if n.Body != nil {
			buildStmtString(n.Body, ind+1, b)
		}
	case *LabelStmt:
		indent(ind, b)
		b.WriteString(n.Name)
		b.WriteString(":\n")
		buildStmtString(n.Body, ind, b)
	case *IfStmt:
		indent(ind, b)
		b.WriteString("if (")
		buildExprString(n.Cond, b)
		b.WriteString(")\n")
		buildStmtString(n.Then, ind+1, b)
		if n.Else != nil {
			indent(ind, b)
			b.WriteString("else\n")
			buildStmtString(n.Else, ind+1, b)
		}
	case *SwitchStmt:
		indent(ind, b)
		b.WriteString("switch (")
		buildExprString(n.Cond, b)
		b.WriteString(")\n")
		buildStmtString(n.Body, ind, b)
	case *WhileStmt:
		indent(ind, b)
		b.WriteString("while (")
		buildExprString(n.Cond, b)
		b.WriteString(")\n")
		buildStmtString(n.Body, ind+1, b)
	case *DoStmt:
		indent(ind, b)
		b.WriteString("do\n")
		buildStmtString(n.Body, ind+1, b)
		indent(ind, b)
		b.WriteString("while (")
		buildExprString(n.Cond, b)
		b.WriteString(");\n")
	case *ForStmt:
		indent(ind, b)
		b.WriteString("for (")
		if init, ok := n.Init.(Expr); ok {
			buildExprString(init, b)
		} else if ds, ok := n.Init.(*DeclStmt); ok {
			buildDeclStmtString(ds, b)
		}
		b.WriteString("; ")
		if n.Cond != nil {
			buildExprString(n.Cond, b)
		}
		b.WriteString("; ")
		if n.Inc != nil {
			buildExprString(n.Inc, b)
		}
		b.WriteString(")\n")
		buildStmtString(n.Body, ind+1, b)
	case *GotoStmt:
		indent(ind, b)
		b.WriteString("goto ")
		b.WriteString(n.Label)
		b.WriteString(";\n")
	case *IndirectGotoStmt:
		indent(ind, b)
		b.WriteString("goto *")
		buildExprString(n.Target, b)
		b.WriteString(";\n")
	case *ContinueStmt:
		indent(ind, b)
		b.WriteString("continue;\n")
	case *BreakStmt:
		indent(ind, b)
		b.WriteString("break;\n")
	case *ReturnStmt:
		indent(ind, b)
		b.WriteString("return")
		if n.Value != nil {
			b.WriteString(" ")
			buildExprString(n.Value, b)
		}
		b.WriteString(";\n")
	case *AsmStmt:
		indent(ind, b)
		b.WriteString("asm (")
		b.WriteString(strconv.Quote(n.Text))
		b.WriteString(");\n")
	case *DeclStmt:
		indent(ind, b)
		buildDeclStmtString(n, b)
		b.WriteString(";\n")
	case *ObjCAtTryStmt:
		indent(ind, b)
		b.WriteString("@try\n")
		buildStmtString(n.Try, ind, b)
		for _, c := range n.Catches {
			buildStmtString(c, ind, b)
		}
		if n.Finally != nil {
			indent(ind, b)
			b.WriteString("@finally\n")
			buildStmtString(n.Finally, ind, b)
		}
	case *ObjCAtCatchStmt:
		indent(ind, b)
		b.WriteString("@catch (")
		if n.Param == nil {
			b.WriteString("...")
		} else {
			buildDeclString(n.Param, b)
		}
		b.WriteString(")\n")
		buildStmtString(n.Body, ind, b)
	case *ObjCAtFinallyStmt:
		indent(ind, b)
		b.WriteString("@finally\n")
		buildStmtString(n.Body, ind, b)
	case *ObjCAtThrowStmt:
		indent(ind, b)
		b.WriteString("@throw")
		if n.Value != nil {
			b.WriteString(" ")
			buildExprString(n.Value, b)
		}
		b.WriteString(";\n")
	case *ObjCForCollectionStmt:
		indent(ind, b)
		b.WriteString("for (")
		if elem, ok := n.Element.(Expr); ok {
			buildExprString(elem, b)
		} else if ds, ok := n.Element.(*DeclStmt); ok {
			buildDeclStmtString(ds, b)
		}
		b.WriteString(" in ")
		buildExprString(n.Collection, b)
		b.WriteString(")\n")
		buildStmtString(n.Body, ind+1, b)
	default:
		panic("unknown statement class")
	}
}

func buildDeclStmtString(n *DeclStmt, b *strings.Builder) {
	for i, d := range n.Decls {
		if i > 0 {
			b.WriteString(", ")
		}
		buildDeclString(d, b)
	}
}

func buildDeclString(d Decl, b *strings.Builder) {
	switch n := d.(type) {
	case *VarDecl:
		b.WriteString(n.Ty.String())
		b.WriteString(" ")
		b.WriteString(n.Name)
		if n.Init != nil {
			b.WriteString(" = ")
			buildExprString(n.Init, b)
		}
	case *TypedefDecl:
		b.WriteString("typedef ")
		b.WriteString(n.Ty.String())
		b.WriteString(" ")
		b.WriteString(n.Name)
	default:
		b.WriteString(d.DeclName())
	}
}

func buildExprString(e Expr, b *strings.Builder) {
	switch n := e.(type) {
	case *DeclRefExpr:
		b.WriteString(n.Decl.DeclName())
	case *PredefinedExpr:
		b.WriteString(n.Name)
	case *CharacterLiteral:
		if n.Wide {
			b.WriteString("L")
		}
		b.WriteString("'")
		if n.Value >= 0x20 && n.Value < 0x7f {
			b.WriteByte(byte(n.Value))
		} else {
			b.WriteString("\\x")
			b.WriteString(strconv.FormatInt(n.Value, 16))
		}
		b.WriteString("'")
	case *IntegerLiteral:
		b.WriteString(strconv.FormatUint(n.Value, 10))
		b.WriteString(integerSuffix(n.Ty))
	case *FloatingLiteral:
		// Shortest form that round-trips the value.
		s := strconv.FormatFloat(n.Value, 'g', -1, 64)
		b.WriteString(s)
		if !strings.ContainsAny(s, ".eE") {
			b.WriteString(".0")
		}
	case *StringLiteral:
		if n.Wide {
			b.WriteString("L")
		}
		b.WriteString(quoteStringLiteral(n.Value))
	case *ParenExpr:
		b.WriteString("(")
		buildExprString(n.Inner, b)
		b.WriteString(")")
	case *UnaryOperator:
		if n.Op.IsPostfix() {
			buildExprString(n.Operand, b)
			b.WriteString(n.Op.String())
		} else if n.Op == UOSizeOf || n.Op == UOAlignOf {
			b.WriteString(n.Op.String())
			b.WriteString(" ")
			buildExprString(n.Operand, b)
		} else {
			b.WriteString(n.Op.String())
			buildExprString(n.Operand, b)
		}
	case *SizeOfAlignOfTypeExpr:
		if n.SizeOf {
			b.WriteString("sizeof(")
		} else {
			b.WriteString("__alignof(")
		}
		b.WriteString(n.Queried.String())
		b.WriteString(")")
	case *ArraySubscriptExpr:
		buildExprString(n.Base, b)
		b.WriteString("[")
		buildExprString(n.Index, b)
		b.WriteString("]")
	case *CallExpr:
		buildExprString(n.Fn, b)
		b.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			buildExprString(a, b)
		}
		b.WriteString(")")
	case *MemberExpr:
		buildExprString(n.Base, b)
		if n.Arrow {
			b.WriteString("->")
		} else {
			b.WriteString(".")
		}
		b.WriteString(n.Member.DeclName())
	case *CastExpr:
		b.WriteString("(")
		b.WriteString(n.Ty.String())
		b.WriteString(")")
		buildExprString(n.Operand, b)
	case *ImplicitCastExpr:
		// Invisible in source; print the operand.
		buildExprString(n.Operand, b)
	case *CompoundLiteralExpr:
		b.WriteString("(")
		b.WriteString(n.Ty.String())
		b.WriteString(")")
		buildExprString(n.Init, b)
	case *BinaryOperator:
		buildExprString(n.LHS, b)
		if n.Op == BOComma {
			b.WriteString(", ")
		} else {
			b.WriteString(" ")
			b.WriteString(n.Op.String())
			b.WriteString(" ")
		}
		buildExprString(n.RHS, b)
	case *ConditionalOperator:
		buildExprString(n.Cond, b)
		b.WriteString(" ? ")
		if n.Then != nil {
			buildExprString(n.Then, b)
		}
		b.WriteString(" : ")
		buildExprString(n.Else, b)
	case *AddrLabelExpr:
		b.WriteString("&&")
		b.WriteString(n.Label)
	case *StmtExpr:
		b.WriteString("({ ... })")
	case *TypesCompatibleExpr:
		b.WriteString("__builtin_types_compatible_p(")
		b.WriteString(n.T1.String())
		b.WriteString(", ")
		b.WriteString(n.T2.String())
		b.WriteString(")")
	case *ChooseExpr:
		b.WriteString("__builtin_choose_expr(")
		buildExprString(n.Cond, b)
		b.WriteString(", ")
		buildExprString(n.Then, b)
		b.WriteString(", ")
		buildExprString(n.Else, b)
		b.WriteString(")")
	case *ObjCMessageExpr:
		b.WriteString("[")
		if n.Receiver != nil {
			buildExprString(n.Receiver, b)
		} else {
			b.WriteString(n.ClassName)
		}
		b.WriteString(" ")
		buildMessageString(n, b)
		b.WriteString("]")
	case *CXXBoolLiteralExpr:
		if n.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *CXXCastExpr:
		b.WriteString(n.CastName)
		b.WriteString("<")
		b.WriteString(n.Ty.String())
		b.WriteString(">(")
		buildExprString(n.Operand, b)
		b.WriteString(")")
	case *CXXNewExpr:
		b.WriteString("new ")
		b.WriteString(n.Allocated.String())
		if n.ArraySize != nil {
			b.WriteString("[")
			buildExprString(n.ArraySize, b)
			b.WriteString("]")
		}
	case *CXXDeleteExpr:
		b.WriteString("delete ")
		if n.Array {
			b.WriteString("[] ")
		}
		buildExprString(n.Operand, b)
	case *CXXThisExpr:
		b.WriteString("this")
	case *CXXThrowExpr:
		b.WriteString("throw")
		if n.Operand != nil {
			b.WriteString(" ")
			buildExprString(n.Operand, b)
		}
	default:
		panic("unknown expression class")
	}
}

// buildMessageString interleaves selector pieces with arguments:
// sel:arg sel:arg, or a bare selector with no colon.
func buildMessageString(n *ObjCMessageExpr, b *strings.Builder) {
	if n.Selector.Unary() {
		b.WriteString(n.Selector.Name)
		return
	}
	parts := strings.SplitAfter(n.Selector.Name, ":")
	argi := 0
	for _, part := range parts {
		if part == "" {
			break
		}
		if argi > 0 {
			b.WriteString(" ")
		}
		b.WriteString(part)
		if argi < len(n.Args) {
			buildExprString(n.Args[argi], b)
		}
		argi++
	}
}

// integerSuffix derives the literal suffix from the literal's type.
func integerSuffix(q types.QualType) string {
	t, ok := q.Canonical().Ty.(*types.BuiltinType)
	if !ok {
		return ""
	}
	switch t.Kind {
	case types.UInt:
		return "U"
	case types.Long:
		return "L"
	case types.ULong:
		return "UL"
	case types.LongLong:
		return "LL"
	case types.ULongLong:
		return "ULL"
	}
	return ""
}

func quoteStringLiteral(payload []byte) string {
	var b strings.Builder
	b.WriteString("\"")
	for _, c := range payload {
		switch c {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		default:
			if c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
			} else {
				// Three octal digits so a following digit
				// cannot extend the escape.
				b.WriteString("\\")
				b.WriteByte('0' + (c>>6)&7)
				b.WriteByte('0' + (c>>3)&7)
				b.WriteByte('0' + c&7)
			}
		}
	}
	b.WriteString("\"")
	return b.String()
}
