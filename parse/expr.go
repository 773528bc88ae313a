package parse

import (
	"strings"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lex"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
)

// Binary operator precedence, multiplicative highest.
var binOps = map[token.Kind]struct {
	op   ast.BinaryOp
	prec int
}{
	token.PipePipe:       {ast.BOLOr, 1},
	token.AmpAmp:         {ast.BOLAnd, 2},
	token.Pipe:           {ast.BOOr, 3},
	token.Caret:          {ast.BOXor, 4},
	token.Amp:            {ast.BOAnd, 5},
	token.EqualEqual:     {ast.BOEQ, 6},
	token.ExclaimEqual:   {ast.BONE, 6},
	token.Less:           {ast.BOLT, 7},
	token.Greater:        {ast.BOGT, 7},
	token.LessEqual:      {ast.BOLE, 7},
	token.GreaterEqual:   {ast.BOGE, 7},
	token.LessLess:       {ast.BOShl, 8},
	token.GreaterGreater: {ast.BOShr, 8},
	token.Plus:           {ast.BOAdd, 9},
	token.Minus:          {ast.BOSub, 9},
	token.Star:           {ast.BOMul, 10},
	token.Slash:          {ast.BODiv, 10},
	token.Percent:        {ast.BORem, 10},
}

var assignOps = map[token.Kind]ast.BinaryOp{
	token.Equal:               ast.BOAssign,
	token.StarEqual:           ast.BOMulAssign,
	token.SlashEqual:          ast.BODivAssign,
	token.PercentEqual:        ast.BORemAssign,
	token.PlusEqual:           ast.BOAddAssign,
	token.MinusEqual:          ast.BOSubAssign,
	token.LessLessEqual:       ast.BOShlAssign,
	token.GreaterGreaterEqual: ast.BOShrAssign,
	token.AmpEqual:            ast.BOAndAssign,
	token.CaretEqual:          ast.BOXorAssign,
	token.PipeEqual:           ast.BOOrAssign,
}

// parseExpr parses a full expression, comma operator included.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseExprFrom(p.parseCast())
}

func (p *Parser) parseExprFrom(operand ast.Expr) ast.Expr {
	e := p.parseAssignFrom(operand)
	for p.tok.Is(token.Comma) {
		p.next()
		rhs := p.parseAssign()
		e = &ast.BinaryOperator{
			ExprBase: ast.ExprBase{Span: span(e.Start(), rhs.End()), Ty: rhs.Type()},
			Op:       ast.BOComma, LHS: e, RHS: rhs,
		}
	}
	return e
}

// parseAssign parses an assignment expression (no top-level comma).
func (p *Parser) parseAssign() ast.Expr {
	return p.parseAssignFrom(p.parseCast())
}

func (p *Parser) parseAssignFrom(operand ast.Expr) ast.Expr {
	lhs := p.parseConditionalFrom(p.parseBinaryFrom(operand, 1))
	op, isAssign := assignOps[p.tok.Kind]
	if !isAssign {
		return lhs
	}
	p.next()
	rhs := p.rvalue(p.parseAssign())
	return &ast.BinaryOperator{
		ExprBase: ast.ExprBase{Span: span(lhs.Start(), rhs.End()), Ty: lhs.Type().Unqualified()},
		Op:       op, LHS: lhs, RHS: rhs,
	}
}

// parseConditional parses a conditional expression.
func (p *Parser) parseConditional() ast.Expr {
	return p.parseConditionalFrom(p.parseBinaryFrom(p.parseCast(), 1))
}

func (p *Parser) parseConditionalFrom(cond ast.Expr) ast.Expr {
	if p.tok.IsNot(token.Question) {
		return cond
	}
	p.next()
	c := p.rvalue(cond)
	var then ast.Expr
	if p.tok.IsNot(token.Colon) {
		then = p.rvalue(p.parseExpr())
	}
	p.expect(token.Colon)
	els := p.rvalue(p.parseConditional())
	ty := els.Type()
	if then != nil {
		ty = then.Type()
	}
	return &ast.ConditionalOperator{
		ExprBase: ast.ExprBase{Span: span(c.Start(), els.End()), Ty: ty.Unqualified()},
		Cond:     c, Then: then, Else: els,
	}
}

// parseBinaryFrom climbs the binary operator precedence levels above
// minPrec, starting with an already-parsed left operand.
func (p *Parser) parseBinaryFrom(lhs ast.Expr, minPrec int) ast.Expr {
	for {
		e, isBin := binOps[p.tok.Kind]
		if !isBin || e.prec < minPrec {
			return lhs
		}
		p.next()
		rhs := p.parseCast()
		for {
			n, isBin2 := binOps[p.tok.Kind]
			if !isBin2 || n.prec <= e.prec {
				break
			}
			rhs = p.parseBinaryFrom(rhs, n.prec)
		}
		l, r := p.rvalue(lhs), p.rvalue(rhs)
		lhs = &ast.BinaryOperator{
			ExprBase: ast.ExprBase{Span: span(l.Start(), r.End()), Ty: p.binaryType(e.op, l, r)},
			Op:       e.op, LHS: l, RHS: r,
		}
	}
}

func (p *Parser) binaryType(op ast.BinaryOp, l, r ast.Expr) types.QualType {
	switch op {
	case ast.BOLT, ast.BOGT, ast.BOLE, ast.BOGE, ast.BOEQ, ast.BONE,
		ast.BOLAnd, ast.BOLOr:
		return p.ctx.BuiltinQual(types.Int)
	case ast.BOComma:
		return r.Type()
	}
	lt, rt := l.Type(), r.Type()
	switch {
	case lt.IsPointerType() && rt.IsPointerType() && op == ast.BOSub:
		return p.ctx.BuiltinQual(types.Long)
	case lt.IsPointerType():
		return lt.Unqualified()
	case rt.IsPointerType():
		return rt.Unqualified()
	}
	return p.arithType(lt, rt)
}

// arithType approximates the usual arithmetic conversions by builtin
// kind rank; enums count as int.
func (p *Parser) arithType(a, b types.QualType) types.QualType {
	k := builtinKindOf(a)
	if kb := builtinKindOf(b); kb > k {
		k = kb
	}
	if k < types.Int {
		k = types.Int
	}
	return p.ctx.BuiltinQual(k)
}

func builtinKindOf(q types.QualType) types.BuiltinKind {
	if bt, ok := q.Canonical().Ty.(*types.BuiltinType); ok {
		return bt.Kind
	}
	return types.Int
}

// parseCast parses a cast expression: an explicit (T)e cast, a
// compound literal, or a unary expression.
func (p *Parser) parseCast() ast.Expr {
	if p.tok.IsNot(token.LParen) {
		return p.parseUnary()
	}
	lo := p.tok.Loc
	p.next()
	if !p.isTypeNameStart() {
		return p.parseParenTail(lo)
	}
	ty := p.parseTypeName()
	p.expect(token.RParen)
	if p.tok.Is(token.LBrace) {
		lit := p.parseInitializer(ty)
		cl := lit.(*ast.CompoundLiteralExpr)
		cl.Span = span(lo, cl.End())
		return cl
	}
	operand := p.rvalue(p.parseCast())
	return &ast.CastExpr{
		ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: ty},
		Operand:  operand,
	}
}

// parseParenTail finishes a parenthesized expression or a GNU
// statement expression whose opening paren is already consumed.
func (p *Parser) parseParenTail(lo source.Loc) ast.Expr {
	if p.tok.Is(token.LBrace) {
		body := p.parseCompoundStmt()
		hi := p.tok.End()
		p.expect(token.RParen)
		e := &ast.StmtExpr{
			ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: p.stmtExprType(body)},
			Body:     body,
		}
		return p.parsePostfixSuffixes(e)
	}
	inner := p.parseExpr()
	hi := p.tok.End()
	p.expect(token.RParen)
	e := &ast.ParenExpr{
		ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: inner.Type()},
		Inner:    inner,
	}
	return p.parsePostfixSuffixes(e)
}

// stmtExprType is the type of a GNU statement expression: the type
// of its final expression statement, or void.
func (p *Parser) stmtExprType(body *ast.CompoundStmt) types.QualType {
	if n := len(body.Body); n > 0 {
		if e, ok := body.Body[n-1].(ast.Expr); ok {
			return e.Type().Unqualified()
		}
	}
	return p.ctx.BuiltinQual(types.Void)
}

func (p *Parser) parseUnary() ast.Expr {
	lo := p.tok.Loc
	switch p.tok.Kind {
	case token.PlusPlus, token.MinusMinus:
		op := ast.UOPreInc
		if p.tok.Is(token.MinusMinus) {
			op = ast.UOPreDec
		}
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: operand.Type().Unqualified()},
			Op:       op, Operand: operand,
		}
	case token.Amp:
		p.next()
		operand := p.parseCast()
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{
				Span: span(lo, operand.End()),
				Ty:   types.QualType{Ty: p.ctx.Pointer(operand.Type())},
			},
			Op: ast.UOAddrOf, Operand: operand,
		}
	case token.AmpAmp:
		// GNU address of label.
		p.next()
		name := p.tok.Name()
		hi := p.tok.End()
		if !p.got(token.Identifier) {
			p.diags.Report(p.tok.Loc, diag.ErrExpected, "label name")
		}
		return &ast.AddrLabelExpr{
			ExprBase: ast.ExprBase{
				Span: span(lo, hi),
				Ty:   types.QualType{Ty: p.ctx.Pointer(p.ctx.BuiltinQual(types.Void))},
			},
			Label: name,
		}
	case token.Star:
		p.next()
		operand := p.rvalue(p.parseCast())
		ty := operand.Type().Pointee()
		if ty.IsNull() {
			ty = p.ctx.BuiltinQual(types.Int)
		}
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: ty},
			Op:       ast.UODeref, Operand: operand,
		}
	case token.Plus, token.Minus:
		op := ast.UOPlus
		if p.tok.Is(token.Minus) {
			op = ast.UOMinus
		}
		p.next()
		operand := p.rvalue(p.parseCast())
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: p.arithType(operand.Type(), operand.Type())},
			Op:       op, Operand: operand,
		}
	case token.Tilde:
		p.next()
		operand := p.rvalue(p.parseCast())
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: p.arithType(operand.Type(), operand.Type())},
			Op:       ast.UONot, Operand: operand,
		}
	case token.Exclaim:
		p.next()
		operand := p.rvalue(p.parseCast())
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: p.ctx.BuiltinQual(types.Int)},
			Op:       ast.UOLNot, Operand: operand,
		}
	case token.KwSizeof:
		p.next()
		return p.parseSizeOfTail(lo, true)
	}
	return p.parsePostfix()
}

// parseSizeOfTail parses the operand of sizeof or __alignof; the
// keyword is already consumed.
func (p *Parser) parseSizeOfTail(lo source.Loc, sizeOf bool) ast.Expr {
	sizeTy := p.ctx.BuiltinQual(types.ULong)
	if p.tok.Is(token.LParen) {
		plo := p.tok.Loc
		p.next()
		if p.isTypeNameStart() {
			ty := p.parseTypeName()
			hi := p.tok.End()
			p.expect(token.RParen)
			return &ast.SizeOfAlignOfTypeExpr{
				ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: sizeTy},
				SizeOf:   sizeOf, Queried: ty,
			}
		}
		operand := p.parseParenTail(plo)
		op := ast.UOAlignOf
		if sizeOf {
			op = ast.UOSizeOf
		}
		return &ast.UnaryOperator{
			ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: sizeTy},
			Op:       op, Operand: operand,
		}
	}
	operand := p.parseUnary()
	op := ast.UOAlignOf
	if sizeOf {
		op = ast.UOSizeOf
	}
	return &ast.UnaryOperator{
		ExprBase: ast.ExprBase{Span: span(lo, operand.End()), Ty: sizeTy},
		Op:       op, Operand: operand,
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	return p.parsePostfixSuffixes(p.parsePrimary())
}

func (p *Parser) parsePostfixSuffixes(e ast.Expr) ast.Expr {
	for {
		switch p.tok.Kind {
		case token.LBracket:
			p.next()
			idx := p.rvalue(p.parseExpr())
			hi := p.tok.End()
			p.expect(token.RBracket)
			base := p.rvalue(e)
			ty := base.Type().Pointee()
			if ty.IsNull() {
				ty = p.ctx.BuiltinQual(types.Int)
			}
			e = &ast.ArraySubscriptExpr{
				ExprBase: ast.ExprBase{Span: span(e.Start(), hi), Ty: ty},
				Base:     base, Index: idx,
			}
		case token.LParen:
			p.next()
			var args []ast.Expr
			for p.tok.IsNot(token.RParen) && p.tok.IsNot(token.EOF) {
				args = append(args, p.rvalue(p.parseAssign()))
				if !p.got(token.Comma) {
					break
				}
			}
			hi := p.tok.End()
			p.expect(token.RParen)
			e = &ast.CallExpr{
				ExprBase: ast.ExprBase{Span: span(e.Start(), hi), Ty: p.callResultType(e)},
				Fn:       e, Args: args,
			}
		case token.Period, token.Arrow:
			arrow := p.tok.Is(token.Arrow)
			p.next()
			name, hi := p.tok.Name(), p.tok.End()
			if !p.got(token.Identifier) {
				p.diags.Report(p.tok.Loc, diag.ErrExpected, "member name")
			}
			base := e
			if arrow {
				base = p.rvalue(base)
			}
			member, ty := p.memberOf(base.Type(), name, arrow)
			e = &ast.MemberExpr{
				ExprBase: ast.ExprBase{Span: span(e.Start(), hi), Ty: ty},
				Base:     base, Member: member, Arrow: arrow,
			}
		case token.PlusPlus, token.MinusMinus:
			op := ast.UOPostInc
			if p.tok.Is(token.MinusMinus) {
				op = ast.UOPostDec
			}
			hi := p.tok.End()
			p.next()
			e = &ast.UnaryOperator{
				ExprBase: ast.ExprBase{Span: span(e.Start(), hi), Ty: e.Type().Unqualified()},
				Op:       op, Operand: e,
			}
		default:
			return e
		}
	}
}

// callResultType resolves the result type of calling fn.
func (p *Parser) callResultType(fn ast.Expr) types.QualType {
	ty := fn.Type().Canonical()
	if pt, ok := ty.Ty.(*types.PointerType); ok {
		ty = pt.Pointee.Canonical()
	}
	if ft, ok := ty.Ty.(*types.FunctionType); ok {
		return ft.Result
	}
	return p.ctx.BuiltinQual(types.Int)
}

// memberOf resolves a field access against the base type's record.
func (p *Parser) memberOf(base types.QualType, name string, arrow bool) (ast.Decl, types.QualType) {
	ty := base.Canonical()
	if arrow {
		if pt, ok := ty.Ty.(*types.PointerType); ok {
			ty = pt.Pointee.Canonical()
		}
	}
	if rt, ok := ty.Ty.(*types.RecordType); ok {
		if rd, ok := rt.Decl.(*ast.RecordDecl); ok {
			if fd, ok := rd.LookupHere(name).(*ast.FieldDecl); ok {
				return fd, fd.Ty
			}
		}
	}
	return nil, p.ctx.BuiltinQual(types.Int)
}

func (p *Parser) parsePrimary() ast.Expr {
	lo := p.tok.Loc
	switch p.tok.Kind {
	case token.Identifier:
		name := p.tok.Name()
		hi := p.tok.End()
		p.next()
		return p.declRef(name, lo, hi, p.tok.Is(token.LParen))

	case token.NumericConstant:
		text := p.spelling()
		hi := p.tok.End()
		p.next()
		return p.numericLiteral(text, lo, hi)

	case token.CharConstant, token.WideCharConstant:
		text := p.spelling()
		hi := p.tok.End()
		p.next()
		v, wide := lex.ParseCharLiteral(text, lo, p.diags)
		return &ast.CharacterLiteral{
			ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: p.ctx.BuiltinQual(types.Int)},
			Value:    v, Wide: wide,
		}

	case token.StringLiteral, token.WideStringLiteral:
		text := p.spelling()
		hi := p.tok.End()
		p.next()
		payload, wide := lex.ParseStringLiteral(text, lo, p.diags)
		elem := p.ctx.BuiltinQual(types.Char)
		if wide {
			elem = p.ctx.BuiltinQual(types.Int)
		}
		return &ast.StringLiteral{
			ExprBase: ast.ExprBase{
				Span: span(lo, hi),
				Ty:   types.QualType{Ty: p.ctx.Array(elem, int64(len(payload))+1)},
			},
			Value: payload, Wide: wide,
		}

	case token.LParen:
		p.next()
		return p.parseParenTail(lo)

	case token.LBracket:
		if p.opts.ObjC1 {
			return p.parseMessageExpr(lo)
		}

	case token.KwTrue, token.KwFalse:
		v := p.tok.Is(token.KwTrue)
		hi := p.tok.End()
		p.next()
		return &ast.CXXBoolLiteralExpr{
			ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: p.ctx.BuiltinQual(types.Bool)},
			Value:    v,
		}

	case token.KwThis:
		hi := p.tok.End()
		p.next()
		return &ast.CXXThisExpr{
			ExprBase: ast.ExprBase{
				Span: span(lo, hi),
				Ty:   types.QualType{Ty: p.ctx.Pointer(p.ctx.BuiltinQual(types.Void))},
			},
		}
	}

	p.diags.Report(p.tok.Loc, diag.ErrExpectedExpr)
	hi := p.tok.End()
	if p.tok.IsNot(token.EOF) && p.tok.IsNot(token.Semi) &&
		p.tok.IsNot(token.RParen) && p.tok.IsNot(token.RBrace) {
		p.next()
	}
	return &ast.IntegerLiteral{
		ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: p.ctx.BuiltinQual(types.Int)},
	}
}

func (p *Parser) numericLiteral(text string, lo, hi source.Loc) ast.Expr {
	n := lex.ParseNumericLiteral(text, lo, p.opts, p.diags)
	if n.IsFloating {
		kind := types.Double
		switch {
		case n.IsFloat:
			kind = types.Float
		case n.IsLong:
			kind = types.LongDouble
		}
		return &ast.FloatingLiteral{
			ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: p.ctx.BuiltinQual(kind)},
			Value:    n.FloatValue(),
		}
	}
	v, _ := n.IntValue()
	kind := types.Int
	switch {
	case n.IsLongLong && n.IsUnsigned:
		kind = types.ULongLong
	case n.IsLongLong:
		kind = types.LongLong
	case n.IsLong && n.IsUnsigned:
		kind = types.ULong
	case n.IsLong:
		kind = types.Long
	case n.IsUnsigned:
		kind = types.UInt
	}
	return &ast.IntegerLiteral{
		ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: p.ctx.BuiltinQual(kind)},
		Value:    v,
	}
}

// declRef resolves a name use. An unknown name about to be called is
// given an implicit function declaration, K&R style; other unknown
// names are reported and recovered as int variables so each name is
// reported once.
func (p *Parser) declRef(name string, lo, hi source.Loc, calledNext bool) ast.Expr {
	d := ast.Lookup(p.scope, name)
	if d == nil {
		if calledNext {
			fn := &ast.FunctionDecl{
				DeclBase: ast.DeclBase{Pos: lo, Name: name, Ctx: p.tu},
				Ty:       types.QualType{Ty: p.ctx.Function(p.ctx.BuiltinQual(types.Int), nil, true)},
			}
			fn.Up = p.tu
			if p.opts.C99 {
				p.diags.Report(lo, diag.ErrUndeclaredIdent, name)
			}
			p.tu.AddDecl(fn)
			d = fn
		} else {
			p.diags.Report(lo, diag.ErrUndeclaredIdent, name)
			v := &ast.VarDecl{
				DeclBase:   ast.DeclBase{Pos: lo, Name: name, Ctx: p.scope},
				Ty:         p.ctx.BuiltinQual(types.Int),
				BlockLocal: p.fn != nil,
			}
			p.scope.AddDecl(v)
			d = v
		}
	}
	return &ast.DeclRefExpr{
		ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: declType(d, p.ctx)},
		Decl:     d,
	}
}

func declType(d ast.Decl, ctx *types.Context) types.QualType {
	switch d := d.(type) {
	case *ast.VarDecl:
		return d.Ty
	case *ast.FunctionDecl:
		return d.Ty
	case *ast.EnumConstantDecl:
		return d.Ty
	case *ast.FieldDecl:
		return d.Ty
	case *ast.TypedefDecl:
		return d.Ty
	}
	return ctx.BuiltinQual(types.Int)
}

// rvalue converts an lvalue expression for use as a value: arrays
// decay to element pointers, functions to function pointers, and
// other lvalues get a load, all as implicit cast nodes.
func (p *Parser) rvalue(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	ty := e.Type()
	if ty.IsNull() {
		return e
	}
	switch t := ty.Canonical().Ty.(type) {
	case *types.ArrayType:
		return &ast.ImplicitCastExpr{
			ExprBase: ast.ExprBase{Span: exprSpan(e), Ty: types.QualType{Ty: p.ctx.Pointer(t.Elem)}},
			Operand:  e,
		}
	case *types.FunctionType:
		return &ast.ImplicitCastExpr{
			ExprBase: ast.ExprBase{Span: exprSpan(e), Ty: types.QualType{Ty: p.ctx.Pointer(ty)}},
			Operand:  e,
		}
	}
	if !isLValue(e) {
		return e
	}
	return &ast.ImplicitCastExpr{
		ExprBase: ast.ExprBase{Span: exprSpan(e), Ty: ty.Unqualified()},
		Operand:  e,
	}
}

// isLValue reports the expression forms that designate objects.
func isLValue(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.DeclRefExpr:
		switch e.Decl.DeclKind() {
		case ast.VarDK, ast.FieldDK:
			return true
		}
		return false
	case *ast.MemberExpr, *ast.ArraySubscriptExpr:
		return true
	case *ast.UnaryOperator:
		return e.Op == ast.UODeref
	case *ast.ParenExpr:
		return isLValue(e.Inner)
	}
	return false
}

// foldConst evaluates an integer constant expression, as needed for
// array bounds and enumerator values.
func (p *Parser) foldConst(e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return int64(e.Value), true
	case *ast.CharacterLiteral:
		return e.Value, true
	case *ast.ParenExpr:
		return p.foldConst(e.Inner)
	case *ast.ImplicitCastExpr:
		return p.foldConst(e.Operand)
	case *ast.CastExpr:
		return p.foldConst(e.Operand)
	case *ast.DeclRefExpr:
		if ec, ok := e.Decl.(*ast.EnumConstantDecl); ok {
			return ec.Value, true
		}
	case *ast.UnaryOperator:
		v, ok := p.foldConst(e.Operand)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case ast.UOMinus:
			return -v, true
		case ast.UOPlus:
			return v, true
		case ast.UONot:
			return ^v, true
		case ast.UOLNot:
			return b2i(v == 0), true
		}
	case *ast.BinaryOperator:
		l, ok1 := p.foldConst(e.LHS)
		r, ok2 := p.foldConst(e.RHS)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch e.Op {
		case ast.BOMul:
			return l * r, true
		case ast.BODiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case ast.BORem:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		case ast.BOAdd:
			return l + r, true
		case ast.BOSub:
			return l - r, true
		case ast.BOShl:
			return l << uint(r&63), true
		case ast.BOShr:
			return l >> uint(r&63), true
		case ast.BOLT:
			return b2i(l < r), true
		case ast.BOGT:
			return b2i(l > r), true
		case ast.BOLE:
			return b2i(l <= r), true
		case ast.BOGE:
			return b2i(l >= r), true
		case ast.BOEQ:
			return b2i(l == r), true
		case ast.BONE:
			return b2i(l != r), true
		case ast.BOAnd:
			return l & r, true
		case ast.BOXor:
			return l ^ r, true
		case ast.BOOr:
			return l | r, true
		case ast.BOLAnd:
			return b2i(l != 0 && r != 0), true
		case ast.BOLOr:
			return b2i(l != 0 || r != 0), true
		}
	case *ast.ConditionalOperator:
		c, ok := p.foldConst(e.Cond)
		if !ok {
			return 0, false
		}
		if c != 0 {
			if e.Then == nil {
				return c, true
			}
			return p.foldConst(e.Then)
		}
		return p.foldConst(e.Else)
	}
	return 0, false
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// parseMessageExpr parses [receiver selector] with the opening
// bracket still current.
func (p *Parser) parseMessageExpr(lo source.Loc) ast.Expr {
	p.next()
	var receiver ast.Expr
	var className string
	if p.tok.Is(token.Identifier) {
		// A name that resolves to a class, or to nothing at all,
		// names the class of a class message; anything else starts
		// a receiver expression.
		name := p.tok.Name()
		d := ast.Lookup(p.scope, name)
		if _, isClass := d.(*ast.ObjCInterfaceDecl); isClass || d == nil {
			className = name
			p.next()
		}
	}
	if className == "" {
		receiver = p.rvalue(p.parseExpr())
	}

	var sel strings.Builder
	var args []ast.Expr
	for p.tok.Is(token.Identifier) || p.tok.Kind.IsKeyword() {
		piece := p.tok.Name()
		p.next()
		if !p.got(token.Colon) {
			sel.WriteString(piece)
			break
		}
		sel.WriteString(piece)
		sel.WriteByte(':')
		args = append(args, p.rvalue(p.parseAssign()))
	}
	hi := p.tok.End()
	p.expect(token.RBracket)
	return &ast.ObjCMessageExpr{
		ExprBase:  ast.ExprBase{Span: span(lo, hi), Ty: p.idType()},
		Receiver:  receiver,
		ClassName: className,
		Selector:  p.sels.Get(sel.String()),
		Args:      args,
	}
}

// idType is the generic Objective-C object pointer type.
func (p *Parser) idType() types.QualType {
	if p.idDecl == nil {
		p.idDecl = &ast.ObjCInterfaceDecl{DeclBase: ast.DeclBase{Name: "id"}}
	}
	return types.QualType{Ty: p.ctx.Pointer(types.QualType{Ty: p.ctx.ObjCInterface(p.idDecl)})}
}
