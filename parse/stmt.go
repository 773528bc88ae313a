package parse

import (
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lex"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
)

// parseCompoundStmt parses a braced block, opening a new scope.
func (p *Parser) parseCompoundStmt() *ast.CompoundStmt {
	lo := p.tok.Loc
	if !p.expect(token.LBrace) {
		return &ast.CompoundStmt{Span: span(lo, lo)}
	}
	p.pushScope()
	var body []ast.Stmt
	for p.tok.IsNot(token.RBrace) && p.tok.IsNot(token.EOF) && !p.diags.FatalOccurred() {
		body = append(body, p.parseStmt())
	}
	p.popScope()
	hi := p.tok.End()
	p.expect(token.RBrace)
	return &ast.CompoundStmt{Span: span(lo, hi), Body: body}
}

func (p *Parser) parseStmt() ast.Stmt {
	lo := p.tok.Loc
	switch p.tok.Kind {
	case token.LBrace:
		return p.parseCompoundStmt()

	case token.Semi:
		hi := p.tok.End()
		p.next()
		return &ast.NullStmt{Span: span(lo, hi)}

	case token.KwIf:
		p.next()
		p.expect(token.LParen)
		cond := p.rvalue(p.parseExpr())
		p.expect(token.RParen)
		then := p.parseStmt()
		var els ast.Stmt
		if p.got(token.KwElse) {
			els = p.parseStmt()
		}
		hi := then.End()
		if els != nil {
			hi = els.End()
		}
		return &ast.IfStmt{Span: span(lo, hi), Cond: cond, Then: then, Else: els}

	case token.KwSwitch:
		p.next()
		p.expect(token.LParen)
		cond := p.rvalue(p.parseExpr())
		p.expect(token.RParen)
		body := p.parseStmt()
		return &ast.SwitchStmt{Span: span(lo, body.End()), Cond: cond, Body: body}

	case token.KwCase:
		p.next()
		v := p.rvalue(p.parseConditional())
		p.expect(token.Colon)
		body := p.parseStmt()
		return &ast.CaseStmt{Span: span(lo, body.End()), Value: v, Body: body}

	case token.KwDefault:
		p.next()
		p.expect(token.Colon)
		body := p.parseStmt()
		return &ast.DefaultStmt{Span: span(lo, body.End()), Body: body}

	case token.KwWhile:
		p.next()
		p.expect(token.LParen)
		cond := p.rvalue(p.parseExpr())
		p.expect(token.RParen)
		body := p.parseStmt()
		return &ast.WhileStmt{Span: span(lo, body.End()), Cond: cond, Body: body}

	case token.KwDo:
		p.next()
		body := p.parseStmt()
		p.expect(token.KwWhile)
		p.expect(token.LParen)
		cond := p.rvalue(p.parseExpr())
		hi := p.tok.End()
		p.expect(token.RParen)
		p.expect(token.Semi)
		return &ast.DoStmt{Span: span(lo, hi), Body: body, Cond: cond}

	case token.KwFor:
		return p.parseForStmt(lo)

	case token.KwGoto:
		p.next()
		if p.got(token.Star) {
			// GNU computed goto.
			target := p.rvalue(p.parseExpr())
			hi := target.End()
			p.expect(token.Semi)
			return &ast.IndirectGotoStmt{Span: span(lo, hi), Target: target}
		}
		name, hi := p.tok.Name(), p.tok.End()
		if !p.got(token.Identifier) {
			p.diags.Report(p.tok.Loc, diag.ErrExpected, "label name")
		}
		p.expect(token.Semi)
		g := &ast.GotoStmt{Span: span(lo, hi), Label: name}
		p.gotos = append(p.gotos, g)
		return g

	case token.KwContinue:
		hi := p.tok.End()
		p.next()
		p.expect(token.Semi)
		return &ast.ContinueStmt{Span: span(lo, hi)}

	case token.KwBreak:
		hi := p.tok.End()
		p.next()
		p.expect(token.Semi)
		return &ast.BreakStmt{Span: span(lo, hi)}

	case token.KwReturn:
		hi := p.tok.End()
		p.next()
		var value ast.Expr
		if p.tok.IsNot(token.Semi) {
			value = p.rvalue(p.parseExpr())
			hi = value.End()
		}
		p.expect(token.Semi)
		return &ast.ReturnStmt{Span: span(lo, hi), Value: value}

	case token.KwAsm:
		return p.parseAsmStmt(lo)

	case token.At:
		if p.opts.ObjC1 {
			return p.parseAtStmt(lo)
		}

	case token.Identifier:
		// A label, a declaration with a typedef name, or an
		// expression statement; one token of lookahead decides.
		if p.isDeclSpecStart() {
			break
		}
		name := p.tok.Name()
		nameEnd := p.tok.End()
		p.next()
		if p.tok.Is(token.Colon) {
			p.next()
			body := p.parseStmt()
			l := &ast.LabelStmt{Span: span(lo, body.End()), Name: name, Body: body}
			if p.labels != nil {
				if _, dup := p.labels[name]; dup {
					p.diags.Report(lo, diag.ErrRedefinition, name)
				} else {
					p.labels[name] = l
				}
			}
			return l
		}
		ref := p.declRef(name, lo, nameEnd, p.tok.Is(token.LParen))
		e := p.parseExprFrom(p.parsePostfixSuffixes(ref))
		p.expect(token.Semi)
		return e
	}

	if p.isDeclSpecStart() {
		decls := p.parseDeclaration(false)
		return &ast.DeclStmt{Span: span(lo, p.prevEnd), Decls: decls}
	}

	e := p.parseExpr()
	p.expect(token.Semi)
	return e
}

func (p *Parser) parseForStmt(lo source.Loc) ast.Stmt {
	p.next()
	p.expect(token.LParen)
	p.pushScope()

	var init ast.Stmt
	switch {
	case p.got(token.Semi):
	case p.isDeclSpecStart():
		dlo := p.tok.Loc
		var ds DeclSpec
		p.parseDeclSpecs(&ds)
		base := p.specType(&ds)
		d := p.parseDeclarator(false)
		v := &ast.VarDecl{
			DeclBase:   ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: p.scope},
			Ty:         d.apply(base, p.ctx),
			Storage:    storageOf(&ds),
			Thread:     ds.Thread,
			BlockLocal: true,
		}
		p.declare(v)
		if p.atForIn() {
			v.LoopElement = true
			elem := &ast.DeclStmt{Span: span(dlo, p.prevEnd), Decls: []ast.Decl{v}}
			return p.parseForCollection(lo, elem)
		}
		if p.got(token.Equal) {
			v.Init = p.parseInitializer(v.Ty)
		}
		decls := []ast.Decl{v}
		var prev ast.Decl = v
		for p.got(token.Comma) {
			d := p.parseDeclarator(false)
			w := &ast.VarDecl{
				DeclBase:   ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: p.scope},
				Ty:         d.apply(base, p.ctx),
				Storage:    storageOf(&ds),
				Thread:     ds.Thread,
				BlockLocal: true,
			}
			p.declare(w)
			if p.got(token.Equal) {
				w.Init = p.parseInitializer(w.Ty)
			}
			decls = append(decls, w)
			setNextDeclarator(prev, w)
			prev = w
		}
		p.expect(token.Semi)
		init = &ast.DeclStmt{Span: span(dlo, p.prevEnd), Decls: decls}
	default:
		init = p.parseExpr()
		if p.atForIn() {
			return p.parseForCollection(lo, init)
		}
		p.expect(token.Semi)
	}

	var cond ast.Expr
	if p.tok.IsNot(token.Semi) {
		cond = p.rvalue(p.parseExpr())
	}
	p.expect(token.Semi)

	var inc ast.Expr
	if p.tok.IsNot(token.RParen) {
		inc = p.parseExpr()
	}
	p.expect(token.RParen)

	body := p.parseStmt()
	p.popScope()
	return &ast.ForStmt{Span: span(lo, body.End()), Init: init, Cond: cond, Inc: inc, Body: body}
}

// atForIn reports whether the loop header continues with the
// contextual `in` of a collection loop.
func (p *Parser) atForIn() bool {
	return p.opts.ObjC1 && p.tok.Is(token.Identifier) && p.tok.Name() == "in"
}

// parseForCollection finishes `for (element in collection) body`
// after the element clause and before the `in`.
func (p *Parser) parseForCollection(lo source.Loc, elem ast.Stmt) ast.Stmt {
	p.next() // in
	coll := p.rvalue(p.parseExpr())
	p.expect(token.RParen)
	body := p.parseStmt()
	p.popScope()
	return &ast.ObjCForCollectionStmt{
		Span:       span(lo, body.End()),
		Element:    elem,
		Collection: coll,
		Body:       body,
	}
}

// parseAsmStmt parses the simple form asm("text").
func (p *Parser) parseAsmStmt(lo source.Loc) ast.Stmt {
	p.next()
	p.expect(token.LParen)
	var text string
	if p.tok.Is(token.StringLiteral) {
		payload, _ := lex.ParseStringLiteral(p.spelling(), p.tok.Loc, p.diags)
		text = string(payload)
		p.next()
	} else {
		p.diags.Report(p.tok.Loc, diag.ErrExpected, "string literal")
	}
	// Constraint operands are accepted and discarded.
	for p.tok.IsNot(token.RParen) && p.tok.IsNot(token.EOF) {
		p.next()
	}
	hi := p.tok.End()
	p.expect(token.RParen)
	p.expect(token.Semi)
	return &ast.AsmStmt{Span: span(lo, hi), Text: text}
}

// parseAtStmt parses the Objective-C statement forms @try, @throw.
func (p *Parser) parseAtStmt(lo source.Loc) ast.Stmt {
	p.next()
	switch p.tok.Name() {
	case "throw":
		p.next()
		var value ast.Expr
		hi := p.prevEnd
		if p.tok.IsNot(token.Semi) {
			value = p.rvalue(p.parseExpr())
			hi = value.End()
		}
		p.expect(token.Semi)
		return &ast.ObjCAtThrowStmt{Span: span(lo, hi), Value: value}

	case "try":
		p.next()
		try := p.parseCompoundStmt()
		st := &ast.ObjCAtTryStmt{Try: try}
		hi := try.End()
		for p.tok.Is(token.At) {
			atLoc := p.tok.Loc
			p.next()
			switch p.tok.Name() {
			case "catch":
				p.next()
				p.expect(token.LParen)
				var param ast.Decl
				if p.tok.IsNot(token.Ellipsis) {
					var ds DeclSpec
					p.parseDeclSpecs(&ds)
					base := p.specType(&ds)
					d := p.parseDeclarator(true)
					param = &ast.VarDecl{
						DeclBase:   ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: p.scope},
						Ty:         d.apply(base, p.ctx),
						BlockLocal: true,
					}
				} else {
					p.next()
				}
				p.expect(token.RParen)
				body := p.parseCompoundStmt()
				c := &ast.ObjCAtCatchStmt{Span: span(atLoc, body.End()), Param: param, Body: body}
				st.Catches = append(st.Catches, c)
				hi = c.End()
			case "finally":
				p.next()
				body := p.parseCompoundStmt()
				st.Finally = &ast.ObjCAtFinallyStmt{Span: span(atLoc, body.End()), Body: body}
				hi = body.End()
			default:
				p.diags.Report(atLoc, diag.ErrExpected, "@catch or @finally")
			}
			if st.Finally != nil {
				break
			}
		}
		st.Span = span(lo, hi)
		return st
	}

	p.diags.Report(lo, diag.ErrExpected, "statement")
	p.next()
	return &ast.NullStmt{Span: span(lo, lo)}
}
