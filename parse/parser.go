package parse

import (
	"fmt"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/pp"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
)

// A Parser consumes the preprocessed token stream and builds the
// translation unit. Semantic actions run during the descent: names
// are resolved against the active scope chain, typedef names feed
// back into declaration parsing, and rvalue uses of lvalues get
// implicit cast nodes.
type Parser struct {
	pp    *pp.Preprocessor
	diags *diag.Engine
	opts  lang.Opts
	ctx   *types.Context
	sels  *token.SelectorTable

	// Trace prints the descent to stdout.
	Trace  bool
	indent string

	tok     token.Token
	prevEnd source.Loc

	tu    *ast.TranslationUnitDecl
	scope ast.DeclContext
	tags  *tagScope

	fn     *ast.FunctionDecl
	labels map[string]*ast.LabelStmt
	gotos  []*ast.GotoStmt

	classes map[string]*ast.ObjCInterfaceDecl
	idDecl  *ast.ObjCInterfaceDecl
}

// New returns a parser over preproc. The caller has already entered
// the main file.
func New(preproc *pp.Preprocessor, ctx *types.Context, opts lang.Opts) *Parser {
	return &Parser{
		pp:      preproc,
		diags:   preproc.Diags(),
		opts:    opts,
		ctx:     ctx,
		sels:    token.NewSelectorTable(),
		classes: make(map[string]*ast.ObjCInterfaceDecl),
	}
}

// ParseTranslationUnit parses until end of input and returns the
// root declaration context.
func (p *Parser) ParseTranslationUnit() *ast.TranslationUnitDecl {
	p.tu = ast.NewTranslationUnitDecl()
	p.scope = p.tu
	p.tags = &tagScope{}
	p.next()
	for p.tok.IsNot(token.EOF) && !p.diags.FatalOccurred() {
		p.parseExternalDecl()
	}
	return p.tu
}

// Context returns the type context the parser interns into.
func (p *Parser) Context() *types.Context { return p.ctx }

func (p *Parser) next() {
	p.prevEnd = p.tok.End()
	p.pp.Lex(&p.tok)
}

// got consumes the token and reports true if it has kind k.
func (p *Parser) got(k token.Kind) bool {
	if p.tok.Is(k) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of kind k or reports what was expected.
func (p *Parser) expect(k token.Kind) bool {
	if p.got(k) {
		return true
	}
	p.diags.Report(p.tok.Loc, diag.ErrExpected, describe(k))
	return false
}

func describe(k token.Kind) string {
	if s := k.Spelling(); s != "" {
		return "'" + s + "'"
	}
	return k.String()
}

// skipPast discards tokens through the next token of kind k,
// stopping early at EOF or a closing brace.
func (p *Parser) skipPast(k token.Kind) {
	for p.tok.IsNot(token.EOF) {
		if p.tok.Is(k) {
			p.next()
			return
		}
		if p.tok.Is(token.RBrace) {
			return
		}
		p.next()
	}
}

func (p *Parser) spelling() string { return p.pp.Spelling(&p.tok) }

// tr traces entry into a production; the returned function closes
// the indent level on exit.
func (p *Parser) tr(f string, vs ...interface{}) func() {
	if !p.Trace {
		return func() {}
	}
	p.log(f, vs...)
	olddent := p.indent
	p.indent += "---"
	return func() { p.indent = olddent }
}

func (p *Parser) log(f string, vs ...interface{}) {
	if !p.Trace {
		return
	}
	fmt.Print(p.indent)
	fmt.Printf(f, vs...)
	fmt.Println("")
}

// A blockScope is the declaration context of one compound statement.
type blockScope struct {
	ast.ContextBase
}

func (p *Parser) pushScope() {
	s := &blockScope{}
	s.Up = p.scope
	p.scope = s
	p.tags = &tagScope{up: p.tags}
}

func (p *Parser) popScope() {
	p.scope = p.scope.Parent()
	p.tags = p.tags.up
}

// tagScope is the struct/union/enum tag namespace, separate from
// the ordinary identifier namespace.
type tagScope struct {
	up    *tagScope
	names map[string]ast.Decl
}

func (s *tagScope) lookup(name string) ast.Decl {
	for t := s; t != nil; t = t.up {
		if d := t.names[name]; d != nil {
			return d
		}
	}
	return nil
}

func (s *tagScope) declare(name string, d ast.Decl) {
	if s.names == nil {
		s.names = make(map[string]ast.Decl)
	}
	if _, ok := s.names[name]; !ok {
		s.names[name] = d
	}
}

// declare adds d to the current scope, reporting a redefinition if
// the name is already bound there.
func (p *Parser) declare(d ast.Decl) {
	name := d.DeclName()
	if name != "" {
		if prev := p.scope.LookupHere(name); prev != nil && !redeclarable(prev, d) {
			p.diags.Report(d.Loc(), diag.ErrRedefinition, name)
			p.diags.Report(prev.Loc(), diag.NotePreviousDef)
		}
	}
	p.scope.AddDecl(d)
}

// redeclarable reports declaration pairs C allows to share a name in
// one scope: repeated function declarations and file-scope variable
// declarations (tentative definitions).
func redeclarable(prev, d ast.Decl) bool {
	if prev.DeclKind() == ast.FunctionDK && d.DeclKind() == ast.FunctionDK {
		return true
	}
	pv, ok1 := prev.(*ast.VarDecl)
	dv, ok2 := d.(*ast.VarDecl)
	return ok1 && ok2 && !pv.BlockLocal && !dv.BlockLocal
}

func span(lo, hi source.Loc) ast.Span { return ast.Span{Lo: lo, Hi: hi} }

func exprSpan(e ast.Expr) ast.Span { return ast.Span{Lo: e.Start(), Hi: e.End()} }
