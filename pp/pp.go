// Package pp is the preprocessor: the Handler side of the lexer
// contract. It owns macro definitions, the include stack, and the
// conditional stack, and decides when to push a new buffer or switch
// the active lexer.
package pp

import (
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/lex"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
)

// A Macro is one #define. Body tokens keep their definition-site
// locations; expansion records the use site with the source manager.
type Macro struct {
	Name         string
	Loc          source.Loc
	FunctionLike bool
	Params       []string
	Body         []token.Token
}

// A Resolver locates the bytes of an #include target.
// angled is true for <...> includes.
type Resolver func(name string, angled bool) (path string, buf []byte, err error)

type bufferState struct {
	lexer *lex.Lexer
	file  *source.File
}

type cond struct {
	loc     source.Loc
	taken   bool
	sawElse bool
}

// A Preprocessor turns buffers into a single expanded token stream.
type Preprocessor struct {
	srcs    *source.Manager
	diags   *diag.Engine
	opts    lang.Opts
	idents  *token.IdentTable
	resolve Resolver

	cur     *lex.Lexer
	curFile *source.File
	stack   []bufferState

	pending []token.Token
	conds   []cond
}

// New returns a Preprocessor. resolve may be nil if the input
// never includes files.
func New(srcs *source.Manager, diags *diag.Engine, opts lang.Opts, idents *token.IdentTable, resolve Resolver) *Preprocessor {
	return &Preprocessor{
		srcs:    srcs,
		diags:   diags,
		opts:    opts,
		idents:  idents,
		resolve: resolve,
	}
}

// Predefine installs an object-like macro, as if by a -D flag.
// The value is lexed from a synthetic buffer.
func (p *Preprocessor) Predefine(name, value string) {
	f := p.srcs.AddFile("<built-in>", []byte(value))
	l := lex.New(f, p.srcs, p.opts, p.diags, p.idents, nil)
	var body []token.Token
	for {
		var t token.Token
		l.Lex(&t)
		if t.Is(token.EOF) {
			break
		}
		body = append(body, t)
	}
	ii := p.idents.Get(name)
	ii.IsMacro = true
	ii.Macro = &Macro{Name: name, Body: body}
}

// EnterMainFile starts lexing from f, making it the main file.
func (p *Preprocessor) EnterMainFile(f *source.File) {
	p.srcs.SetMainFileID(f.ID())
	p.cur = lex.New(f, p.srcs, p.opts, p.diags, p.idents, p)
	p.curFile = f
}

// Spelling returns the cleaned spelling of any token produced
// by this preprocessor.
func (p *Preprocessor) Spelling(tok *token.Token) string {
	return lex.Spelling(p.srcs, p.opts, tok)
}

// Sources returns the source manager the preprocessor feeds.
func (p *Preprocessor) Sources() *source.Manager { return p.srcs }

// Diags returns the diagnostic engine.
func (p *Preprocessor) Diags() *diag.Engine { return p.diags }

// Lex returns the next token of the expanded stream.
func (p *Preprocessor) Lex(tok *token.Token) {
	for {
		if len(p.pending) > 0 {
			*tok = p.pending[0]
			p.pending = p.pending[1:]
		} else {
			p.cur.Lex(tok)
		}
		if tok.Ident != nil && tok.Ident.IsMacro && !tok.Has(token.DisableExpand) && p.expand(tok) {
			continue
		}
		return
	}
}

// nextRaw reads the next token without considering macro expansion.
func (p *Preprocessor) nextRaw(tok *token.Token) {
	if len(p.pending) > 0 {
		*tok = p.pending[0]
		p.pending = p.pending[1:]
		return
	}
	p.cur.Lex(tok)
}

func (p *Preprocessor) expand(use *token.Token) bool {
	m, ok := use.Ident.Macro.(*Macro)
	if !ok {
		return false
	}
	var args [][]token.Token
	if m.FunctionLike {
		// A function-like macro name not followed by ( is not a use.
		if !p.nextIsLParen() {
			return false
		}
		args, ok = p.readMacroArgs()
		if !ok {
			return false
		}
		if len(m.Params) == 0 && len(args) == 1 && len(args[0]) == 0 {
			args = nil
		}
	}
	p.pushExpansion(m, use, args)
	return true
}

// nextIsLParen peeks one token ahead with a fresh raw-mode lexer
// on the same buffer, leaving all lexer state untouched.
func (p *Preprocessor) nextIsLParen() bool {
	if len(p.pending) > 0 {
		return p.pending[0].Is(token.LParen)
	}
	probe := lex.New(p.curFile, p.srcs, p.opts, p.diags, p.idents, nil)
	probe.SetOffset(p.cur.Offset())
	probe.SetRawMode(true)
	var t token.Token
	probe.Lex(&t)
	probe.SetRawMode(false)
	return t.Is(token.LParen)
}

// readMacroArgs consumes ( args ) after a function-like macro name,
// splitting on top-level commas.
func (p *Preprocessor) readMacroArgs() ([][]token.Token, bool) {
	var t token.Token
	p.nextRaw(&t) // the ( the probe saw
	depth := 0
	args := [][]token.Token{}
	var cur []token.Token
	for {
		p.nextRaw(&t)
		switch {
		case t.Is(token.EOF):
			p.diags.Report(t.Loc, diag.ErrExpected, "')' in macro argument list")
			return nil, false
		case t.Is(token.LParen):
			depth++
			cur = append(cur, t)
		case t.Is(token.RParen):
			if depth == 0 {
				args = append(args, cur)
				return args, true
			}
			depth--
			cur = append(cur, t)
		case t.Is(token.Comma) && depth == 0:
			args = append(args, cur)
			cur = nil
		default:
			cur = append(cur, t)
		}
	}
}

func paramIndex(params []string, name string) int {
	for i, s := range params {
		if s == name {
			return i
		}
	}
	return -1
}

// pushExpansion queues the replacement tokens of one macro use.
// Parameter names are spliced with their argument tokens; every
// definition-site token records the use site for logical locations.
func (p *Preprocessor) pushExpansion(m *Macro, use *token.Token, args [][]token.Token) {
	var out []token.Token
	for _, bt := range m.Body {
		if m.FunctionLike && bt.Ident != nil {
			if i := paramIndex(m.Params, bt.Ident.Name); i >= 0 {
				if i < len(args) {
					out = append(out, args[i]...)
				}
				continue
			}
		}
		nt := bt
		if nt.Ident == use.Ident {
			// Self-reference does not re-expand.
			nt.SetFlag(token.DisableExpand)
		}
		// Both ends of the token map back to the use site: span ends
		// are one past the last byte, so lookups come in at Loc+Len.
		p.srcs.RecordExpansion(nt.Loc, use.Loc)
		p.srcs.RecordExpansion(nt.Loc.WithOffset(nt.Len), use.Loc)
		out = append(out, nt)
	}
	if len(out) > 0 {
		keep := use.Flags & (token.StartOfLine | token.LeadingSpace)
		out[0].Flags = out[0].Flags&^(token.StartOfLine|token.LeadingSpace) | keep
	}
	p.pending = append(out, p.pending...)
}

// HandleIdentifier is the lexer callback for each interned
// identifier. Expansion happens in Lex, where the pending queue
// lives, so there is nothing to do here.
func (p *Preprocessor) HandleIdentifier(tok *token.Token) {}

// HandleEndOfFile pops the include stack, or reports an unterminated
// conditional when the last buffer runs out inside one.
func (p *Preprocessor) HandleEndOfFile(tok *token.Token) bool {
	if n := len(p.stack); n > 0 {
		p.cur = p.stack[n-1].lexer
		p.curFile = p.stack[n-1].file
		p.stack = p.stack[:n-1]
		p.cur.Lex(tok)
		return true
	}
	if len(p.conds) > 0 {
		p.diags.Report(p.conds[len(p.conds)-1].loc, diag.ErrUnterminatedConditional)
		p.conds = p.conds[:0]
	}
	return false
}

// HandleDirective dispatches one # directive line. The lexer is in
// directive mode; everything through EOM belongs to us.
func (p *Preprocessor) HandleDirective(hash *token.Token) {
	var tok token.Token
	p.cur.Lex(&tok)
	if tok.Is(token.EOM) {
		return // null directive
	}
	if tok.Ident == nil {
		p.diags.Report(tok.Loc, diag.ErrInvalidDirective)
		p.discardLine()
		return
	}
	switch tok.Ident.Name {
	case "define":
		p.handleDefine()
	case "undef":
		p.handleUndef()
	case "include":
		p.handleInclude(tok.Loc)
	case "ifdef":
		p.handleIfdef(tok.Loc, false)
	case "ifndef":
		p.handleIfdef(tok.Loc, true)
	case "if":
		p.handleIf(tok.Loc)
	case "elif":
		p.handleElifActive(tok.Loc)
	case "else":
		p.handleElseActive(tok.Loc)
	case "endif":
		p.handleEndif(tok.Loc)
	case "pragma", "line", "error", "warning":
		// Recognized but not interpreted.
		p.discardLine()
	default:
		p.diags.Report(tok.Loc, diag.ErrInvalidDirective)
		p.discardLine()
	}
}

// discardLine consumes the rest of a directive line through EOM.
func (p *Preprocessor) discardLine() {
	if !p.cur.InDirective() {
		return
	}
	var t token.Token
	for {
		p.cur.Lex(&t)
		if t.Is(token.EOM) || t.Is(token.EOF) {
			return
		}
	}
}

// collectLine reads the rest of a directive line, EOM excluded.
func (p *Preprocessor) collectLine() []token.Token {
	var toks []token.Token
	var t token.Token
	for {
		p.cur.Lex(&t)
		if t.Is(token.EOM) || t.Is(token.EOF) {
			return toks
		}
		toks = append(toks, t)
	}
}

func (p *Preprocessor) handleDefine() {
	var name token.Token
	p.cur.Lex(&name)
	if name.Ident == nil {
		p.diags.Report(name.Loc, diag.ErrExpectedMacroName)
		p.discardLine()
		return
	}
	m := &Macro{Name: name.Ident.Name, Loc: name.Loc}

	var t token.Token
	p.cur.Lex(&t)
	if t.Is(token.LParen) && !t.Has(token.LeadingSpace) {
		m.FunctionLike = true
		for {
			p.cur.Lex(&t)
			if t.Is(token.RParen) {
				break
			}
			if t.Is(token.EOM) || t.Is(token.EOF) {
				p.diags.Report(t.Loc, diag.ErrExpected, "')' in macro parameter list")
				return
			}
			if t.Ident != nil {
				m.Params = append(m.Params, t.Ident.Name)
			}
			// Commas and ... are skipped.
		}
		m.Body = p.collectLine()
	} else if t.IsNot(token.EOM) && t.IsNot(token.EOF) {
		m.Body = append([]token.Token{t}, p.collectLine()...)
	}

	ii := name.Ident
	if ii.IsMacro {
		if old, ok := ii.Macro.(*Macro); ok && !p.sameMacro(old, m) {
			p.diags.Report(name.Loc, diag.WarnMacroRedefined, m.Name)
		}
	}
	ii.IsMacro = true
	ii.Macro = m
}

func (p *Preprocessor) sameMacro(a, b *Macro) bool {
	if a.FunctionLike != b.FunctionLike || len(a.Params) != len(b.Params) || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Body {
		at, bt := &a.Body[i], &b.Body[i]
		if at.Kind != bt.Kind || p.Spelling(at) != p.Spelling(bt) {
			return false
		}
	}
	return true
}

func (p *Preprocessor) handleUndef() {
	var name token.Token
	p.cur.Lex(&name)
	if name.Ident == nil {
		p.diags.Report(name.Loc, diag.ErrExpectedMacroName)
	} else {
		name.Ident.IsMacro = false
		name.Ident.Macro = nil
	}
	p.discardLine()
}

func (p *Preprocessor) handleInclude(loc source.Loc) {
	p.cur.SetParsingFilename(true)
	var t token.Token
	p.cur.Lex(&t)
	p.cur.SetParsingFilename(false)

	var name string
	var angled bool
	switch t.Kind {
	case token.AngleString:
		s := p.cur.Spelling(&t)
		name, angled = s[1:len(s)-1], true
	case token.StringLiteral:
		s := p.cur.Spelling(&t)
		name = s[1 : len(s)-1]
	default:
		p.diags.Report(t.Loc, diag.ErrExpectedFilename)
		p.discardLine()
		return
	}
	includeLoc := t.Loc
	p.discardLine()

	if p.resolve == nil {
		p.diags.Report(includeLoc, diag.ErrFileNotFound, name)
		return
	}
	path, buf, err := p.resolve(name, angled)
	if err != nil {
		p.diags.Report(includeLoc, diag.ErrFileNotFound, name)
		return
	}
	f := p.srcs.AddFile(path, buf)
	p.srcs.RecordExpansion(p.srcs.LocOf(f.ID(), 0), loc)
	p.stack = append(p.stack, bufferState{p.cur, p.curFile})
	p.cur = lex.New(f, p.srcs, p.opts, p.diags, p.idents, p)
	p.curFile = f
}

func (p *Preprocessor) handleIfdef(loc source.Loc, negated bool) {
	var name token.Token
	p.cur.Lex(&name)
	defined := false
	if name.Ident == nil {
		p.diags.Report(name.Loc, diag.ErrExpectedMacroName)
	} else {
		defined = name.Ident.IsMacro
	}
	p.discardLine()
	p.startCond(loc, defined != negated)
}

func (p *Preprocessor) handleIf(loc source.Loc) {
	toks := p.collectLine()
	p.startCond(loc, p.evalTokens(toks))
}

// handleElifActive handles #elif reached while lexing normally:
// the branch above was taken, so skip to the matching #endif.
func (p *Preprocessor) handleElifActive(loc source.Loc) {
	p.discardLine()
	if len(p.conds) == 0 {
		p.diags.Report(loc, diag.ErrElseWithoutIf)
		return
	}
	c := &p.conds[len(p.conds)-1]
	if p.skipExcluded(c) == skipEndif {
		p.conds = p.conds[:len(p.conds)-1]
	}
}

func (p *Preprocessor) handleElseActive(loc source.Loc) {
	p.discardLine()
	if len(p.conds) == 0 {
		p.diags.Report(loc, diag.ErrElseWithoutIf)
		return
	}
	c := &p.conds[len(p.conds)-1]
	if c.sawElse {
		p.diags.Report(loc, diag.ErrElseWithoutIf)
	}
	c.sawElse = true
	if p.skipExcluded(c) == skipEndif {
		p.conds = p.conds[:len(p.conds)-1]
	}
}

func (p *Preprocessor) handleEndif(loc source.Loc) {
	p.discardLine()
	if len(p.conds) == 0 {
		p.diags.Report(loc, diag.ErrEndifWithoutIf)
		return
	}
	p.conds = p.conds[:len(p.conds)-1]
}

func (p *Preprocessor) startCond(loc source.Loc, active bool) {
	p.conds = append(p.conds, cond{loc: loc, taken: active})
	if active {
		return
	}
	c := &p.conds[len(p.conds)-1]
	switch p.skipExcluded(c) {
	case skipEndif:
		p.conds = p.conds[:len(p.conds)-1]
	case skipElse, skipElifTrue:
		c.taken = true
	}
}

type skipResult int

const (
	skipEndif skipResult = iota
	skipElse
	skipElifTrue
)

// skipExcluded scans forward in raw mode until the conditional on
// top of the stack produces a live branch or closes. Nested
// conditionals inside the skipped region are counted, not entered.
func (p *Preprocessor) skipExcluded(c *cond) skipResult {
	p.cur.SetRawMode(true)
	defer p.cur.SetRawMode(false)
	depth := 0
	var t token.Token
	for {
		p.cur.Lex(&t)
		if t.Is(token.EOF) {
			p.diags.Report(c.loc, diag.ErrUnterminatedConditional)
			return skipEndif
		}
		if t.IsNot(token.Hash) || !t.Has(token.StartOfLine) {
			continue
		}
		p.cur.Lex(&t)
		if t.Ident == nil {
			continue
		}
		switch t.Ident.Name {
		case "if", "ifdef", "ifndef":
			depth++
		case "elif":
			if depth > 0 || c.taken || c.sawElse {
				continue
			}
			if p.evalTokens(p.rawLineTokens()) {
				return skipElifTrue
			}
		case "else":
			if depth > 0 {
				continue
			}
			if !c.sawElse {
				c.sawElse = true
				if !c.taken {
					p.rawLineTokens()
					return skipElse
				}
			}
		case "endif":
			if depth == 0 {
				p.rawLineTokens()
				return skipEndif
			}
			depth--
		}
	}
}

// rawLineTokens collects the rest of the current line in raw mode,
// repositioning the lexer at the start of the next line's first token.
func (p *Preprocessor) rawLineTokens() []token.Token {
	var toks []token.Token
	var t token.Token
	for {
		save := p.cur.Offset()
		p.cur.Lex(&t)
		if t.Is(token.EOF) || t.Has(token.StartOfLine) {
			p.cur.SetOffset(save)
			return toks
		}
		toks = append(toks, t)
	}
}
