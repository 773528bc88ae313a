// Package lex implements the pp-token lexer: a character-at-a-time
// state machine over one NUL-terminated buffer.
//
// The lexer hands preprocessing concerns to a Handler: directive
// lines, end-of-file include popping, and identifier interpretation.
// It never decides on its own to switch buffers.
package lex

import (
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
)

// A Handler is the preprocessor side of the lexer contract.
// The preprocessor owns identifier lookup, macro definitions,
// the include stack, and directive semantics.
type Handler interface {
	// HandleDirective is called with the # token of a directive line.
	// The lexer is in directive mode; the handler must consume
	// tokens up to and including EOM.
	HandleDirective(hash *token.Token)

	// HandleEndOfFile is called when the buffer runs out outside of
	// raw mode. If it returns true the handler has produced the next
	// token into tok (for example by popping the include stack).
	HandleEndOfFile(tok *token.Token) bool

	// HandleIdentifier is called for each identifier token after
	// interning, letting the preprocessor flag or expand macros.
	HandleIdentifier(tok *token.Token)

	// Lex produces the next token of the preprocessed stream.
	// The lexer calls it after a directive, so that lexing resumes
	// in whichever buffer the directive left active.
	Lex(tok *token.Token)
}

// A Lexer scans one buffer.
type Lexer struct {
	buf      []byte // ends with a NUL sentinel
	ptr, end int
	fileLoc  source.Loc // location of buf[0]

	opts    lang.Opts
	diags   *diag.Engine
	idents  *token.IdentTable
	handler Handler

	// Mode flags; the preprocessor flips these around directives.
	parsingPreprocessorDirective bool
	parsingFilename              bool
	isAtStartOfLine              bool
	lexingRawMode                bool

	leadingSpace bool
}

// New returns a lexer over the file's buffer.
func New(f *source.File, m *source.Manager, opts lang.Opts, diags *diag.Engine, idents *token.IdentTable, h Handler) *Lexer {
	return &Lexer{
		buf:             f.Buf,
		end:             f.Size(),
		fileLoc:         m.LocOf(f.ID(), 0),
		opts:            opts,
		diags:           diags,
		idents:          idents,
		handler:         h,
		isAtStartOfLine: true,
	}
}

// Offset returns the current buffer offset. Used with SetOffset
// to save and restore position for speculative probes.
func (l *Lexer) Offset() int { return l.ptr }

// SetOffset repositions the lexer.
func (l *Lexer) SetOffset(p int) { l.ptr = p }

// SetRawMode switches raw-mode lexing. In raw mode the lexer emits
// EOF instead of popping includes, does not dispatch directives, and
// its non-error diagnostics are dropped.
func (l *Lexer) SetRawMode(raw bool) {
	if raw == l.lexingRawMode {
		return
	}
	l.lexingRawMode = raw
	if raw {
		l.diags.PushSuppress()
	} else {
		l.diags.PopSuppress()
	}
}

// SetParsingFilename switches <...> include-filename lexing.
func (l *Lexer) SetParsingFilename(v bool) { l.parsingFilename = v }

// InDirective reports whether the lexer is inside a directive line.
func (l *Lexer) InDirective() bool { return l.parsingPreprocessorDirective }

// EndDirective leaves directive mode without consuming input.
func (l *Lexer) EndDirective() { l.parsingPreprocessorDirective = false }

func (l *Lexer) locOf(p int) source.Loc { return l.fileLoc.WithOffset(p) }

func (l *Lexer) report(p int, id diag.ID, args ...interface{}) {
	l.diags.Report(l.locOf(p), id, args...)
}

// Character classes for the 256-entry dispatch table.
const (
	ccHorzWS uint8 = 1 << iota
	ccVertWS
	ccLetter
	ccDigit
	ccUnder
)

var charClass [256]uint8

func init() {
	for _, c := range []byte{' ', '\t', '\f', '\v'} {
		charClass[c] = ccHorzWS
	}
	charClass['\n'] = ccVertWS
	charClass['\r'] = ccVertWS
	for c := 'a'; c <= 'z'; c++ {
		charClass[c] = ccLetter
	}
	for c := 'A'; c <= 'Z'; c++ {
		charClass[c] = ccLetter
	}
	for c := '0'; c <= '9'; c++ {
		charClass[c] = ccDigit
	}
	charClass['_'] = ccUnder
}

func isIdentBody(c byte) bool {
	return charClass[c]&(ccLetter|ccDigit|ccUnder) != 0
}

func isHorzWS(c byte) bool { return charClass[c]&ccHorzWS != 0 }

// trigraphChar maps the third character of a ??x sequence
// to the decoded character, or 0.
func trigraphChar(c byte) byte {
	switch c {
	case '=':
		return '#'
	case ')':
		return ']'
	case '(':
		return '['
	case '!':
		return '|'
	case '\'':
		return '^'
	case '>':
		return '}'
	case '/':
		return '\\'
	case '<':
		return '{'
	case '-':
		return '~'
	}
	return 0
}

// escapedNewLineSize returns the number of bytes consumed by an
// escaped newline starting just after a backslash: optional
// horizontal whitespace then \n, \r, \r\n, or \n\r. Zero if the
// backslash does not escape a newline.
func escapedNewLineSize(buf []byte, p int) int {
	n := p
	for isHorzWS(buf[n]) {
		n++
	}
	switch buf[n] {
	case '\n':
		if buf[n+1] == '\r' {
			return n - p + 2
		}
		return n - p + 1
	case '\r':
		if buf[n+1] == '\n' {
			return n - p + 2
		}
		return n - p + 1
	}
	return 0
}

// charAndSize reads the character at p after trigraph and
// escaped-newline processing, returning it with the number of raw
// bytes it occupies. The canonical read used by all scanners.
func (l *Lexer) charAndSize(p int) (byte, int) {
	c := l.buf[p]
	if c != '?' && c != '\\' {
		return c, 1
	}
	return l.charAndSizeSlow(p, true)
}

// peekCharAndSize is charAndSize without diagnostics,
// for speculative peeks.
func (l *Lexer) peekCharAndSize(p int) (byte, int) {
	c := l.buf[p]
	if c != '?' && c != '\\' {
		return c, 1
	}
	return l.charAndSizeSlow(p, false)
}

func (l *Lexer) charAndSizeSlow(p int, warn bool) (byte, int) {
	size := 0
	for {
		switch c := l.buf[p]; {
		case c == '\\':
			esc := escapedNewLineSize(l.buf, p+1)
			if esc == 0 {
				return '\\', size + 1
			}
			size += 1 + esc
			p += 1 + esc
		case c == '?' && l.buf[p+1] == '?' && trigraphChar(l.buf[p+2]) != 0:
			t := trigraphChar(l.buf[p+2])
			if !l.opts.Trigraphs {
				if warn {
					l.report(p, diag.WarnTrigraphIgnored)
				}
				return '?', size + 1
			}
			if warn {
				l.report(p, diag.WarnTrigraphConverted, string(t))
			}
			if t != '\\' {
				return t, size + 3
			}
			esc := escapedNewLineSize(l.buf, p+3)
			if esc == 0 {
				return '\\', size + 3
			}
			size += 3 + esc
			p += 3 + esc
		default:
			return c, size + 1
		}
	}
}

// Lex reads the next pp-token into tok.
func (l *Lexer) Lex(tok *token.Token) {
	*tok = token.Token{}
again:
	// Fast path over horizontal whitespace.
	for isHorzWS(l.buf[l.ptr]) {
		l.ptr++
		l.leadingSpace = true
	}

	start := l.ptr
	c, size := l.charAndSize(l.ptr)
	l.ptr += size

	switch {
	case c == 0:
		if l.ptr-size != l.end {
			// Interior NUL: treated as whitespace.
			l.leadingSpace = true
			goto again
		}
		l.ptr = l.end
		l.lexEndOfFile(tok)
		return

	case c == '\n' || c == '\r':
		// Consume the complementary half of a two-byte newline.
		if n := l.buf[l.ptr]; (n == '\n' || n == '\r') && n != c {
			l.ptr++
		}
		if l.parsingPreprocessorDirective {
			l.parsingPreprocessorDirective = false
			l.parsingFilename = false
			l.formToken(tok, start, token.EOM)
			l.isAtStartOfLine = true
			l.leadingSpace = false
			return
		}
		l.isAtStartOfLine = true
		l.leadingSpace = false
		goto again

	case charClass[c]&(ccLetter|ccUnder) != 0:
		l.lexIdentifier(tok, start, size != 1)
		return

	case c == '$' && l.opts.DollarIdents:
		l.report(start, diag.ExtDollarInIdent)
		l.lexIdentifier(tok, start, size != 1)
		return

	case charClass[c]&ccDigit != 0:
		l.lexNumericConstant(tok, start, size != 1)
		return

	case c == '.':
		n, nsize := l.peekCharAndSize(l.ptr)
		if charClass[n]&ccDigit != 0 {
			l.lexNumericConstant(tok, start, size != 1)
			return
		}
		if n == '.' {
			n2, n2size := l.peekCharAndSize(l.ptr + nsize)
			if n2 == '.' {
				l.ptr += nsize + n2size
				l.formToken(tok, start, token.Ellipsis)
				return
			}
		}
		if n == '*' && l.opts.CPlusPlus {
			l.ptr += nsize
			l.formToken(tok, start, token.PeriodStar)
			return
		}
		l.formToken(tok, start, token.Period)
		return

	case c == '"':
		l.lexStringLiteral(tok, start, token.StringLiteral)
		return

	case c == '\'':
		l.lexCharConstant(tok, start, token.CharConstant)
		return

	case c == '<' && l.parsingFilename:
		l.lexAngledString(tok, start)
		return

	case c == '/':
		n, nsize := l.peekCharAndSize(l.ptr)
		if n == '/' {
			if !l.opts.BCPLComments {
				l.report(start, diag.ExtBCPLComment)
			}
			l.ptr += nsize
			l.skipBCPLComment()
			l.leadingSpace = true
			goto again
		}
		if n == '*' {
			l.ptr += nsize
			if l.skipBlockComment(start) {
				l.leadingSpace = true
				goto again
			}
			l.lexEndOfFile(tok)
			return
		}
		l.lexPunctuator(tok, start, c)
		return

	default:
		l.lexPunctuator(tok, start, c)
		return
	}
}

func (l *Lexer) formToken(tok *token.Token, start int, kind token.Kind) {
	tok.Kind = kind
	tok.Loc = l.locOf(start)
	tok.Len = l.ptr - start
	if l.isAtStartOfLine {
		tok.SetFlag(token.StartOfLine)
		l.isAtStartOfLine = false
	}
	if l.leadingSpace {
		tok.SetFlag(token.LeadingSpace)
		l.leadingSpace = false
	}
}

func (l *Lexer) lexEndOfFile(tok *token.Token) {
	if l.parsingPreprocessorDirective {
		l.parsingPreprocessorDirective = false
		l.formToken(tok, l.ptr, token.EOM)
		return
	}
	if l.lexingRawMode || l.handler == nil {
		l.formToken(tok, l.ptr, token.EOF)
		return
	}
	if l.handler.HandleEndOfFile(tok) {
		return
	}
	l.formToken(tok, l.ptr, token.EOF)
}

func (l *Lexer) lexIdentifier(tok *token.Token, start int, dirty bool) {
	// Fast path: plain identifier bytes.
	for isIdentBody(l.buf[l.ptr]) {
		l.ptr++
	}
	// Slow path for $, trigraphs, and escaped newlines.
	for {
		c, size := l.peekCharAndSize(l.ptr)
		switch {
		case c == '$' && l.opts.DollarIdents:
			l.report(l.ptr, diag.ExtDollarInIdent)
		case isIdentBody(c):
			// Continues through a cleaned character.
		default:
			l.formToken(tok, start, token.Identifier)
			if dirty {
				tok.SetFlag(token.NeedsCleaning)
			}
			// A lone L directly before a quote is a wide literal prefix.
			if spelling := l.cleanedText(tok); spelling == "L" {
				switch l.buf[l.ptr] {
				case '"':
					l.ptr++
					l.lexStringLiteral(tok, start, token.WideStringLiteral)
					return
				case '\'':
					l.ptr++
					l.lexCharConstant(tok, start, token.WideCharConstant)
					return
				}
			}
			l.identifierInfo(tok)
			return
		}
		if size != 1 {
			dirty = true
		}
		l.ptr += size
		for isIdentBody(l.buf[l.ptr]) {
			l.ptr++
		}
	}
}

// identifierInfo interns the spelling, applies keyword kinds,
// and lets the preprocessor interpret the identifier.
func (l *Lexer) identifierInfo(tok *token.Token) {
	ii := l.idents.Get(l.cleanedText(tok))
	tok.Ident = ii
	if ii.Kind != token.Identifier {
		tok.Kind = ii.Kind
	}
	if l.handler != nil && !l.lexingRawMode {
		l.handler.HandleIdentifier(tok)
	}
}

func (l *Lexer) lexNumericConstant(tok *token.Token, start int, dirty bool) {
	for {
		c, size := l.peekCharAndSize(l.ptr)
		switch {
		case isIdentBody(c) || c == '.':
			// Part of the pp-number.
		case c == '+' || c == '-':
			// Sign is part of the number only after an exponent.
			prev := l.buf[l.ptr-1]
			if prev != 'e' && prev != 'E' && prev != 'p' && prev != 'P' {
				l.formNumber(tok, start, dirty)
				return
			}
		default:
			l.formNumber(tok, start, dirty)
			return
		}
		if size != 1 {
			dirty = true
		}
		l.ptr += size
	}
}

func (l *Lexer) formNumber(tok *token.Token, start int, dirty bool) {
	l.formToken(tok, start, token.NumericConstant)
	if dirty {
		tok.SetFlag(token.NeedsCleaning)
	}
}

func (l *Lexer) lexStringLiteral(tok *token.Token, start int, kind token.Kind) {
	dirty := false
	for {
		c, size := l.charAndSize(l.ptr)
		if c == '"' {
			l.ptr += size
			if size != 1 {
				dirty = true
			}
			break
		}
		if c == '\\' {
			// Escape-tolerant scan: the escaped character is skipped
			// without interpretation.
			l.ptr += size
			c2, size2 := l.charAndSize(l.ptr)
			if c2 != 0 && c2 != '\n' && c2 != '\r' {
				l.ptr += size2
				if size != 1 || size2 != 1 {
					dirty = true
				}
				continue
			}
			continue
		}
		if c == 0 || c == '\n' || c == '\r' {
			if !l.lexingRawMode {
				l.report(start, diag.ErrUnterminatedString)
			}
			// Resume after the offending region.
			l.formToken(tok, start, token.Unknown)
			return
		}
		if size != 1 {
			dirty = true
		}
		l.ptr += size
	}
	l.formToken(tok, start, kind)
	if dirty {
		tok.SetFlag(token.NeedsCleaning)
	}
}

func (l *Lexer) lexCharConstant(tok *token.Token, start int, kind token.Kind) {
	c, size := l.charAndSize(l.ptr)
	if c == '\'' {
		if !l.lexingRawMode {
			l.report(start, diag.ErrEmptyCharLiteral)
		}
		l.ptr += size
		l.formToken(tok, start, token.Unknown)
		return
	}
	dirty := false
	for {
		if c == '\\' {
			l.ptr += size
			c2, size2 := l.charAndSize(l.ptr)
			if c2 != 0 && c2 != '\n' && c2 != '\r' {
				l.ptr += size2
				if size != 1 || size2 != 1 {
					dirty = true
				}
			}
		} else if c == 0 || c == '\n' || c == '\r' {
			if !l.lexingRawMode {
				l.report(start, diag.ErrUnterminatedChar)
			}
			l.formToken(tok, start, token.Unknown)
			return
		} else {
			if size != 1 {
				dirty = true
			}
			l.ptr += size
		}
		c, size = l.charAndSize(l.ptr)
		if c == '\'' {
			l.ptr += size
			break
		}
	}
	l.formToken(tok, start, kind)
	if dirty {
		tok.SetFlag(token.NeedsCleaning)
	}
}

func (l *Lexer) lexAngledString(tok *token.Token, start int) {
	for {
		c, size := l.charAndSize(l.ptr)
		if c == '>' {
			l.ptr += size
			break
		}
		if c == 0 || c == '\n' || c == '\r' {
			if !l.lexingRawMode {
				l.report(start, diag.ErrExpectedFilename)
			}
			l.formToken(tok, start, token.Unknown)
			return
		}
		l.ptr += size
	}
	l.formToken(tok, start, token.AngleString)
}

func (l *Lexer) skipBCPLComment() {
	for {
		c, size := l.charAndSize(l.ptr)
		if c == 0 || c == '\n' || c == '\r' {
			return // the newline is lexed normally
		}
		l.ptr += size
	}
}

// skipBlockComment consumes a /*...*/ comment.
// l.ptr points just after the opening star.
// Returns false if the buffer ended inside the comment.
func (l *Lexer) skipBlockComment(start int) bool {
	for {
		c, size := l.charAndSize(l.ptr)
		switch c {
		case 0:
			if l.ptr >= l.end {
				if !l.lexingRawMode {
					l.report(start, diag.ErrUnterminatedBlockComment)
				}
				return false
			}
			l.ptr += size
		case '*':
			l.ptr += size
			if n, nsize := l.charAndSize(l.ptr); n == '/' {
				l.ptr += nsize
				return true
			}
		case '/':
			l.ptr += size
			if n, nsize := l.peekCharAndSize(l.ptr); n == '*' {
				// Block comments do not nest.
				if !l.lexingRawMode {
					l.report(l.ptr-size, diag.WarnNestedBlockComment)
				}
				l.ptr += nsize
			}
		default:
			l.ptr += size
		}
	}
}
