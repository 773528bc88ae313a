package lex

import (
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/token"
)

// lexPunctuator dispatches a punctuator starting with c, which has
// already been consumed.
func (l *Lexer) lexPunctuator(tok *token.Token, start int, c byte) {
	kind := token.Unknown
	switch c {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semi
	case '~':
		kind = token.Tilde
	case '?':
		kind = token.Question
	case '@':
		kind = token.At

	case '+':
		switch n, size := l.peekCharAndSize(l.ptr); n {
		case '+':
			l.ptr += size
			kind = token.PlusPlus
		case '=':
			l.ptr += size
			kind = token.PlusEqual
		default:
			kind = token.Plus
		}
	case '-':
		switch n, size := l.peekCharAndSize(l.ptr); n {
		case '-':
			l.ptr += size
			kind = token.MinusMinus
		case '=':
			l.ptr += size
			kind = token.MinusEqual
		case '>':
			l.ptr += size
			if n2, size2 := l.peekCharAndSize(l.ptr); n2 == '*' && l.opts.CPlusPlus {
				l.ptr += size2
				kind = token.ArrowStar
			} else {
				kind = token.Arrow
			}
		default:
			kind = token.Minus
		}
	case '*':
		if n, size := l.peekCharAndSize(l.ptr); n == '=' {
			l.ptr += size
			kind = token.StarEqual
		} else {
			kind = token.Star
		}
	case '/':
		if n, size := l.peekCharAndSize(l.ptr); n == '=' {
			l.ptr += size
			kind = token.SlashEqual
		} else {
			kind = token.Slash
		}
	case '!':
		if n, size := l.peekCharAndSize(l.ptr); n == '=' {
			l.ptr += size
			kind = token.ExclaimEqual
		} else {
			kind = token.Exclaim
		}
	case '=':
		if n, size := l.peekCharAndSize(l.ptr); n == '=' {
			l.ptr += size
			kind = token.EqualEqual
		} else {
			kind = token.Equal
		}
	case '^':
		if n, size := l.peekCharAndSize(l.ptr); n == '=' {
			l.ptr += size
			kind = token.CaretEqual
		} else {
			kind = token.Caret
		}
	case '&':
		switch n, size := l.peekCharAndSize(l.ptr); n {
		case '&':
			l.ptr += size
			kind = token.AmpAmp
		case '=':
			l.ptr += size
			kind = token.AmpEqual
		default:
			kind = token.Amp
		}
	case '|':
		switch n, size := l.peekCharAndSize(l.ptr); n {
		case '|':
			l.ptr += size
			kind = token.PipePipe
		case '=':
			l.ptr += size
			kind = token.PipeEqual
		default:
			kind = token.Pipe
		}

	case '<':
		switch n, size := l.peekCharAndSize(l.ptr); {
		case n == '<':
			l.ptr += size
			if n2, size2 := l.peekCharAndSize(l.ptr); n2 == '=' {
				l.ptr += size2
				kind = token.LessLessEqual
			} else {
				kind = token.LessLess
			}
		case n == '=':
			l.ptr += size
			kind = token.LessEqual
		case n == ':' && l.opts.Digraphs:
			l.ptr += size
			kind = token.LBracket
		case n == '%' && l.opts.Digraphs:
			l.ptr += size
			kind = token.LBrace
		case n == '?' && l.opts.CPPMinMax:
			l.report(start, diag.WarnMinMaxDeprecated)
			l.ptr += size
			if n2, size2 := l.peekCharAndSize(l.ptr); n2 == '=' {
				l.ptr += size2
				kind = token.LessQuestionEqual
			} else {
				kind = token.LessQuestion
			}
		default:
			kind = token.Less
		}
	case '>':
		switch n, size := l.peekCharAndSize(l.ptr); {
		case n == '>':
			l.ptr += size
			if n2, size2 := l.peekCharAndSize(l.ptr); n2 == '=' {
				l.ptr += size2
				kind = token.GreaterGreaterEqual
			} else {
				kind = token.GreaterGreater
			}
		case n == '=':
			l.ptr += size
			kind = token.GreaterEqual
		case n == '?' && l.opts.CPPMinMax:
			l.report(start, diag.WarnMinMaxDeprecated)
			l.ptr += size
			if n2, size2 := l.peekCharAndSize(l.ptr); n2 == '=' {
				l.ptr += size2
				kind = token.GreaterQuestionEqual
			} else {
				kind = token.GreaterQuestion
			}
		default:
			kind = token.Greater
		}

	case ':':
		switch n, size := l.peekCharAndSize(l.ptr); {
		case n == '>' && l.opts.Digraphs:
			l.ptr += size
			kind = token.RBracket
		case n == ':' && l.opts.CPlusPlus:
			l.ptr += size
			kind = token.ColonColon
		default:
			kind = token.Colon
		}

	case '%':
		switch n, size := l.peekCharAndSize(l.ptr); {
		case n == '=':
			l.ptr += size
			kind = token.PercentEqual
		case n == '>' && l.opts.Digraphs:
			l.ptr += size
			kind = token.RBrace
		case n == ':' && l.opts.Digraphs:
			l.ptr += size
			kind = token.Hash
			if n2, size2 := l.peekCharAndSize(l.ptr); n2 == '%' {
				if n3, size3 := l.peekCharAndSize(l.ptr + size2); n3 == ':' {
					l.ptr += size2 + size3
					kind = token.HashHash
				}
			} else if n2 == '@' && l.opts.Microsoft {
				l.ptr += size2
				kind = token.HashAt
			}
		default:
			kind = token.Percent
		}

	case '#':
		switch n, size := l.peekCharAndSize(l.ptr); {
		case n == '#':
			l.ptr += size
			kind = token.HashHash
		case n == '@' && l.opts.Microsoft:
			l.ptr += size
			kind = token.HashAt
		default:
			kind = token.Hash
		}

	default:
		if !l.lexingRawMode {
			l.report(start, diag.ErrInvalidCharacter)
		}
		l.formToken(tok, start, token.Unknown)
		return
	}

	l.formToken(tok, start, kind)

	// A # at the start of a logical line begins a directive.
	// The directive may push or pop buffers, so the token after it
	// comes from the handler, not from this buffer.
	if kind == token.Hash && tok.Has(token.StartOfLine) &&
		!l.lexingRawMode && l.handler != nil {
		l.parsingPreprocessorDirective = true
		l.handler.HandleDirective(tok)
		l.handler.Lex(tok)
	}
}
