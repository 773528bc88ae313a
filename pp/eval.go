package pp

import (
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lex"
	"github.com/cee-lang/cee/token"
)

// The #if evaluator covers the directive subset the checkers'
// inputs use: integer constants, defined(X), !, &&, ||, and
// parentheses. Object-like macros are expanded by evaluating
// their bodies.

const maxEvalDepth = 32

func (p *Preprocessor) evalTokens(toks []token.Token) bool {
	v, _ := p.evalOr(toks, 0)
	return v
}

func (p *Preprocessor) evalOr(toks []token.Token, depth int) (bool, []token.Token) {
	v, rest := p.evalAnd(toks, depth)
	for len(rest) > 0 && rest[0].Is(token.PipePipe) {
		var r bool
		r, rest = p.evalAnd(rest[1:], depth)
		v = v || r
	}
	return v, rest
}

func (p *Preprocessor) evalAnd(toks []token.Token, depth int) (bool, []token.Token) {
	v, rest := p.evalUnary(toks, depth)
	for len(rest) > 0 && rest[0].Is(token.AmpAmp) {
		var r bool
		r, rest = p.evalUnary(rest[1:], depth)
		v = v && r
	}
	return v, rest
}

func (p *Preprocessor) evalUnary(toks []token.Token, depth int) (bool, []token.Token) {
	if len(toks) == 0 || depth > maxEvalDepth {
		return false, nil
	}
	t := &toks[0]
	switch {
	case t.Is(token.Exclaim):
		v, rest := p.evalUnary(toks[1:], depth+1)
		return !v, rest

	case t.Is(token.LParen):
		v, rest := p.evalOr(toks[1:], depth+1)
		if len(rest) > 0 && rest[0].Is(token.RParen) {
			rest = rest[1:]
		}
		return v, rest

	case t.Is(token.NumericConstant):
		n := lex.ParseNumericLiteral(p.Spelling(t), t.Loc, p.opts, p.evalDiags())
		if n.HadError || n.IsFloating {
			return false, toks[1:]
		}
		v, _ := n.IntValue()
		return v != 0, toks[1:]

	case t.Ident != nil && t.Ident.Name == "defined":
		return evalDefined(toks[1:])

	case t.Ident != nil:
		// An object-like macro evaluates to its body;
		// anything else is 0.
		if m, ok := t.Ident.Macro.(*Macro); ok && t.Ident.IsMacro && !m.FunctionLike {
			v, _ := p.evalOr(m.Body, depth+1)
			return v, toks[1:]
		}
		return false, toks[1:]
	}
	return false, toks[1:]
}

func evalDefined(toks []token.Token) (bool, []token.Token) {
	paren := false
	if len(toks) > 0 && toks[0].Is(token.LParen) {
		paren = true
		toks = toks[1:]
	}
	if len(toks) == 0 || toks[0].Ident == nil {
		return false, toks
	}
	v := toks[0].Ident.IsMacro
	toks = toks[1:]
	if paren && len(toks) > 0 && toks[0].Is(token.RParen) {
		toks = toks[1:]
	}
	return v, toks
}

// evalDiags returns a throwaway engine so malformed directive
// constants do not pollute the unit's diagnostics.
func (p *Preprocessor) evalDiags() *diag.Engine {
	return diag.NewEngine(diag.Config{}, nil, nil)
}
