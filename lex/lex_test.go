package lex

import (
	"testing"

	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
	"github.com/google/go-cmp/cmp"
)

type collector struct {
	ids  []diag.ID
	msgs []string
}

func (c *collector) Handle(level diag.Level, loc source.Loc, id diag.ID, msg string, ranges []diag.Range) bool {
	c.ids = append(c.ids, id)
	c.msgs = append(c.msgs, msg)
	return false
}

func newTestLexer(src string, opts lang.Opts) (*Lexer, *collector) {
	m := source.NewManager()
	f := m.AddFile("test.c", []byte(src))
	c := &collector{}
	e := diag.NewEngine(diag.Config{WarnOnExtensions: true}, m, c)
	idents := token.NewIdentTable(opts)
	return New(f, m, opts, e, idents, nil), c
}

func lexKinds(t *testing.T, src string, opts lang.Opts) []token.Kind {
	t.Helper()
	l, _ := newTestLexer(src, opts)
	var kinds []token.Kind
	var tok token.Token
	for {
		l.Lex(&tok)
		if tok.Is(token.EOF) {
			return kinds
		}
		kinds = append(kinds, tok.Kind)
	}
}

func TestTokenKinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		opts lang.Opts
		want []token.Kind
	}{
		{"int x;", lang.Opts{}, []token.Kind{token.KwInt, token.Identifier, token.Semi}},
		{"a+++b", lang.Opts{}, []token.Kind{token.Identifier, token.PlusPlus, token.Plus, token.Identifier}},
		{"x <<= 1 >> 2", lang.Opts{}, []token.Kind{token.Identifier, token.LessLessEqual, token.NumericConstant, token.GreaterGreater, token.NumericConstant}},
		{"a->b .* c", lang.Opts{CPlusPlus: true}, []token.Kind{token.Identifier, token.Arrow, token.Identifier, token.PeriodStar, token.Identifier}},
		{"a::b", lang.Opts{CPlusPlus: true}, []token.Kind{token.Identifier, token.ColonColon, token.Identifier}},
		{"a::b", lang.Opts{}, []token.Kind{token.Identifier, token.Colon, token.Colon, token.Identifier}},
		{"...,.5", lang.Opts{}, []token.Kind{token.Ellipsis, token.Comma, token.NumericConstant}},
		{`"str" 'c' L"w" L'c'`, lang.Opts{}, []token.Kind{token.StringLiteral, token.CharConstant, token.WideStringLiteral, token.WideCharConstant}},
		{"1e+12 0x1.ap+3 1.5f 10ull", lang.Opts{HexFloats: true}, []token.Kind{token.NumericConstant, token.NumericConstant, token.NumericConstant, token.NumericConstant}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.src, func(t *testing.T) {
			t.Parallel()
			got := lexKinds(t, test.src, test.opts)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDigraphs(t *testing.T) {
	t.Parallel()
	want := []token.Kind{
		token.LBracket, token.RBracket, token.LBrace, token.RBrace,
		token.HashHash,
	}
	got := lexKinds(t, "<: :> <% %> %:%:", lang.Opts{Digraphs: true})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("digraphs (-want +got):\n%s", diff)
	}
	// Without digraphs the same text lexes as ordinary punctuators.
	want = []token.Kind{
		token.Less, token.Colon, token.Colon, token.Greater,
		token.Less, token.Percent, token.Percent, token.Greater,
		token.Percent, token.Colon, token.Percent, token.Colon,
	}
	got = lexKinds(t, "<: :> <% %> %:%:", lang.Opts{})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("no digraphs (-want +got):\n%s", diff)
	}
}

func TestMinMaxOperators(t *testing.T) {
	t.Parallel()
	l, c := newTestLexer("a <? b >?= c", lang.Opts{CPPMinMax: true})
	var kinds []token.Kind
	var tok token.Token
	for {
		l.Lex(&tok)
		if tok.Is(token.EOF) {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.Identifier, token.LessQuestion, token.Identifier,
		token.GreaterQuestionEqual, token.Identifier,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("min-max kinds (-want +got):\n%s", diff)
	}
	warns := 0
	for _, id := range c.ids {
		if id == diag.WarnMinMaxDeprecated {
			warns++
		}
	}
	if warns != 2 {
		t.Errorf("got %d deprecation warnings, want 2", warns)
	}
}

func TestLexInvariantEndOfToken(t *testing.T) {
	t.Parallel()
	src := "int foo = 0x1f; /*c*/ bar(baz, \"s\");"
	l, _ := newTestLexer(src, lang.Opts{})
	var tok token.Token
	for {
		l.Lex(&tok)
		if tok.Is(token.EOF) {
			return
		}
		// The token's span ends exactly at the lexer's position.
		wantEnd := l.Offset()
		gotEnd := tok.Loc.OffsetFrom(l.locOf(0)) + tok.Len
		if gotEnd != wantEnd {
			t.Fatalf("token %v: loc+len = %d, lexer at %d", tok.Kind, gotEnd, wantEnd)
		}
	}
}

func TestTrigraphs(t *testing.T) {
	t.Parallel()
	// Enabled: ??= is #, which at start of line without a handler
	// simply lexes as a hash token.
	l, c := newTestLexer("x ??( y", lang.Opts{Trigraphs: true})
	var tok token.Token
	l.Lex(&tok) // x
	l.Lex(&tok)
	if tok.IsNot(token.LBracket) {
		t.Errorf("??( lexed as %v, want [", tok.Kind)
	}
	found := false
	for _, id := range c.ids {
		if id == diag.WarnTrigraphConverted {
			found = true
		}
	}
	if !found {
		t.Error("no trigraph-converted warning")
	}

	// Disabled: the ? is returned and a trigraph-ignored warning issued.
	l, c = newTestLexer("??(", lang.Opts{})
	l.Lex(&tok)
	if tok.IsNot(token.Question) {
		t.Errorf("disabled trigraph lexed as %v, want ?", tok.Kind)
	}
	if len(c.ids) == 0 || c.ids[0] != diag.WarnTrigraphIgnored {
		t.Errorf("diagnostics = %v, want trigraph-ignored first", c.ids)
	}
}

func TestEscapedNewline(t *testing.T) {
	t.Parallel()
	l, _ := newTestLexer("fo\\\no = 1", lang.Opts{})
	var tok token.Token
	l.Lex(&tok)
	if tok.IsNot(token.Identifier) {
		t.Fatalf("got %v, want identifier", tok.Kind)
	}
	if !tok.Has(token.NeedsCleaning) {
		t.Error("NeedsCleaning not set on spliced identifier")
	}
	if got := l.Spelling(&tok); got != "foo" {
		t.Errorf("Spelling = %q, want %q", got, "foo")
	}
	if tok.Name() != "foo" {
		t.Errorf("interned name = %q, want %q", tok.Name(), "foo")
	}
}

func TestEscapedNewlineCRLF(t *testing.T) {
	t.Parallel()
	for _, nl := range []string{"\\\r\n", "\\\n\r", "\\ \t\n"} {
		l, _ := newTestLexer("a"+nl+"b", lang.Opts{})
		var tok token.Token
		l.Lex(&tok)
		if got := l.Spelling(&tok); got != "ab" {
			t.Errorf("splice %q: Spelling = %q, want ab", nl, got)
		}
	}
}

func TestComments(t *testing.T) {
	t.Parallel()
	got := lexKinds(t, "a /* x */ b // y\nc", lang.Opts{BCPLComments: true})
	want := []token.Kind{token.Identifier, token.Identifier, token.Identifier}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comments (-want +got):\n%s", diff)
	}

	_, c := func() (*Lexer, *collector) {
		l, c := newTestLexer("/* a /* b */ c", lang.Opts{})
		var tok token.Token
		for {
			l.Lex(&tok)
			if tok.Is(token.EOF) {
				break
			}
		}
		return l, c
	}()
	foundNested := false
	for _, id := range c.ids {
		if id == diag.WarnNestedBlockComment {
			foundNested = true
		}
	}
	if !foundNested {
		t.Error("no nested-comment warning")
	}

	l, c2 := newTestLexer("/* never closed", lang.Opts{})
	var tok token.Token
	l.Lex(&tok)
	if tok.IsNot(token.EOF) {
		t.Errorf("unterminated comment lexed %v, want EOF", tok.Kind)
	}
	if len(c2.ids) == 0 || c2.ids[0] != diag.ErrUnterminatedBlockComment {
		t.Errorf("diagnostics = %v, want unterminated comment", c2.ids)
	}
}

func TestBCPLCommentExtension(t *testing.T) {
	t.Parallel()
	_, c := func() (*Lexer, *collector) {
		l, c := newTestLexer("// hi\nx", lang.Opts{})
		var tok token.Token
		for {
			l.Lex(&tok)
			if tok.Is(token.EOF) {
				break
			}
		}
		return l, c
	}()
	if len(c.ids) == 0 || c.ids[0] != diag.ExtBCPLComment {
		t.Errorf("diagnostics = %v, want BCPL extension warning", c.ids)
	}
}

func TestUnterminatedString(t *testing.T) {
	t.Parallel()
	l, c := newTestLexer("\"abc\nnext", lang.Opts{})
	var tok token.Token
	l.Lex(&tok)
	if tok.IsNot(token.Unknown) {
		t.Errorf("unterminated string lexed as %v, want unknown", tok.Kind)
	}
	if len(c.ids) != 1 || c.ids[0] != diag.ErrUnterminatedString {
		t.Errorf("diagnostics = %v", c.ids)
	}
	// Lexing resumes on the next line.
	l.Lex(&tok)
	if tok.IsNot(token.Identifier) || tok.Name() != "next" {
		t.Errorf("after recovery got %v %q", tok.Kind, tok.Name())
	}
}

func TestStartOfLineAndLeadingSpace(t *testing.T) {
	t.Parallel()
	l, _ := newTestLexer("a b\nc", lang.Opts{})
	var a, b, c token.Token
	l.Lex(&a)
	l.Lex(&b)
	l.Lex(&c)
	if !a.Has(token.StartOfLine) || a.Has(token.LeadingSpace) {
		t.Errorf("a flags = %b", a.Flags)
	}
	if b.Has(token.StartOfLine) || !b.Has(token.LeadingSpace) {
		t.Errorf("b flags = %b", b.Flags)
	}
	if !c.Has(token.StartOfLine) {
		t.Errorf("c flags = %b", c.Flags)
	}
}

type eomHandler struct {
	l    *Lexer
	toks []token.Kind
}

func (h *eomHandler) HandleDirective(hash *token.Token) {
	var tok token.Token
	for {
		h.l.Lex(&tok)
		h.toks = append(h.toks, tok.Kind)
		if tok.Is(token.EOM) {
			return
		}
	}
}
func (h *eomHandler) HandleEndOfFile(tok *token.Token) bool { return false }
func (h *eomHandler) HandleIdentifier(tok *token.Token)     {}
func (h *eomHandler) Lex(tok *token.Token)                  { h.l.Lex(tok) }

func TestDirectiveEOM(t *testing.T) {
	t.Parallel()
	m := source.NewManager()
	f := m.AddFile("t.c", []byte("#define X 1\nY"))
	e := diag.NewEngine(diag.Config{}, m, &collector{})
	idents := token.NewIdentTable(lang.Opts{})
	h := &eomHandler{}
	l := New(f, m, lang.Opts{}, e, idents, h)
	h.l = l

	var tok token.Token
	l.Lex(&tok)
	// The directive was consumed by the handler; the next token is Y.
	if tok.IsNot(token.Identifier) || tok.Name() != "Y" {
		t.Fatalf("got %v %q, want identifier Y", tok.Kind, tok.Name())
	}
	want := []token.Kind{token.Identifier, token.Identifier, token.NumericConstant, token.EOM}
	if diff := cmp.Diff(want, h.toks); diff != "" {
		t.Errorf("directive tokens (-want +got):\n%s", diff)
	}
}

func TestAngledString(t *testing.T) {
	t.Parallel()
	l, _ := newTestLexer("<stdio.h>", lang.Opts{})
	l.SetParsingFilename(true)
	var tok token.Token
	l.Lex(&tok)
	if tok.IsNot(token.AngleString) {
		t.Fatalf("got %v, want angle string", tok.Kind)
	}
	if got := l.Spelling(&tok); got != "<stdio.h>" {
		t.Errorf("Spelling = %q", got)
	}
	// Without filename mode < is just less-than.
	l2, _ := newTestLexer("<stdio.h>", lang.Opts{})
	l2.Lex(&tok)
	if tok.IsNot(token.Less) {
		t.Errorf("got %v, want <", tok.Kind)
	}
}

func TestRawModeSuppressesAndReturnsEOF(t *testing.T) {
	t.Parallel()
	l, c := newTestLexer("??( x", lang.Opts{})
	l.SetRawMode(true)
	var tok token.Token
	for {
		l.Lex(&tok)
		if tok.Is(token.EOF) {
			break
		}
	}
	if len(c.ids) != 0 {
		t.Errorf("raw mode issued diagnostics: %v", c.ids)
	}
}

func TestNumericLiterals(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text     string
		radix    int
		intVal   uint64
		floating bool
		floatVal float64
		unsigned bool
		longlong bool
	}{
		{"0", 10, 0, false, 0, false, false},
		{"42", 10, 42, false, 0, false, false},
		{"0x1f", 16, 31, false, 0, false, false},
		{"0755", 8, 493, false, 0, false, false},
		{"10ull", 10, 10, false, 0, true, true},
		{"1e+12", 10, 0, true, 1e12, false, false},
		{"0x1.ap+3", 16, 0, true, 13, false, false},
		{"1.5f", 10, 0, true, 1.5, false, false},
		{"3.", 10, 0, true, 3, false, false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			e := diag.NewEngine(diag.Config{}, nil, nil)
			n := ParseNumericLiteral(test.text, source.NoLoc, lang.Opts{HexFloats: true}, e)
			if n.HadError {
				t.Fatal("unexpected literal error")
			}
			if n.IsFloating != test.floating {
				t.Fatalf("IsFloating = %v", n.IsFloating)
			}
			if test.floating {
				if got := n.FloatValue(); got != test.floatVal {
					t.Errorf("FloatValue = %g, want %g", got, test.floatVal)
				}
				return
			}
			if n.Radix != test.radix {
				t.Errorf("Radix = %d, want %d", n.Radix, test.radix)
			}
			v, overflow := n.IntValue()
			if overflow || v != test.intVal {
				t.Errorf("IntValue = %d (overflow=%v), want %d", v, overflow, test.intVal)
			}
			if n.IsUnsigned != test.unsigned || n.IsLongLong != test.longlong {
				t.Errorf("suffix flags u=%v ll=%v", n.IsUnsigned, n.IsLongLong)
			}
		})
	}
}

func TestBadSuffix(t *testing.T) {
	t.Parallel()
	c := &collector{}
	e := diag.NewEngine(diag.Config{}, nil, c)
	n := ParseNumericLiteral("1q", source.NoLoc, lang.Opts{}, e)
	if !n.HadError {
		t.Error("1q did not fail")
	}
	if len(c.ids) != 1 || c.ids[0] != diag.ErrInvalidSuffix {
		t.Errorf("diagnostics = %v", c.ids)
	}
}

func TestCharAndStringValues(t *testing.T) {
	t.Parallel()
	e := diag.NewEngine(diag.Config{}, nil, nil)
	if v, wide := ParseCharLiteral("'a'", source.NoLoc, e); v != 'a' || wide {
		t.Errorf("'a' = %d wide=%v", v, wide)
	}
	if v, _ := ParseCharLiteral(`'\n'`, source.NoLoc, e); v != '\n' {
		t.Errorf(`'\n' = %d`, v)
	}
	if v, _ := ParseCharLiteral(`'\x41'`, source.NoLoc, e); v != 'A' {
		t.Errorf(`'\x41' = %d`, v)
	}
	if v, _ := ParseCharLiteral(`'\101'`, source.NoLoc, e); v != 'A' {
		t.Errorf(`'\101' = %d`, v)
	}
	if v, wide := ParseCharLiteral("L'z'", source.NoLoc, e); v != 'z' || !wide {
		t.Errorf("L'z' = %d wide=%v", v, wide)
	}
	if p, _ := ParseStringLiteral(`"a\tb"`, source.NoLoc, e); string(p) != "a\tb" {
		t.Errorf(`payload = %q`, p)
	}
	if p, wide := ParseStringLiteral(`L"hi"`, source.NoLoc, e); string(p) != "hi" || !wide {
		t.Errorf("L payload = %q wide=%v", p, wide)
	}
}
