package token

import (
	"testing"

	"github.com/cee-lang/cee/lang"
)

func TestInternPointerEqual(t *testing.T) {
	t.Parallel()
	tab := NewIdentTable(lang.Opts{})
	a := tab.Get("frobnicate")
	b := tab.Get("frobnicate")
	if a != b {
		t.Error("interning the same spelling twice gave distinct records")
	}
	if a == tab.Get("frobnicatf") {
		t.Error("distinct spellings share a record")
	}
}

func TestKeywordBinding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opts lang.Opts
		id   string
		want Kind
	}{
		{"int always", lang.Opts{}, "int", KwInt},
		{"__thread always", lang.Opts{}, "__thread", KwThread},
		{"restrict c89", lang.Opts{}, "restrict", Identifier},
		{"restrict c99", lang.Opts{C99: true}, "restrict", KwRestrict},
		{"_Bool c99", lang.Opts{C99: true}, "_Bool", KwBool},
		{"inline c89", lang.Opts{}, "inline", Identifier},
		{"inline c99", lang.Opts{C99: true}, "inline", KwInline},
		{"bool c", lang.Opts{}, "bool", Identifier},
		{"bool c++", lang.Opts{CPlusPlus: true}, "bool", KwCxxBool},
		{"new c++", lang.Opts{CPlusPlus: true}, "new", KwNew},
		{"new c", lang.Opts{}, "new", Identifier},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			tab := NewIdentTable(test.opts)
			if got := tab.Get(test.id).Kind; got != test.want {
				t.Errorf("%q bound to %v, want %v", test.id, got, test.want)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()
	if !KwAuto.IsKeyword() || !KwThrow.IsKeyword() || !KwWhile.IsKeyword() {
		t.Error("keyword kinds not recognized")
	}
	if Identifier.IsKeyword() || PlusPlus.IsKeyword() {
		t.Error("non-keyword kinds recognized as keywords")
	}
	if !NumericConstant.IsLiteral() || !WideStringLiteral.IsLiteral() {
		t.Error("literal kinds not recognized")
	}
	if got := PlusPlus.Spelling(); got != "++" {
		t.Errorf("PlusPlus.Spelling() = %q", got)
	}
}

func TestSelectors(t *testing.T) {
	t.Parallel()
	tab := NewSelectorTable()
	alloc := tab.Get("alloc")
	if !alloc.Unary() {
		t.Error("alloc is not unary")
	}
	if alloc != tab.Get("alloc") {
		t.Error("selector interning gave distinct records")
	}
	init := tab.Get("initWithBytes:length:")
	if init.Args != 2 {
		t.Errorf("initWithBytes:length: Args = %d, want 2", init.Args)
	}
}
