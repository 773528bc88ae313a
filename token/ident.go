package token

import "github.com/cee-lang/cee/lang"

// A Namespace discriminates which lookup space an identifier
// was declared in.
type Namespace uint8

const (
	NSOrdinary Namespace = iota
	NSTag                // struct/union/enum names
	NSMember
	NSLabel
	NSObjCProtocol
)

// IdentInfo is the one canonical record for an identifier spelling.
// All tokens with the same spelling share the same IdentInfo.
type IdentInfo struct {
	Name string
	// Kind is the keyword kind bound to this spelling
	// in the current dialect, or Identifier.
	Kind Kind
	// IsMacro is whether the spelling currently names a macro.
	IsMacro bool
	// Macro is the preprocessor's definition record, if any.
	Macro interface{}
	// NS is the namespace the identifier was last declared in.
	NS Namespace
}

// An IdentTable interns identifier spellings.
// The table is append-only: entries are never removed
// for the lifetime of a translation unit.
type IdentTable struct {
	idents map[string]*IdentInfo
}

// NewIdentTable returns a table with the dialect's keywords bound.
func NewIdentTable(opts lang.Opts) *IdentTable {
	t := &IdentTable{idents: make(map[string]*IdentInfo)}
	t.addKeywords(opts)
	return t
}

// Get interns a spelling, returning its canonical record.
// Get returns pointer-equal results for equal spellings.
func (t *IdentTable) Get(name string) *IdentInfo {
	if ii, ok := t.idents[name]; ok {
		return ii
	}
	ii := &IdentInfo{Name: name, Kind: Identifier}
	t.idents[name] = ii
	return ii
}

// Lookup returns the interned record for a spelling
// or nil if it was never interned.
func (t *IdentTable) Lookup(name string) *IdentInfo {
	return t.idents[name]
}

// Len returns the number of interned spellings.
func (t *IdentTable) Len() int { return len(t.idents) }

func (t *IdentTable) bind(name string, kind Kind) {
	t.Get(name).Kind = kind
}

func (t *IdentTable) addKeywords(opts lang.Opts) {
	always := map[string]Kind{
		"auto": KwAuto, "break": KwBreak, "case": KwCase,
		"char": KwChar, "const": KwConst, "continue": KwContinue,
		"default": KwDefault, "do": KwDo, "double": KwDouble,
		"else": KwElse, "enum": KwEnum, "extern": KwExtern,
		"float": KwFloat, "for": KwFor, "goto": KwGoto,
		"if": KwIf, "int": KwInt, "long": KwLong,
		"register": KwRegister, "return": KwReturn, "short": KwShort,
		"signed": KwSigned, "sizeof": KwSizeof, "static": KwStatic,
		"struct": KwStruct, "switch": KwSwitch, "typedef": KwTypedef,
		"union": KwUnion, "unsigned": KwUnsigned, "void": KwVoid,
		"volatile": KwVolatile, "while": KwWhile,
		"_Complex": KwComplex, "_Imaginary": KwImaginary,
		"_Decimal32": KwDecimal32, "_Decimal64": KwDecimal64,
		"_Decimal128": KwDecimal128,
		"__thread":    KwThread, "asm": KwAsm, "typeof": KwTypeof,
		"__restrict": KwRestrict, "__restrict__": KwRestrict,
		"__inline": KwInline, "__inline__": KwInline,
	}
	for name, kind := range always {
		t.bind(name, kind)
	}
	if opts.C99 || opts.CPlusPlus {
		t.bind("inline", KwInline)
	}
	if opts.C99 {
		t.bind("restrict", KwRestrict)
		t.bind("_Bool", KwBool)
	}
	if opts.CPlusPlus {
		t.bind("bool", KwCxxBool)
		t.bind("true", KwTrue)
		t.bind("false", KwFalse)
		t.bind("namespace", KwNamespace)
		t.bind("using", KwUsing)
		t.bind("template", KwTemplate)
		t.bind("new", KwNew)
		t.bind("delete", KwDelete)
		t.bind("this", KwThis)
		t.bind("throw", KwThrow)
	}
}

// A Selector is an interned Objective-C selector:
// either a unary name like alloc or a keyword selector
// like initWithBytes:length:.
type Selector struct {
	// Name is the full selector spelling, colons included.
	Name string
	// Args is the number of ':' pieces; 0 for unary selectors.
	Args int
}

// A SelectorTable interns selectors.
type SelectorTable struct {
	sels map[string]*Selector
}

// NewSelectorTable returns an empty selector table.
func NewSelectorTable() *SelectorTable {
	return &SelectorTable{sels: make(map[string]*Selector)}
}

// Get interns a full selector spelling.
func (t *SelectorTable) Get(name string) *Selector {
	if s, ok := t.sels[name]; ok {
		return s
	}
	args := 0
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			args++
		}
	}
	s := &Selector{Name: name, Args: args}
	t.sels[name] = s
	return s
}

// Unary reports whether the selector takes no arguments.
func (s *Selector) Unary() bool { return s.Args == 0 }
