// Package token defines the pp-token record produced by the lexer
// and the interning tables for identifiers and selectors.
package token

import "github.com/cee-lang/cee/source"

// A Kind identifies one token class.
type Kind uint16

const (
	Unknown Kind = iota
	EOF
	// EOM terminates a preprocessor directive line.
	EOM

	Identifier
	NumericConstant
	CharConstant
	WideCharConstant
	StringLiteral
	WideStringLiteral
	AngleString // <...> include filename

	// Punctuators.
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Period
	PeriodStar
	Ellipsis
	Amp
	AmpAmp
	AmpEqual
	Star
	StarEqual
	Plus
	PlusPlus
	PlusEqual
	Minus
	MinusMinus
	MinusEqual
	Arrow
	ArrowStar
	Tilde
	Exclaim
	ExclaimEqual
	Slash
	SlashEqual
	Percent
	PercentEqual
	Less
	LessLess
	LessEqual
	LessLessEqual
	LessQuestion
	LessQuestionEqual
	Greater
	GreaterGreater
	GreaterEqual
	GreaterGreaterEqual
	GreaterQuestion
	GreaterQuestionEqual
	Caret
	CaretEqual
	Pipe
	PipePipe
	PipeEqual
	Question
	Colon
	ColonColon
	Semi
	Equal
	EqualEqual
	Comma
	Hash
	HashHash
	HashAt
	At

	// Keywords. KwAuto must stay first and KwThrow last:
	// IsKeyword tests the range.
	KwAuto
	KwBreak
	KwCase
	KwChar
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStruct
	KwSwitch
	KwTypedef
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	KwBool
	KwComplex
	KwImaginary
	KwDecimal32
	KwDecimal64
	KwDecimal128
	KwThread
	KwAsm
	KwTypeof
	// C++ keywords.
	KwCxxBool
	KwTrue
	KwFalse
	KwNamespace
	KwUsing
	KwTemplate
	KwNew
	KwDelete
	KwThis
	KwThrow

	numKinds
)

// IsKeyword reports whether k is a keyword kind.
func (k Kind) IsKeyword() bool { return k >= KwAuto && k <= KwThrow }

// IsLiteral reports whether k is a literal constant kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case NumericConstant, CharConstant, WideCharConstant,
		StringLiteral, WideStringLiteral:
		return true
	}
	return false
}

// Token flags.
const (
	// StartOfLine marks the first token after a newline.
	StartOfLine uint8 = 1 << iota
	// LeadingSpace marks a token preceded by whitespace.
	LeadingSpace
	// NeedsCleaning marks a token whose spelling contains trigraphs
	// or escaped newlines that must be removed to read its value.
	NeedsCleaning
	// DisableExpand marks an identifier that must not be
	// macro-expanded again.
	DisableExpand
)

// A Token is one pp-token.
// Tokens are plain values; re-creating a token from its
// coordinate and length is idempotent.
type Token struct {
	Kind  Kind
	Loc   source.Loc
	Len   int
	Flags uint8
	// Ident is the interned identifier record,
	// set for Identifier and keyword kinds.
	Ident *IdentInfo
}

// Is reports whether the token has the given kind.
func (t *Token) Is(k Kind) bool { return t.Kind == k }

// IsNot reports whether the token does not have the given kind.
func (t *Token) IsNot(k Kind) bool { return t.Kind != k }

// Has reports whether a flag is set.
func (t *Token) Has(flag uint8) bool { return t.Flags&flag != 0 }

// SetFlag sets a flag.
func (t *Token) SetFlag(flag uint8) { t.Flags |= flag }

// ClearFlag clears a flag.
func (t *Token) ClearFlag(flag uint8) { t.Flags &^= flag }

// End returns the coordinate one past the last byte of the token.
func (t *Token) End() source.Loc { return t.Loc.WithOffset(t.Len) }

// Name returns the interned spelling for identifier-class tokens
// and "" otherwise.
func (t *Token) Name() string {
	if t.Ident == nil {
		return ""
	}
	return t.Ident.Name
}

var punctSpellings = map[Kind]string{
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]",
	LBrace: "{", RBrace: "}", Period: ".", PeriodStar: ".*",
	Ellipsis: "...", Amp: "&", AmpAmp: "&&", AmpEqual: "&=",
	Star: "*", StarEqual: "*=", Plus: "+", PlusPlus: "++",
	PlusEqual: "+=", Minus: "-", MinusMinus: "--", MinusEqual: "-=",
	Arrow: "->", ArrowStar: "->*", Tilde: "~", Exclaim: "!",
	ExclaimEqual: "!=", Slash: "/", SlashEqual: "/=", Percent: "%",
	PercentEqual: "%=", Less: "<", LessLess: "<<", LessEqual: "<=",
	LessLessEqual: "<<=", LessQuestion: "<?", LessQuestionEqual: "<?=",
	Greater: ">", GreaterGreater: ">>", GreaterEqual: ">=",
	GreaterGreaterEqual: ">>=", GreaterQuestion: ">?",
	GreaterQuestionEqual: ">?=", Caret: "^", CaretEqual: "^=",
	Pipe: "|", PipePipe: "||", PipeEqual: "|=", Question: "?",
	Colon: ":", ColonColon: "::", Semi: ";", Equal: "=",
	EqualEqual: "==", Comma: ",", Hash: "#", HashHash: "##",
	HashAt: "#@", At: "@",
}

// Spelling returns the fixed spelling of punctuator kinds,
// or "" for kinds without one.
func (k Kind) Spelling() string { return punctSpellings[k] }

func (k Kind) String() string {
	switch {
	case k == Unknown:
		return "unknown"
	case k == EOF:
		return "eof"
	case k == EOM:
		return "eom"
	case k == Identifier:
		return "identifier"
	case k == NumericConstant:
		return "numeric constant"
	case k == CharConstant:
		return "character constant"
	case k == WideCharConstant:
		return "wide character constant"
	case k == StringLiteral:
		return "string literal"
	case k == WideStringLiteral:
		return "wide string literal"
	case k == AngleString:
		return "angle string"
	case k.IsKeyword():
		return "keyword"
	default:
		if s := k.Spelling(); s != "" {
			return "'" + s + "'"
		}
		return "token"
	}
}
