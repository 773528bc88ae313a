package lex

import (
	"strconv"
	"strings"

	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
)

// cleanedText returns the token's logical spelling with trigraphs
// and escaped newlines removed.
func (l *Lexer) cleanedText(tok *token.Token) string {
	start := tok.Loc.OffsetFrom(l.fileLoc)
	raw := l.buf[start : start+tok.Len]
	if !tok.Has(token.NeedsCleaning) {
		return string(raw)
	}
	var s strings.Builder
	for p := start; p < start+tok.Len; {
		c, size := l.peekCharAndSize(p)
		s.WriteByte(c)
		p += size
	}
	return s.String()
}

// Spelling returns the cleaned spelling of a token from this buffer.
func (l *Lexer) Spelling(tok *token.Token) string { return l.cleanedText(tok) }

// Spelling returns the cleaned spelling of a token from whichever
// buffer of the manager it came from.
func Spelling(m *source.Manager, opts lang.Opts, tok *token.Token) string {
	f, _ := m.Decompose(tok.Loc)
	if f == nil {
		return ""
	}
	l := &Lexer{buf: f.Buf, end: f.Size(), fileLoc: m.LocOf(f.ID(), 0), opts: opts}
	return l.cleanedText(tok)
}

// A NumericLiteral is the decoded form of a numeric-constant token.
type NumericLiteral struct {
	Radix      int
	IsUnsigned bool
	IsLong     bool
	IsLongLong bool
	IsFloat    bool // f suffix
	IsFloating bool // has a period or exponent
	HadError   bool

	digits string // the digit text without prefix or suffix
	text   string // full cleaned spelling
}

// ParseNumericLiteral decodes the cleaned spelling of a numeric
// constant. Errors are reported against loc.
func ParseNumericLiteral(text string, loc source.Loc, opts lang.Opts, diags *diag.Engine) NumericLiteral {
	n := NumericLiteral{Radix: 10, text: text}
	s := text
	i := 0

	fail := func(id diag.ID, args ...interface{}) NumericLiteral {
		diags.Report(loc, id, args...)
		n.HadError = true
		return n
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n.Radix = 16
		i = 2
		start := i
		for i < len(s) && isHexDigit(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '.' {
			n.IsFloating = true
			i++
			for i < len(s) && isHexDigit(s[i]) {
				i++
			}
		}
		if i < len(s) && (s[i] == 'p' || s[i] == 'P') {
			n.IsFloating = true
			i++
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
			d := i
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			if i == d {
				return fail(diag.ErrExponentNoDigits)
			}
		} else if n.IsFloating {
			return fail(diag.ErrHexFloatNoExponent)
		}
		if n.IsFloating && !opts.HexFloats {
			diags.Report(loc, diag.ExtHexFloat)
		}
		n.digits = s[start:i]
	} else {
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '.' {
			n.IsFloating = true
			i++
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
		if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
			n.IsFloating = true
			i++
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
			d := i
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			if i == d {
				return fail(diag.ErrExponentNoDigits)
			}
		}
		n.digits = s[start:i]
		if !n.IsFloating && len(s) > 1 && s[0] == '0' {
			n.Radix = 8
			for _, c := range n.digits {
				if c == '8' || c == '9' {
					return fail(diag.ErrInvalidNumber)
				}
			}
		}
	}

	// Suffix.
	suffix := s[i:]
	for j := 0; j < len(suffix); j++ {
		switch suffix[j] {
		case 'u', 'U':
			if n.IsUnsigned || n.IsFloating {
				return fail(diag.ErrInvalidSuffix, suffix, constantKindName(n.IsFloating))
			}
			n.IsUnsigned = true
		case 'l', 'L':
			if n.IsLong || n.IsLongLong {
				return fail(diag.ErrInvalidSuffix, suffix, constantKindName(n.IsFloating))
			}
			if j+1 < len(suffix) && suffix[j+1] == suffix[j] {
				if n.IsFloating {
					return fail(diag.ErrInvalidSuffix, suffix, "floating")
				}
				n.IsLongLong = true
				j++
			} else {
				n.IsLong = true
			}
		case 'f', 'F':
			if !n.IsFloating || n.IsFloat {
				return fail(diag.ErrInvalidSuffix, suffix, constantKindName(n.IsFloating))
			}
			n.IsFloat = true
		default:
			return fail(diag.ErrInvalidSuffix, suffix, constantKindName(n.IsFloating))
		}
	}
	return n
}

func constantKindName(floating bool) string {
	if floating {
		return "floating"
	}
	return "integer"
}

// IsInteger reports whether the literal is an integer constant.
func (n *NumericLiteral) IsInteger() bool { return !n.IsFloating }

// IntValue returns the integer value.
// overflow is true if the value does not fit in 64 bits.
func (n *NumericLiteral) IntValue() (v uint64, overflow bool) {
	digits := n.digits
	if n.Radix == 8 {
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			digits = "0"
		}
	}
	v, err := strconv.ParseUint(digits, n.Radix, 64)
	return v, err != nil
}

// FloatValue returns the floating value.
func (n *NumericLiteral) FloatValue() float64 {
	s := n.text
	// Strip any suffix characters; Go's parser accepts the rest,
	// including hex floats.
	s = strings.TrimRight(s, "fFlLuU")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// ParseCharLiteral decodes a (possibly wide) character constant
// spelling, quotes included.
func ParseCharLiteral(text string, loc source.Loc, diags *diag.Engine) (value int64, wide bool) {
	s := text
	if len(s) > 0 && s[0] == 'L' {
		wide = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	first := true
	for len(s) > 0 {
		var c int
		if s[0] == '\\' {
			c, s = decodeEscape(s[1:], loc, diags)
		} else {
			c, s = int(s[0]), s[1:]
		}
		if !first {
			diags.Report(loc, diag.WarnMultiCharLiteral)
		}
		value = value<<8 | int64(byte(c))
		first = false
	}
	return value, wide
}

// ParseStringLiteral decodes a string literal spelling into its byte
// payload, quotes excluded and escapes interpreted.
func ParseStringLiteral(text string, loc source.Loc, diags *diag.Engine) (payload []byte, wide bool) {
	s := text
	if len(s) > 0 && s[0] == 'L' {
		wide = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	for len(s) > 0 {
		if s[0] == '\\' {
			var c int
			c, s = decodeEscape(s[1:], loc, diags)
			payload = append(payload, byte(c))
			continue
		}
		payload = append(payload, s[0])
		s = s[1:]
	}
	return payload, wide
}

// decodeEscape interprets one escape sequence after the backslash,
// returning the character value and the remaining text.
func decodeEscape(s string, loc source.Loc, diags *diag.Engine) (int, string) {
	if s == "" {
		return '\\', s
	}
	c := s[0]
	switch {
	case c >= '0' && c <= '7':
		// Up to three octal digits.
		v := 0
		i := 0
		for i < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7' {
			v = v<<3 | int(s[i]-'0')
			i++
		}
		return v, s[i:]
	case c == 'x':
		i := 1
		v := 0
		for i < len(s) && isHexDigit(s[i]) {
			v = v<<4 | hexValue(s[i])
			i++
		}
		if i == 1 {
			diags.Report(loc, diag.ErrInvalidCharacter)
		}
		return v, s[i:]
	}
	rest := s[1:]
	switch c {
	case 'a':
		return '\a', rest
	case 'b':
		return '\b', rest
	case 't':
		return '\t', rest
	case 'n':
		return '\n', rest
	case 'v':
		return '\v', rest
	case 'f':
		return '\f', rest
	case 'r':
		return '\r', rest
	case 'e':
		return 27, rest
	default:
		return int(c), rest
	}
}
