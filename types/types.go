// Package types is the type model: a sum of type variants, each with
// an immutable canonical form obtained by recursively stripping
// typedefs. Canonical types are pointer-unique within one Context,
// so equality of canonical types is pointer equality.
//
// Qualifiers live in QualType, a thin wrapper pairing a type with
// const/restrict/volatile bits.
package types

import "strings"

// Quals is the bitset of type qualifiers.
type Quals uint8

const (
	Const Quals = 1 << iota
	Restrict
	Volatile
)

func (q Quals) Has(r Quals) bool { return q&r != 0 }

func (q Quals) String() string {
	var parts []string
	if q.Has(Const) {
		parts = append(parts, "const")
	}
	if q.Has(Volatile) {
		parts = append(parts, "volatile")
	}
	if q.Has(Restrict) {
		parts = append(parts, "restrict")
	}
	return strings.Join(parts, " ")
}

// A QualType pairs a type with its qualifiers.
// The zero QualType is "no type".
type QualType struct {
	Ty    Type
	Quals Quals
}

func (q QualType) IsNull() bool { return q.Ty == nil }

// WithQuals returns q with extra qualifier bits added.
func (q QualType) WithQuals(r Quals) QualType {
	q.Quals |= r
	return q
}

// Unqualified returns q with all qualifiers stripped.
func (q QualType) Unqualified() QualType { return QualType{Ty: q.Ty} }

// Canonical strips typedefs, keeping the qualifiers.
func (q QualType) Canonical() QualType {
	if q.Ty == nil {
		return q
	}
	return QualType{Ty: q.Ty.CanonicalType(), Quals: q.Quals}
}

func (q QualType) String() string {
	if q.Ty == nil {
		return "<null type>"
	}
	if q.Quals == 0 {
		return q.Ty.String()
	}
	return q.Quals.String() + " " + q.Ty.String()
}

// A Type is one variant of the type sum.
// All Types are created through a Context and interned there.
type Type interface {
	// CanonicalType follows typedefs to the unique canonical form.
	CanonicalType() Type
	String() string

	id() uint32
}

type typeBase struct {
	uid   uint32
	canon Type
}

func (b *typeBase) id() uint32 { return b.uid }

// A BuiltinKind names one primitive type.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	Bool
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	FloatComplex
	DoubleComplex
	LongDoubleComplex

	numBuiltinKinds
)

var builtinNames = [...]string{
	Void:              "void",
	Bool:              "bool",
	Char:              "char",
	SChar:             "signed char",
	UChar:             "unsigned char",
	Short:             "short",
	UShort:            "unsigned short",
	Int:               "int",
	UInt:              "unsigned int",
	Long:              "long",
	ULong:             "unsigned long",
	LongLong:          "long long",
	ULongLong:         "unsigned long long",
	Float:             "float",
	Double:            "double",
	LongDouble:        "long double",
	FloatComplex:      "_Complex float",
	DoubleComplex:     "_Complex double",
	LongDoubleComplex: "_Complex long double",
}

func (k BuiltinKind) String() string { return builtinNames[k] }

// IsSigned reports whether the kind is a signed integer kind.
func (k BuiltinKind) IsSigned() bool {
	switch k {
	case Char, SChar, Short, Int, Long, LongLong:
		return true
	}
	return false
}

type BuiltinType struct {
	typeBase
	Kind BuiltinKind
}

func (t *BuiltinType) CanonicalType() Type { return t }
func (t *BuiltinType) String() string      { return t.Kind.String() }

type PointerType struct {
	typeBase
	Pointee QualType
}

func (t *PointerType) CanonicalType() Type { return t.canon }
func (t *PointerType) String() string      { return t.Pointee.String() + " *" }

// A ReferenceType is a C++ lvalue reference.
type ReferenceType struct {
	typeBase
	Pointee QualType
}

func (t *ReferenceType) CanonicalType() Type { return t.canon }
func (t *ReferenceType) String() string      { return t.Pointee.String() + " &" }

// An ArrayType is T[n], or T[] when HasSize is false.
type ArrayType struct {
	typeBase
	Elem    QualType
	Size    int64
	HasSize bool
}

func (t *ArrayType) CanonicalType() Type { return t.canon }

func (t *ArrayType) String() string {
	var s strings.Builder
	s.WriteString(t.Elem.String())
	s.WriteString(" [")
	if t.HasSize {
		writeInt(&s, t.Size)
	}
	s.WriteString("]")
	return s.String()
}

type FunctionType struct {
	typeBase
	Result   QualType
	Params   []QualType
	Variadic bool
}

func (t *FunctionType) CanonicalType() Type { return t.canon }

func (t *FunctionType) String() string {
	var s strings.Builder
	s.WriteString(t.Result.String())
	s.WriteString(" (")
	for i, p := range t.Params {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(p.String())
	}
	if t.Variadic {
		if len(t.Params) > 0 {
			s.WriteString(", ")
		}
		s.WriteString("...")
	}
	s.WriteString(")")
	return s.String()
}

// A TagDecl is the declaration a record, enum, or interface type
// points back to. The concrete decl lives in the ast package.
type TagDecl interface {
	DeclName() string
}

// A TypedefRef is the typedef declaration a TypedefType names.
type TypedefRef interface {
	DeclName() string
	Underlying() QualType
}

type RecordType struct {
	typeBase
	Decl  TagDecl
	Union bool
}

func (t *RecordType) CanonicalType() Type { return t }

func (t *RecordType) String() string {
	kw := "struct"
	if t.Union {
		kw = "union"
	}
	if n := t.Decl.DeclName(); n != "" {
		return kw + " " + n
	}
	return kw + " <anonymous>"
}

type EnumType struct {
	typeBase
	Decl TagDecl
}

func (t *EnumType) CanonicalType() Type { return t }

func (t *EnumType) String() string {
	if n := t.Decl.DeclName(); n != "" {
		return "enum " + n
	}
	return "enum <anonymous>"
}

// A TypedefType names another type; it is never canonical.
type TypedefType struct {
	typeBase
	Decl TypedefRef
}

func (t *TypedefType) CanonicalType() Type { return t.canon }
func (t *TypedefType) String() string      { return t.Decl.DeclName() }

type ObjCInterfaceType struct {
	typeBase
	Decl TagDecl
}

func (t *ObjCInterfaceType) CanonicalType() Type { return t }
func (t *ObjCInterfaceType) String() string      { return t.Decl.DeclName() }

func writeInt(s *strings.Builder, v int64) {
	if v < 0 {
		s.WriteByte('-')
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	s.Write(buf[i:])
}
