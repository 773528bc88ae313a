// Package parse builds the AST: a recursive-descent parser over the
// preprocessed token stream, with a declaration-specifier accumulator
// and scope-aware name resolution feeding typedef names back into
// the grammar.
package parse

import (
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/types"
)

// Storage-class specifiers.
type SCS uint8

const (
	SCSUnspecified SCS = iota
	SCSTypedef
	SCSExtern
	SCSStatic
	SCSAuto
	SCSRegister
)

var scsNames = [...]string{"", "typedef", "extern", "static", "auto", "register"}

func (s SCS) String() string { return scsNames[s] }

// Type-specifier width.
type TSW uint8

const (
	TSWUnspecified TSW = iota
	TSWShort
	TSWLong
	TSWLongLong
)

var tswNames = [...]string{"", "short", "long", "long long"}

func (w TSW) String() string { return tswNames[w] }

// Type-specifier complexity.
type TSC uint8

const (
	TSCUnspecified TSC = iota
	TSCImaginary
	TSCComplex
)

// Type-specifier sign.
type TSS uint8

const (
	TSSUnspecified TSS = iota
	TSSSigned
	TSSUnsigned
)

var tssNames = [...]string{"", "signed", "unsigned"}

func (s TSS) String() string { return tssNames[s] }

// The base type specifier.
type TST uint8

const (
	TSTUnspecified TST = iota
	TSTVoid
	TSTChar
	TSTInt
	TSTFloat
	TSTDouble
	TSTBool
	TSTDecimal32
	TSTDecimal64
	TSTDecimal128
	TSTEnum
	TSTUnion
	TSTStruct
	TSTTypedef
)

var tstNames = [...]string{
	"", "void", "char", "int", "float", "double", "bool",
	"_Decimal32", "_Decimal64", "_Decimal128",
	"enum", "union", "struct", "typedef-name",
}

func (t TST) String() string { return tstNames[t] }

// A DeclSpec accumulates one declaration-specifier sequence.
// Setters reject duplicates, reporting the previous spelling;
// Finish enforces cross-field consistency and leaves the record
// self-consistent even after errors.
type DeclSpec struct {
	Storage SCS
	Thread  bool
	Width   TSW
	Complex TSC
	Sign    TSS
	Type    TST
	TypeRep types.QualType // for TSTTypedef, enum, struct, union
	Quals   types.Quals
	Inline  bool

	StorageLoc source.Loc
	ThreadLoc  source.Loc
	WidthLoc   source.Loc
	ComplexLoc source.Loc
	SignLoc    source.Loc
	TypeLoc    source.Loc
}

// SetStorageClass records a storage class.
// A duplicate reports the previous spelling and is dropped.
func (ds *DeclSpec) SetStorageClass(s SCS, loc source.Loc) (prev string, ok bool) {
	if ds.Storage != SCSUnspecified {
		return ds.Storage.String(), false
	}
	ds.Storage, ds.StorageLoc = s, loc
	return "", true
}

// SetThread records __thread.
func (ds *DeclSpec) SetThread(loc source.Loc) (prev string, ok bool) {
	if ds.Thread {
		return "__thread", false
	}
	ds.Thread, ds.ThreadLoc = true, loc
	return "", true
}

// SetWidth records short or long; a second long upgrades to
// long long.
func (ds *DeclSpec) SetWidth(w TSW, loc source.Loc) (prev string, ok bool) {
	switch {
	case ds.Width == TSWUnspecified:
		ds.Width, ds.WidthLoc = w, loc
		return "", true
	case ds.Width == TSWLong && w == TSWLong:
		ds.Width = TSWLongLong
		return "", true
	}
	return ds.Width.String(), false
}

// SetComplex records _Complex or _Imaginary.
func (ds *DeclSpec) SetComplex(c TSC, loc source.Loc) (prev string, ok bool) {
	if ds.Complex != TSCUnspecified {
		if ds.Complex == TSCComplex {
			return "_Complex", false
		}
		return "_Imaginary", false
	}
	ds.Complex, ds.ComplexLoc = c, loc
	return "", true
}

// SetSign records signed or unsigned.
func (ds *DeclSpec) SetSign(s TSS, loc source.Loc) (prev string, ok bool) {
	if ds.Sign != TSSUnspecified {
		return ds.Sign.String(), false
	}
	ds.Sign, ds.SignLoc = s, loc
	return "", true
}

// SetType records the base type specifier.
func (ds *DeclSpec) SetType(t TST, rep types.QualType, loc source.Loc) (prev string, ok bool) {
	if ds.Type != TSTUnspecified {
		return ds.Type.String(), false
	}
	ds.Type, ds.TypeRep, ds.TypeLoc = t, rep, loc
	return "", true
}

// AddQual records a type qualifier; duplicates warn but stick.
func (ds *DeclSpec) AddQual(q types.Quals, loc source.Loc, diags *diag.Engine) {
	if ds.Quals.Has(q) {
		diags.Report(loc, diag.WarnDupTypeQualifier, q.String())
		return
	}
	ds.Quals |= q
}

// Finish enforces the consistency rules between sign, width,
// complex, base type, and __thread. On every error path the
// offending field is forced to a canonical recovery value, so
// downstream consumers always see a self-consistent specifier.
func (ds *DeclSpec) Finish(diags *diag.Engine) {
	// signed/unsigned requires int or char; missing type becomes int.
	if ds.Sign != TSSUnspecified {
		switch ds.Type {
		case TSTUnspecified:
			ds.Type = TSTInt
		case TSTInt, TSTChar:
		default:
			diags.Report(ds.SignLoc, diag.ErrInvalidSignSpec, ds.Type.String())
			ds.Sign = TSSUnspecified
		}
	}

	// short and long long require int; long also allows double.
	switch ds.Width {
	case TSWShort, TSWLongLong:
		switch ds.Type {
		case TSTUnspecified:
			ds.Type = TSTInt
		case TSTInt:
		default:
			diags.Report(ds.WidthLoc, diag.ErrInvalidWidthSpec,
				ds.Width.String(), ds.Type.String())
			ds.Type = TSTInt
		}
	case TSWLong:
		switch ds.Type {
		case TSTUnspecified:
			ds.Type = TSTInt
		case TSTInt, TSTDouble:
		default:
			diags.Report(ds.WidthLoc, diag.ErrInvalidWidthSpec,
				ds.Width.String(), ds.Type.String())
			ds.Type = TSTInt
		}
	}

	if ds.Complex == TSCComplex || ds.Complex == TSCImaginary {
		switch ds.Type {
		case TSTUnspecified:
			diags.Report(ds.ComplexLoc, diag.ExtPlainComplex)
			ds.Type = TSTDouble
		case TSTInt, TSTChar:
			diags.Report(ds.ComplexLoc, diag.ExtIntegerComplex)
		case TSTFloat, TSTDouble:
		default:
			diags.Report(ds.ComplexLoc, diag.ErrInvalidComplex, ds.Type.String())
			ds.Complex = TSCUnspecified
		}
	}

	// __thread without a storage class implies extern; with
	// anything but extern or static it is dropped.
	if ds.Thread {
		switch ds.Storage {
		case SCSUnspecified:
			ds.Storage = SCSExtern
		case SCSExtern, SCSStatic:
		default:
			diags.Report(ds.ThreadLoc, diag.ErrThreadStorage)
			ds.Thread = false
		}
	}
}

// BuiltinKind maps the finished specifier onto a builtin type kind.
// Callers use TypeRep instead when Type is a tag or typedef.
func (ds *DeclSpec) BuiltinKind() types.BuiltinKind {
	unsigned := ds.Sign == TSSUnsigned
	switch ds.Type {
	case TSTVoid:
		return types.Void
	case TSTBool:
		return types.Bool
	case TSTChar:
		switch ds.Sign {
		case TSSSigned:
			return types.SChar
		case TSSUnsigned:
			return types.UChar
		}
		return types.Char
	case TSTFloat:
		if ds.Complex == TSCComplex {
			return types.FloatComplex
		}
		return types.Float
	// Decimal floating types are accepted and modeled on the
	// binary type of the same width.
	case TSTDecimal32:
		return types.Float
	case TSTDecimal64:
		return types.Double
	case TSTDecimal128:
		return types.LongDouble
	case TSTDouble:
		if ds.Complex == TSCComplex {
			return types.DoubleComplex
		}
		if ds.Width == TSWLong {
			return types.LongDouble
		}
		return types.Double
	}
	// Everything else resolved to some flavor of int.
	switch ds.Width {
	case TSWShort:
		if unsigned {
			return types.UShort
		}
		return types.Short
	case TSWLong:
		if unsigned {
			return types.ULong
		}
		return types.Long
	case TSWLongLong:
		if unsigned {
			return types.ULongLong
		}
		return types.LongLong
	}
	if unsigned {
		return types.UInt
	}
	return types.Int
}
