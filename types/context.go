package types

import (
	"strconv"
	"strings"
)

// A Context owns every type of one translation unit. All tables are
// append-only: entries are inserted but never mutated or removed.
type Context struct {
	builtins [numBuiltinKinds]*BuiltinType
	pointers map[QualType]*PointerType
	refs     map[QualType]*ReferenceType
	arrays   map[arrayKey]*ArrayType
	funcs    map[string]*FunctionType
	typedefs map[TypedefRef]*TypedefType
	records  map[TagDecl]*RecordType
	enums    map[TagDecl]*EnumType
	objc     map[TagDecl]*ObjCInterfaceType

	nextID uint32
}

type arrayKey struct {
	elem    QualType
	size    int64
	hasSize bool
}

func NewContext() *Context {
	c := &Context{
		pointers: make(map[QualType]*PointerType),
		refs:     make(map[QualType]*ReferenceType),
		arrays:   make(map[arrayKey]*ArrayType),
		funcs:    make(map[string]*FunctionType),
		typedefs: make(map[TypedefRef]*TypedefType),
		records:  make(map[TagDecl]*RecordType),
		enums:    make(map[TagDecl]*EnumType),
		objc:     make(map[TagDecl]*ObjCInterfaceType),
	}
	for k := BuiltinKind(0); k < numBuiltinKinds; k++ {
		c.builtins[k] = &BuiltinType{typeBase: c.base(), Kind: k}
	}
	return c
}

func (c *Context) base() typeBase {
	c.nextID++
	return typeBase{uid: c.nextID}
}

// Builtin returns the unique type for a primitive kind.
func (c *Context) Builtin(k BuiltinKind) *BuiltinType { return c.builtins[k] }

// BuiltinQual is Builtin wrapped in an unqualified QualType.
func (c *Context) BuiltinQual(k BuiltinKind) QualType {
	return QualType{Ty: c.builtins[k]}
}

// Pointer returns the unique pointer type to pointee.
func (c *Context) Pointer(pointee QualType) *PointerType {
	if t, ok := c.pointers[pointee]; ok {
		return t
	}
	t := &PointerType{typeBase: c.base(), Pointee: pointee}
	c.pointers[pointee] = t
	if canon := pointee.Canonical(); canon == pointee {
		t.canon = t
	} else {
		t.canon = c.Pointer(canon)
	}
	return t
}

// Reference returns the unique C++ reference type to pointee.
func (c *Context) Reference(pointee QualType) *ReferenceType {
	if t, ok := c.refs[pointee]; ok {
		return t
	}
	t := &ReferenceType{typeBase: c.base(), Pointee: pointee}
	c.refs[pointee] = t
	if canon := pointee.Canonical(); canon == pointee {
		t.canon = t
	} else {
		t.canon = c.Reference(canon)
	}
	return t
}

// Array returns the unique array type of elem with a constant size.
func (c *Context) Array(elem QualType, size int64) *ArrayType {
	return c.array(arrayKey{elem: elem, size: size, hasSize: true})
}

// IncompleteArray returns the unique T[] type of elem.
func (c *Context) IncompleteArray(elem QualType) *ArrayType {
	return c.array(arrayKey{elem: elem})
}

func (c *Context) array(k arrayKey) *ArrayType {
	if t, ok := c.arrays[k]; ok {
		return t
	}
	t := &ArrayType{typeBase: c.base(), Elem: k.elem, Size: k.size, HasSize: k.hasSize}
	c.arrays[k] = t
	if canon := k.elem.Canonical(); canon == k.elem {
		t.canon = t
	} else {
		ck := k
		ck.elem = canon
		t.canon = c.array(ck)
	}
	return t
}

// Function returns the unique function type with the given signature.
func (c *Context) Function(result QualType, params []QualType, variadic bool) *FunctionType {
	key := funcKey(result, params, variadic)
	if t, ok := c.funcs[key]; ok {
		return t
	}
	t := &FunctionType{
		typeBase: c.base(),
		Result:   result,
		Params:   append([]QualType(nil), params...),
		Variadic: variadic,
	}
	c.funcs[key] = t

	canonResult := result.Canonical()
	canonParams := make([]QualType, len(params))
	allCanon := canonResult == result
	for i, p := range params {
		canonParams[i] = p.Canonical()
		if canonParams[i] != p {
			allCanon = false
		}
	}
	if allCanon {
		t.canon = t
	} else {
		t.canon = c.Function(canonResult, canonParams, variadic)
	}
	return t
}

// funcKey is the structural profile of a signature,
// built from the interned ids of its parts.
func funcKey(result QualType, params []QualType, variadic bool) string {
	var s strings.Builder
	writeQualID(&s, result)
	for _, p := range params {
		s.WriteByte(',')
		writeQualID(&s, p)
	}
	if variadic {
		s.WriteString(",...")
	}
	return s.String()
}

func writeQualID(s *strings.Builder, q QualType) {
	s.WriteString(strconv.FormatUint(uint64(q.Ty.id()), 36))
	s.WriteByte('/')
	s.WriteString(strconv.Itoa(int(q.Quals)))
}

// Record returns the unique record type for a struct or union decl.
func (c *Context) Record(d TagDecl, union bool) *RecordType {
	if t, ok := c.records[d]; ok {
		return t
	}
	t := &RecordType{typeBase: c.base(), Decl: d, Union: union}
	t.canon = t
	c.records[d] = t
	return t
}

// Enum returns the unique enum type for a decl.
func (c *Context) Enum(d TagDecl) *EnumType {
	if t, ok := c.enums[d]; ok {
		return t
	}
	t := &EnumType{typeBase: c.base(), Decl: d}
	t.canon = t
	c.enums[d] = t
	return t
}

// Typedef returns the unique typedef type for a decl. Its canonical
// form is the canonical form of the underlying type.
func (c *Context) Typedef(d TypedefRef) *TypedefType {
	if t, ok := c.typedefs[d]; ok {
		return t
	}
	t := &TypedefType{typeBase: c.base(), Decl: d}
	c.typedefs[d] = t
	t.canon = d.Underlying().Canonical().Ty
	return t
}

// ObjCInterface returns the unique interface type for a decl.
func (c *Context) ObjCInterface(d TagDecl) *ObjCInterfaceType {
	if t, ok := c.objc[d]; ok {
		return t
	}
	t := &ObjCInterfaceType{typeBase: c.base(), Decl: d}
	t.canon = t
	c.objc[d] = t
	return t
}
