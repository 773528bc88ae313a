package types

// Classification predicates, all on the canonical form.

func (q QualType) IsIntegerType() bool {
	switch t := canon(q).(type) {
	case *BuiltinType:
		return t.Kind >= Bool && t.Kind <= ULongLong
	case *EnumType:
		return true
	}
	return false
}

func (q QualType) IsFloatingType() bool {
	t, ok := canon(q).(*BuiltinType)
	return ok && t.Kind >= Float && t.Kind <= LongDoubleComplex
}

func (q QualType) IsArithmeticType() bool {
	return q.IsIntegerType() || q.IsFloatingType()
}

func (q QualType) IsPointerType() bool {
	_, ok := canon(q).(*PointerType)
	return ok
}

// IsObjCObjectPointerType reports a pointer whose pointee is an
// Objective-C interface type, or the conventional id definition
// `typedef struct objc_object *id`.
func (q QualType) IsObjCObjectPointerType() bool {
	p, ok := canon(q).(*PointerType)
	if !ok {
		return false
	}
	switch t := p.Pointee.Canonical().Ty.(type) {
	case *ObjCInterfaceType:
		return true
	case *RecordType:
		return !t.Union && t.Decl != nil && t.Decl.DeclName() == "objc_object"
	}
	return false
}

func (q QualType) IsScalarType() bool {
	return q.IsArithmeticType() || q.IsPointerType()
}

func (q QualType) IsFunctionType() bool {
	_, ok := canon(q).(*FunctionType)
	return ok
}

func (q QualType) IsVoidType() bool {
	t, ok := canon(q).(*BuiltinType)
	return ok && t.Kind == Void
}

func (q QualType) IsRecordType() bool {
	_, ok := canon(q).(*RecordType)
	return ok
}

func (q QualType) IsArrayType() bool {
	_, ok := canon(q).(*ArrayType)
	return ok
}

// Pointee returns the pointee of a pointer or reference type,
// or the null QualType.
func (q QualType) Pointee() QualType {
	switch t := canon(q).(type) {
	case *PointerType:
		return t.Pointee
	case *ReferenceType:
		return t.Pointee
	}
	return QualType{}
}

func canon(q QualType) Type {
	if q.Ty == nil {
		return nil
	}
	return q.Ty.CanonicalType()
}
