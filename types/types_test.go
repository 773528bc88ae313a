package types

import "testing"

type testTag struct {
	name string
	ty   QualType
}

func (t *testTag) DeclName() string     { return t.name }
func (t *testTag) Underlying() QualType { return t.ty }

func TestInterning(t *testing.T) {
	t.Parallel()
	c := NewContext()
	intTy := c.BuiltinQual(Int)

	if c.Pointer(intTy) != c.Pointer(intTy) {
		t.Error("pointer types are not interned")
	}
	if c.Array(intTy, 4) != c.Array(intTy, 4) {
		t.Error("array types are not interned")
	}
	if c.Array(intTy, 4) == c.Array(intTy, 5) {
		t.Error("arrays of different size are the same type")
	}
	if c.Array(intTy, 0) == c.IncompleteArray(intTy) {
		t.Error("int[0] and int[] are the same type")
	}
	f1 := c.Function(intTy, []QualType{intTy}, false)
	f2 := c.Function(intTy, []QualType{intTy}, false)
	if f1 != f2 {
		t.Error("function types are not interned")
	}
	if f1 == c.Function(intTy, []QualType{intTy}, true) {
		t.Error("variadic signature interned with non-variadic")
	}
	constInt := intTy.WithQuals(Const)
	if c.Pointer(intTy) == c.Pointer(constInt) {
		t.Error("pointee qualifiers ignored by interning")
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	t.Parallel()
	c := NewContext()
	intTy := c.BuiltinQual(Int)
	td := &testTag{name: "myint", ty: intTy}
	tdTy := QualType{Ty: c.Typedef(td)}

	all := []QualType{
		intTy,
		tdTy,
		{Ty: c.Pointer(tdTy)},
		{Ty: c.Array(tdTy, 3)},
		{Ty: c.Function(tdTy, []QualType{tdTy, intTy}, false)},
	}
	for _, q := range all {
		canon := q.Canonical()
		if canon.Canonical() != canon {
			t.Errorf("%s: canonical is not idempotent", q)
		}
	}
}

func TestTypedefStripping(t *testing.T) {
	t.Parallel()
	c := NewContext()
	intTy := c.BuiltinQual(Int)
	td := &testTag{name: "myint", ty: intTy}
	tdTy := QualType{Ty: c.Typedef(td)}

	if tdTy.Canonical().Ty != c.Builtin(Int) {
		t.Error("typedef does not strip to int")
	}
	// Pointer-to-typedef and pointer-to-int share one canonical type.
	p1 := QualType{Ty: c.Pointer(tdTy)}
	p2 := QualType{Ty: c.Pointer(intTy)}
	if p1.Canonical() != p2.Canonical() {
		t.Error("myint* and int* have distinct canonical types")
	}
	if p1.Ty == p2.Ty {
		t.Error("sugared pointer types collapsed before canonicalization")
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()
	c := NewContext()
	intTy := c.BuiltinQual(Int)
	rec := c.Record(&testTag{name: "s"}, false)

	tests := []struct {
		q                                  QualType
		integer, floating, pointer, scalar bool
	}{
		{intTy, true, false, false, true},
		{c.BuiltinQual(Double), false, true, false, true},
		{c.BuiltinQual(Void), false, false, false, false},
		{QualType{Ty: c.Pointer(intTy)}, false, false, true, true},
		{QualType{Ty: rec}, false, false, false, false},
		{QualType{Ty: c.Enum(&testTag{name: "e"})}, true, false, false, true},
	}
	for _, test := range tests {
		if got := test.q.IsIntegerType(); got != test.integer {
			t.Errorf("%s: IsIntegerType = %v", test.q, got)
		}
		if got := test.q.IsFloatingType(); got != test.floating {
			t.Errorf("%s: IsFloatingType = %v", test.q, got)
		}
		if got := test.q.IsPointerType(); got != test.pointer {
			t.Errorf("%s: IsPointerType = %v", test.q, got)
		}
		if got := test.q.IsScalarType(); got != test.scalar {
			t.Errorf("%s: IsScalarType = %v", test.q, got)
		}
	}
}

func TestObjCPointer(t *testing.T) {
	t.Parallel()
	c := NewContext()
	iface := c.ObjCInterface(&testTag{name: "NSString"})
	p := QualType{Ty: c.Pointer(QualType{Ty: iface})}
	if !p.IsObjCObjectPointerType() {
		t.Error("NSString* not recognized as ObjC object pointer")
	}
	if c.BuiltinQual(Int).IsObjCObjectPointerType() {
		t.Error("int recognized as ObjC object pointer")
	}

	// The ordinary id definition is a pointer to struct objc_object.
	obj := c.Record(&testTag{name: "objc_object"}, false)
	idTy := QualType{Ty: c.Pointer(QualType{Ty: obj})}
	if !idTy.IsObjCObjectPointerType() {
		t.Error("struct objc_object * not recognized as ObjC object pointer")
	}
	other := QualType{Ty: c.Pointer(QualType{Ty: c.Record(&testTag{name: "s"}, false)})}
	if other.IsObjCObjectPointerType() {
		t.Error("ordinary struct pointer recognized as ObjC object pointer")
	}
}

func TestStrings(t *testing.T) {
	t.Parallel()
	c := NewContext()
	intTy := c.BuiltinQual(Int)
	tests := []struct {
		q    QualType
		want string
	}{
		{intTy, "int"},
		{intTy.WithQuals(Const), "const int"},
		{QualType{Ty: c.Pointer(intTy.WithQuals(Const | Volatile))}, "const volatile int *"},
		{QualType{Ty: c.Array(intTy, 8)}, "int [8]"},
		{QualType{Ty: c.IncompleteArray(intTy)}, "int []"},
		{QualType{Ty: c.Function(c.BuiltinQual(Void), []QualType{intTy}, true)}, "void (int, ...)"},
		{QualType{Ty: c.Record(&testTag{name: "point"}, false)}, "struct point"},
		{QualType{Ty: c.Record(&testTag{}, true)}, "union <anonymous>"},
	}
	for _, test := range tests {
		if got := test.q.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}
