package parse

import (
	"testing"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/pp"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
	"github.com/google/go-cmp/cmp"
)

type collector struct {
	ids []diag.ID
}

func (c *collector) Handle(level diag.Level, loc source.Loc, id diag.ID, msg string, ranges []diag.Range) bool {
	c.ids = append(c.ids, id)
	return false
}

func parseSrc(t *testing.T, src string, opts lang.Opts) (*ast.TranslationUnitDecl, *collector) {
	t.Helper()
	m := source.NewManager()
	c := &collector{}
	e := diag.NewEngine(diag.Config{WarnOnExtensions: true}, m, c)
	idents := token.NewIdentTable(opts)
	preproc := pp.New(m, e, opts, idents, nil)
	preproc.EnterMainFile(m.AddFile("test.c", []byte(src)))
	p := New(preproc, types.NewContext(), opts)
	return p.ParseTranslationUnit(), c
}

func findVar(t *testing.T, tu *ast.TranslationUnitDecl, name string) *ast.VarDecl {
	t.Helper()
	v, ok := tu.LookupHere(name).(*ast.VarDecl)
	if !ok {
		t.Fatalf("no variable %q at file scope", name)
	}
	return v
}

func findFn(t *testing.T, tu *ast.TranslationUnitDecl, name string) *ast.FunctionDecl {
	t.Helper()
	fn, ok := tu.LookupHere(name).(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("no function %q at file scope", name)
	}
	return fn
}

func TestDeclSpecs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		wantType string
		wantIDs  []diag.ID
	}{
		{"plain int", "int x;", "int", nil},
		{"unsigned alone", "unsigned x;", "unsigned int", nil},
		{"signed char", "signed char x;", "signed char", nil},
		{"short alone", "short x;", "short", nil},
		{"long long", "long long x;", "long long", nil},
		{"unsigned long long", "unsigned long long x;", "unsigned long long", nil},
		{"long double", "long double x;", "long double", nil},
		{
			"sign on double",
			"unsigned double x;",
			"double",
			[]diag.ID{diag.ErrInvalidSignSpec},
		},
		{
			"short double",
			"short double x;",
			"short",
			[]diag.ID{diag.ErrInvalidWidthSpec},
		},
		{
			"plain complex",
			"_Complex x;",
			"_Complex double",
			[]diag.ID{diag.ExtPlainComplex},
		},
		{
			"integer complex",
			"_Complex int x;",
			"int",
			[]diag.ID{diag.ExtIntegerComplex},
		},
		{
			"complex float",
			"_Complex float x;",
			"_Complex float",
			nil,
		},
		{
			"duplicate storage class",
			"static static int x;",
			"int",
			[]diag.ID{diag.ErrDuplicateDeclSpec},
		},
		{
			"duplicate qualifier",
			"const const int x;",
			"const int",
			[]diag.ID{diag.WarnDupTypeQualifier},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			tu, c := parseSrc(t, test.src, lang.GNUOpts())
			v := findVar(t, tu, "x")
			if got := v.Ty.String(); got != test.wantType {
				t.Errorf("type = %q, want %q", got, test.wantType)
			}
			if diff := cmp.Diff(test.wantIDs, c.ids); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestThreadStorage(t *testing.T) {
	t.Parallel()
	tu, c := parseSrc(t, "__thread int a; __thread register int b;", lang.GNUOpts())
	a := findVar(t, tu, "a")
	if !a.Thread || a.Storage != ast.SCExtern {
		t.Errorf("a: thread=%v storage=%v, want thread extern", a.Thread, a.Storage)
	}
	b := findVar(t, tu, "b")
	if b.Thread {
		t.Error("b kept __thread with register storage")
	}
	if diff := cmp.Diff([]diag.ID{diag.ErrThreadStorage}, c.ids); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestDeclarators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
	}{
		{"int *x;", "int *"},
		{"int **x;", "int * *"},
		{"const int *x;", "const int *"},
		{"int *const x;", "const int *"},
		{"int x[8];", "int [8]"},
		{"int x[];", "int []"},
		{"int x[2][3];", "int [3] [2]"},
		{"int *x[4];", "int * [4]"},
		{"int (*x)[4];", "int [4] *"},
		{"int (*x)(int, char);", "int (int, char) *"},
		{"int (*x)(void);", "int () *"},
		{"void (*x)(int, ...);", "void (int, ...) *"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.src, func(t *testing.T) {
			t.Parallel()
			tu, c := parseSrc(t, test.src, lang.GNUOpts())
			if len(c.ids) != 0 {
				t.Fatalf("unexpected diagnostics: %v", c.ids)
			}
			v := findVar(t, tu, "x")
			if got := v.Ty.String(); got != test.want {
				t.Errorf("type = %q, want %q", got, test.want)
			}
		})
	}
}

func TestDeclaratorChain(t *testing.T) {
	t.Parallel()
	tu, _ := parseSrc(t, "int a, *b, c[2];", lang.GNUOpts())
	a := findVar(t, tu, "a")
	var names []string
	for d := ast.Decl(a); d != nil; d = d.NextDeclarator() {
		names = append(names, d.DeclName())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("chain (-want +got):\n%s", diff)
	}
	if got := findVar(t, tu, "b").Ty.String(); got != "int *" {
		t.Errorf("b type = %q", got)
	}
}

func TestTypedef(t *testing.T) {
	t.Parallel()
	tu, c := parseSrc(t, "typedef unsigned long size_t; size_t n;", lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	n := findVar(t, tu, "n")
	if got := n.Ty.String(); got != "size_t" {
		t.Errorf("sugared type = %q, want size_t", got)
	}
	if got := n.Ty.Canonical().String(); got != "unsigned long" {
		t.Errorf("canonical type = %q, want unsigned long", got)
	}
}

func TestTypedefDeclaratorFeedback(t *testing.T) {
	t.Parallel()
	// After the typedef, `pair_t *p` must parse as a declaration,
	// not a multiplication.
	src := `
typedef struct pair { int a; int b; } pair_t;
void f(void) {
	pair_t *p;
	p->a = 1;
}
`
	_, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()
	src := `
struct point { int x, y; };
struct point p;
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	p := findVar(t, tu, "p")
	if got := p.Ty.String(); got != "struct point" {
		t.Errorf("type = %q", got)
	}
	rt, ok := p.Ty.Canonical().Ty.(*types.RecordType)
	if !ok {
		t.Fatalf("canonical type is %T", p.Ty.Canonical().Ty)
	}
	rd := rt.Decl.(*ast.RecordDecl)
	if !rd.Complete {
		t.Error("record not marked complete")
	}
	var names []string
	for _, f := range rd.Fields() {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"x", "y"}, names); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
}

func TestMemberAccess(t *testing.T) {
	t.Parallel()
	src := `
struct point { int x; float y; };
void f(void) {
	struct point p;
	struct point *q;
	p.y;
	q->x;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	dot := body[2].(*ast.MemberExpr)
	if dot.Arrow || dot.Type().String() != "float" {
		t.Errorf("p.y: arrow=%v type=%v", dot.Arrow, dot.Type())
	}
	if dot.Member == nil || dot.Member.DeclName() != "y" {
		t.Errorf("p.y member = %v", dot.Member)
	}
	arrow := body[3].(*ast.MemberExpr)
	if !arrow.Arrow || arrow.Type().String() != "int" {
		t.Errorf("q->x: arrow=%v type=%v", arrow.Arrow, arrow.Type())
	}
}

func TestEnum(t *testing.T) {
	t.Parallel()
	src := "enum color { RED, GREEN = 5, BLUE };"
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	want := map[string]int64{"RED": 0, "GREEN": 5, "BLUE": 6}
	for name, value := range want {
		ec, ok := tu.LookupHere(name).(*ast.EnumConstantDecl)
		if !ok {
			t.Fatalf("enumerator %q not in file scope", name)
		}
		if ec.Value != value {
			t.Errorf("%s = %d, want %d", name, ec.Value, value)
		}
		if !ec.Ty.IsIntegerType() {
			t.Errorf("%s type %v is not an integer type", name, ec.Ty)
		}
	}
}

func TestConstantFolding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		expr string
		want int64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"1 << 4 | 1", 17},
		{"10 - 2 - 3", 5},
		{"7 / 2 + 7 % 2", 4},
		{"1 < 2 ? 30 : 40", 30},
		{"!5", 0},
		{"-(3)", -3},
		{"~0 & 0xff", 255},
		{"2 && 0 || 1", 1},
		{"'a'", 97},
	}
	for _, test := range tests {
		test := test
		t.Run(test.expr, func(t *testing.T) {
			t.Parallel()
			tu, c := parseSrc(t, "enum { V = "+test.expr+" };", lang.GNUOpts())
			if len(c.ids) != 0 {
				t.Fatalf("unexpected diagnostics: %v", c.ids)
			}
			ec := tu.LookupHere("V").(*ast.EnumConstantDecl)
			if ec.Value != test.want {
				t.Errorf("V = %d, want %d", ec.Value, test.want)
			}
		})
	}
}

func TestFunctionDefinition(t *testing.T) {
	t.Parallel()
	src := `
int add(int a, int b);
int add(int a, int b) {
	return a + b;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	fn := findFn(t, tu, "add")
	if fn.Body == nil {
		t.Fatal("definition did not attach a body")
	}
	if got := fn.Result().String(); got != "int" {
		t.Errorf("result type = %q", got)
	}
	if len(fn.Params) != 2 || !fn.Params[0].IsParam {
		t.Fatalf("params = %v", fn.Params)
	}
	// The prototype and the definition share one declaration.
	count := 0
	for _, d := range tu.Decls() {
		if d.DeclName() == "add" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("add declared %d times, want 1", count)
	}
	ret := fn.Body.Body[0].(*ast.ReturnStmt)
	sum := ret.Value.(*ast.BinaryOperator)
	if sum.Op != ast.BOAdd {
		t.Errorf("return operator = %v", sum.Op)
	}
	ref := ast.IgnoreParenCasts(sum.LHS).(*ast.DeclRefExpr)
	if ref.Decl != fn.Params[0] {
		t.Error("parameter reference does not resolve to the param decl")
	}
}

func TestImplicitLoads(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	int x;
	int y;
	y = x;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	assign := body[2].(*ast.BinaryOperator)
	if assign.Op != ast.BOAssign {
		t.Fatalf("op = %v", assign.Op)
	}
	if _, ok := assign.LHS.(*ast.DeclRefExpr); !ok {
		t.Errorf("assignment target is %T, want bare DeclRefExpr", assign.LHS)
	}
	load, ok := assign.RHS.(*ast.ImplicitCastExpr)
	if !ok {
		t.Fatalf("assignment source is %T, want ImplicitCastExpr", assign.RHS)
	}
	if _, ok := load.Operand.(*ast.DeclRefExpr); !ok {
		t.Errorf("load operand is %T", load.Operand)
	}
}

func TestArrayDecay(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	int a[4];
	a[1] = 2;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	sub := body[1].(*ast.BinaryOperator).LHS.(*ast.ArraySubscriptExpr)
	decay, ok := sub.Base.(*ast.ImplicitCastExpr)
	if !ok {
		t.Fatalf("subscript base is %T, want decay cast", sub.Base)
	}
	if got := decay.Type().String(); got != "int *" {
		t.Errorf("decayed type = %q", got)
	}
	if got := sub.Type().String(); got != "int" {
		t.Errorf("element type = %q", got)
	}
}

func TestScopesAndShadowing(t *testing.T) {
	t.Parallel()
	src := `
int x;
void f(void) {
	int x;
	{
		int x;
		x = 1;
	}
	x = 2;
}
`
	_, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
}

func TestUndeclared(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	y = 1;
	y = 2;
}
`
	_, c := parseSrc(t, src, lang.GNUOpts())
	// Recovery declares the name, so it is reported once.
	if diff := cmp.Diff([]diag.ID{diag.ErrUndeclaredIdent}, c.ids); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestRedefinition(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	int x;
	int x;
}
`
	_, c := parseSrc(t, src, lang.GNUOpts())
	want := []diag.ID{diag.ErrRedefinition, diag.NotePreviousDef}
	if diff := cmp.Diff(want, c.ids); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestStatementKinds(t *testing.T) {
	t.Parallel()
	src := `
void f(int n) {
	if (n > 0)
		n--;
	else
		n++;
	while (n < 10)
		n++;
	do n--; while (n);
	for (int i = 0; i < n; i++)
		;
	switch (n) {
	case 0:
		break;
	default:
		break;
	}
	goto done;
done:
	return;
}
`
	tu, c := parseSrc(t, src, lang.C99Opts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	var kinds []ast.Kind
	for _, s := range body {
		kinds = append(kinds, s.Kind())
	}
	want := []ast.Kind{
		ast.IfStmtKind, ast.WhileStmtKind, ast.DoStmtKind, ast.ForStmtKind,
		ast.SwitchStmtKind, ast.GotoStmtKind, ast.LabelStmtKind,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("statement kinds (-want +got):\n%s", diff)
	}
	g := body[5].(*ast.GotoStmt)
	l := body[6].(*ast.LabelStmt)
	if g.Target != l {
		t.Error("goto did not resolve to its label")
	}
}

func TestShortCircuitAndConditional(t *testing.T) {
	t.Parallel()
	src := `
void f(int a, int b) {
	a && b || !a;
	a ? b : 0;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	or := body[0].(*ast.BinaryOperator)
	if or.Op != ast.BOLOr {
		t.Fatalf("top operator = %v, want ||", or.Op)
	}
	and := or.LHS.(*ast.BinaryOperator)
	if and.Op != ast.BOLAnd {
		t.Errorf("left operator = %v, want &&", and.Op)
	}
	if got := or.Type().String(); got != "int" {
		t.Errorf("|| type = %q", got)
	}
	cond := body[1].(*ast.ConditionalOperator)
	if cond.Then == nil || cond.Else == nil {
		t.Error("conditional operator missing arms")
	}
}

func TestCallAndImplicitFunctionDecl(t *testing.T) {
	t.Parallel()
	src := `
int g(int x);
void f(void) {
	g(1);
	h(2);
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	// h is implicitly declared, K&R style: no diagnostic outside C99.
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	call := body[0].(*ast.CallExpr)
	if call.Callee() == nil || call.Callee().Name != "g" {
		t.Errorf("callee = %v", call.Callee())
	}
	if got := call.Type().String(); got != "int" {
		t.Errorf("call type = %q", got)
	}
	implicit := body[1].(*ast.CallExpr)
	if implicit.Callee() == nil || implicit.Callee().Name != "h" {
		t.Errorf("implicit callee = %v", implicit.Callee())
	}
}

func TestSizeof(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	int x;
	sizeof(int);
	sizeof x;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	tySize := body[1].(*ast.SizeOfAlignOfTypeExpr)
	if !tySize.SizeOf || tySize.Queried.String() != "int" {
		t.Errorf("sizeof(int): sizeOf=%v queried=%v", tySize.SizeOf, tySize.Queried)
	}
	exprSize := body[2].(*ast.UnaryOperator)
	if exprSize.Op != ast.UOSizeOf {
		t.Errorf("sizeof x operator = %v", exprSize.Op)
	}
	if got := exprSize.Type().String(); got != "unsigned long" {
		t.Errorf("sizeof type = %q", got)
	}
}

func TestCast(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	int x;
	(char)x;
	(void *)0;
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	c1 := body[1].(*ast.CastExpr)
	if got := c1.Type().String(); got != "char" {
		t.Errorf("cast type = %q", got)
	}
	c2 := body[2].(*ast.CastExpr)
	if got := c2.Type().String(); got != "void *" {
		t.Errorf("cast type = %q", got)
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	"hi";
	'a';
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body
	s := body[0].(*ast.StringLiteral)
	if string(s.Value) != "hi" || s.Type().String() != "char [3]" {
		t.Errorf("string literal value=%q type=%v", s.Value, s.Type())
	}
	ch := body[1].(*ast.CharacterLiteral)
	if ch.Value != 'a' {
		t.Errorf("char literal = %d", ch.Value)
	}
}

func TestObjCMessage(t *testing.T) {
	t.Parallel()
	opts := lang.GNUOpts()
	opts.ObjC1 = true
	src := `
@interface Cell
@end
void f(void) {
	[Cell alloc];
	[[Cell alloc] initWithValue: 1 flag: 2];
}
`
	tu, c := parseSrc(t, src, opts)
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	if _, ok := tu.LookupHere("Cell").(*ast.ObjCInterfaceDecl); !ok {
		t.Fatal("interface Cell not declared")
	}
	body := findFn(t, tu, "f").Body.Body
	alloc := body[0].(*ast.ObjCMessageExpr)
	if alloc.ClassName != "Cell" || alloc.Selector.Name != "alloc" {
		t.Errorf("class message = %q %q", alloc.ClassName, alloc.Selector.Name)
	}
	if !alloc.Selector.Unary() {
		t.Error("alloc is not a unary selector")
	}
	if !alloc.Type().IsObjCObjectPointerType() {
		t.Errorf("message type %v is not an object pointer", alloc.Type())
	}
	init := body[1].(*ast.ObjCMessageExpr)
	if init.Selector.Name != "initWithValue:flag:" || init.Selector.Args != 2 {
		t.Errorf("selector = %q/%d", init.Selector.Name, init.Selector.Args)
	}
	if init.Receiver == nil || len(init.Args) != 2 {
		t.Errorf("receiver=%v args=%d", init.Receiver, len(init.Args))
	}
	inner, ok := ast.IgnoreParenCasts(init.Receiver).(*ast.ObjCMessageExpr)
	if !ok {
		t.Fatal("nested send did not parse as a message")
	}
	if inner.Selector != alloc.Selector {
		t.Error("equal selectors were not interned to one atom")
	}
}

func TestObjCForCollection(t *testing.T) {
	t.Parallel()
	opts := lang.GNUOpts()
	opts.ObjC1 = true
	src := `
typedef struct objc_object *id;
id items(void);
void f(id coll) {
	for (id x in coll)
		;
	id y;
	for (y in items())
		;
}
`
	tu, c := parseSrc(t, src, opts)
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	body := findFn(t, tu, "f").Body.Body

	declLoop, ok := body[0].(*ast.ObjCForCollectionStmt)
	if !ok {
		t.Fatalf("body[0] is %s, want ObjCForCollectionStmt", body[0].Kind())
	}
	ds, ok := declLoop.Element.(*ast.DeclStmt)
	if !ok || len(ds.Decls) != 1 {
		t.Fatal("declaration element did not parse to a single decl")
	}
	if v := ds.Decls[0].(*ast.VarDecl); v.Name != "x" {
		t.Errorf("element declares %q, want x", v.Name)
	}
	if !declLoop.Collection.Type().IsObjCObjectPointerType() {
		t.Errorf("collection type %v is not an object pointer", declLoop.Collection.Type())
	}

	exprLoop, ok := body[2].(*ast.ObjCForCollectionStmt)
	if !ok {
		t.Fatalf("body[2] is %s, want ObjCForCollectionStmt", body[2].Kind())
	}
	ref, ok := exprLoop.Element.(*ast.DeclRefExpr)
	if !ok || ref.Decl.DeclName() != "y" {
		t.Error("expression element did not resolve to y")
	}
}

func TestBracedInitializer(t *testing.T) {
	t.Parallel()
	src := `
void f(void) {
	int a[2] = {1, 2};
}
`
	tu, c := parseSrc(t, src, lang.GNUOpts())
	if len(c.ids) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.ids)
	}
	ds := findFn(t, tu, "f").Body.Body[0].(*ast.DeclStmt)
	v := ds.Decls[0].(*ast.VarDecl)
	if v.Init == nil {
		t.Fatal("initializer missing")
	}
	if v.Init.Kind() != ast.CompoundLiteralExprKind {
		t.Errorf("init kind = %v", v.Init.Kind())
	}
}
