package analysis

import (
	"testing"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/parse"
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

type checkEnv struct {
	graph *cfg.Graph
	srcs  *source.Manager
	diags *diag.Engine
	ids   *collector
}

// prepare parses src and builds the graph of function f. Parse
// diagnostics must be clean so the collector holds only checker
// output.
func prepare(t *testing.T, src string) *checkEnv {
	t.Helper()
	return prepareOpts(t, src, lang.GNUOpts())
}

func prepareOpts(t *testing.T, src string, opts lang.Opts) *checkEnv {
	t.Helper()
	m := source.NewManager()
	c := &collector{}
	e := diag.NewEngine(diag.Config{}, m, c)
	idents := token.NewIdentTable(opts)
	preproc := pp.New(m, e, opts, idents, nil)
	preproc.EnterMainFile(m.AddFile("test.c", []byte(src)))
	p := parse.New(preproc, types.NewContext(), opts)
	tu := p.ParseTranslationUnit()
	if len(c.ids) != 0 {
		t.Fatalf("diagnostics while parsing: %v", c.ids)
	}
	fd, ok := tu.LookupHere("f").(*ast.FunctionDecl)
	if !ok || fd.Body == nil {
		t.Fatal("no function f in test source")
	}
	return &checkEnv{graph: cfg.Build(fd.Body), srcs: m, diags: e, ids: c}
}

func TestDeadStores(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want []diag.ID
	}{
		{
			"store never read",
			"void f(void) { int x; x = 0; }",
			[]diag.ID{diag.WarnDeadStore},
		},
		{
			"store read later",
			"void use(int); void f(void) { int x; x = 1; use(x); }",
			nil,
		},
		{
			"overwritten store",
			"void use(int); void f(void) { int x; x = 1; x = 2; use(x); }",
			[]diag.ID{diag.WarnDeadStore},
		},
		{
			"constant initializer is defensive",
			"void f(void) { int x = 1 + 2; }",
			nil,
		},
		{
			"call initializer never read",
			"int g(void); void f(void) { int x = g(); }",
			[]diag.ID{diag.WarnDeadInit},
		},
		{
			"dead increment",
			"void f(void) { int x = 0; x++; }",
			[]diag.ID{diag.WarnDeadIncrement},
		},
		{
			"live increment",
			"void use(int); void f(void) { int x = 0; x++; use(x); }",
			nil,
		},
		{
			"self assignment",
			"void f(void) { int x = 1; x = x; }",
			[]diag.ID{diag.WarnDeadStore},
		},
		{
			"address taken exempts",
			"void g(int *); void f(void) { int x; g(&x); x = 1; }",
			nil,
		},
		{
			"consumed assignment is not a store statement",
			"void use(int); void f(void) { int x; use(x = 1); }",
			nil,
		},
		{
			"store on one path read on the other",
			"void use(int); void f(int c) { int x; x = 1; if (c) use(x); }",
			nil,
		},
		{
			"loop-carried store",
			"void f(int n) { int i; for (i = 0; i < n; i++) ; }",
			nil,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			env := prepare(t, test.src)
			CheckDeadStores(env.graph, env.srcs, env.diags)
			if diff := cmp.Diff(test.want, env.ids.ids); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeadStoreMacroSuppression(t *testing.T) {
	t.Parallel()
	src := `
#define CLEAR(v) v = 0
void f(void) { int x; CLEAR(x); }
`
	env := prepare(t, src)
	CheckDeadStores(env.graph, env.srcs, env.diags)
	if len(env.ids.ids) != 0 {
		t.Errorf("macro-expanded store reported: %v", env.ids.ids)
	}
}

func TestUninitialized(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		src    string
		strict bool
		want   []diag.ID
	}{
		{
			"read before any write",
			"void f(void) { int x; if (x) {} }",
			false,
			[]diag.ID{diag.WarnUninitValue},
		},
		{
			"write before read",
			"void use(int); void f(void) { int x; x = 1; use(x); }",
			false,
			nil,
		},
		{
			"all switch paths initialize",
			`void use(int);
void f(int n) {
	int a;
	switch (n) {
	case 1:
		a = 1;
		break;
	default:
		a = 2;
	}
	use(a);
}`,
			true,
			nil,
		},
		{
			"one bad path strict",
			"void use(int); void f(int c) { int x; if (c) x = 1; use(x); }",
			true,
			[]diag.ID{diag.WarnUninitValue},
		},
		{
			"one bad path loose",
			"void use(int); void f(int c) { int x; if (c) x = 1; use(x); }",
			false,
			nil,
		},
		{
			"increment of uninitialized",
			"void f(void) { int x; x++; }",
			false,
			[]diag.ID{diag.WarnUninitValue},
		},
		{
			"compound assign of uninitialized",
			"void use(int); void f(void) { int x; x += 1; use(x); }",
			false,
			[]diag.ID{diag.WarnUninitValue},
		},
		{
			"cascade reported once",
			"void use(int); void f(void) { int x; use(x); use(x); use(x); }",
			false,
			[]diag.ID{diag.WarnUninitValue},
		},
		{
			"parameters are initialized",
			"void use(int); void f(int p) { use(p); }",
			false,
			nil,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			env := prepare(t, test.src)
			CheckUninitialized(env.graph, env.diags, test.strict)
			if diff := cmp.Diff(test.want, env.ids.ids); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectionLoopElementInitialized(t *testing.T) {
	t.Parallel()
	opts := lang.GNUOpts()
	opts.ObjC1 = true
	src := `
typedef struct objc_object *id;
void use(id);
void f(id coll) {
	for (id x in coll)
		use(x);
	id y;
	for (y in coll)
		use(y);
}
`
	env := prepareOpts(t, src, opts)
	CheckUninitialized(env.graph, env.diags, true)
	if len(env.ids.ids) != 0 {
		t.Errorf("loop element reported uninitialized: %v", env.ids.ids)
	}
}

func TestLivenessDirect(t *testing.T) {
	t.Parallel()
	env := prepare(t, `
void use(int);
void f(int c) {
	int x;
	x = 1;
	if (c)
		use(x);
}
`)
	res := Liveness(env.graph)
	// x must be live somewhere between the store and the branch.
	live := false
	for _, b := range env.graph.Blocks {
		for v := range res.Out[b.N].(LiveSet) {
			if v.Name == "x" {
				live = true
			}
		}
	}
	if !live {
		t.Error("x never live despite a reachable use")
	}
}
