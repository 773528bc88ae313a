package cee

import (
	"testing"

	"github.com/eaburns/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/source"
)

type collector struct {
	ids    []diag.ID
	levels []diag.Level
}

func (c *collector) Handle(level diag.Level, loc source.Loc, id diag.ID, msg string, ranges []diag.Range) bool {
	c.ids = append(c.ids, id)
	c.levels = append(c.levels, level)
	return false
}

func (c *collector) has(id diag.ID) bool {
	for _, got := range c.ids {
		if got == id {
			return true
		}
	}
	return false
}

func TestAnalyzePipeline(t *testing.T) {
	t.Parallel()
	src := `
typedef struct __CFString *CFStringRef;
CFStringRef CFStringCreateWithCString(int alloc, char *cstr, int enc);
void f(void) {
	int dead;
	dead = 1;
	CFStringRef s = CFStringCreateWithCString(0, "a", 0);
}
`
	c := &collector{}
	tu, err := Analyze([]File{{Path: "main.c", Buf: []byte(src)}}, Options{Lang: lang.GNUOpts()}, c)
	require.NoError(t, err)
	require.NotNil(t, tu)

	fn := tu.Function("f")
	require.NotNil(t, fn, "analyses did not run:\n%s", pretty.String(c.ids))
	assert.NotNil(t, fn.Graph)
	assert.NotNil(t, fn.Liveness)
	assert.NotEmpty(t, fn.Reports, "the unreleased create must be reported")

	assert.True(t, c.has(diag.WarnDeadStore), "dead store missing from %s", pretty.String(c.ids))
	assert.True(t, c.has(diag.WarnDeadInit), "dead initialization missing from %s", pretty.String(c.ids))
	assert.True(t, c.has(diag.WarnLeak), "leak missing from %s", pretty.String(c.ids))
}

func TestErrorsGateAnalyses(t *testing.T) {
	t.Parallel()
	src := `void f(void) { int x; x = ; }`
	c := &collector{}
	tu, err := Analyze([]File{{Path: "main.c", Buf: []byte(src)}}, Options{Lang: lang.GNUOpts()}, c)
	require.NoError(t, err)
	require.NotNil(t, tu)
	assert.True(t, tu.Diags.ErrorOccurred())
	assert.Empty(t, tu.Functions, "analyses ran on ill-formed input")
}

func TestIncludeResolution(t *testing.T) {
	t.Parallel()
	files := []File{
		{Path: "main.c", Buf: []byte("#include \"defs.h\"\nint g(void) { return ANSWER; }\n")},
		{Path: "defs.h", Buf: []byte("#define ANSWER 42\n")},
	}
	c := &collector{}
	tu, err := Analyze(files, Options{Lang: lang.GNUOpts()}, c)
	require.NoError(t, err)
	assert.Empty(t, c.ids, "diagnostics: %s", pretty.String(c.ids))
	require.NotNil(t, tu.Function("g"))
}

func TestMissingInclude(t *testing.T) {
	t.Parallel()
	files := []File{
		{Path: "main.c", Buf: []byte("#include \"nowhere.h\"\nint x;\n")},
	}
	c := &collector{}
	_, err := Analyze(files, Options{Lang: lang.GNUOpts()}, c)
	require.NoError(t, err)
	assert.True(t, c.has(diag.ErrFileNotFound))
}

func TestNoInput(t *testing.T) {
	t.Parallel()
	_, err := Analyze(nil, Options{}, &collector{})
	require.Error(t, err)
}

func TestStrictUninit(t *testing.T) {
	t.Parallel()
	src := `
void use(int);
void f(int c) {
	int x;
	if (c)
		x = 1;
	use(x);
}
`
	for _, strict := range []bool{true, false} {
		strict := strict
		name := "loose"
		if strict {
			name = "strict"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := &collector{}
			opts := Options{Lang: lang.GNUOpts(), StrictUninit: strict}
			_, err := Analyze([]File{{Path: "main.c", Buf: []byte(src)}}, opts, c)
			require.NoError(t, err)
			assert.Equal(t, strict, c.has(diag.WarnUninitValue),
				"uninit reporting disagrees with confluence mode: %s", pretty.String(c.ids))
		})
	}
}
