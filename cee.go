// Package cee wires the front end into one pipeline: source buffers
// go in, and a translation unit handle with per-function analyses
// comes out. Dropping the handle releases everything at once.
package cee

import (
	"fmt"

	"github.com/cee-lang/cee/analysis"
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/cee-lang/cee/dataflow"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/parse"
	"github.com/cee-lang/cee/pp"
	"github.com/cee-lang/cee/report"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/symexec"
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
)

// A File is one input buffer. The first file handed to Analyze is
// the main file; the rest are candidates for #include by path.
type File struct {
	Path string
	Buf  []byte
}

// Options configure one run.
type Options struct {
	Lang lang.Opts
	Diag diag.Config

	// StrictUninit propagates Uninit across a confluence when any
	// incoming path is uninitialized, instead of when all are.
	StrictUninit bool
}

// A Function is the analysis product of one function body.
type Function struct {
	Decl     *ast.FunctionDecl
	Graph    *cfg.Graph
	Liveness *dataflow.Result
	Reports  []*report.Report
}

// A TranslationUnit is the in-memory result handle: the root
// declaration context for lookup, the source manager for coordinate
// queries, and the per-function analyses.
type TranslationUnit struct {
	Decls     *ast.TranslationUnitDecl
	Sources   *source.Manager
	Diags     *diag.Engine
	Functions []*Function
}

// Analyze runs the pipeline over the files. Parsing always runs to
// the end of input; the flow and path analyses need well-formed
// input and are skipped once an error has been reported.
func Analyze(files []File, opts Options, consumer diag.Consumer) (*TranslationUnit, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("cee: no input files")
	}
	srcs := source.NewManager()
	diags := diag.NewEngine(opts.Diag, srcs, consumer)
	idents := token.NewIdentTable(opts.Lang)

	byPath := make(map[string][]byte, len(files))
	for _, f := range files[1:] {
		byPath[f.Path] = f.Buf
	}
	resolve := func(name string, angled bool) (string, []byte, error) {
		if buf, ok := byPath[name]; ok {
			return name, buf, nil
		}
		return "", nil, fmt.Errorf("%s: no such buffer", name)
	}

	preproc := pp.New(srcs, diags, opts.Lang, idents, resolve)
	preproc.EnterMainFile(srcs.AddFile(files[0].Path, files[0].Buf))

	p := parse.New(preproc, types.NewContext(), opts.Lang)
	tu := p.ParseTranslationUnit()

	out := &TranslationUnit{Decls: tu, Sources: srcs, Diags: diags}
	if diags.ErrorOccurred() || diags.FatalOccurred() {
		return out, nil
	}
	for _, d := range tu.Decls() {
		fd, ok := d.(*ast.FunctionDecl)
		if !ok || fd.Body == nil {
			continue
		}
		out.Functions = append(out.Functions, analyzeFunction(fd, srcs, diags, opts))
	}
	return out, nil
}

// analyzeFunction builds the CFG and runs every checker over it.
func analyzeFunction(fd *ast.FunctionDecl, srcs *source.Manager, diags *diag.Engine, opts Options) *Function {
	g := cfg.Build(fd.Body)
	fn := &Function{Decl: fd, Graph: g, Liveness: analysis.Liveness(g)}

	analysis.CheckDeadStores(g, srcs, diags)
	analysis.CheckUninitialized(g, diags, opts.StrictUninit)

	rep := &report.Reporter{}
	eng := symexec.NewEngine(g, srcs, opts.Lang, rep)
	eng.Run()
	fn.Reports = rep.Reports()
	rep.FlushTo(diags)
	return fn
}

// Function returns the analysis of the named function, or nil.
func (tu *TranslationUnit) Function(name string) *Function {
	for _, fn := range tu.Functions {
		if fn.Decl.Name == name {
			return fn
		}
	}
	return nil
}
