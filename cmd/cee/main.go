// Command cee is the thin driver over the front-end library: token,
// AST, and CFG dumps, plus the static checks.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cee-lang/cee"
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/pp"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
)

func main() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cee:", err)
		os.Exit(1)
	}
}

type app struct {
	configPath   string
	objc         bool
	c99          bool
	strictUninit bool
	werror       bool

	cfg *fileConfig
}

func rootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cee",
		Short:         "C/Objective-C front end and static analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath == "" {
				a.cfg = &fileConfig{}
				return nil
			}
			c, err := readConfig(a.configPath)
			a.cfg = c
			return err
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "yaml configuration file")
	pf.BoolVar(&a.objc, "objc", false, "enable Objective-C")
	pf.BoolVar(&a.c99, "c99", false, "enable C99")
	root.AddCommand(a.dumpTokensCmd(), a.dumpASTCmd(), a.dumpCFGCmd(), a.checkCmd())
	return root
}

// options assembles the run options from the config file with the
// command-line flags layered on top.
func (a *app) options() (cee.Options, error) {
	var opts cee.Options
	var err error
	if a.configPath == "" {
		opts.Lang = lang.GNUOpts()
	} else if opts.Lang, err = a.cfg.langOpts(); err != nil {
		return opts, err
	}
	if opts.Diag, err = a.cfg.diagConfig(); err != nil {
		return opts, err
	}
	if a.objc {
		opts.Lang.ObjC1 = true
	}
	if a.c99 {
		c99 := lang.C99Opts()
		opts.Lang.C99 = true
		opts.Lang.Digraphs = c99.Digraphs
		opts.Lang.Trigraphs = c99.Trigraphs
	}
	opts.StrictUninit = a.strictUninit || a.cfg.Diagnostics.StrictUninit
	if a.werror {
		opts.Diag.WarningsAsErrors = true
	}
	return opts, nil
}

func loadFiles(args []string) ([]cee.File, error) {
	files := make([]cee.File, 0, len(args))
	for _, path := range args {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, cee.File{Path: path, Buf: buf})
	}
	return files, nil
}

func (a *app) dumpTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-tokens <file>",
		Short: "print the preprocessed token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			srcs := source.NewManager()
			sink := &collector{}
			diags := diag.NewEngine(opts.Diag, srcs, sink)
			idents := token.NewIdentTable(opts.Lang)
			preproc := pp.New(srcs, diags, opts.Lang, idents, nil)
			preproc.EnterMainFile(srcs.AddFile(args[0], buf))

			var tok token.Token
			for {
				preproc.Lex(&tok)
				if tok.Is(token.EOF) {
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-20s %q\n",
					tok.Kind, srcs.Position(tok.Loc), spelling(srcs, &tok))
			}
			sink.print(srcs, os.Stderr)
			return nil
		},
	}
}

// spelling slices the token's bytes back out of its buffer.
func spelling(srcs *source.Manager, tok *token.Token) string {
	f, off := srcs.Decompose(tok.Loc)
	if f == nil || off+tok.Len > f.Size() {
		return ""
	}
	return string(f.Buf[off : off+tok.Len])
}

func (a *app) dumpASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-ast <file...>",
		Short: "parse and print every function body",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tu, sink, err := a.analyze(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, d := range tu.Decls.Decls() {
				fd, ok := d.(*ast.FunctionDecl)
				if !ok || fd.Body == nil {
					continue
				}
				fmt.Fprintf(w, "%s %s\n", tu.Sources.Position(fd.Loc()), fd.Name)
				fmt.Fprintln(w, ast.Print(fd.Body))
			}
			sink.print(tu.Sources, os.Stderr)
			return nil
		},
	}
}

func (a *app) dumpCFGCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-cfg <file...>",
		Short: "print the control-flow graph of every function",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tu, sink, err := a.analyze(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, fn := range tu.Functions {
				fmt.Fprintf(w, "%s %s\n", tu.Sources.Position(fn.Decl.Loc()), fn.Decl.Name)
				fmt.Fprintln(w, fn.Graph.String())
			}
			sink.print(tu.Sources, os.Stderr)
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file...>",
		Short: "run the static checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tu, sink, err := a.analyze(args)
			if err != nil {
				return err
			}
			sink.print(tu.Sources, os.Stderr)
			if tu.Diags.ErrorOccurred() || tu.Diags.FatalOccurred() {
				return fmt.Errorf("errors generated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&a.strictUninit, "strict-uninit", false, "warn on any uninitialized path")
	cmd.Flags().BoolVar(&a.werror, "werror", false, "treat warnings as errors")
	return cmd
}

func (a *app) analyze(args []string) (*cee.TranslationUnit, *collector, error) {
	opts, err := a.options()
	if err != nil {
		return nil, nil, err
	}
	files, err := loadFiles(args)
	if err != nil {
		return nil, nil, err
	}
	sink := &collector{}
	tu, err := cee.Analyze(files, opts, sink)
	return tu, sink, err
}

// A collector buffers diagnostics until the source manager is
// available to render their positions.
type collector struct {
	entries []entry
}

type entry struct {
	level diag.Level
	loc   source.Loc
	msg   string
}

func (c *collector) Handle(level diag.Level, loc source.Loc, id diag.ID, msg string, ranges []diag.Range) bool {
	c.entries = append(c.entries, entry{level: level, loc: loc, msg: msg})
	return false
}

var levelColors = map[diag.Level]*color.Color{
	diag.LevelNote:    color.New(color.Faint),
	diag.LevelWarning: color.New(color.FgMagenta, color.Bold),
	diag.LevelError:   color.New(color.FgRed, color.Bold),
	diag.LevelFatal:   color.New(color.FgRed, color.Bold),
}

func (c *collector) print(srcs *source.Manager, w io.Writer) {
	for _, e := range c.entries {
		label := e.level.String()
		if col, ok := levelColors[e.level]; ok {
			label = col.Sprint(label)
		}
		fmt.Fprintf(w, "%s: %s: %s\n", srcs.Position(e.loc), label, e.msg)
	}
}
