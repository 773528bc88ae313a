package dataflow

import (
	"testing"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/google/go-cmp/cmp"
)

// tagSet facts are sets of label names collected along paths.
type tagSet map[string]bool

// tags is a union analysis over LabelStmt elements, forward or
// backward depending on the flag.
type tags struct {
	backward bool
}

func (a tags) Backward() bool { return a.backward }
func (a tags) Bottom() Fact   { return tagSet{} }
func (a tags) Boundary() Fact { return tagSet{} }

func (a tags) Merge(x, y Fact) Fact {
	out := tagSet{}
	for t := range x.(tagSet) {
		out[t] = true
	}
	for t := range y.(tagSet) {
		out[t] = true
	}
	return out
}

func (a tags) Equal(x, y Fact) bool {
	xs, ys := x.(tagSet), y.(tagSet)
	if len(xs) != len(ys) {
		return false
	}
	for t := range xs {
		if !ys[t] {
			return false
		}
	}
	return true
}

func (a tags) Step(s ast.Stmt, pre Fact) Fact {
	l, ok := s.(*ast.LabelStmt)
	if !ok {
		return pre
	}
	out := tagSet{}
	for t := range pre.(tagSet) {
		out[t] = true
	}
	out[l.Name] = true
	return out
}

func tag(name string) ast.Stmt { return &ast.LabelStmt{Name: name} }

func link(from, to *cfg.Block) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// newGraph numbers the blocks and wraps them, first as entry and
// last as exit.
func newGraph(blocks ...*cfg.Block) *cfg.Graph {
	for i, b := range blocks {
		b.N = i
	}
	return &cfg.Graph{
		Blocks: blocks,
		Entry:  blocks[0],
		Exit:   blocks[len(blocks)-1],
	}
}

func names(f Fact) []string {
	var out []string
	for _, t := range []string{"a", "b", "c", "d"} {
		if f.(tagSet)[t] {
			out = append(out, t)
		}
	}
	return out
}

func TestForwardDiamond(t *testing.T) {
	t.Parallel()
	entry := &cfg.Block{}
	cond := &cfg.Block{Elems: []ast.Stmt{tag("a")}}
	left := &cfg.Block{Elems: []ast.Stmt{tag("b")}}
	right := &cfg.Block{Elems: []ast.Stmt{tag("c")}}
	merge := &cfg.Block{Elems: []ast.Stmt{tag("d")}}
	exit := &cfg.Block{}
	link(entry, cond)
	link(cond, left)
	link(cond, right)
	link(left, merge)
	link(right, merge)
	link(merge, exit)
	g := newGraph(entry, cond, left, right, merge, exit)

	r := Run(g, tags{})
	if diff := cmp.Diff([]string{"a", "b", "c"}, names(r.In[merge.N])); diff != "" {
		t.Errorf("merge in-fact (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, names(r.Out[merge.N])); diff != "" {
		t.Errorf("merge out-fact (-want +got):\n%s", diff)
	}
	if got := names(r.In[left.N]); len(got) != 1 || got[0] != "a" {
		t.Errorf("left in-fact = %v, want [a]", got)
	}
}

func TestForwardLoopConverges(t *testing.T) {
	t.Parallel()
	entry := &cfg.Block{}
	head := &cfg.Block{Elems: []ast.Stmt{tag("a")}}
	body := &cfg.Block{Elems: []ast.Stmt{tag("b")}}
	exit := &cfg.Block{}
	link(entry, head)
	link(head, body)
	link(head, exit)
	link(body, head) // back edge
	g := newGraph(entry, head, body, exit)

	r := Run(g, tags{})
	// The back edge feeds the body's tag into the head.
	if diff := cmp.Diff([]string{"a", "b"}, names(r.In[head.N])); diff != "" {
		t.Errorf("head in-fact (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, names(r.In[exit.N])); diff != "" {
		t.Errorf("exit in-fact (-want +got):\n%s", diff)
	}
}

func TestBackwardChain(t *testing.T) {
	t.Parallel()
	entry := &cfg.Block{}
	first := &cfg.Block{Elems: []ast.Stmt{tag("a")}}
	second := &cfg.Block{Elems: []ast.Stmt{tag("b")}}
	exit := &cfg.Block{}
	link(entry, first)
	link(first, second)
	link(second, exit)
	g := newGraph(entry, first, second, exit)

	r := Run(g, tags{backward: true})
	// Facts flow from exit toward entry.
	if diff := cmp.Diff([]string{"b"}, names(r.In[first.N])); diff != "" {
		t.Errorf("first block in-fact (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, names(r.Out[first.N])); diff != "" {
		t.Errorf("first block out-fact (-want +got):\n%s", diff)
	}
	if got := names(r.Out[exit.N]); len(got) != 0 {
		t.Errorf("exit out-fact = %v, want empty", got)
	}
}

func TestObserveOrder(t *testing.T) {
	t.Parallel()
	entry := &cfg.Block{}
	body := &cfg.Block{Elems: []ast.Stmt{tag("a"), tag("b")}}
	exit := &cfg.Block{}
	link(entry, body)
	link(body, exit)
	g := newGraph(entry, body, exit)

	t.Run("forward", func(t *testing.T) {
		t.Parallel()
		r := Run(g, tags{})
		var seen []string
		r.Observe(g, tags{}, func(b *cfg.Block, s ast.Stmt, before, after Fact) {
			seen = append(seen, s.(*ast.LabelStmt).Name)
			if s.(*ast.LabelStmt).Name == "b" && !before.(tagSet)["a"] {
				t.Error("fact before element b missing a")
			}
		})
		if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
			t.Errorf("visit order (-want +got):\n%s", diff)
		}
	})

	t.Run("backward", func(t *testing.T) {
		t.Parallel()
		an := tags{backward: true}
		r := Run(g, an)
		var seen []string
		r.Observe(g, an, func(b *cfg.Block, s ast.Stmt, before, after Fact) {
			seen = append(seen, s.(*ast.LabelStmt).Name)
			if s.(*ast.LabelStmt).Name == "a" && !before.(tagSet)["b"] {
				t.Error("fact before element a (in flow order) missing b")
			}
		})
		if diff := cmp.Diff([]string{"b", "a"}, seen); diff != "" {
			t.Errorf("visit order (-want +got):\n%s", diff)
		}
	})
}
