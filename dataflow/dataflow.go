// Package dataflow runs lattice analyses to fixed point over a
// control-flow graph.
//
// An analysis supplies the lattice (bottom, boundary, merge,
// equality), a transfer function over block elements, and a
// direction. The solver keeps one fact per block edge of the flow
// (block-in and block-out in flow direction) and re-queues a block's
// flow successors whenever its out-fact changes.
package dataflow

import (
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
)

// A Fact is one lattice element. Facts are treated as immutable:
// Step and Merge return new facts rather than mutating arguments.
type Fact interface{}

// An Analysis parameterises the solver.
type Analysis interface {
	// Backward reports the flow direction. A backward analysis
	// visits block elements in reverse and flows facts from
	// successors to predecessors.
	Backward() bool

	// Bottom is the initial fact for every block.
	Bottom() Fact

	// Boundary is the fact entering the flow start block: the entry
	// block for a forward analysis, the exit block for a backward
	// one.
	Boundary() Fact

	// Merge joins two facts at a confluence point.
	Merge(a, b Fact) Fact

	// Equal reports whether two facts are the same lattice element.
	// The solver stops re-queueing once out-facts stop changing.
	Equal(a, b Fact) bool

	// Step transfers one block element.
	Step(s ast.Stmt, pre Fact) Fact
}

// A Result holds the solved facts, indexed by block number.
// In and Out are in flow direction: for a backward analysis In[b]
// is the fact at the block's end in program order.
type Result struct {
	In  []Fact
	Out []Fact
}

// Run solves the analysis over g.
func Run(g *cfg.Graph, an Analysis) *Result {
	n := len(g.Blocks)
	r := &Result{In: make([]Fact, n), Out: make([]Fact, n)}
	for i := 0; i < n; i++ {
		r.In[i] = an.Bottom()
		r.Out[i] = an.Bottom()
	}
	start := g.Entry
	if an.Backward() {
		start = g.Exit
	}

	queued := make([]bool, n)
	var queue []*cfg.Block
	push := func(b *cfg.Block) {
		if !queued[b.N] {
			queued[b.N] = true
			queue = append(queue, b)
		}
	}
	if an.Backward() {
		for i := n - 1; i >= 0; i-- {
			push(g.Blocks[i])
		}
	} else {
		for _, b := range g.Blocks {
			push(b)
		}
	}

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		queued[b.N] = false

		in := an.Bottom()
		if b == start {
			in = an.Merge(in, an.Boundary())
		}
		for _, p := range flowPreds(b, an.Backward()) {
			in = an.Merge(in, r.Out[p.N])
		}
		r.In[b.N] = in

		out := stepBlock(b, an, in, nil)
		if an.Equal(out, r.Out[b.N]) {
			continue
		}
		r.Out[b.N] = out
		for _, s := range flowSuccs(b, an.Backward()) {
			push(s)
		}
	}
	return r
}

// Observe replays the transfer functions over the solved result,
// calling obs for every block element with the facts before and
// after it in flow direction. For a backward analysis "before" is
// therefore the fact holding after the element in program order.
func (r *Result) Observe(g *cfg.Graph, an Analysis, obs func(b *cfg.Block, s ast.Stmt, before, after Fact)) {
	for _, b := range g.Blocks {
		stepBlock(b, an, r.In[b.N], obs)
	}
}

// stepBlock transfers a whole block, visiting elements in flow
// order. obs may be nil.
func stepBlock(b *cfg.Block, an Analysis, in Fact, obs func(*cfg.Block, ast.Stmt, Fact, Fact)) Fact {
	fact := in
	if an.Backward() {
		for i := len(b.Elems) - 1; i >= 0; i-- {
			next := an.Step(b.Elems[i], fact)
			if obs != nil {
				obs(b, b.Elems[i], fact, next)
			}
			fact = next
		}
		return fact
	}
	for _, e := range b.Elems {
		next := an.Step(e, fact)
		if obs != nil {
			obs(b, e, fact, next)
		}
		fact = next
	}
	return fact
}

func flowPreds(b *cfg.Block, backward bool) []*cfg.Block {
	if backward {
		return b.Succs
	}
	return b.Preds
}

func flowSuccs(b *cfg.Block, backward bool) []*cfg.Block {
	if backward {
		return b.Preds
	}
	return b.Succs
}
