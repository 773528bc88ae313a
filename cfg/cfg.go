// Package cfg builds per-function control-flow graphs.
//
// Each block holds a forward-ordered list of elements: the statements
// and sub-expressions of the function body in evaluation order. A
// block's terminator is the statement or expression that decides
// among its successors: an if, loop, or switch condition, a goto, or
// a short-circuit operator. Blocks with no terminator fall through to
// their single successor.
//
// The entry block is synthetic and empty; the exit block is a single
// synthetic sink. Every block in a finished graph is reachable from
// entry, except possibly exit when the function cannot return.
package cfg

import (
	"strconv"
	"strings"

	"github.com/cee-lang/cee/ast"
)

// A Block is one basic block.
type Block struct {
	// N is unique within the containing Graph. Entry is 0 and exit
	// is the highest number.
	N     int
	Elems []ast.Stmt

	// Term is the branching statement or expression, nil when the
	// block falls through. For conditionals Succs[0] is the branch
	// taken when the condition is true and Succs[1] the branch when
	// it is false. For a switch, Succs holds the case blocks in
	// source order with the default (or fall-out) block last.
	Term ast.Stmt

	// Label is the CaseStmt, DefaultStmt, or LabelStmt that opens
	// the block, when one does.
	Label ast.Stmt

	Succs []*Block
	Preds []*Block
}

func (b *Block) addPred(p *Block) {
	for _, q := range b.Preds {
		if q == p {
			return
		}
	}
	b.Preds = append(b.Preds, p)
}

// A Graph is the control-flow graph of one function body.
type Graph struct {
	// Blocks holds every block in creation order; Blocks[0] is the
	// entry and the last block is the exit.
	Blocks []*Block
	Entry  *Block
	Exit   *Block
}

// NumBlocks returns the block count.
func (g *Graph) NumBlocks() int { return len(g.Blocks) }

func (g *Graph) String() string {
	var s strings.Builder
	for _, b := range g.Blocks {
		s.WriteString(strconv.Itoa(b.N))
		s.WriteString(":")
		switch b {
		case g.Entry:
			s.WriteString(" (entry)")
		case g.Exit:
			s.WriteString(" (exit)")
		}
		s.WriteString("\n\t[in:")
		for _, p := range b.Preds {
			s.WriteString(" ")
			s.WriteString(strconv.Itoa(p.N))
		}
		s.WriteString("] [out:")
		for _, q := range b.Succs {
			s.WriteString(" ")
			s.WriteString(strconv.Itoa(q.N))
		}
		s.WriteString("]\n")
		if b.Label != nil {
			s.WriteString("\tlabel ")
			s.WriteString(b.Label.Kind().String())
			s.WriteString("\n")
		}
		for _, e := range b.Elems {
			s.WriteString("\t")
			s.WriteString(e.Kind().String())
			s.WriteString("\n")
		}
		if b.Term != nil {
			s.WriteString("\tterm ")
			s.WriteString(b.Term.Kind().String())
			s.WriteString("\n")
		}
	}
	return s.String()
}
