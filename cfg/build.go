package cfg

import (
	"github.com/cee-lang/cee/ast"
)

// Build constructs the control-flow graph of one function body.
func Build(body ast.Stmt) *Graph {
	b := &builder{labels: make(map[string]*Block)}
	b.exit = b.newBlock()
	entry := b.newBlock()
	b.cur = b.newBlock()
	b.edge(entry, b.cur)
	b.walkStmt(body)
	b.edge(b.cur, b.exit)
	return b.finish(entry)
}

type builder struct {
	blocks []*Block
	exit   *Block
	cur    *Block

	breaks    []*Block
	continues []*Block
	switches  []*switchFrame
	labels    map[string]*Block
}

type switchFrame struct {
	sw         *Block
	sawDefault bool
}

func (b *builder) newBlock() *Block {
	blk := &Block{}
	b.blocks = append(b.blocks, blk)
	return blk
}

func (b *builder) edge(from, to *Block) {
	from.Succs = append(from.Succs, to)
}

func (b *builder) append(s ast.Stmt) {
	b.cur.Elems = append(b.cur.Elems, s)
}

// labelBlock returns the block a named label opens, creating it on
// first reference so forward gotos resolve.
func (b *builder) labelBlock(name string) *Block {
	if blk, ok := b.labels[name]; ok {
		return blk
	}
	blk := b.newBlock()
	b.labels[name] = blk
	return blk
}

func (b *builder) walkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case nil:
		return

	case *ast.CompoundStmt:
		for _, sub := range s.Body {
			b.walkStmt(sub)
		}

	case *ast.NullStmt:

	case *ast.DeclStmt:
		for _, d := range s.Decls {
			if v, ok := d.(*ast.VarDecl); ok && v.Init != nil {
				b.walkExpr(v.Init)
			}
		}
		b.append(s)

	case *ast.IfStmt:
		b.walkExpr(s.Cond)
		cond := b.cur
		cond.Term = s
		then := b.newBlock()
		b.edge(cond, then)
		b.cur = then
		b.walkStmt(s.Then)
		thenEnd := b.cur
		var elseEnd *Block
		if s.Else != nil {
			els := b.newBlock()
			b.edge(cond, els)
			b.cur = els
			b.walkStmt(s.Else)
			elseEnd = b.cur
		}
		merge := b.newBlock()
		b.edge(thenEnd, merge)
		if elseEnd != nil {
			b.edge(elseEnd, merge)
		} else {
			b.edge(cond, merge)
		}
		b.cur = merge

	case *ast.WhileStmt:
		head := b.newBlock()
		b.edge(b.cur, head)
		b.cur = head
		b.walkExpr(s.Cond)
		cond := b.cur
		cond.Term = s
		body := b.newBlock()
		exit := b.newBlock()
		b.edge(cond, body)
		b.edge(cond, exit)
		b.pushLoop(exit, head)
		b.cur = body
		b.walkStmt(s.Body)
		b.edge(b.cur, head)
		b.popLoop()
		b.cur = exit

	case *ast.ObjCForCollectionStmt:
		b.walkStmt(s.Element)
		head := b.newBlock()
		b.edge(b.cur, head)
		b.cur = head
		b.walkExpr(s.Collection)
		// The loop stmt is an element too: it writes the element
		// variable on every iteration.
		b.append(s)
		cond := b.cur
		cond.Term = s
		body := b.newBlock()
		exit := b.newBlock()
		b.edge(cond, body)
		b.edge(cond, exit)
		b.pushLoop(exit, head)
		b.cur = body
		b.walkStmt(s.Body)
		b.edge(b.cur, head)
		b.popLoop()
		b.cur = exit

	case *ast.DoStmt:
		body := b.newBlock()
		b.edge(b.cur, body)
		head := b.newBlock()
		exit := b.newBlock()
		b.pushLoop(exit, head)
		b.cur = body
		b.walkStmt(s.Body)
		b.edge(b.cur, head)
		b.popLoop()
		b.cur = head
		b.walkExpr(s.Cond)
		cond := b.cur
		cond.Term = s
		b.edge(cond, body)
		b.edge(cond, exit)
		b.cur = exit

	case *ast.ForStmt:
		b.walkStmt(s.Init)
		head := b.newBlock()
		b.edge(b.cur, head)
		b.cur = head
		if s.Cond != nil {
			b.walkExpr(s.Cond)
		}
		cond := b.cur
		cond.Term = s
		body := b.newBlock()
		exit := b.newBlock()
		b.edge(cond, body)
		if s.Cond != nil {
			b.edge(cond, exit)
		}
		inc := b.newBlock()
		b.pushLoop(exit, inc)
		b.cur = body
		b.walkStmt(s.Body)
		b.edge(b.cur, inc)
		b.popLoop()
		b.cur = inc
		if s.Inc != nil {
			b.walkExpr(s.Inc)
		}
		b.edge(b.cur, head)
		b.cur = exit

	case *ast.SwitchStmt:
		b.walkExpr(s.Cond)
		sw := b.cur
		sw.Term = s
		exit := b.newBlock()
		frame := &switchFrame{sw: sw}
		b.switches = append(b.switches, frame)
		b.breaks = append(b.breaks, exit)
		// Statements before the first case label are unreachable.
		b.cur = b.newBlock()
		b.walkStmt(s.Body)
		b.edge(b.cur, exit)
		b.breaks = b.breaks[:len(b.breaks)-1]
		b.switches = b.switches[:len(b.switches)-1]
		if !frame.sawDefault {
			b.edge(sw, exit)
		}
		b.cur = exit

	case *ast.CaseStmt:
		blk := b.newBlock()
		blk.Label = s
		b.edge(b.cur, blk) // fall-through from the previous case body
		if n := len(b.switches); n > 0 {
			b.edge(b.switches[n-1].sw, blk)
		}
		b.cur = blk
		b.walkStmt(s.Body)

	case *ast.DefaultStmt:
		blk := b.newBlock()
		blk.Label = s
		b.edge(b.cur, blk)
		if n := len(b.switches); n > 0 {
			b.edge(b.switches[n-1].sw, blk)
			b.switches[n-1].sawDefault = true
		}
		b.cur = blk
		b.walkStmt(s.Body)

	case *ast.LabelStmt:
		blk := b.labelBlock(s.Name)
		blk.Label = s
		b.edge(b.cur, blk)
		b.cur = blk
		b.walkStmt(s.Body)

	case *ast.GotoStmt:
		b.cur.Term = s
		b.edge(b.cur, b.labelBlock(s.Label))
		b.cur = b.newBlock()

	case *ast.IndirectGotoStmt:
		b.walkExpr(s.Target)
		b.cur.Term = s
		b.edge(b.cur, b.exit)
		b.cur = b.newBlock()

	case *ast.ContinueStmt:
		b.jump(b.continues)

	case *ast.BreakStmt:
		b.jump(b.breaks)

	case *ast.ReturnStmt:
		if s.Value != nil {
			b.walkExpr(s.Value)
		}
		b.append(s)
		b.edge(b.cur, b.exit)
		b.cur = b.newBlock()

	case *ast.ObjCAtThrowStmt:
		if s.Value != nil {
			b.walkExpr(s.Value)
		}
		b.append(s)
		b.edge(b.cur, b.exit)
		b.cur = b.newBlock()

	case *ast.ObjCAtTryStmt:
		b.walkAtTry(s)

	case *ast.ObjCAtCatchStmt:
		b.walkStmt(s.Body)

	case *ast.ObjCAtFinallyStmt:
		b.walkStmt(s.Body)

	case *ast.AsmStmt:
		b.append(s)

	case ast.Expr:
		b.walkExpr(s)

	default:
		b.append(s)
	}
}

// walkAtTry branches from the statement before the @try to the try
// body and to every @catch, converging before the @finally body.
func (b *builder) walkAtTry(s *ast.ObjCAtTryStmt) {
	pre := b.cur
	pre.Term = s
	try := b.newBlock()
	b.edge(pre, try)
	after := b.newBlock()
	b.cur = try
	b.walkStmt(s.Try)
	b.edge(b.cur, after)
	for _, c := range s.Catches {
		cb := b.newBlock()
		b.edge(pre, cb)
		b.cur = cb
		b.walkStmt(c.Body)
		b.edge(b.cur, after)
	}
	b.cur = after
	b.walkStmt(s.Finally)
}

// jump wires an edge to the innermost target of a break or continue,
// or to exit when there is none, and starts a dead block for any
// trailing statements.
func (b *builder) jump(stack []*Block) {
	target := b.exit
	if n := len(stack); n > 0 {
		target = stack[n-1]
	}
	b.edge(b.cur, target)
	b.cur = b.newBlock()
}

func (b *builder) pushLoop(brk, cont *Block) {
	b.breaks = append(b.breaks, brk)
	b.continues = append(b.continues, cont)
}

func (b *builder) popLoop() {
	b.breaks = b.breaks[:len(b.breaks)-1]
	b.continues = b.continues[:len(b.continues)-1]
}

// walkExpr appends the sub-expressions of e in evaluation order,
// e itself last. Short-circuit operators and the conditional
// operator split the current block.
func (b *builder) walkExpr(e ast.Expr) {
	switch e := e.(type) {
	case nil:
		return

	case *ast.BinaryOperator:
		if e.Op.IsLogicalOp() {
			b.walkExpr(e.LHS)
			cond := b.cur
			cond.Term = e
			rhs := b.newBlock()
			merge := b.newBlock()
			// Succs[0] is the true branch: && evaluates its RHS on
			// true, || short-circuits on true.
			if e.Op == ast.BOLAnd {
				b.edge(cond, rhs)
				b.edge(cond, merge)
			} else {
				b.edge(cond, merge)
				b.edge(cond, rhs)
			}
			b.cur = rhs
			b.walkExpr(e.RHS)
			b.edge(b.cur, merge)
			b.cur = merge
			b.append(e)
			return
		}
		b.walkExpr(e.LHS)
		b.walkExpr(e.RHS)
		b.append(e)

	case *ast.ConditionalOperator:
		b.walkExpr(e.Cond)
		cond := b.cur
		cond.Term = e
		then := b.newBlock()
		els := b.newBlock()
		merge := b.newBlock()
		b.edge(cond, then)
		b.edge(cond, els)
		b.cur = then
		// The GNU a ?: b form reuses the condition as the result.
		if e.Then != nil {
			b.walkExpr(e.Then)
		}
		b.edge(b.cur, merge)
		b.cur = els
		b.walkExpr(e.Else)
		b.edge(b.cur, merge)
		b.cur = merge
		b.append(e)

	case *ast.StmtExpr:
		b.walkStmt(e.Body)
		b.append(e)

	case *ast.UnaryOperator:
		// The operand of sizeof and __alignof is unevaluated.
		if e.Op != ast.UOSizeOf && e.Op != ast.UOAlignOf {
			b.walkExpr(e.Operand)
		}
		b.append(e)

	default:
		for _, c := range e.Children() {
			if ce, ok := c.(ast.Expr); ok {
				b.walkExpr(ce)
			}
		}
		b.append(e)
	}
}

// finish prunes blocks unreachable from entry, numbers the survivors
// with entry first and exit last, and fills in predecessor lists.
func (b *builder) finish(entry *Block) *Graph {
	reached := make(map[*Block]bool)
	var mark func(*Block)
	mark = func(blk *Block) {
		if reached[blk] {
			return
		}
		reached[blk] = true
		for _, s := range blk.Succs {
			mark(s)
		}
	}
	mark(entry)
	reached[b.exit] = true

	g := &Graph{Entry: entry, Exit: b.exit}
	g.Blocks = append(g.Blocks, entry)
	for _, blk := range b.blocks {
		if blk == entry || blk == b.exit || !reached[blk] {
			continue
		}
		g.Blocks = append(g.Blocks, blk)
	}
	g.Blocks = append(g.Blocks, b.exit)
	for i, blk := range g.Blocks {
		blk.N = i
	}
	for _, blk := range g.Blocks {
		for _, s := range blk.Succs {
			s.addPred(blk)
		}
	}
	return g
}
