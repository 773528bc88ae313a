package symexec

import (
	"fmt"
	"sort"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/report"
	"github.com/cee-lang/cee/source"
)

// A Node pairs a program point with a state. Nodes are interned by
// the profile of the pair, so a path that reaches an already-seen
// point in an already-seen state stops there.
type Node struct {
	Point Point
	State *State
	Preds []*Node
	Succs []*Node

	// Sink marks a node whose path must not be extended, set after
	// a fatal checker transition.
	Sink bool
}

// An Engine explores one function body. It owns the exploded graph,
// the worklist, and the symbol supply.
type Engine struct {
	graph    *cfg.Graph
	srcs     *source.Manager
	opts     lang.Opts
	checker  *RetainChecker
	reporter *report.Reporter

	nodes   map[string]*Node
	work    []*Node
	nextSym SymbolID
	steps   int
}

// maxSteps bounds exploration; loops over concrete counters never
// converge by state equality, so the budget is the backstop.
const maxSteps = 50000

// NewEngine returns an engine over g reporting into rep.
func NewEngine(g *cfg.Graph, srcs *source.Manager, opts lang.Opts, rep *report.Reporter) *Engine {
	return &Engine{
		graph:    g,
		srcs:     srcs,
		opts:     opts,
		checker:  NewRetainChecker(opts.GC),
		reporter: rep,
		nodes:    make(map[string]*Node),
	}
}

// Check runs symbolic execution over g and flushes the findings
// through the diagnostic engine.
func Check(g *cfg.Graph, srcs *source.Manager, opts lang.Opts, diags *diag.Engine) {
	rep := &report.Reporter{}
	e := NewEngine(g, srcs, opts, rep)
	e.Run()
	rep.FlushTo(diags)
}

// Run explores paths until the worklist drains or the step budget
// runs out.
func (e *Engine) Run() {
	e.addNode(Point{Kind: BlockEntrance, Block: e.graph.Entry}, NewState(), nil)
	for len(e.work) > 0 && e.steps < maxSteps {
		e.steps++
		n := e.work[len(e.work)-1]
		e.work = e.work[:len(e.work)-1]
		if n.Sink {
			continue
		}
		e.process(n)
	}
}

// NumNodes reports the size of the exploded graph.
func (e *Engine) NumNodes() int { return len(e.nodes) }

// Nodes returns the exploded graph's nodes in no particular order.
func (e *Engine) Nodes() []*Node {
	out := make([]*Node, 0, len(e.nodes))
	for _, n := range e.nodes {
		out = append(out, n)
	}
	return out
}

func (e *Engine) conjure() SymbolID {
	e.nextSym++
	return e.nextSym
}

// addNode interns (point, state). A hit adds only the predecessor
// link and is not re-queued.
func (e *Engine) addNode(p Point, st *State, pred *Node) *Node {
	key := p.profile() + "|" + st.profile()
	n, ok := e.nodes[key]
	if !ok {
		n = &Node{Point: p, State: st}
		e.nodes[key] = n
		e.work = append(e.work, n)
	}
	if pred != nil && pred != n {
		pred.Succs = append(pred.Succs, n)
		n.Preds = append(n.Preds, pred)
	}
	return n
}

func (e *Engine) process(n *Node) {
	p := n.Point
	switch {
	case p.Kind == BlockEntrance:
		if p.Block == e.graph.Exit {
			e.endPath(n)
			return
		}
		e.advance(n, 0)
	case p.IsPostStmt():
		e.advance(n, p.Index+1)
	case p.Kind == BlockExit:
		e.buildEdges(n)
	case p.Kind == BlockEdge:
		// Expression bindings die at the edge; this is what lets
		// loop iterations converge to an already-interned state.
		e.addNode(Point{Kind: BlockEntrance, Block: p.Dst}, n.State.ClearEnv(), n)
	case p.Kind == PostPurgeDeadSymbols:
		// Terminal. Leaks were reported when the node was built.
	}
}

// advance evaluates block element i and queues its post point, or
// the block exit when the elements are exhausted.
func (e *Engine) advance(n *Node, i int) {
	b := n.Point.Block
	if i >= len(b.Elems) {
		e.addNode(Point{Kind: BlockExit, Block: b}, n.State, n)
		return
	}
	s := b.Elems[i]
	st, kind, fail := e.transfer(n.State, s)
	next := e.addNode(Point{Kind: kind, Block: b, Stmt: s, Index: i}, st, n)
	if fail != nil {
		e.reportFailure(next, s.Start(), s, fail)
		if fail.sink {
			next.Sink = true
		}
	}
}

// transfer evaluates one block element against the state.
func (e *Engine) transfer(st *State, s ast.Stmt) (*State, PointKind, *refFailure) {
	switch s := s.(type) {
	case *ast.IntegerLiteral:
		return st.BindExpr(s, ConcreteInt{Value: int64(s.Value)}), PostStmt, nil

	case *ast.CharacterLiteral:
		return st.BindExpr(s, ConcreteInt{Value: s.Value}), PostStmt, nil

	case *ast.CXXBoolLiteralExpr:
		v := int64(0)
		if s.Value {
			v = 1
		}
		return st.BindExpr(s, ConcreteInt{Value: v}), PostStmt, nil

	case *ast.DeclRefExpr:
		switch d := s.Decl.(type) {
		case *ast.VarDecl:
			return st.BindExpr(s, DeclVal{Decl: d}), PostStmt, nil
		case *ast.FunctionDecl:
			return st.BindExpr(s, FuncVal{Fn: d}), PostStmt, nil
		case *ast.EnumConstantDecl:
			return st.BindExpr(s, ConcreteInt{Value: d.Value}), PostStmt, nil
		}
		return st, PostStmt, nil

	case *ast.ParenExpr:
		return st.BindExpr(s, st.ExprVal(s.Inner)), PostStmt, nil

	case *ast.ImplicitCastExpr:
		v := st.ExprVal(s.Operand)
		dv, ok := v.(DeclVal)
		if !ok {
			// Decays and value-preserving conversions.
			return st.BindExpr(s, v), PostStmt, nil
		}
		loaded, bound := st.DeclVal(dv.Decl)
		if !bound {
			// First sight of a parameter or global: conjure a
			// symbol so both arms of a later branch agree on it.
			loaded = SymbolVal{Sym: e.conjure()}
			st = st.BindDecl(dv.Decl, loaded)
		}
		return st.BindExpr(s, loaded), PostLoad, nil

	case *ast.CastExpr:
		return st.BindExpr(s, st.ExprVal(s.Operand)), PostStmt, nil

	case *ast.CXXCastExpr:
		return st.BindExpr(s, st.ExprVal(s.Operand)), PostStmt, nil

	case *ast.UnaryOperator:
		return e.transferUnary(st, s)

	case *ast.BinaryOperator:
		return e.transferBinary(st, s)

	case *ast.ConditionalOperator:
		// The arms were evaluated in their own blocks; their
		// bindings died at the edges.
		return st.BindExpr(s, UnknownVal{}), PostStmt, nil

	case *ast.StmtExpr:
		// The value of ({...}) is its last expression, evaluated as
		// an inlined element earlier in this block.
		return st.BindExpr(s, UnknownVal{}), PostStmt, nil

	case *ast.CallExpr:
		return e.evalCall(st, s)

	case *ast.ObjCMessageExpr:
		return e.evalMessage(st, s)

	case *ast.ReturnStmt:
		return e.transferReturn(st, s), PostStmt, nil

	case *ast.DeclStmt:
		var fail *refFailure
		for _, d := range s.Decls {
			v, ok := d.(*ast.VarDecl)
			if !ok || !v.HasLocalStorage() {
				continue
			}
			if v.Init == nil {
				st = st.BindDecl(v, UninitializedVal{})
				continue
			}
			init := st.ExprVal(ast.IgnoreParens(v.Init))
			var f *refFailure
			st, f = e.checkLostBinding(st, v, init)
			if f != nil && fail == nil {
				fail = f
			}
			st = st.BindDecl(v, init)
		}
		return st, PostStmt, fail
	}
	return st, PostStmt, nil
}

func (e *Engine) transferUnary(st *State, s *ast.UnaryOperator) (*State, PointKind, *refFailure) {
	switch {
	case s.Op == ast.UOAddrOf:
		// The address of an object is the object's lvalue.
		return st.BindExpr(s, st.ExprVal(s.Operand)), PostStmt, nil

	case s.Op.IsIncDec():
		dv, ok := st.ExprVal(s.Operand).(DeclVal)
		if !ok {
			return st.BindExpr(s, UnknownVal{}), PostStore, nil
		}
		old, _ := st.DeclVal(dv.Decl)
		if old == nil {
			old = UnknownVal{}
		}
		op := ast.BOAdd
		if s.Op == ast.UOPostDec || s.Op == ast.UOPreDec {
			op = ast.BOSub
		}
		nv := evalBin(op, old, ConcreteInt{Value: 1})
		st = st.BindDecl(dv.Decl, nv)
		if s.Op.IsPostfix() {
			return st.BindExpr(s, old), PostStore, nil
		}
		return st.BindExpr(s, nv), PostStore, nil

	case s.Op == ast.UODeref:
		return st.BindExpr(s, UnknownVal{}), PostLoad, nil

	default:
		v := evalUnary(s.Op, st.ExprVal(s.Operand))
		return st.BindExpr(s, v), PostStmt, nil
	}
}

func (e *Engine) transferBinary(st *State, s *ast.BinaryOperator) (*State, PointKind, *refFailure) {
	if s.Op == ast.BOAssign {
		rhs := st.ExprVal(s.RHS)
		dv, ok := st.ExprVal(s.LHS).(DeclVal)
		if !ok {
			return st.BindExpr(s, rhs), PostStore, nil
		}
		st, fail := e.checkLostBinding(st, dv.Decl, rhs)
		st = st.BindDecl(dv.Decl, rhs)
		return st.BindExpr(s, rhs), PostStore, fail
	}
	if s.Op.IsCompoundAssignmentOp() {
		dv, ok := st.ExprVal(s.LHS).(DeclVal)
		if !ok {
			return st.BindExpr(s, UnknownVal{}), PostStore, nil
		}
		old, _ := st.DeclVal(dv.Decl)
		if old == nil {
			old = UnknownVal{}
		}
		nv := evalBin(compoundBase(s.Op), old, st.ExprVal(s.RHS))
		st = st.BindDecl(dv.Decl, nv)
		return st.BindExpr(s, nv), PostStore, nil
	}
	if s.Op == ast.BOComma {
		return st.BindExpr(s, st.ExprVal(s.RHS)), PostStmt, nil
	}
	if s.Op.IsLogicalOp() {
		// Appears in the merge block after short-circuit splitting;
		// the chosen arm's value died at the edge.
		return st.BindExpr(s, UnknownVal{}), PostStmt, nil
	}
	v := evalBin(s.Op, st.ExprVal(s.LHS), st.ExprVal(s.RHS))
	return st.BindExpr(s, v), PostStmt, nil
}

func (e *Engine) transferReturn(st *State, s *ast.ReturnStmt) *State {
	if s.Value == nil {
		return st
	}
	sv, ok := st.ExprVal(ast.IgnoreParens(s.Value)).(SymbolVal)
	if !ok {
		return st
	}
	r, ok := st.Ref(sv.Sym)
	if !ok {
		return st
	}
	switch r.Kind {
	case Owned:
		r.Kind = ReturnedOwned
	case NotOwned:
		r.Kind = ReturnedNotOwned
	default:
		return st
	}
	return st.SetRef(sv.Sym, r)
}

// evalCall applies the callee's retain-count summary to the
// arguments and conjures the return value.
func (e *Engine) evalCall(st *State, call *ast.CallExpr) (*State, PointKind, *refFailure) {
	retIsRef := call.Ty.IsPointerType() || call.Ty.IsObjCObjectPointerType()
	sum := e.checker.FuncSummary(calleeName(st, call), retIsRef)

	var fail *refFailure
	args := make([]SVal, len(call.Args))
	for i, a := range call.Args {
		args[i] = st.ExprVal(a)
	}
	for i, v := range args {
		sv, ok := v.(SymbolVal)
		if !ok {
			continue
		}
		var f *refFailure
		st, f = e.checker.Apply(st, sv.Sym, sum.arg(i))
		if f != nil && fail == nil {
			fail = f
		}
	}
	st = e.bindCallResult(st, call, sum, args, UnknownVal{}, retIsRef)
	return st, PostStmt, fail
}

// evalMessage is evalCall for Objective-C sends: the receiver gets
// its own effect, and the return may alias it.
func (e *Engine) evalMessage(st *State, msg *ast.ObjCMessageExpr) (*State, PointKind, *refFailure) {
	retIsRef := msg.Ty.IsObjCObjectPointerType() || msg.Ty.IsPointerType()
	sum := e.checker.MethodSummary(msg.Selector.Name, retIsRef)

	var fail *refFailure
	var recv SVal = UnknownVal{}
	if msg.Receiver != nil {
		recv = st.ExprVal(msg.Receiver)
		if sv, ok := recv.(SymbolVal); ok {
			st, fail = e.checker.Apply(st, sv.Sym, sum.Receiver)
		}
	}
	args := make([]SVal, len(msg.Args))
	for i, a := range msg.Args {
		args[i] = st.ExprVal(a)
	}
	for i, v := range args {
		sv, ok := v.(SymbolVal)
		if !ok {
			continue
		}
		var f *refFailure
		st, f = e.checker.Apply(st, sv.Sym, sum.arg(i))
		if f != nil && fail == nil {
			fail = f
		}
	}
	st = e.bindCallResult(st, msg, sum, args, recv, retIsRef)
	return st, PostStmt, fail
}

// bindCallResult binds the call expression to its return value per
// the summary's return effect.
func (e *Engine) bindCallResult(st *State, call ast.Expr, sum *Summary, args []SVal, recv SVal, retIsRef bool) *State {
	switch sum.Ret.Kind {
	case OwnedSymbol:
		sym := e.conjure()
		st = st.SetRef(sym, RefState{Kind: Owned, Loc: call.Start()})
		return st.BindExpr(call, SymbolVal{Sym: sym})
	case NotOwnedSymbol:
		sym := e.conjure()
		st = st.SetRef(sym, RefState{Kind: NotOwned, Loc: call.Start()})
		return st.BindExpr(call, SymbolVal{Sym: sym})
	case Alias:
		if sum.Ret.Arg < len(args) {
			return st.BindExpr(call, args[sum.Ret.Arg])
		}
		return st.BindExpr(call, UnknownVal{})
	case ReceiverAlias:
		return st.BindExpr(call, recv)
	}
	if retIsRef || exprIsScalar(call) {
		// An opaque result still deserves a symbol so null checks
		// on it refine later paths.
		return st.BindExpr(call, SymbolVal{Sym: e.conjure()})
	}
	return st.BindExpr(call, UnknownVal{})
}

func exprIsScalar(e ast.Expr) bool {
	ty := e.Type()
	return ty.IsScalarType()
}

// checkLostBinding fires when an overwrite drops the last stored
// reference to an object that still holds a positive count.
func (e *Engine) checkLostBinding(st *State, d *ast.VarDecl, newV SVal) (*State, *refFailure) {
	old, ok := st.DeclVal(d)
	if !ok {
		return st, nil
	}
	sv, ok := old.(SymbolVal)
	if !ok {
		return st, nil
	}
	if nv, ok := newV.(SymbolVal); ok && nv.Sym == sv.Sym {
		return st, nil
	}
	if st.StoredSymbols()[sv.Sym] > 1 {
		return st, nil
	}
	r, ok := st.Ref(sv.Sym)
	if !ok {
		return st, nil
	}
	st = st.DropRef(sv.Sym)
	if n := e.checker.LeakCount(r); n > 0 {
		return st, e.checker.leakFailure(r, n, e.srcs)
	}
	return st, nil
}

// buildEdges dispatches on the block terminator and queues the
// feasible outgoing edges.
func (e *Engine) buildEdges(n *Node) {
	b := n.Point.Block
	switch t := b.Term.(type) {
	case *ast.IfStmt:
		e.branch(n, t.Cond)
	case *ast.WhileStmt:
		e.branch(n, t.Cond)
	case *ast.DoStmt:
		e.branch(n, t.Cond)
	case *ast.ForStmt:
		if t.Cond == nil {
			e.edge(n, b.Succs[0], n.State)
			return
		}
		e.branch(n, t.Cond)
	case *ast.ConditionalOperator:
		e.branch(n, t.Cond)
	case *ast.BinaryOperator:
		// Short-circuit && and ||.
		e.branch(n, t.LHS)
	case *ast.SwitchStmt:
		e.switchEdges(n, t)
	default:
		for _, succ := range b.Succs {
			e.edge(n, succ, n.State)
		}
	}
}

// branch assumes the condition true toward Succs[0] and false toward
// Succs[1], taking only the feasible sides.
func (e *Engine) branch(n *Node, cond ast.Expr) {
	b := n.Point.Block
	v := n.State.ExprVal(ast.IgnoreParens(cond))
	if st, ok := n.State.Assume(v, true); ok {
		e.edge(n, b.Succs[0], st)
	}
	if len(b.Succs) > 1 {
		if st, ok := n.State.Assume(v, false); ok {
			e.edge(n, b.Succs[1], st)
		}
	}
}

// switchEdges takes the single matching case when the condition is
// concrete, otherwise every successor.
func (e *Engine) switchEdges(n *Node, t *ast.SwitchStmt) {
	b := n.Point.Block
	v := n.State.ExprVal(ast.IgnoreParens(t.Cond))
	c, concrete := v.(ConcreteInt)
	if !concrete {
		for _, succ := range b.Succs {
			e.edge(n, succ, n.State)
		}
		return
	}
	var fallback *cfg.Block
	for _, succ := range b.Succs {
		switch l := succ.Label.(type) {
		case *ast.CaseStmt:
			if cv, ok := constValue(l.Value); ok && cv == c.Value {
				e.edge(n, succ, n.State)
				return
			}
		default:
			// The default case or the fall-out block.
			fallback = succ
		}
	}
	if fallback != nil {
		e.edge(n, fallback, n.State)
	}
}

func (e *Engine) edge(n *Node, dst *cfg.Block, st *State) {
	e.addNode(Point{Kind: BlockEdge, Block: n.Point.Block, Dst: dst}, st, n)
}

// endPath scans the tracked symbols for leaks once a path reaches
// the synthetic exit.
func (e *Engine) endPath(n *Node) {
	purge := e.addNode(Point{Kind: PostPurgeDeadSymbols, Block: n.Point.Block}, n.State, n)
	refs := n.State.Refs()
	syms := make([]SymbolID, 0, len(refs))
	for sym := range refs {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	for _, sym := range syms {
		r := refs[sym]
		count := e.checker.LeakCount(r)
		if count == 0 {
			continue
		}
		f := e.checker.leakFailure(r, count, e.srcs)
		e.reportFailure(purge, r.Loc, nil, f)
	}
}

// reportFailure files a report for a failed transition, with the
// path that reached it.
func (e *Engine) reportFailure(n *Node, loc source.Loc, at ast.Stmt, f *refFailure) {
	rep := &report.Report{
		Type: f.bug,
		ID:   f.id,
		Loc:  loc,
		Msg:  f.msg,
		Path: e.buildPath(n),
	}
	if at != nil {
		rep.Ranges = []diag.Range{{Begin: at.Start(), End: at.End()}}
	}
	e.reporter.Add(rep)
}

// buildPath renders the block edges crossed on the way to n, oldest
// first. Only the first predecessor of each node is followed; any
// witness path is as good as another.
func (e *Engine) buildPath(n *Node) []report.Piece {
	var pieces []report.Piece
	seen := make(map[*Node]bool)
	for n != nil && !seen[n] {
		seen[n] = true
		if n.Point.Kind == BlockEdge {
			if p, ok := e.edgePiece(n.Point); ok {
				pieces = append(pieces, p)
			}
		}
		if len(n.Preds) == 0 {
			break
		}
		n = n.Preds[0]
	}
	for i, j := 0, len(pieces)-1; i < j; i, j = i+1, j-1 {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	}
	return pieces
}

// edgePiece renders one traversed block edge as a path note.
func (e *Engine) edgePiece(p Point) (report.Piece, bool) {
	src, dst := p.Block, p.Dst
	switch t := src.Term.(type) {
	case *ast.IfStmt, *ast.WhileStmt, *ast.DoStmt, *ast.ForStmt,
		*ast.ConditionalOperator, *ast.BinaryOperator:
		msg := "Taking false branch"
		if dst == src.Succs[0] {
			msg = "Taking true branch"
		}
		return report.Piece{Loc: t.Start(), Msg: msg}, true

	case *ast.GotoStmt:
		return report.Piece{
			Loc: t.Start(),
			Msg: fmt.Sprintf("Control jumps to line %d", e.blockLine(dst)),
		}, true

	case *ast.SwitchStmt:
		switch l := dst.Label.(type) {
		case *ast.CaseStmt:
			spelling := "?"
			if v, ok := constValue(l.Value); ok {
				spelling = fmt.Sprintf("%d", v)
			}
			return report.Piece{
				Loc: t.Start(),
				Msg: fmt.Sprintf("Control jumps to 'case %s:' at line %d", spelling, e.blockLine(dst)),
			}, true
		case *ast.DefaultStmt:
			return report.Piece{
				Loc: t.Start(),
				Msg: fmt.Sprintf("Control jumps to the 'default' case at line %d", e.blockLine(dst)),
			}, true
		}
	}
	return report.Piece{}, false
}

// blockLine is the source line a block begins on.
func (e *Engine) blockLine(b *cfg.Block) int {
	var loc source.Loc
	switch {
	case b.Label != nil:
		loc = b.Label.Start()
	case len(b.Elems) > 0:
		loc = b.Elems[0].Start()
	case b.Term != nil:
		loc = b.Term.Start()
	}
	if e.srcs == nil || loc == 0 {
		return 0
	}
	return e.srcs.LogicalLineOf(loc)
}

// calleeName names a direct call's target, or "".
func calleeName(st *State, call *ast.CallExpr) string {
	if fv, ok := st.ExprVal(call.Fn).(FuncVal); ok {
		return fv.Fn.Name
	}
	return ""
}

// constValue folds a constant expression to its integer value.
func constValue(e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return int64(e.Value), true
	case *ast.CharacterLiteral:
		return e.Value, true
	case *ast.DeclRefExpr:
		if d, ok := e.Decl.(*ast.EnumConstantDecl); ok {
			return d.Value, true
		}
	case *ast.ParenExpr:
		return constValue(e.Inner)
	case *ast.ImplicitCastExpr:
		return constValue(e.Operand)
	case *ast.UnaryOperator:
		if v, ok := constValue(e.Operand); ok {
			if f, ok := evalUnary(e.Op, ConcreteInt{Value: v}).(ConcreteInt); ok {
				return f.Value, true
			}
		}
	case *ast.BinaryOperator:
		x, okx := constValue(e.LHS)
		y, oky := constValue(e.RHS)
		if okx && oky {
			if f, ok := foldConcrete(e.Op, x, y).(ConcreteInt); ok {
				return f.Value, true
			}
		}
	}
	return 0, false
}

// compoundBase maps a compound assignment to its underlying
// operator.
func compoundBase(op ast.BinaryOp) ast.BinaryOp {
	switch op {
	case ast.BOMulAssign:
		return ast.BOMul
	case ast.BODivAssign:
		return ast.BODiv
	case ast.BORemAssign:
		return ast.BORem
	case ast.BOAddAssign:
		return ast.BOAdd
	case ast.BOSubAssign:
		return ast.BOSub
	case ast.BOShlAssign:
		return ast.BOShl
	case ast.BOShrAssign:
		return ast.BOShr
	case ast.BOAndAssign:
		return ast.BOAnd
	case ast.BOXorAssign:
		return ast.BOXor
	case ast.BOOrAssign:
		return ast.BOOr
	}
	return op
}
