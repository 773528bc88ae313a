package symexec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cee-lang/cee/ast"
)

// A binding is a persistent association list. An update conses a new
// cell onto the shared tail; the newest cell for a key wins, and a
// nil value is a tombstone.
type binding struct {
	key  interface{}
	val  interface{}
	next *binding
}

func (b *binding) lookup(key interface{}) (interface{}, bool) {
	for ; b != nil; b = b.next {
		if b.key == key {
			if b.val == nil {
				return nil, false
			}
			return b.val, true
		}
	}
	return nil, false
}

func (b *binding) insert(key, val interface{}) *binding {
	if cur, ok := b.lookup(key); ok && cur == val {
		return b
	}
	return &binding{key: key, val: val, next: b}
}

// each visits the newest cell of every live key.
func (b *binding) each(f func(key, val interface{})) {
	seen := make(map[interface{}]bool)
	for ; b != nil; b = b.next {
		if seen[b.key] {
			continue
		}
		seen[b.key] = true
		if b.val != nil {
			f(b.key, b.val)
		}
	}
}

// A constraint is a recorded fact about a symbol. Absence means
// unconstrained.
type constraint uint8

const (
	isZero constraint = iota + 1
	isNonZero
)

// A State is one immutable symbolic state: the environment binds
// expressions to the values they evaluated to, the store binds
// variables to their current values, refs carries the reference-count
// checker's per-symbol machine, and constraints records what branches
// have assumed. Updates return a new state sharing structure with
// the old one.
type State struct {
	env         *binding // ast.Expr -> SVal
	store       *binding // *ast.VarDecl -> SVal
	refs        *binding // SymbolID -> RefState
	constraints *binding // SymbolID -> constraint
}

// NewState returns the empty state.
func NewState() *State { return &State{} }

// BindExpr records the value an expression evaluated to.
func (s *State) BindExpr(e interface{}, v SVal) *State {
	out := *s
	out.env = s.env.insert(e, v)
	return &out
}

// ExprVal returns the recorded value of e, or unknown.
func (s *State) ExprVal(e interface{}) SVal {
	if v, ok := s.env.lookup(e); ok {
		return v.(SVal)
	}
	return UnknownVal{}
}

// ClearEnv drops all expression bindings. Expression values do not
// survive a block edge, and dropping them lets looping states
// converge.
func (s *State) ClearEnv() *State {
	if s.env == nil {
		return s
	}
	out := *s
	out.env = nil
	return &out
}

// BindDecl sets the stored value of a variable.
func (s *State) BindDecl(d interface{}, v SVal) *State {
	out := *s
	out.store = s.store.insert(d, v)
	return &out
}

// DeclVal returns the stored value of d.
func (s *State) DeclVal(d interface{}) (SVal, bool) {
	if v, ok := s.store.lookup(d); ok {
		return v.(SVal), true
	}
	return nil, false
}

// SetRef records the reference-count state of a symbol.
func (s *State) SetRef(sym SymbolID, r RefState) *State {
	out := *s
	out.refs = s.refs.insert(sym, r)
	return &out
}

// Ref returns the reference-count state of a symbol, if tracked.
func (s *State) Ref(sym SymbolID) (RefState, bool) {
	if v, ok := s.refs.lookup(sym); ok {
		return v.(RefState), true
	}
	return RefState{}, false
}

// DropRef stops tracking a symbol.
func (s *State) DropRef(sym SymbolID) *State {
	if _, ok := s.refs.lookup(sym); !ok {
		return s
	}
	out := *s
	out.refs = s.refs.insert(sym, nil)
	return &out
}

// Refs materializes the tracked symbols and their states.
func (s *State) Refs() map[SymbolID]RefState {
	out := make(map[SymbolID]RefState)
	s.refs.each(func(key, val interface{}) {
		out[key.(SymbolID)] = val.(RefState)
	})
	return out
}

// StoredSymbols counts, per symbol, how many variables currently
// hold it. The leak-on-overwrite check uses this to tell the last
// reference from an aliased one.
func (s *State) StoredSymbols() map[SymbolID]int {
	out := make(map[SymbolID]int)
	s.store.each(func(_, val interface{}) {
		if sv, ok := val.(SymbolVal); ok {
			out[sv.Sym]++
		}
	})
	return out
}

// Assume imposes a truth value on a condition. It returns the
// refined state and whether the assumption is feasible. Learning
// that a symbol is zero drops its reference-count binding: null
// needs no further tracking.
func (s *State) Assume(v SVal, truth bool) (*State, bool) {
	switch v := v.(type) {
	case ConcreteInt:
		return s, (v.Value != 0) == truth

	case SymbolVal:
		return s.assumeSym(v.Sym, truth)

	case SymIntVal:
		// Only equality against a constant refines a symbol;
		// orderings stay two-way feasible.
		switch {
		case v.Op == ast.BOEQ && v.RHS == 0:
			return s.assumeSym(v.Sym, !truth)
		case v.Op == ast.BONE && v.RHS == 0:
			return s.assumeSym(v.Sym, truth)
		case v.Op == ast.BOEQ && truth, v.Op == ast.BONE && !truth:
			// Equal to a nonzero constant implies nonzero.
			return s.assumeSym(v.Sym, true)
		}
		return s, true

	case LValAsInteger:
		return s.Assume(v.LVal, truth)

	case DeclVal, FuncVal, GotoLabelVal:
		// Object and function designators are never null here.
		return s, truth
	}
	return s, true
}

// assumeSym records that a symbol is nonzero (truth) or zero.
func (s *State) assumeSym(sym SymbolID, truth bool) (*State, bool) {
	want := isZero
	if truth {
		want = isNonZero
	}
	if c, ok := s.constraints.lookup(sym); ok {
		return s, c.(constraint) == want
	}
	out := *s
	out.constraints = s.constraints.insert(sym, want)
	st := &out
	if want == isZero {
		st = st.DropRef(sym)
	}
	return st, true
}

// profile is the structural hash key of the state. States with equal
// profiles are interchangeable for node interning.
func (s *State) profile() string {
	var parts []string
	s.env.each(func(key, val interface{}) {
		parts = append(parts, fmt.Sprintf("e%p=%s", key, val.(SVal).profile()))
	})
	s.store.each(func(key, val interface{}) {
		parts = append(parts, fmt.Sprintf("s%p=%s", key, val.(SVal).profile()))
	})
	s.refs.each(func(key, val interface{}) {
		parts = append(parts, fmt.Sprintf("r%d=%s", key.(SymbolID), val.(RefState).profile()))
	})
	s.constraints.each(func(key, val interface{}) {
		parts = append(parts, fmt.Sprintf("c%d=%d", key.(SymbolID), val.(constraint)))
	})
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
