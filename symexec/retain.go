package symexec

import (
	"fmt"
	"strings"

	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
	"github.com/cee-lang/cee/report"
	"github.com/cee-lang/cee/source"
)

// RefKind is the state-machine state of one tracked object.
type RefKind uint8

const (
	Owned RefKind = iota
	NotOwned
	Released
	ReturnedOwned
	ReturnedNotOwned
)

var refKindNames = [...]string{
	Owned:            "Owned",
	NotOwned:         "NotOwned",
	Released:         "Released",
	ReturnedOwned:    "ReturnedOwned",
	ReturnedNotOwned: "ReturnedNotOwned",
}

func (k RefKind) String() string { return refKindNames[k] }

// A RefState is the reference-count record of one symbol: its
// machine state, the count of retains beyond the allocating
// reference, and the allocation site for reporting.
type RefState struct {
	Kind  RefKind
	Count int
	Loc   source.Loc
}

func (r RefState) profile() string {
	return fmt.Sprintf("%d+%d@%d", r.Kind, r.Count, r.Loc)
}

// An ArgEffect is what a call does to one argument's retain count.
type ArgEffect uint8

const (
	DoNothing ArgEffect = iota
	IncRef
	DecRef
	StopTracking
	MakeCollectable
)

// A RetKind is what a call's return value is.
type RetKind uint8

const (
	NoRet RetKind = iota
	OwnedSymbol
	NotOwnedSymbol
	Alias
	ReceiverAlias
)

// A RetEffect describes a call's return value; Arg is the aliased
// argument index when Kind is Alias.
type RetEffect struct {
	Kind RetKind
	Arg  int
}

// A Summary is the retain-count behavior of one call site. Argument
// indices absent from Args get the DoNothing effect.
type Summary struct {
	Args     map[int]ArgEffect
	Receiver ArgEffect
	Ret      RetEffect
}

func (s *Summary) arg(i int) ArgEffect {
	if s == nil || s.Args == nil {
		return DoNothing
	}
	return s.Args[i]
}

// A RetainChecker owns the naming conventions and the transition
// table of the Core Foundation / Objective-C reference-count
// discipline.
type RetainChecker struct {
	gc lang.GCMode

	leakType       *report.BugType
	useAfterType   *report.BugType
	badReleaseType *report.BugType
}

// NewRetainChecker returns a checker for the given collection mode.
func NewRetainChecker(gc lang.GCMode) *RetainChecker {
	return &RetainChecker{
		gc: gc,
		leakType: &report.BugType{
			Name:        "Memory Leak",
			Description: "an owned object is never released",
			DedupeByLoc: true,
		},
		useAfterType: &report.BugType{
			Name:        "Use-After-Release",
			Description: "a released object is used",
			DedupeByLoc: true,
		},
		badReleaseType: &report.BugType{
			Name:        "Bad Release",
			Description: "releasing an object that is not owned",
			DedupeByLoc: true,
		},
	}
}

// FuncSummary derives a summary from a C function's name. Only
// calls whose result is an object reference get ownership-producing
// return effects.
func (c *RetainChecker) FuncSummary(name string, retIsRef bool) *Summary {
	var sum Summary
	switch name {
	case "CFRetain":
		sum.Args = map[int]ArgEffect{0: IncRef}
		sum.Ret = RetEffect{Kind: Alias, Arg: 0}
	case "CFRelease":
		sum.Args = map[int]ArgEffect{0: DecRef}
	case "CFMakeCollectable", "NSMakeCollectable":
		sum.Args = map[int]ArgEffect{0: MakeCollectable}
		sum.Ret = RetEffect{Kind: Alias, Arg: 0}
	default:
		if retIsRef {
			switch {
			case hasCamelWord(name, "Create"), hasCamelWord(name, "Copy"):
				sum.Ret = RetEffect{Kind: OwnedSymbol}
			case hasCamelWord(name, "Get"):
				sum.Ret = RetEffect{Kind: NotOwnedSymbol}
			}
		}
	}
	return c.adjust(&sum)
}

// MethodSummary derives a summary from an Objective-C selector.
func (c *RetainChecker) MethodSummary(sel string, retIsRef bool) *Summary {
	var sum Summary
	switch sel {
	case "alloc", "new", "copy", "mutableCopy",
		"allocWithZone:", "copyWithZone:", "mutableCopyWithZone:":
		sum.Ret = RetEffect{Kind: OwnedSymbol}
	case "retain":
		sum.Receiver = IncRef
		sum.Ret = RetEffect{Kind: ReceiverAlias}
	case "release":
		sum.Receiver = DecRef
	case "autorelease":
		// An autoreleased object is owed to the pool, not to this
		// function; stop tracking it.
		sum.Receiver = StopTracking
	default:
		if strings.HasPrefix(sel, "init") {
			sum.Ret = RetEffect{Kind: ReceiverAlias}
		} else if retIsRef && (hasCamelWord(sel, "copy") || strings.HasPrefix(sel, "copy")) {
			sum.Ret = RetEffect{Kind: OwnedSymbol}
		}
	}
	return c.adjust(&sum)
}

// adjust rewrites a summary for the collection mode. Under GC the
// ownership effects collapse to no retain-count change, and
// MakeCollectable hands the object to the collector.
func (c *RetainChecker) adjust(sum *Summary) *Summary {
	switch c.gc {
	case lang.NonGC:
		for i, eff := range sum.Args {
			if eff == MakeCollectable {
				sum.Args[i] = DoNothing
			}
		}
	case lang.HybridGC:
		for i, eff := range sum.Args {
			if eff == MakeCollectable {
				sum.Args[i] = StopTracking
			}
		}
	case lang.GCOnly:
		for i, eff := range sum.Args {
			switch eff {
			case IncRef, DecRef:
				sum.Args[i] = DoNothing
			case MakeCollectable:
				sum.Args[i] = StopTracking
			}
		}
		switch sum.Receiver {
		case IncRef, DecRef:
			sum.Receiver = DoNothing
		case MakeCollectable:
			sum.Receiver = StopTracking
		}
		if sum.Ret.Kind == OwnedSymbol {
			sum.Ret.Kind = NotOwnedSymbol
		}
	}
	return sum
}

// A refFailure is an error transition of the state machine. A
// non-fatal failure (a leak) leaves the path running.
type refFailure struct {
	bug  *report.BugType
	id   diag.ID
	msg  string
	sink bool
}

// Apply runs one effect against a tracked symbol and returns the
// updated state. Untracked symbols are left alone.
func (c *RetainChecker) Apply(st *State, sym SymbolID, eff ArgEffect) (*State, *refFailure) {
	r, ok := st.Ref(sym)
	if !ok {
		return st, nil
	}
	switch eff {
	case DoNothing:
		if r.Kind == Released {
			return st, c.useAfterFailure()
		}
		return st, nil

	case StopTracking:
		return st.DropRef(sym), nil

	case MakeCollectable:
		// adjust rewrote this per mode; surviving here means NonGC,
		// where it is inert.
		return st, nil

	case IncRef:
		if r.Kind == Released {
			if c.gc == lang.NonGC {
				return st, c.useAfterFailure()
			}
			// The collector resurrects the object.
			return st.SetRef(sym, RefState{Kind: Owned, Loc: r.Loc}), nil
		}
		r.Count++
		return st.SetRef(sym, r), nil

	case DecRef:
		switch r.Kind {
		case Released:
			return st, c.useAfterFailure()
		case Owned, ReturnedOwned:
			if r.Count > 0 {
				r.Count--
				return st.SetRef(sym, r), nil
			}
			r.Kind = Released
			return st.SetRef(sym, r), nil
		case NotOwned, ReturnedNotOwned:
			if r.Count > 0 {
				r.Count--
				return st.SetRef(sym, r), nil
			}
			return st, c.badReleaseFailure()
		}
	}
	return st, nil
}

// LeakCount is the number of references that would leak if the
// symbol died in state r; zero means no leak.
func (c *RetainChecker) LeakCount(r RefState) int {
	switch r.Kind {
	case Owned:
		return r.Count + 1
	case NotOwned, ReturnedOwned, ReturnedNotOwned:
		return r.Count
	}
	return 0
}

func (c *RetainChecker) useAfterFailure() *refFailure {
	return &refFailure{
		bug:  c.useAfterType,
		id:   diag.WarnUseAfterRelease,
		msg:  "reference-counted object is used after it is released",
		sink: true,
	}
}

func (c *RetainChecker) badReleaseFailure() *refFailure {
	return &refFailure{
		bug:  c.badReleaseType,
		id:   diag.WarnReleaseNotOwned,
		msg:  "incorrect decrement of the reference count of an object that is not owned at this point by the caller",
		sink: true,
	}
}

func (c *RetainChecker) leakFailure(r RefState, count int, srcs *source.Manager) *refFailure {
	line := 0
	if srcs != nil {
		line = srcs.LogicalLineOf(r.Loc)
	}
	return &refFailure{
		bug: c.leakType,
		id:  diag.WarnLeak,
		msg: fmt.Sprintf("potential leak of an object allocated on line %d (retain count +%d)", line, count),
	}
}

// hasCamelWord reports word appearing in name on camel-case word
// boundaries: it must start a camel word and not be followed by a
// lowercase letter, so "Create" matches CFStringCreateWithCString
// but not BufferCreatedFlag, and "get" does not match Target.
func hasCamelWord(name, word string) bool {
	for i := 0; ; {
		j := strings.Index(name[i:], word)
		if j < 0 {
			return false
		}
		j += i
		end := j + len(word)
		startOK := j == 0 || !isLower(name[j-1]) || isUpper(name[j])
		endOK := end == len(name) || !isLower(name[end])
		if startOK && endOK {
			return true
		}
		i = j + 1
	}
}

func isLower(b byte) bool { return 'a' <= b && b <= 'z' }
func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }
