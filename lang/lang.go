// Package lang holds the dialect flags that gate
// lexing, parsing, and analysis behavior.
package lang

// GCMode selects the Objective-C garbage collection mode,
// which changes the retain-count summaries.
type GCMode int

const (
	NonGC GCMode = iota
	HybridGC
	GCOnly
)

func (m GCMode) String() string {
	switch m {
	case NonGC:
		return "non-gc"
	case HybridGC:
		return "hybrid-gc"
	case GCOnly:
		return "gc-only"
	}
	panic("bad GC mode")
}

// Opts are the language dialect flags.
// The zero value is plain C89 with no extensions.
type Opts struct {
	Trigraphs    bool // decode ??x trigraphs
	DollarIdents bool // allow $ in identifiers
	Digraphs     bool // <: :> <% %> %: punctuators
	BCPLComments bool // // comments without an extension diagnostic
	HexFloats    bool // 0x1.ap3 floating constants
	CPlusPlus    bool
	CPPMinMax    bool // GNU <? and >? operators
	Microsoft    bool
	ObjC1        bool
	C99          bool

	GC GCMode
}

// C99Opts returns the flags for plain C99.
func C99Opts() Opts {
	return Opts{Trigraphs: true, Digraphs: true, BCPLComments: true, HexFloats: true, C99: true}
}

// GNUOpts returns the default GNU89-flavored flags:
// BCPL comments and hex floats accepted, trigraphs off.
func GNUOpts() Opts {
	return Opts{BCPLComments: true, HexFloats: true, Digraphs: true}
}
