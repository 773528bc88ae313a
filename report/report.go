// Package report accumulates path-sensitive bug reports and replays
// them through the diagnostic engine, the primary finding first and
// one note per path piece after it.
package report

import (
	"sort"

	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/source"
)

// A BugType names one kind of finding. Types that set DedupeByLoc
// keep a single report per program location, so paths that converge
// on the same broken statement do not repeat themselves.
type BugType struct {
	Name        string
	Description string
	DedupeByLoc bool

	seen map[source.Loc]bool
}

// A Piece is one step of a path diagnostic, in program order.
type Piece struct {
	Loc source.Loc
	Msg string
}

// A Report is one finding: its location, highlight ranges, and the
// control-flow path that reaches it.
type Report struct {
	Type   *BugType
	ID     diag.ID
	Loc    source.Loc
	Msg    string
	Ranges []diag.Range
	Path   []Piece
}

// A Reporter collects the reports for one analyzed function body.
type Reporter struct {
	reports []*Report
}

// Add files a report. It returns false when the bug type dedupes by
// location and has already seen this one.
func (r *Reporter) Add(rep *Report) bool {
	if t := rep.Type; t.DedupeByLoc {
		if t.seen[rep.Loc] {
			return false
		}
		if t.seen == nil {
			t.seen = make(map[source.Loc]bool)
		}
		t.seen[rep.Loc] = true
	}
	r.reports = append(r.reports, rep)
	return true
}

// Reports returns the collected reports ordered by location. The
// order reports were filed in breaks ties, so two findings at one
// location stay in discovery order.
func (r *Reporter) Reports() []*Report {
	out := make([]*Report, len(r.reports))
	copy(out, r.reports)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Loc < out[j].Loc })
	return out
}

// FlushTo replays every collected report through the engine.
func (r *Reporter) FlushTo(diags *diag.Engine) {
	for _, rep := range r.Reports() {
		diags.ReportRanges(rep.Loc, rep.ID, rep.Ranges, rep.Msg)
		for _, p := range rep.Path {
			diags.Report(p.Loc, diag.NotePathPiece, p.Msg)
		}
	}
}
