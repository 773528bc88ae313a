package source

import (
	"strings"
	"testing"
)

func TestLineAndColumn(t *testing.T) {
	t.Parallel()
	m := NewManager()
	f := m.AddFile("a.c", []byte("int x;\nint y;\n\nint z;"))
	tests := []struct {
		off       int
		line, col int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 1, 7}, // the newline itself
		{7, 2, 1},
		{11, 2, 5},
		{14, 3, 1},
		{15, 4, 1},
		{20, 4, 6},
	}
	for _, test := range tests {
		l := m.LocOf(f.ID(), test.off)
		if got := m.LineOf(l); got != test.line {
			t.Errorf("LineOf(%d)=%d, want %d", test.off, got, test.line)
		}
		if got := m.ColumnOf(l); got != test.col {
			t.Errorf("ColumnOf(%d)=%d, want %d", test.off, got, test.col)
		}
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	t.Parallel()
	m := NewManager()
	f := m.AddFile("a.c", []byte("hello\nworld\n"))
	g := m.AddFile("b.c", []byte("bye\n"))
	for _, file := range []*File{f, g} {
		for off := 0; off < file.Size(); off++ {
			gotF, gotOff := m.Decompose(m.LocOf(file.ID(), off))
			if gotF != file || gotOff != off {
				t.Fatalf("Decompose(LocOf(%s, %d)) = (%s, %d)",
					file.Path, off, gotF.Path, gotOff)
			}
		}
	}
}

func TestBigFileSpansChunks(t *testing.T) {
	t.Parallel()
	m := NewManager()
	big := strings.Repeat("x", ChunkSize+100)
	f := m.AddFile("big.c", []byte(big))
	g := m.AddFile("next.c", []byte("y"))
	if want := FileID(1); f.ID() != want {
		t.Fatalf("big file ID = %d, want %d", f.ID(), want)
	}
	// The big file occupies two chunks, so the next file's ID skips one.
	if want := FileID(3); g.ID() != want {
		t.Fatalf("next file ID = %d, want %d", g.ID(), want)
	}
	off := ChunkSize + 50
	gotF, gotOff := m.Decompose(m.LocOf(f.ID(), off))
	if gotF != f || gotOff != off {
		t.Fatalf("Decompose across chunk = (%v, %d), want (big.c, %d)", gotF, gotOff, off)
	}
}

func TestNoLoc(t *testing.T) {
	t.Parallel()
	m := NewManager()
	m.AddFile("a.c", []byte("x"))
	if NoLoc.IsValid() {
		t.Error("NoLoc.IsValid() = true")
	}
	if f, _ := m.Decompose(NoLoc); f != nil {
		t.Errorf("Decompose(NoLoc) file = %v, want nil", f)
	}
	if got := m.Position(NoLoc); got != "<no loc>" {
		t.Errorf("Position(NoLoc) = %q", got)
	}
}

func TestLogicalLine(t *testing.T) {
	t.Parallel()
	m := NewManager()
	f := m.AddFile("a.c", []byte("#define M x\nM\n"))
	def := m.LocOf(f.ID(), 10) // the x in the definition
	use := m.LocOf(f.ID(), 12) // the M on line 2
	m.RecordExpansion(def, use)
	if got := m.LineOf(def); got != 1 {
		t.Errorf("LineOf(def) = %d, want 1", got)
	}
	if got := m.LogicalLineOf(def); got != 2 {
		t.Errorf("LogicalLineOf(def) = %d, want 2", got)
	}
}

func TestMainFile(t *testing.T) {
	t.Parallel()
	m := NewManager()
	f := m.AddFile("main.c", []byte("a"))
	g := m.AddFile("inc.h", []byte("b"))
	if !m.IsInMainFile(m.LocOf(f.ID(), 0)) {
		t.Error("main file loc not in main file")
	}
	if m.IsInMainFile(m.LocOf(g.ID(), 0)) {
		t.Error("include loc reported in main file")
	}
}
