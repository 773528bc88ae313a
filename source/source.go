// Package source maps every byte of processed input
// back to its file, line, and column.
//
// A Loc is a packed 32-bit handle: the high bits index a file chunk,
// the low bits are a byte offset within that chunk.
// Files larger than one chunk allocate consecutive chunks,
// so offset arithmetic within a file stays cheap.
// The zero Loc means "no location".
package source

import (
	"fmt"
	"sort"
)

const (
	// offsetBits is the width of the intra-chunk offset field of a Loc.
	offsetBits = 20
	// ChunkSize is the maximum number of bytes addressed by one FileID.
	ChunkSize = 1 << offsetBits

	offsetMask = ChunkSize - 1
)

// A FileID identifies one chunk of one input file.
// The zero FileID is invalid.
// A file's FileID is the ID of its first chunk.
type FileID uint32

// A Loc is a compact handle for a position in the input.
type Loc uint32

// NoLoc is the absent location.
const NoLoc Loc = 0

// IsValid reports whether the Loc refers to a real position.
func (l Loc) IsValid() bool { return l != NoLoc }

// WithOffset returns the Loc d bytes forward of l.
// It is only well-defined within a file.
func (l Loc) WithOffset(d int) Loc {
	off := int(l&offsetMask) + d
	chunk := uint32(l >> offsetBits)
	chunk += uint32(off / ChunkSize)
	return Loc(chunk<<offsetBits | uint32(off%ChunkSize))
}

// OffsetFrom returns the byte distance from base to l.
// Both must be positions within the same file.
func (l Loc) OffsetFrom(base Loc) int {
	chunks := int(l>>offsetBits) - int(base>>offsetBits)
	return chunks*ChunkSize + int(l&offsetMask) - int(base&offsetMask)
}

// A File is one input buffer.
// Buf always ends with a NUL sentinel that is not part of the file.
type File struct {
	Path  string
	Buf   []byte
	id    FileID
	lines []int // byte offsets just past each newline
}

// ID returns the FileID of the file's first chunk.
func (f *File) ID() FileID { return f.id }

// Size returns the file size excluding the NUL sentinel.
func (f *File) Size() int { return len(f.Buf) - 1 }

type chunk struct {
	file *File
	base int // byte offset of the chunk within the file
}

// A Manager owns all input files of a translation unit
// and translates between Locs and (file, offset) pairs.
// The file table is append-only.
type Manager struct {
	chunks []chunk // chunk i has FileID i+1
	main   FileID

	// expansions records, for positions synthesized by macro expansion,
	// the position of the expansion site.
	expansions map[Loc]Loc
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{expansions: make(map[Loc]Loc)}
}

// AddFile registers a buffer under a path and returns its File.
// A NUL sentinel is appended if the buffer does not already end in one.
// The first file added becomes the main file.
func (m *Manager) AddFile(path string, buf []byte) *File {
	if len(buf) == 0 || buf[len(buf)-1] != 0 {
		buf = append(buf, 0)
	}
	f := &File{Path: path, Buf: buf, id: FileID(len(m.chunks) + 1)}
	for i, b := range buf[:len(buf)-1] {
		if b == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	n := (len(buf) + ChunkSize - 1) / ChunkSize
	for i := 0; i < n; i++ {
		m.chunks = append(m.chunks, chunk{file: f, base: i * ChunkSize})
	}
	if m.main == 0 {
		m.main = f.id
	}
	return f
}

// MainFileID returns the ID of the main file, or 0 if none was added.
func (m *Manager) MainFileID() FileID { return m.main }

// SetMainFileID designates the main file.
func (m *Manager) SetMainFileID(id FileID) { m.main = id }

// File returns the file containing the given FileID.
func (m *Manager) File(id FileID) *File {
	return m.chunks[int(id)-1].file
}

// LocOf returns the Loc for a byte offset within a file.
func (m *Manager) LocOf(id FileID, offset int) Loc {
	c := int(id) - 1 + offset/ChunkSize
	return Loc(uint32(c+1)<<offsetBits | uint32(offset%ChunkSize))
}

// Decompose splits a Loc into its file and the byte offset within it.
func (m *Manager) Decompose(l Loc) (*File, int) {
	if !l.IsValid() {
		return nil, 0
	}
	c := m.chunks[int(l>>offsetBits)-1]
	return c.file, c.base + int(l&offsetMask)
}

// Buffer returns the bytes of the file containing l,
// including the NUL sentinel.
func (m *Manager) Buffer(id FileID) []byte {
	return m.File(id).Buf
}

// LineOf returns the 1-based line number of a Loc.
func (m *Manager) LineOf(l Loc) int {
	f, off := m.Decompose(l)
	if f == nil {
		return 0
	}
	return sort.SearchInts(f.lines, off+1) + 1
}

// ColumnOf returns the 1-based column number of a Loc.
func (m *Manager) ColumnOf(l Loc) int {
	f, off := m.Decompose(l)
	if f == nil {
		return 0
	}
	i := sort.SearchInts(f.lines, off+1)
	if i == 0 {
		return off + 1
	}
	return off - f.lines[i-1] + 1
}

// RecordExpansion notes that position loc was synthesized
// by a macro expanded at site.
func (m *Manager) RecordExpansion(loc, site Loc) {
	m.expansions[loc] = site
}

// LogicalLoc follows the macro-expansion history of l
// back to the position the user wrote.
func (m *Manager) LogicalLoc(l Loc) Loc {
	for {
		site, ok := m.expansions[l]
		if !ok {
			return l
		}
		l = site
	}
}

// LogicalLineOf returns the line of the expansion site of l,
// following the expansion history to its origin.
func (m *Manager) LogicalLineOf(l Loc) int {
	return m.LineOf(m.LogicalLoc(l))
}

// IsInMainFile reports whether l is in the main file.
func (m *Manager) IsInMainFile(l Loc) bool {
	f, _ := m.Decompose(l)
	return f != nil && f.id == m.main
}

// Position returns a printable path:line:col for a Loc.
func (m *Manager) Position(l Loc) string {
	f, _ := m.Decompose(l)
	if f == nil {
		return "<no loc>"
	}
	return fmt.Sprintf("%s:%d:%d", f.Path, m.LineOf(l), m.ColumnOf(l))
}
