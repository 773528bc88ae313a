// Package diag classifies, formats, and dispatches diagnostics.
//
// Every diagnostic is declared once in the table in table.go with a
// stable ID, a class, and a format string using %0, %1, ... argument
// placeholders. The Engine maps the class to an emission level under
// the current configuration and hands the formatted message to a
// Consumer. The core never owns the sink.
package diag

import (
	"fmt"
	"strings"

	"github.com/cee-lang/cee/source"
)

// A Class is the static classification of a diagnostic ID.
type Class int

const (
	Note Class = iota
	Warning
	Extension
	ExtWarn
	Error
	Fatal
)

func (c Class) String() string {
	switch c {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Extension:
		return "extension"
	case ExtWarn:
		return "extwarn"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	panic("bad class")
}

// A Level is the effective severity a diagnostic is emitted at.
type Level int

const (
	LevelIgnored Level = iota
	LevelNote
	LevelWarning
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelIgnored:
		return "ignored"
	case LevelNote:
		return "note"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal error"
	}
	panic("bad level")
}

// A Mapping overrides the level of a single diagnostic ID.
type Mapping int

const (
	MapDefault Mapping = iota
	MapIgnore
	MapWarning
	MapError
)

// Config controls severity mapping.
type Config struct {
	WarningsAsErrors       bool
	WarnOnExtensions       bool
	ErrorOnExtensions      bool
	IgnoreAllWarnings      bool
	SuppressSystemWarnings bool

	// Overrides maps individual IDs away from their default level.
	Overrides map[ID]Mapping
}

// A Consumer receives finished diagnostics.
// Returning true tells the engine to stop after this diagnostic.
type Consumer interface {
	Handle(level Level, loc source.Loc, id ID, msg string, ranges []Range) bool
}

// A Range is a begin/end pair of coordinates,
// both inclusive of the first byte of their token.
type Range struct {
	Begin, End source.Loc
}

// An Engine resolves and dispatches diagnostics.
type Engine struct {
	cfg      Config
	srcs     *source.Manager
	consumer Consumer

	errorOccurred bool
	fatalOccurred bool
	suppress      int // raw-mode nesting depth

	NumDiagnostics int
	NumErrors      int
}

// NewEngine returns an Engine dispatching to consumer.
// srcs may be nil if consumers do not need positions resolved.
func NewEngine(cfg Config, srcs *source.Manager, consumer Consumer) *Engine {
	return &Engine{cfg: cfg, srcs: srcs, consumer: consumer}
}

// ErrorOccurred reports whether any error-level diagnostic was issued.
// The latch is sticky for the lifetime of the translation unit.
func (e *Engine) ErrorOccurred() bool { return e.errorOccurred }

// FatalOccurred reports whether a fatal diagnostic stopped processing.
func (e *Engine) FatalOccurred() bool { return e.fatalOccurred }

// PushSuppress enters a region (lexer raw mode) where Note, Warning,
// and Extension class diagnostics are dropped.
func (e *Engine) PushSuppress() { e.suppress++ }

// PopSuppress leaves a suppression region.
func (e *Engine) PopSuppress() { e.suppress-- }

// Level resolves the effective emission level of an ID
// under the current configuration.
func (e *Engine) Level(id ID) Level {
	in := lookup(id)
	if m, ok := e.cfg.Overrides[id]; ok && m != MapDefault {
		switch m {
		case MapIgnore:
			return LevelIgnored
		case MapWarning:
			if in.Class == Error || in.Class == Fatal {
				break // errors cannot be demoted
			}
			if e.cfg.IgnoreAllWarnings {
				return LevelIgnored
			}
			return LevelWarning
		case MapError:
			return LevelError
		}
	}
	switch in.Class {
	case Note:
		return LevelNote
	case Warning:
		if e.cfg.IgnoreAllWarnings {
			return LevelIgnored
		}
		if e.cfg.WarningsAsErrors {
			return LevelError
		}
		return LevelWarning
	case Extension:
		switch {
		case e.cfg.ErrorOnExtensions:
			return LevelError
		case e.cfg.WarnOnExtensions:
			if e.cfg.WarningsAsErrors {
				return LevelError
			}
			return LevelWarning
		default:
			return LevelIgnored
		}
	case ExtWarn:
		switch {
		case e.cfg.ErrorOnExtensions:
			return LevelError
		case e.cfg.IgnoreAllWarnings:
			return LevelIgnored
		case e.cfg.WarningsAsErrors:
			return LevelError
		default:
			return LevelWarning
		}
	case Error:
		return LevelError
	case Fatal:
		return LevelFatal
	}
	panic("bad class")
}

// Report resolves, formats, and dispatches one diagnostic.
// It returns false if the consumer asked to stop or a fatal
// diagnostic was issued.
func (e *Engine) Report(loc source.Loc, id ID, args ...interface{}) bool {
	return e.ReportRanges(loc, id, nil, args...)
}

// ReportRanges is Report with highlighted source ranges attached.
func (e *Engine) ReportRanges(loc source.Loc, id ID, ranges []Range, args ...interface{}) bool {
	if e.fatalOccurred {
		return false
	}
	level := e.Level(id)
	if level == LevelIgnored {
		return true
	}
	cls := lookup(id).Class
	if e.suppress > 0 && (cls == Note || cls == Warning || cls == Extension) {
		return true
	}
	if level >= LevelError {
		e.errorOccurred = true
		e.NumErrors++
	}
	if level == LevelFatal {
		e.fatalOccurred = true
	}
	e.NumDiagnostics++
	msg := Format(id, args...)
	stop := false
	if e.consumer != nil {
		stop = e.consumer.Handle(level, loc, id, msg, ranges)
	}
	return !stop && level != LevelFatal
}

// Format expands the %<n> placeholders of the ID's format string.
func Format(id ID, args ...interface{}) string {
	f := lookup(id).Format
	var s strings.Builder
	for i := 0; i < len(f); i++ {
		if f[i] == '%' && i+1 < len(f) && f[i+1] >= '0' && f[i+1] <= '9' {
			n := int(f[i+1] - '0')
			if n < len(args) {
				fmt.Fprint(&s, args[n])
			}
			i++
			continue
		}
		s.WriteByte(f[i])
	}
	return s.String()
}
