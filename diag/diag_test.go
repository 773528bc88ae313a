package diag

import (
	"testing"

	"github.com/cee-lang/cee/source"
)

type capture struct {
	levels []Level
	msgs   []string
	stop   bool
}

func (c *capture) Handle(level Level, loc source.Loc, id ID, msg string, ranges []Range) bool {
	c.levels = append(c.levels, level)
	c.msgs = append(c.msgs, msg)
	return c.stop
}

func TestSeverityMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		id   ID
		want Level
	}{
		{"warning default", Config{}, WarnDeadStore, LevelWarning},
		{"warnings as errors", Config{WarningsAsErrors: true}, WarnDeadStore, LevelError},
		{"ignore all warnings", Config{IgnoreAllWarnings: true}, WarnDeadStore, LevelIgnored},
		{"extension default off", Config{}, ExtBCPLComment, LevelIgnored},
		{"warn on extensions", Config{WarnOnExtensions: true}, ExtBCPLComment, LevelWarning},
		{"error on extensions", Config{ErrorOnExtensions: true}, ExtBCPLComment, LevelError},
		{"extwarn default", Config{}, WarnDupTypeQualifier, LevelWarning},
		{"extwarn promoted", Config{ErrorOnExtensions: true}, WarnDupTypeQualifier, LevelError},
		{"error is error", Config{IgnoreAllWarnings: true}, ErrExpectedExpr, LevelError},
		{"fatal", Config{}, ErrFileNotFound, LevelFatal},
		{"override ignore", Config{Overrides: map[ID]Mapping{WarnDeadStore: MapIgnore}}, WarnDeadStore, LevelIgnored},
		{"override error", Config{Overrides: map[ID]Mapping{WarnDeadStore: MapError}}, WarnDeadStore, LevelError},
		{"override cannot demote error", Config{Overrides: map[ID]Mapping{ErrExpectedExpr: MapWarning}}, ErrExpectedExpr, LevelError},
		{"note", Config{}, NotePreviousDef, LevelNote},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			e := NewEngine(test.cfg, nil, nil)
			if got := e.Level(test.id); got != test.want {
				t.Errorf("Level(%v) = %v, want %v", test.id, got, test.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	got := Format(ErrInvalidSuffix, "q", "integer")
	if want := "invalid suffix 'q' on integer constant"; got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestErrorLatch(t *testing.T) {
	t.Parallel()
	c := &capture{}
	e := NewEngine(Config{}, nil, c)
	e.Report(source.NoLoc, WarnDeadStore, "x")
	if e.ErrorOccurred() {
		t.Error("warning set the error latch")
	}
	e.Report(source.NoLoc, ErrExpectedExpr)
	if !e.ErrorOccurred() {
		t.Error("error did not set the latch")
	}
	e.Report(source.NoLoc, WarnDeadStore, "y")
	if !e.ErrorOccurred() {
		t.Error("latch is not sticky")
	}
	if e.NumErrors != 1 {
		t.Errorf("NumErrors = %d, want 1", e.NumErrors)
	}
}

func TestFatalStops(t *testing.T) {
	t.Parallel()
	c := &capture{}
	e := NewEngine(Config{}, nil, c)
	if e.Report(source.NoLoc, ErrFileNotFound, "a.h") {
		t.Error("fatal diagnostic did not signal stop")
	}
	if !e.FatalOccurred() {
		t.Error("fatal latch not set")
	}
	// Nothing is emitted after a fatal diagnostic.
	e.Report(source.NoLoc, ErrExpectedExpr)
	if len(c.msgs) != 1 {
		t.Errorf("got %d messages after fatal, want 1", len(c.msgs))
	}
}

func TestRawModeSuppression(t *testing.T) {
	t.Parallel()
	c := &capture{}
	e := NewEngine(Config{WarnOnExtensions: true}, nil, c)
	e.PushSuppress()
	e.Report(source.NoLoc, WarnTrigraphIgnored)
	e.Report(source.NoLoc, ExtBCPLComment)
	e.Report(source.NoLoc, NotePreviousDef)
	e.Report(source.NoLoc, ErrUnterminatedString)
	e.PopSuppress()
	e.Report(source.NoLoc, WarnTrigraphIgnored)
	want := []Level{LevelError, LevelWarning}
	if len(c.levels) != len(want) {
		t.Fatalf("got %d diagnostics %v, want %d", len(c.levels), c.levels, len(want))
	}
	for i := range want {
		if c.levels[i] != want[i] {
			t.Errorf("diagnostic %d level = %v, want %v", i, c.levels[i], want[i])
		}
	}
}

func TestConsumerStop(t *testing.T) {
	t.Parallel()
	c := &capture{stop: true}
	e := NewEngine(Config{}, nil, c)
	if e.Report(source.NoLoc, WarnDeadStore, "x") {
		t.Error("Report did not honor consumer stop request")
	}
}
