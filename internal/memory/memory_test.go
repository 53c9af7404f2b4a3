package memory

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTurnsBoundedOldestDropped(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "bot", testLogger(), WithMaxTurns(3))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	s.AddTurn("assistant", "first")
	s.AddTurn("assistant", "second")
	s.AddTurn("assistant", "third")
	s.AddTurn("assistant", "fourth")

	turns := s.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Content != "second" {
		t.Errorf("expected oldest turn dropped, first is %q", turns[0].Content)
	}
	if turns[2].Content != "fourth" {
		t.Errorf("expected newest turn kept, last is %q", turns[2].Content)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "bot", testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.AddTurn("user", "hello")
	s.RememberLocation("home", 100.05, 64.0, -200.91)

	reloaded, err := Open(dir, "bot", testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	turns := reloaded.Turns()
	if len(turns) != 1 || turns[0].Content != "hello" {
		t.Errorf("expected persisted turn, got %v", turns)
	}
	loc, ok := reloaded.RecallLocation("home")
	if !ok {
		t.Fatal("expected persisted location")
	}
	if loc[0] != 100.1 || loc[1] != 64.0 {
		t.Errorf("expected rounded coordinates, got %v", loc)
	}
	if loc[2] != -200.9 {
		t.Errorf("expected -200.9, got %v", loc[2])
	}
}

func TestLocationRoundingNegativeCoordinates(t *testing.T) {
	s, err := Open(t.TempDir(), "bot", testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.RememberLocation("cave", -5.26, 64, -0.05)
	loc, _ := s.RecallLocation("cave")
	if loc[0] != -5.3 {
		t.Errorf("x rounded to %v, want -5.3", loc[0])
	}
	if loc[2] != -0.1 {
		t.Errorf("z rounded to %v, want -0.1", loc[2])
	}
}

func TestContextIncludesLocationsAndRecentTurns(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "bot", testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.RememberLocation("base", 0, 64, 0)
	for i := 0; i < 12; i++ {
		s.AddTurn("assistant", "turn")
	}

	ctx := s.Context()
	if !strings.Contains(ctx, "KNOWN LOCATIONS: base:") {
		t.Errorf("expected locations in context, got:\n%s", ctx)
	}
	if got := strings.Count(ctx, "ASSISTANT: turn"); got != 10 {
		t.Errorf("expected last 10 turns in context, got %d", got)
	}
}
