package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func newSession(t *testing.T, opts Options) (*Session, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	s, err := NewSession(opts, &out)
	if err != nil {
		t.Fatal(err)
	}
	return s, &out
}

func TestFoolsMate(t *testing.T) {
	s, out := newSession(t, Options{})
	if err := s.Run(strings.NewReader("f3\ne5\ng4\nQh4\ne2e4\nquit\n")); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"1. f3", "1... e5", "2. g4", "2... Qh4#", "Checkmate! black wins.", "error: game over"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	want := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	if fen := s.Position().FEN(); fen != want {
		t.Errorf("FEN = %s, want %s", fen, want)
	}
}

func TestRejectsBadInput(t *testing.T) {
	s, out := newSession(t, Options{})
	if err := s.Run(strings.NewReader("e2e5\nmove\nfoo\n")); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "error:"); n != 3 {
		t.Errorf("got %d errors:\n%s", n, out)
	}
	if s.Position().Ply() != 0 {
		t.Error("bad input changed the position")
	}
}

func TestEngineOpponent(t *testing.T) {
	eng, err := engine.NewEngine(engine.Options{Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	store, err := storage.Open(storage.Options{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	s, out := newSession(t, Options{Engine: eng, EngineColor: board.Black, Store: store})
	if err := s.Execute("e2e4"); err != nil {
		t.Fatal(err)
	}
	if s.Position().Ply() != 2 || s.Position().SideToMove != board.White {
		t.Fatalf("engine did not reply: ply %d", s.Position().Ply())
	}
	if !strings.Contains(out.String(), "engine: ") {
		t.Errorf("no engine line:\n%s", out)
	}

	entries, err := store.Entries(s.GameID())
	if err != nil || len(entries) != 2 {
		t.Fatalf("logged %d entries, %v", len(entries), err)
	}
	if entries[0].Move != "e2e4" || entries[1].Color != "black" {
		t.Errorf("entries = %+v", entries)
	}

	out.Reset()
	if err := s.Execute("log"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "  movement    : e2 -> e4 (e4)") {
		t.Errorf("log output:\n%s", out)
	}

	// Undo takes back the engine reply as well.
	if err := s.Execute("undo"); err != nil {
		t.Fatal(err)
	}
	if s.Position().FEN() != board.StartFEN {
		t.Errorf("FEN after undo = %s", s.Position().FEN())
	}
	if entries, _ := store.Entries(s.GameID()); len(entries) != 0 {
		t.Errorf("%d entries after undo", len(entries))
	}
}

func TestEnginePlaysWhite(t *testing.T) {
	eng, err := engine.NewEngine(engine.Options{Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	s, _ := newSession(t, Options{Engine: eng, EngineColor: board.White})
	if err := s.Run(strings.NewReader("quit\n")); err != nil {
		t.Fatal(err)
	}
	if s.Position().SideToMove != board.Black {
		t.Error("engine as white did not open")
	}
}

func TestMovesAndDisplay(t *testing.T) {
	s, out := newSession(t, Options{})
	if err := s.Execute("moves"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "20 moves: ") || !strings.Contains(out.String(), "Nf3") {
		t.Errorf("moves = %s", out)
	}

	out.Reset()
	if err := s.Execute("moves g1"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "3 | . . . . . * . * |") {
		t.Errorf("knight destinations:\n%s", out)
	}
	if err := s.Execute("moves e7"); err == nil {
		t.Error("listed moves for an enemy piece")
	}

	out.Reset()
	if err := s.Execute("fen"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != board.StartFEN {
		t.Errorf("fen = %q", out)
	}
}

func TestNewGameFromFEN(t *testing.T) {
	s, _ := newSession(t, Options{Rules: board.Rules{StrictCheckmate: true}})
	fen := "4k3/8/8/8/8/8/8/4K2R w K - 0 1"
	if err := s.Execute("new " + fen); err != nil {
		t.Fatal(err)
	}
	if s.Position().FEN() != fen || !s.Position().Rules.StrictCheckmate {
		t.Errorf("new game = %s %+v", s.Position().FEN(), s.Position().Rules)
	}
	if err := s.Execute("O-O"); err != nil {
		t.Fatal(err)
	}
	if s.Execute("undo") != nil || s.Execute("undo") == nil {
		t.Error("undo should succeed once then fail")
	}
}

func TestWriteImages(t *testing.T) {
	dir := t.TempDir()
	s, _ := newSession(t, Options{})
	for _, kind := range []string{"svg", "png"} {
		path := filepath.Join(dir, "board."+kind)
		if err := s.Execute(kind + " " + path); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", kind, err)
		}
	}
}

func TestQuitCommand(t *testing.T) {
	s, _ := newSession(t, Options{})
	if err := s.Run(strings.NewReader("quit\ne2e4\n")); err != nil {
		t.Fatal(err)
	}
	if s.Position().Ply() != 0 {
		t.Error("commands after quit were run")
	}
}
