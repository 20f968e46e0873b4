package storage

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// play makes each coordinate move on pos and logs it.
func play(t *testing.T, s *Store, id uint64, pos *board.Position, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		m, err := pos.ParseMove(mv, pos.SideToMove)
		if err != nil {
			t.Fatal(err)
		}
		san := pos.SAN(m)
		pos.MakeMove(m)
		rec, _ := pos.LastMove()
		score := func(c board.Color) int { return pos.Occupancy(c).PopCount() }
		if _, err := s.Append(id, NewEntry(pos, rec, san, score)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMoveLog(t *testing.T) {
	s := openMemory(t)

	id, err := s.NewGame(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	pos := board.StartPosition()
	play(t, s, id, pos, "e2e4", "d7d5", "e4d5")

	entries, err := s.Entries(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Ply != i+1 {
			t.Errorf("entry %d has ply %d", i, e.Ply)
		}
	}
	last := entries[2]
	if last.Move != "e4d5" || last.SAN != "exd5" || last.Captured != "pawn" || last.Color != "white" {
		t.Errorf("last entry = %+v", last)
	}
	if last.BlackScore != 15 || last.WhiteScore != 16 {
		t.Errorf("scores = %d/%d", last.WhiteScore, last.BlackScore)
	}
	if last.FEN != pos.FEN() {
		t.Errorf("FEN = %s", last.FEN)
	}

	g, err := s.Game(id)
	if err != nil || g.Moves != 3 || g.StartFEN != board.StartFEN {
		t.Errorf("Game = %+v, %v", g, err)
	}

	popped, err := s.Pop(id)
	if err != nil || popped.Move != "e4d5" {
		t.Fatalf("Pop = %+v, %v", popped, err)
	}
	entries, _ = s.Entries(id)
	if len(entries) != 2 {
		t.Errorf("after Pop %d entries", len(entries))
	}

	// The next append reuses the popped ply.
	ply, err := s.Append(id, Entry{Move: "g1f3"})
	if err != nil || ply != 3 {
		t.Errorf("Append after Pop = %d, %v", ply, err)
	}
}

func TestGames(t *testing.T) {
	s := openMemory(t)
	a, _ := s.NewGame(board.StartFEN)
	b, _ := s.NewGame("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if a == b {
		t.Fatalf("duplicate game id %d", a)
	}

	play(t, s, b, board.StartPosition(), "g1f3")
	ea, _ := s.Entries(a)
	eb, _ := s.Entries(b)
	if len(ea) != 0 || len(eb) != 1 {
		t.Errorf("entries leaked across games: %d, %d", len(ea), len(eb))
	}

	games, err := s.Games()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].ID != a || games[1].ID != b {
		t.Errorf("Games = %+v", games)
	}
}

func TestMissingGame(t *testing.T) {
	s := openMemory(t)
	if _, err := s.Append(42, Entry{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Append err = %v", err)
	}
	if _, err := s.Entries(42); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Entries err = %v", err)
	}

	id, _ := s.NewGame(board.StartFEN)
	if _, err := s.Pop(id); !errors.Is(err, ErrEmptyLog) {
		t.Errorf("Pop err = %v", err)
	}
}

func TestWriteText(t *testing.T) {
	s := openMemory(t)
	id, _ := s.NewGame(board.StartFEN)
	play(t, s, id, board.StartPosition(), "e2e4", "d7d5", "f1b5")

	var sb strings.Builder
	if err := s.WriteText(&sb, id); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{
		"start " + board.StartFEN,
		"[ turn 1 @ ",
		"  piece type  : bishop",
		"  movement    : f1 -> b5 (Bb5+)",
		"  capture     : no",
		"  black : in danger",
		"Pieces Under Attack\n  none",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("turn log missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, turnRule); n != 6 {
		t.Errorf("got %d rules, want 6", n)
	}
}

func TestOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	id, _ := s.NewGame(board.StartFEN)
	play(t, s, id, board.StartPosition(), "e2e4")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	entries, err := s.Entries(id)
	if err != nil || len(entries) != 1 {
		t.Fatalf("reopened entries = %v, %v", entries, err)
	}
	next, _ := s.NewGame(board.StartFEN)
	if next <= id {
		t.Errorf("game id %d not after %d", next, id)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}
	dbDir, err := DatabaseDir()
	if err != nil || !strings.HasPrefix(dbDir, dataDir) {
		t.Errorf("DatabaseDir = %s, %v", dbDir, err)
	}
}
