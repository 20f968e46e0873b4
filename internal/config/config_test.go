package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Search.Depth != 4 || cfg.Eval.Profile != "standard" {
		t.Errorf("defaults = %+v", cfg)
	}
	if r := cfg.BoardRules(); r.RevokeCastlingOnKingMove || r.RevokeCastlingOnRookCapture || r.StrictCheckmate {
		t.Errorf("rule variants on by default: %+v", r)
	}
	if c, ok := cfg.EngineColor(); !ok || c != board.Black {
		t.Errorf("EngineColor = %v, %v", c, ok)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
search:
  depth: 6
eval:
  profile: pawn
rules:
  revoke_castling_on_king_move: true
  revoke_castling_on_rook_capture: true
storage:
  in_memory: true
game:
  engine_color: none
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.Depth != 6 || cfg.Eval.Profile != "pawn" {
		t.Errorf("search/eval = %+v %+v", cfg.Search, cfg.Eval)
	}
	if r := cfg.BoardRules(); !r.RevokeCastlingOnKingMove || !r.RevokeCastlingOnRookCapture || r.StrictCheckmate {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	// Unset keys keep their defaults.
	if !cfg.Storage.Enabled || !cfg.Storage.InMemory {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if _, ok := cfg.EngineColor(); ok {
		t.Error("engine_color none should disable the engine")
	}

	opts := cfg.EngineOptions(nil)
	if opts.Depth != 6 || opts.Profile != "pawn" {
		t.Errorf("EngineOptions = %+v", opts)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("empty file = %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"depth zero", "search:\n  depth: 0\n"},
		{"depth too deep", "search:\n  depth: 9\n"},
		{"profile", "eval:\n  profile: nnue\n"},
		{"engine color", "game:\n  engine_color: red\n"},
		{"unknown key", "search:\n  nodes: 100\n"},
		{"syntax", "search: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Errorf("Parse accepted %q", tc.yaml)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	if _, err := Load(path, false); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	cfg, err := Load(path, true)
	if err != nil || cfg.Search.Depth != 4 {
		t.Fatalf("Load missing with defaults = %+v, %v", cfg, err)
	}

	cfg.Search.Depth = 2
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("Load = %+v, want %+v", got, cfg)
	}
}
