package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustPosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("PositionFromFEN(%q): %v", fen, err)
	}
	return pos
}

// minimax is the unpruned reference for the alpha-beta search.
func minimax(e *Evaluator, pos *board.Position, depth int, max board.Color, maximizing bool) int {
	mover := max
	if !maximizing {
		mover = max.Other()
	}
	leaf := func() int {
		if maximizing {
			return e.Evaluate(pos, max)
		}
		return -e.Evaluate(pos, mover)
	}
	if depth == 0 {
		return leaf()
	}
	moves := pos.GenerateMoves(mover)
	if moves.Len() == 0 {
		return leaf()
	}

	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves.Slice() {
		pos.MakeMove(m)
		score := minimax(e, pos, depth-1, max, !maximizing)
		unmake(pos)
		if maximizing && score > best || !maximizing && score < best {
			best = score
		}
	}
	return best
}

func TestEvaluateSymmetric(t *testing.T) {
	for _, eval := range []*Evaluator{NewStandardEvaluator(), NewPawnEvaluator()} {
		t.Run(eval.Name, func(t *testing.T) {
			pos := board.StartPosition()
			if got := eval.Evaluate(pos, board.White); got != 0 {
				t.Errorf("start position = %d, want 0", got)
			}

			pos = mustPosition(t, kiwipete)
			w, b := eval.Evaluate(pos, board.White), eval.Evaluate(pos, board.Black)
			if w != -b {
				t.Errorf("white %d, black %d: not antisymmetric", w, b)
			}
		})
	}
}

func TestTablesMirrorForBlack(t *testing.T) {
	tests := []struct {
		white, black string
	}{
		{"8/8/8/8/4P3/8/8/8 w - - 0 1", "8/8/8/4p3/8/8/8/8 w - - 0 1"},
		{"8/8/8/8/8/2N5/8/8 w - - 0 1", "8/8/2n5/8/8/8/8/8 w - - 0 1"},
		{"8/8/8/8/8/8/8/6K1 w - - 0 1", "6k1/8/8/8/8/8/8/8 w - - 0 1"},
		{"8/R7/8/8/8/8/8/8 w - - 0 1", "8/8/8/8/8/8/r7/8 w - - 0 1"},
	}
	eval := NewStandardEvaluator()
	for _, tc := range tests {
		t.Run(tc.white, func(t *testing.T) {
			w := eval.Side(mustPosition(t, tc.white), board.White)
			b := eval.Side(mustPosition(t, tc.black), board.Black)
			if w != b {
				t.Errorf("white side %d, mirrored black side %d", w, b)
			}
		})
	}
}

func TestPawnProfileIgnoresPieces(t *testing.T) {
	eval := NewPawnEvaluator()
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/QQQQK3 w - - 0 1")
	if got := eval.Evaluate(pos, board.White); got != 0 {
		t.Errorf("pawnless position = %d, want 0", got)
	}

	pos = mustPosition(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	if got := eval.Evaluate(pos, board.White); got != pawnPST[board.E4] {
		t.Errorf("pawn on e4 = %d, want %d", got, pawnPST[board.E4])
	}
}

func TestNewEvaluator(t *testing.T) {
	for _, name := range []string{"", ProfileStandard, ProfilePawn} {
		if _, err := NewEvaluator(name); err != nil {
			t.Errorf("NewEvaluator(%q): %v", name, err)
		}
	}
	if _, err := NewEvaluator("nnue"); err == nil {
		t.Error("NewEvaluator accepted an unknown profile")
	}
}

func TestSearchMatchesMinimax(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start d1", board.StartFEN, 1},
		{"start d2", board.StartFEN, 2},
		{"start d3", board.StartFEN, 3},
		{"tactics d2", "4k3/8/8/3q4/4P3/2N5/8/4K3 w - - 0 1", 2},
		{"rook ending d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	}
	for _, eval := range []*Evaluator{NewStandardEvaluator(), NewPawnEvaluator()} {
		for _, tc := range tests {
			t.Run(eval.Name+"/"+tc.name, func(t *testing.T) {
				pos := mustPosition(t, tc.fen)
				c := pos.SideToMove
				res, err := NewSearcher(eval).Search(pos, c, tc.depth)
				if err != nil {
					t.Fatal(err)
				}

				want := minimax(eval, pos, tc.depth, c, true)
				if res.Score != want {
					t.Errorf("score %d, minimax %d", res.Score, want)
				}

				// The chosen line must reproduce the reported score.
				pos.MakeMove(res.Move)
				line := minimax(eval, pos, tc.depth-1, c, false)
				unmake(pos)
				if line != res.Score {
					t.Errorf("line after %s scores %d, reported %d", res.Move, line, res.Score)
				}
			})
		}
	}
}

func TestSearchReturnsCandidateMove(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipete, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1"} {
		pos := mustPosition(t, fen)
		before := pos.FEN()
		res, err := NewSearcher(NewStandardEvaluator()).Search(pos, pos.SideToMove, 2)
		if err != nil {
			t.Fatal(err)
		}
		if !pos.GenerateMoves(pos.SideToMove).Contains(res.Move) {
			t.Errorf("%s: best move %s not generated", fen, res.Move)
		}
		if pos.FEN() != before || pos.Ply() != 0 {
			t.Errorf("%s: search left position at %s", fen, pos.FEN())
		}
		if res.Nodes == 0 {
			t.Error("no nodes counted")
		}
	}
}

func TestSearchWinsQueen(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	for depth := 1; depth <= 3; depth++ {
		res, err := NewSearcher(NewStandardEvaluator()).Search(pos, board.White, depth)
		if err != nil {
			t.Fatal(err)
		}
		if got := res.Move.String(); got != "e4d5" {
			t.Errorf("depth %d: best move %s, want e4d5", depth, got)
		}
	}
}

func TestSearchPrunes(t *testing.T) {
	pos := board.StartPosition()
	s := NewSearcher(NewStandardEvaluator())
	res, err := s.Search(pos, board.White, 3)
	if err != nil {
		t.Fatal(err)
	}
	// A full minimax tree of depth 3 visits 20 + 400 + 8902 nodes below the root.
	if res.Cutoffs == 0 || res.Nodes >= 9322 {
		t.Errorf("nodes %d cutoffs %d: no pruning", res.Nodes, res.Cutoffs)
	}
}

func TestSearchNoMoves(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/8 w - - 0 1")
	eng, err := NewEngine(Options{Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.GetBestMove(pos, board.White); !errors.Is(err, ErrNoMoves) {
		t.Errorf("err = %v, want ErrNoMoves", err)
	}
}

func TestEngineOptions(t *testing.T) {
	if _, err := NewEngine(Options{Depth: MaxDepth + 1}); err == nil {
		t.Error("accepted depth beyond MaxDepth")
	}
	if _, err := NewEngine(Options{Profile: "bogus"}); err == nil {
		t.Error("accepted unknown profile")
	}

	eng, err := NewEngine(Options{Profile: ProfilePawn})
	if err != nil {
		t.Fatal(err)
	}
	if eng.Depth() != DifficultyDepth[Medium] {
		t.Errorf("default depth %d", eng.Depth())
	}
	eng.SetDifficulty(Easy)
	if eng.Depth() != 2 {
		t.Errorf("easy depth %d", eng.Depth())
	}
	eng.SetDepth(100)
	if eng.Depth() != MaxDepth {
		t.Errorf("SetDepth did not clamp: %d", eng.Depth())
	}

	var info SearchInfo
	eng.SetDepth(1)
	eng.OnInfo = func(i SearchInfo) { info = i }
	res, err := eng.GetBestMove(board.StartPosition(), board.White)
	if err != nil {
		t.Fatal(err)
	}
	if info.Move != res.Move || info.Depth != 1 {
		t.Errorf("OnInfo got %+v for result %+v", info, res)
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-5, "-0.05"},
		{-320, "-3.20"},
		{KingValue, "Wins king"},
		{-KingValue, "Loses king"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPerft(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
		want  uint64
	}{
		{board.StartFEN, 1, 20},
		{board.StartFEN, 2, 400},
		{board.StartFEN, 3, 8902},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
	}
	for _, tc := range tests {
		pos := mustPosition(t, tc.fen)
		if got := Perft(pos, tc.depth); got != tc.want {
			t.Errorf("Perft(%s, %d) = %d, want %d", tc.fen, tc.depth, got, tc.want)
		}
	}
}

func TestDivide(t *testing.T) {
	pos := board.StartPosition()
	entries, total, err := Divide(context.Background(), pos, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 || total != 8902 {
		t.Fatalf("got %d entries totalling %d, want 20 and 8902", len(entries), total)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Move.String() > entries[i].Move.String() {
			t.Fatalf("entries not sorted at %d", i)
		}
	}
	for _, e := range entries {
		if e.Nodes == 0 {
			t.Errorf("%s: no nodes", e.Move)
		}
	}
	if pos.Ply() != 0 || pos.FEN() != board.StartFEN {
		t.Error("Divide changed the root position")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Divide(ctx, pos, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Divide err = %v", err)
	}
}

// expiringContext reports cancellation after a fixed number of Err calls.
type expiringContext struct {
	context.Context
	left int
}

func (c *expiringContext) Err() error {
	if c.left <= 0 {
		return context.Canceled
	}
	c.left--
	return nil
}

func TestPerftContextStopsMidTree(t *testing.T) {
	pos := board.StartPosition()
	nodes, err := PerftContext(context.Background(), pos, 3)
	if err != nil || nodes != 8902 {
		t.Fatalf("PerftContext = %d, %v", nodes, err)
	}

	ctx := &expiringContext{Context: context.Background(), left: 5}
	if _, err := PerftContext(ctx, pos, 4); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if pos.Ply() != 0 || pos.FEN() != board.StartFEN {
		t.Error("cancelled perft left moves on the position")
	}
}
