package engine

import (
	"errors"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity = 1 << 20
	MaxDepth = 8
)

// ErrNoMoves is returned when the side to search has no candidate move.
var ErrNoMoves = errors.New("no moves to search")

// Result is the outcome of one fixed-depth search.
type Result struct {
	Move    board.Move
	Score   int // relative to the searching side
	Depth   int
	Nodes   uint64
	Cutoffs uint64
	Elapsed time.Duration
}

// Searcher runs the mutually recursive max/min alpha-beta search. It owns no
// position; the caller's position is mutated during the search and restored
// before it returns.
type Searcher struct {
	eval    *Evaluator
	nodes   uint64
	cutoffs uint64
}

// NewSearcher creates a searcher scoring leaves with eval.
func NewSearcher(eval *Evaluator) *Searcher {
	return &Searcher{eval: eval}
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search returns the best move for c at the given depth.
func (s *Searcher) Search(pos *board.Position, c board.Color, depth int) (Result, error) {
	if depth < 1 {
		depth = 1
	}
	s.nodes, s.cutoffs = 0, 0
	start := time.Now()

	moves := pos.GenerateMoves(c)
	if moves.Len() == 0 {
		return Result{}, ErrNoMoves
	}

	alpha, beta := -Infinity, Infinity
	best := board.NoMove
	bestScore := -Infinity

	for _, m := range moves.Slice() {
		pos.MakeMove(m)
		score := s.alphaBetaMin(pos, alpha, beta, depth-1, c)
		unmake(pos)

		if best == board.NoMove || score > bestScore {
			best, bestScore = m, score
		}
		if score > alpha {
			alpha = score
		}
	}

	return Result{
		Move:    best,
		Score:   bestScore,
		Depth:   depth,
		Nodes:   s.nodes,
		Cutoffs: s.cutoffs,
		Elapsed: time.Since(start),
	}, nil
}

// alphaBetaMax searches a node where side max is to move.
func (s *Searcher) alphaBetaMax(pos *board.Position, alpha, beta, depth int, max board.Color) int {
	s.nodes++
	if depth == 0 {
		return s.eval.Evaluate(pos, max)
	}

	moves := pos.GenerateMoves(max)
	if moves.Len() == 0 {
		return s.eval.Evaluate(pos, max)
	}

	best := -Infinity
	for _, m := range moves.Slice() {
		pos.MakeMove(m)
		score := s.alphaBetaMin(pos, alpha, beta, depth-1, max)
		unmake(pos)

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if beta <= alpha {
			s.cutoffs++
			break
		}
	}
	return best
}

// alphaBetaMin searches a node where the opponent of max is to move. Leaf
// scores are taken from the mover's side and negated, so every node speaks
// for max.
func (s *Searcher) alphaBetaMin(pos *board.Position, alpha, beta, depth int, max board.Color) int {
	s.nodes++
	min := max.Other()
	if depth == 0 {
		return -s.eval.Evaluate(pos, min)
	}

	moves := pos.GenerateMoves(min)
	if moves.Len() == 0 {
		return -s.eval.Evaluate(pos, min)
	}

	best := Infinity
	for _, m := range moves.Slice() {
		pos.MakeMove(m)
		score := s.alphaBetaMax(pos, alpha, beta, depth-1, max)
		unmake(pos)

		if score < best {
			best = score
		}
		if score < beta {
			beta = score
		}
		if beta <= alpha {
			s.cutoffs++
			break
		}
	}
	return best
}

// unmake pops the move made by the enclosing loop. An empty history here
// means make and unmake went out of step.
func unmake(pos *board.Position) {
	if _, err := pos.UnmakeMove(); err != nil {
		panic(err)
	}
}
