package engine

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth   int
	Score   int
	Nodes   uint64
	Cutoffs uint64
	Time    time.Duration
	Move    board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 4 ply
	Hard                     // 6 ply
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   2,
	Medium: 4,
	Hard:   6,
}

// Options configure an Engine.
type Options struct {
	Depth   int    // plies, 1..MaxDepth
	Profile string // evaluation profile name
	Logger  *log.Logger
	Debug   bool // log every search
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	eval     *Evaluator
	depth    int
	logger   *log.Logger
	debug    bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine from opts. A zero Depth selects Medium.
func NewEngine(opts Options) (*Engine, error) {
	eval, err := NewEvaluator(opts.Profile)
	if err != nil {
		return nil, err
	}
	depth := opts.Depth
	if depth == 0 {
		depth = DifficultyDepth[Medium]
	}
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("search depth %d out of range 1..%d", depth, MaxDepth)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		searcher: NewSearcher(eval),
		eval:     eval,
		depth:    depth,
		logger:   logger,
		debug:    opts.Debug,
	}, nil
}

// SetDifficulty sets the engine search depth from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepth[d]; ok {
		e.depth = depth
	}
}

// SetDepth sets the search depth, clamped to 1..MaxDepth.
func (e *Engine) SetDepth(depth int) {
	e.depth = clamp(depth, 1, MaxDepth)
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// Evaluator returns the evaluator used at the leaves.
func (e *Engine) Evaluator() *Evaluator {
	return e.eval
}

// GetBestMove searches pos for c at the configured depth.
func (e *Engine) GetBestMove(pos *board.Position, c board.Color) (Result, error) {
	return e.SearchDepth(pos, c, e.depth)
}

// SearchDepth searches pos for c at an explicit depth.
func (e *Engine) SearchDepth(pos *board.Position, c board.Color, depth int) (Result, error) {
	res, err := e.searcher.Search(pos, c, clamp(depth, 1, MaxDepth))
	if err != nil {
		return res, fmt.Errorf("search %s: %w", c, err)
	}

	if e.debug {
		e.logger.Printf("search %s depth=%d move=%s score=%d nodes=%d cutoffs=%d time=%s",
			c, res.Depth, res.Move, res.Score, res.Nodes, res.Cutoffs, res.Elapsed)
	}
	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth:   res.Depth,
			Score:   res.Score,
			Nodes:   res.Nodes,
			Cutoffs: res.Cutoffs,
			Time:    res.Elapsed,
			Move:    res.Move,
		})
	}
	return res, nil
}

// Evaluate returns the static evaluation of a position relative to c.
func (e *Engine) Evaluate(pos *board.Position, c board.Color) int {
	return e.eval.Evaluate(pos, c)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > KingValue/2 {
		return "Wins king"
	}
	if score < -KingValue/2 {
		return "Loses king"
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
	}
	score = abs(score)
	return sign + strconv.Itoa(score/100) + "." + fmt.Sprintf("%02d", score%100)
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
