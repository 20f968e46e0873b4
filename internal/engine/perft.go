package engine

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// DivideEntry is the leaf count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Perft counts the leaf nodes of the legal move tree rooted at pos.
func Perft(pos *board.Position, depth int) uint64 {
	nodes, _ := PerftContext(context.Background(), pos, depth)
	return nodes
}

// PerftContext is Perft stopping with ctx's error once ctx is done. The
// context is checked at every interior node; pos is restored either way.
func PerftContext(ctx context.Context, pos *board.Position, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}

	moves := pos.LegalMoves(pos.SideToMove)
	if depth == 1 {
		return uint64(moves.Len()), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		pos.MakeMove(moves.Get(i))
		n, err := PerftContext(ctx, pos, depth-1)
		unmake(pos)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// Divide runs Perft below every root move in parallel, each on its own clone
// of pos. Cancelling ctx stops the running subtrees as well as the pending
// ones. Entries are sorted by move text.
func Divide(ctx context.Context, pos *board.Position, depth int) ([]DivideEntry, uint64, error) {
	if depth < 1 {
		return nil, 1, nil
	}

	moves := pos.LegalMoves(pos.SideToMove)
	entries := make([]DivideEntry, moves.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < moves.Len(); i++ {
		i := i
		m := moves.Get(i)
		child := pos.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child.MakeMove(m)
			nodes, err := PerftContext(ctx, child, depth-1)
			if err != nil {
				return err
			}
			entries[i] = DivideEntry{Move: m, Nodes: nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Move.String() < entries[b].Move.String()
	})
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	return entries, total, nil
}
