// Command chesscore-perft verifies move generation by counting leaf nodes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/render"
)

var (
	fen    = flag.String("fen", board.StartFEN, "position to count from")
	depth  = flag.Int("depth", 4, "perft depth")
	divide = flag.Bool("divide", false, "print the count below every root move")
	revoke = flag.Bool("revoke-castling", true, "revoke castling rights on any king move or rook capture")
	magics = flag.Bool("magics", false, "rebuild and validate the magic tables first")
	show   = flag.Bool("board", false, "print the position before counting")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("chesscore-perft: ")

	if *magics {
		start := time.Now()
		t, err := board.NewMagicTable()
		if err != nil {
			log.Fatal(err)
		}
		if err := t.Validate(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("magic tables valid (%d constants repaired) in %v\n", t.Repaired, time.Since(start))
	}

	pos, err := board.PositionFromFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}
	pos.Rules.RevokeCastlingOnKingMove = *revoke
	pos.Rules.RevokeCastlingOnRookCapture = *revoke
	if *show {
		fmt.Print(render.Text(pos, render.Options{}))
		fmt.Println(pos.FEN())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	var nodes uint64
	if *divide {
		entries, total, err := engine.Divide(ctx, pos, *depth)
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range entries {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		}
		fmt.Println()
		nodes = total
	} else {
		nodes, err = engine.PerftContext(ctx, pos, *depth)
		if err != nil {
			log.Fatal(err)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("depth %d nodes %d time %v", *depth, nodes, elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Printf(" nps %.0f", float64(nodes)/elapsed.Seconds())
	}
	fmt.Println()
}
