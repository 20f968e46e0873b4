// Package uci implements the Universal Chess Interface front end.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/render"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	rules    board.Rules

	out    io.Writer
	logger *log.Logger
	debug  bool
}

// New creates a UCI protocol handler writing replies to out.
func New(eng *engine.Engine, rules board.Rules, out io.Writer, logger *log.Logger) *UCI {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	u := &UCI{
		engine: eng,
		rules:  rules,
		out:    out,
		logger: logger,
	}
	u.position = u.startPosition()
	return u
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.position = u.startPosition()
		case "position":
			if u.debug {
				u.infoString("position %s", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches are synchronous; nothing is running.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			fmt.Fprint(u.out, render.Text(u.position, render.Options{LastMove: true}))
			u.println("Fen: " + u.position.FEN())
		case "perft":
			u.handlePerft(args)
		default:
			u.infoString("unknown command: %s", cmd)
		}
	}
	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) infoString(format string, args ...any) {
	fmt.Fprintf(u.out, "info string "+format+"\n", args...)
}

func (u *UCI) startPosition() *board.Position {
	pos := board.StartPosition()
	pos.Rules = u.rules
	return pos
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println("")
	u.println(fmt.Sprintf("option name Depth type spin default %d min 1 max %d", u.engine.Depth(), engine.MaxDepth))
	u.println("option name Debug type check default false")
	u.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// The move list, if any, follows the "moves" keyword.
	fenEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			fenEnd, moveStart = i, i+1
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = u.startPosition()
	case "fen":
		var err error
		pos, err = board.PositionFromFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			u.infoString("Invalid FEN: %v", err)
			return
		}
		pos.Rules = u.rules
	default:
		return
	}

	for _, moveStr := range args[moveStart:] {
		m, err := pos.ParseMove(moveStr, pos.SideToMove)
		if err == nil {
			err = pos.MakeLegalMove(m, pos.SideToMove)
		}
		if err != nil {
			u.infoString("Invalid move: %s", moveStr)
			return
		}
	}
	u.position = pos
}

// handleGo runs a search and prints the best move.
func (u *UCI) handleGo(args []string) {
	depth := u.engine.Depth()
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, err := strconv.Atoi(args[i+1]); err == nil {
				depth = d
			}
			i++
		}
	}

	us := u.position.SideToMove
	legal := u.position.LegalMoves(us)
	if legal.Len() == 0 {
		u.println("bestmove 0000")
		return
	}

	res, err := u.engine.SearchDepth(u.position, us, depth)
	if err != nil {
		u.infoString("search failed: %v", err)
		u.println("bestmove " + legal.Get(0).String())
		return
	}
	u.sendInfo(res)

	// The search plays pseudo-legal lines; never send a move that leaves
	// our king attacked.
	if !legal.Contains(res.Move) {
		u.infoString("search returned illegal move %s, using fallback", res.Move)
		u.println("bestmove " + legal.Get(0).String())
		return
	}
	u.println("bestmove " + res.Move.String())
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(res engine.Result) {
	parts := []string{
		fmt.Sprintf("depth %d", res.Depth),
		fmt.Sprintf("score cp %d", res.Score),
		fmt.Sprintf("nodes %d", res.Nodes),
		fmt.Sprintf("time %d", res.Elapsed.Milliseconds()),
	}
	if res.Elapsed > 0 {
		nps := uint64(float64(res.Nodes) / res.Elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, "pv "+res.Move.String())
	u.println("info " + strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	target := &name
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, arg)
		}
	}

	v := strings.Join(value, " ")
	switch strings.ToLower(strings.Join(name, " ")) {
	case "depth":
		d, err := strconv.Atoi(v)
		if err != nil {
			u.infoString("invalid depth: %s", v)
			return
		}
		u.engine.SetDepth(d)
	case "debug":
		u.debug = strings.ToLower(v) == "true"
		if u.debug {
			u.logger.Printf("uci debug mode enabled")
		}
	}
}

// handlePerft runs a perft test, printing the divide table.
func (u *UCI) handlePerft(args []string) {
	depth := 4
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	entries, nodes, err := engine.Divide(context.Background(), u.position, depth)
	if err != nil {
		u.infoString("perft failed: %v", err)
		return
	}
	elapsed := time.Since(start)

	for _, e := range entries {
		fmt.Fprintf(u.out, "%s: %d\n", e.Move, e.Nodes)
	}
	fmt.Fprintf(u.out, "\nNodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(u.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
