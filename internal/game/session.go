// Package game runs an interactive console game over a reader and writer.
package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/render"
	"github.com/hailam/chesscore/internal/storage"
)

// Options configure a session.
type Options struct {
	Engine      *engine.Engine // nil: both sides are entered by hand
	EngineColor board.Color    // side played by Engine
	Store       *storage.Store // nil: moves are not logged
	Rules       board.Rules
	Logger      *log.Logger
}

// Session is one console game.
type Session struct {
	pos         *board.Position
	eng         *engine.Engine
	engineColor board.Color
	store       *storage.Store
	gameID      uint64
	rules       board.Rules

	out    io.Writer
	logger *log.Logger
}

// ErrQuit is returned by a command that ends the session.
var ErrQuit = errors.New("quit")

// NewSession creates a session at the start position.
func NewSession(opts Options, out io.Writer) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{
		eng:         opts.Engine,
		engineColor: opts.EngineColor,
		store:       opts.Store,
		rules:       opts.Rules,
		out:         out,
		logger:      logger,
	}
	if s.eng == nil {
		s.engineColor = board.NoColor
	}
	if err := s.reset(board.StartFEN); err != nil {
		return nil, err
	}
	return s, nil
}

// Position returns the current position.
func (s *Session) Position() *board.Position {
	return s.pos
}

// GameID returns the move log id of the current game, zero when not logged.
func (s *Session) GameID() uint64 {
	return s.gameID
}

// Run reads commands from in until "quit" or end of input.
func (s *Session) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.println(render.Text(s.pos, render.Options{}))
	if err := s.engineTurn(); err != nil {
		return err
	}
	s.prompt()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			s.prompt()
			continue
		}
		err := s.Execute(line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.printf("error: %v\n", err)
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *Session) prompt() {
	s.printf("%s> ", s.pos.SideToMove)
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// reset starts a new game from fen.
func (s *Session) reset(fen string) error {
	pos, err := board.PositionFromFEN(fen)
	if err != nil {
		return err
	}
	pos.Rules = s.rules
	s.pos = pos
	s.gameID = 0
	if s.store != nil {
		id, err := s.store.NewGame(fen)
		if err != nil {
			return fmt.Errorf("start move log: %w", err)
		}
		s.gameID = id
		s.logger.Printf("game %d started", id)
	}
	return nil
}

// over reports whether the side to move has no legal move.
func (s *Session) over() bool {
	return !s.pos.HasLegalMove(s.pos.SideToMove)
}

// play makes a legal move, logs it and reports the outcome.
func (s *Session) play(m board.Move) error {
	us := s.pos.SideToMove
	san := s.pos.SAN(m)
	if err := s.pos.MakeLegalMove(m, us); err != nil {
		return fmt.Errorf("%w: %s", err, m)
	}
	s.printf("%d%s %s\n", s.pos.FullMoveNumber-boolInt(us == board.Black), dots(us), san)

	if s.store != nil {
		rec, _ := s.pos.LastMove()
		entry := storage.NewEntry(s.pos, rec, san, s.score)
		if _, err := s.store.Append(s.gameID, entry); err != nil {
			s.logger.Printf("move log: %v", err)
		}
	}

	them := s.pos.SideToMove
	switch {
	case s.pos.IsCheck(them) && s.pos.IsCheckmate(them):
		s.printf("Checkmate! %s wins.\n", us)
	case s.pos.IsStalemate(them):
		s.println("Stalemate.")
	case s.pos.IsCheck(them):
		s.printf("%s is in check.\n", them)
	}
	return nil
}

func (s *Session) score(c board.Color) int {
	if s.eng != nil {
		return s.eng.Evaluate(s.pos, c)
	}
	return engine.NewStandardEvaluator().Evaluate(s.pos, c)
}

// engineTurn lets the engine move while it is on move.
func (s *Session) engineTurn() error {
	if s.eng == nil || s.pos.SideToMove != s.engineColor || s.over() {
		return nil
	}
	return s.think()
}

// think searches for the side to move and plays the result.
func (s *Session) think() error {
	us := s.pos.SideToMove
	if s.eng == nil {
		return errors.New("no engine configured")
	}
	res, err := s.eng.GetBestMove(s.pos, us)
	if err != nil {
		return err
	}
	s.printf("engine: %s (%s, %d nodes)\n", res.Move, engine.ScoreToString(res.Score), res.Nodes)

	m := res.Move
	legal := s.pos.LegalMoves(us)
	if !legal.Contains(m) {
		if legal.Len() == 0 {
			return nil
		}
		s.logger.Printf("engine move %s leaves the king attacked, playing %s", m, legal.Get(0))
		m = legal.Get(0)
	}
	return s.play(m)
}

// parse accepts coordinate notation first, then SAN.
func (s *Session) parse(text string) (board.Move, error) {
	us := s.pos.SideToMove
	if m, err := s.pos.ParseMove(text, us); err == nil {
		return m, nil
	}
	return s.pos.ParseSAN(text, us)
}

// Execute runs one command line.
func (s *Session) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return ErrQuit

	case "help", "?":
		s.println(helpText)

	case "move", "m":
		if len(args) != 1 {
			return errors.New("usage: move <e2e4|Nf3>")
		}
		return s.userMove(args[0])

	case "undo", "u":
		return s.undo()

	case "go":
		if s.over() {
			return errors.New("game over")
		}
		return s.think()

	case "moves":
		return s.listMoves(args)

	case "d", "board":
		s.println(render.Text(s.pos, render.Options{LastMove: true}))

	case "fen":
		s.println(s.pos.FEN())

	case "svg", "png":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <file>", cmd)
		}
		return s.writeImage(cmd, args[0])

	case "log":
		if s.store == nil {
			return errors.New("move log disabled")
		}
		return s.store.WriteText(s.out, s.gameID)

	case "new":
		fen := board.StartFEN
		if len(args) > 0 {
			fen = strings.Join(args, " ")
		}
		if err := s.reset(fen); err != nil {
			return err
		}
		s.println(render.Text(s.pos, render.Options{}))
		return s.engineTurn()

	default:
		return s.userMove(fields[0])
	}
	return nil
}

func (s *Session) userMove(text string) error {
	if s.over() {
		return errors.New("game over")
	}
	m, err := s.parse(text)
	if err != nil {
		return err
	}
	if err := s.play(m); err != nil {
		return err
	}
	return s.engineTurn()
}

// undo takes back the last move, and the engine reply before it.
func (s *Session) undo() error {
	n := 1
	if s.eng != nil && s.pos.SideToMove == s.engineColor.Other() && s.pos.Ply() >= 2 {
		n = 2
	}
	for i := 0; i < n; i++ {
		rec, err := s.pos.UnmakeMove()
		if err != nil {
			return err
		}
		if s.store != nil {
			if _, err := s.store.Pop(s.gameID); err != nil {
				s.logger.Printf("move log: %v", err)
			}
		}
		s.printf("took back %s\n", rec.Move)
	}
	return nil
}

// listMoves prints the legal moves, or one piece's destinations.
func (s *Session) listMoves(args []string) error {
	us := s.pos.SideToMove
	if len(args) == 1 {
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			return err
		}
		pc, ok := s.pos.PieceAt(sq)
		if !ok || pc.Color() != us {
			return fmt.Errorf("no %s piece on %s", us, sq)
		}
		var dests board.Bitboard
		legal := s.pos.LegalMoves(us)
		for _, m := range legal.Slice() {
			if m.From() == sq {
				dests = dests.Set(m.To())
			}
		}
		s.println(render.Text(s.pos, render.Options{Highlight: dests}))
		return nil
	}

	legal := s.pos.LegalMoves(us).Slice()
	sans := make([]string, len(legal))
	for i, m := range legal {
		sans[i] = s.pos.SAN(m)
	}
	s.printf("%d moves: %s\n", len(sans), strings.Join(sans, " "))
	return nil
}

func (s *Session) writeImage(kind, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := render.Options{LastMove: true, Coordinates: true}
	if s.engineColor == board.White {
		opts.Flip = true
	}
	if kind == "svg" {
		err = render.SVG(f, s.pos, opts)
	} else {
		err = render.PNG(f, s.pos, opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	s.printf("wrote %s\n", path)
	return nil
}

func dots(c board.Color) string {
	if c == board.Black {
		return "..."
	}
	return "."
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const helpText = `commands:
  e2e4 | Nf3      play a move (coordinate or SAN)
  move <m>        same as above
  undo            take back the last move
  go              let the engine move for the side to move
  moves [sq]      list legal moves, or show one piece's destinations
  d               show the board
  fen             print the position as FEN
  svg <file>      write the board as SVG
  png <file>      write the board as PNG
  log             print the move log of this game
  new [fen]       start a new game
  help            this text
  quit            leave`
