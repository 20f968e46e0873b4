package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMoveToUnmake is returned by UnmakeMove on an empty history.
	ErrNoMoveToUnmake = errors.New("no move to unmake")
	// ErrIllegalMove is returned when a move cannot be made by the given side.
	ErrIllegalMove = errors.New("illegal move")
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSide  CastlingRights = 1 << iota // K
	WhiteQueenSide                            // Q
	BlackKingSide                             // k
	BlackQueenSide                            // q
	NoCastling     CastlingRights = 0
	AllCastling    CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr&AllCastling == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// CanCastle returns true if the given side holds the right for that wing.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSide
		}
		return WhiteQueenSide
	}
	if kingSide {
		return BlackKingSide
	}
	return BlackQueenSide
}

// Rules selects behaviour where the engine offers more than one reading.
// The zero value keeps castling rights across plain king moves and rook
// captures, and tests checkmate by king relocation only.
type Rules struct {
	RevokeCastlingOnKingMove    bool
	RevokeCastlingOnRookCapture bool // a rook taken on its home square loses the right
	StrictCheckmate             bool
}

// Placement puts one piece on one square.
type Placement struct {
	Square Square
	Type   PieceType
	Color  Color
}

// Snapshot is the full mutable state captured before each move.
type Snapshot struct {
	Pieces         [12]Bitboard
	Occupied       [3]Bitboard
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

// Position is the authoritative board state.
type Position struct {
	// Piece bitboards indexed by Piece
	Pieces [12]Bitboard

	// Occupancy indexed by White, Black and Both
	Occupied [3]Bitboard

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // Square skipped by the last double push, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	Rules Rules

	magics    *MagicTable
	snapshots []Snapshot
	history   []MoveRecord
}

// NewPosition places the given pieces and returns a position ready to play.
func NewPosition(placement []Placement, active Color, castling CastlingRights, ep Square) (*Position, error) {
	if active >= NoColor {
		return nil, fmt.Errorf("invalid side to move: %d", active)
	}
	if ep > NoSquare {
		return nil, fmt.Errorf("invalid en passant square: %d", ep)
	}

	p := &Position{
		SideToMove:     active,
		Castling:       castling & AllCastling,
		EnPassant:      ep,
		FullMoveNumber: 1,
		magics:         Magics(),
	}

	for _, pl := range placement {
		if !pl.Square.IsValid() {
			return nil, fmt.Errorf("invalid square: %d", pl.Square)
		}
		pc := NewPiece(pl.Type, pl.Color)
		if pc == NoPiece {
			return nil, fmt.Errorf("invalid piece on %s", pl.Square)
		}
		if p.Occupied[Both].IsSet(pl.Square) {
			return nil, fmt.Errorf("square %s occupied twice", pl.Square)
		}
		p.put(pc, pl.Square)
	}

	return p, nil
}

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	setup, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	pos, err := setup.Position()
	if err != nil {
		panic(err)
	}
	return pos
}

// Clone returns a copy of the current state with empty history.
func (p *Position) Clone() *Position {
	c := *p
	c.snapshots = nil
	c.history = nil
	return &c
}

// PieceAt returns the piece at the given square.
func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if !p.Occupied[Both].IsSet(sq) {
		return NoPiece, false
	}
	c := White
	if p.Occupied[Black].IsSet(sq) {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		pc := NewPiece(pt, c)
		if p.Pieces[pc].IsSet(sq) {
			return pc, true
		}
	}
	return NoPiece, false
}

// Board returns the bitboard of one piece kind.
func (p *Position) Board(pc Piece) Bitboard {
	return p.Pieces[pc]
}

// Occupancy returns the squares held by c.
func (p *Position) Occupancy(c Color) Bitboard {
	return p.Occupied[c]
}

// Placements lists every piece on the board in square order.
func (p *Position) Placements() []Placement {
	out := make([]Placement, 0, p.Occupied[Both].PopCount())
	occ := p.Occupied[Both]
	for occ != 0 {
		sq := occ.PopLSB()
		pc, _ := p.PieceAt(sq)
		out = append(out, Placement{Square: sq, Type: pc.Type(), Color: pc.Color()})
	}
	return out
}

// KingSquare returns the square of c's king, or NoSquare if it is absent.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[NewPiece(King, c)].LSB()
}

// Ply returns the number of moves made and not yet unmade.
func (p *Position) Ply() int {
	return len(p.history)
}

// History returns the move records, oldest first.
func (p *Position) History() []MoveRecord {
	return p.history
}

// LastMove returns the most recent record.
func (p *Position) LastMove() (MoveRecord, bool) {
	if len(p.history) == 0 {
		return MoveRecord{}, false
	}
	return p.history[len(p.history)-1], true
}

// Magics returns the attack table the position was built with.
func (p *Position) Magics() *MagicTable {
	if p.magics == nil {
		p.magics = Magics()
	}
	return p.magics
}

func (p *Position) put(pc Piece, sq Square) {
	c := pc.Color()
	p.Pieces[pc] = p.Pieces[pc].Set(sq)
	p.Occupied[c] = p.Occupied[c].Set(sq)
	p.Occupied[Both] = p.Occupied[Both].Set(sq)
}

func (p *Position) remove(pc Piece, sq Square) {
	c := pc.Color()
	p.Pieces[pc] = p.Pieces[pc].Clear(sq)
	p.Occupied[c] = p.Occupied[c].Clear(sq)
	p.Occupied[Both] = p.Occupied[Both].Clear(sq)
}

func (p *Position) shift(pc Piece, from, to Square) {
	c := pc.Color()
	p.Pieces[pc] = p.Pieces[pc].Move(from, to)
	p.Occupied[c] = p.Occupied[c].Move(from, to)
	p.Occupied[Both] = p.Occupied[Both].Move(from, to)
}

// Validate checks the occupancy invariants.
func (p *Position) Validate() error {
	var seen Bitboard
	var colors [2]Bitboard
	for pc := WhitePawn; pc < NoPiece; pc++ {
		if seen&p.Pieces[pc] != 0 {
			return fmt.Errorf("%s board overlaps another piece board", pc)
		}
		seen |= p.Pieces[pc]
		colors[pc.Color()] |= p.Pieces[pc]
	}
	if colors[White] != p.Occupied[White] {
		return fmt.Errorf("white occupancy %#x does not match pieces %#x", uint64(p.Occupied[White]), uint64(colors[White]))
	}
	if colors[Black] != p.Occupied[Black] {
		return fmt.Errorf("black occupancy %#x does not match pieces %#x", uint64(p.Occupied[Black]), uint64(colors[Black]))
	}
	if p.Occupied[White]&p.Occupied[Black] != 0 {
		return errors.New("white and black occupancy overlap")
	}
	if p.Occupied[Both] != p.Occupied[White]|p.Occupied[Black] {
		return errors.New("combined occupancy out of sync")
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			if pc, ok := p.PieceAt(NewSquare(file, rank)); ok {
				sb.WriteString(pc.String() + " ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}
