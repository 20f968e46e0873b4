package board

import "fmt"

// Move encodes a move in 18 bits of a uint32:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: kind (0=simple, 1=castle, 2=en passant, 3=promotion)
// bits 14-16: moving piece type
// bit 17:     mover color
type Move uint32

// MoveKind tags how a move is applied.
type MoveKind uint8

const (
	Simple MoveKind = iota
	Castle
	EnPassantCapture
	Promotion
)

// String returns the kind name.
func (k MoveKind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Castle:
		return "castle"
	case EnPassantCapture:
		return "en passant"
	case Promotion:
		return "promotion"
	}
	return "unknown"
}

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove packs a move.
func NewMove(from, to Square, kind MoveKind, pt PieceType, c Color) Move {
	return Move(from) | Move(to)<<6 | Move(kind)<<12 | Move(pt)<<14 | Move(c)<<17
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Kind returns how the move is applied.
func (m Move) Kind() MoveKind {
	return MoveKind((m >> 12) & 3)
}

// Piece returns the type of the moving piece.
func (m Move) Piece() PieceType {
	return PieceType((m >> 14) & 7)
}

// Color returns the mover's color.
func (m Move) Color() Color {
	return Color((m >> 17) & 1)
}

// IsCastle returns true if this is a castling move.
func (m Move) IsCastle() bool {
	return m.Kind() == Castle
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Kind() == Promotion
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind() == EnPassantCapture
}

// IsCapture returns true if the move removes an enemy piece.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return pos.Occupied[m.Color().Other()].IsSet(m.To())
}

// String returns coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += "q"
	}
	return s
}

// ParseMove resolves coordinate notation against the moves c can make.
func (p *Position) ParseMove(s string, c Color) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	if len(s) == 5 && s[4] != 'q' && s[4] != 'Q' {
		return NoMove, fmt.Errorf("unsupported promotion piece: %c", s[4])
	}

	moves := p.GenerateMoves(c)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == from && m.To() == to {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// maxMoves covers every legal chess position. Composed placements can exceed
// it, in which case the list spills into a heap slice.
const maxMoves = 256

// MoveList is a list of moves backed by a fixed array to avoid allocations.
type MoveList struct {
	buf   [maxMoves]Move
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	ml := &MoveList{}
	ml.moves = ml.buf[:0]
	return ml
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	if ml.moves == nil {
		ml.moves = ml.buf[:0]
	}
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.moves = ml.buf[:0]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for _, mv := range ml.moves {
		if mv == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}

// MoveRecord is pushed by every MakeMove, one per snapshot.
type MoveRecord struct {
	Move     Move
	Piece    PieceType
	From     Square
	To       Square
	Color    Color
	Kind     MoveKind
	Captured PieceType // NoPieceType when nothing was taken
}

// Castle reports whether the record is a castling move.
func (r MoveRecord) Castle() bool {
	return r.Kind == Castle
}
