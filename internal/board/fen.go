package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Setup is a parsed position description, ready for NewPosition.
type Setup struct {
	Placement      []Placement
	Active         Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

// Position builds a Position from the setup.
func (s *Setup) Position() (*Position, error) {
	pos, err := NewPosition(s.Placement, s.Active, s.Castling, s.EnPassant)
	if err != nil {
		return nil, err
	}
	pos.HalfMoveClock = s.HalfMoveClock
	pos.FullMoveNumber = s.FullMoveNumber
	return pos, nil
}

// ParseFEN parses a FEN string. The clock fields are optional.
func ParseFEN(fen string) (*Setup, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	s := &Setup{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}

	placement, err := parsePiecePlacement(parts[0])
	if err != nil {
		return nil, err
	}
	s.Placement = placement

	active, ok := ParseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}
	s.Active = active

	if s.Castling, err = parseCastlingRights(parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		s.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		s.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		s.FullMoveNumber = fmn
	}

	return s, nil
}

// PositionFromFEN parses fen and builds the position in one step.
func PositionFromFEN(fen string) (*Position, error) {
	s, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return s.Position()
}

func parsePiecePlacement(field string) ([]Placement, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	var out []Placement
	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return nil, fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return nil, fmt.Errorf("invalid piece character: %c", c)
			}
			out = append(out, Placement{Square: NewSquare(file, rank), Type: piece.Type(), Color: piece.Color()})
			file++
		}

		if file != 8 {
			return nil, fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return out, nil
}

func parseCastlingRights(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range field {
		switch c {
		case 'K':
			cr |= WhiteKingSide
		case 'Q':
			cr |= WhiteQueenSide
		case 'k':
			cr |= BlackKingSide
		case 'q':
			cr |= BlackQueenSide
		default:
			return NoCastling, fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return cr, nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece, ok := p.PieceAt(NewSquare(file, rank))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
