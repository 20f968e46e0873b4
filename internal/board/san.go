package board

import (
	"fmt"
	"strings"
)

// SAN returns the Standard Algebraic Notation of m, which must be a move
// of the side it names in the current position.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	us := m.Color()
	pt := m.Piece()

	var sb strings.Builder

	if m.IsCastle() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(p.disambiguation(m))
		}

		if m.IsCapture(p) {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteString("=Q")
		}
	}

	p.MakeMove(m)
	them := us.Other()
	if p.IsCheck(them) {
		if p.HasLegalMove(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.mustUnmake()

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from another piece of the same kind reaching the same square.
func (p *Position) disambiguation(m Move) string {
	from, to := m.From(), m.To()

	var candidates []Square
	moves := p.LegalMoves(m.Color())
	for i := 0; i < moves.Len(); i++ {
		other := moves.Get(i)
		if other.To() != to || other.From() == from || other.Piece() != m.Piece() {
			continue
		}
		candidates = append(candidates, other.From())
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves a SAN string against the legal moves of c.
func (p *Position) ParseSAN(s string, c Color) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	moves := p.LegalMoves(c)

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range moves.Slice() {
			if m.IsCastle() && (m.To() > m.From()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}

	promotion := false
	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) || (s[idx+1] != 'Q' && s[idx+1] != 'q') {
			return NoMove, fmt.Errorf("unsupported promotion: %s", s)
		}
		promotion = true
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		}
		if pt != Pawn {
			s = s[1:]
		}
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %s", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	file, rank := -1, -1
	for _, ch := range s {
		if ch >= 'a' && ch <= 'h' {
			file = int(ch - 'a')
		} else if ch >= '1' && ch <= '8' {
			rank = int(ch - '1')
		}
	}

	for _, m := range moves.Slice() {
		if m.To() != dest || m.Piece() != pt || m.IsCastle() {
			continue
		}
		if file >= 0 && m.From().File() != file {
			continue
		}
		if rank >= 0 && m.From().Rank() != rank {
			continue
		}
		if isCapture && !m.IsCapture(p) {
			continue
		}
		if promotion && !m.IsPromotion() {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
}
