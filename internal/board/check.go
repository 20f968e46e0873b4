package board

// IsAttacked returns true if any piece of color by attacks sq.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	// A pawn of color by attacks sq exactly when a pawn of the other color on sq
	// would attack it.
	if pawnAttacks[by.Other()][sq]&p.Pieces[NewPiece(Pawn, by)] != 0 {
		return true
	}
	if knightAttacks[sq]&p.Pieces[NewPiece(Knight, by)] != 0 {
		return true
	}
	if kingAttacks[sq]&p.Pieces[NewPiece(King, by)] != 0 {
		return true
	}

	t := p.Magics()
	occ := p.Occupied[Both]
	queens := p.Pieces[NewPiece(Queen, by)]
	if t.BishopAttacks(sq, occ)&(p.Pieces[NewPiece(Bishop, by)]|queens) != 0 {
		return true
	}
	return t.RookAttacks(sq, occ)&(p.Pieces[NewPiece(Rook, by)]|queens) != 0
}

// AttackersOf returns every piece of color by attacking sq.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	t := p.Magics()
	occ := p.Occupied[Both]
	queens := p.Pieces[NewPiece(Queen, by)]
	return (pawnAttacks[by.Other()][sq] & p.Pieces[NewPiece(Pawn, by)]) |
		(knightAttacks[sq] & p.Pieces[NewPiece(Knight, by)]) |
		(kingAttacks[sq] & p.Pieces[NewPiece(King, by)]) |
		(t.BishopAttacks(sq, occ) & (p.Pieces[NewPiece(Bishop, by)] | queens)) |
		(t.RookAttacks(sq, occ) & (p.Pieces[NewPiece(Rook, by)] | queens))
}

// IsCheck returns true if c's king is attacked. A side without a king is
// never in check.
func (p *Position) IsCheck(c Color) bool {
	king := p.Pieces[NewPiece(King, c)]
	if king == 0 {
		return false
	}
	return p.IsAttacked(king.LSB(), c.Other())
}

// IsCheckmate reports whether c is mated.
//
// By default only king relocation is considered: the result is true when
// every square the king could step to stays attacked after the step, which
// also holds when the king has no square to go to. With Rules.StrictCheckmate
// the side must be in check and have no move at all that leaves the king safe.
func (p *Position) IsCheckmate(c Color) bool {
	king := p.Pieces[NewPiece(King, c)]
	if king == 0 {
		return false
	}
	if p.Rules.StrictCheckmate {
		return p.IsCheck(c) && !p.HasLegalMove(c)
	}

	from := king.LSB()
	targets := kingAttacks[from] &^ p.Occupied[c]
	for targets != 0 {
		to := targets.PopLSB()
		p.MakeMove(NewMove(from, to, Simple, King, c))
		attacked := p.IsAttacked(to, c.Other())
		p.mustUnmake()
		if !attacked {
			return false
		}
	}
	return true
}

// HasLegalMove returns true if c has a move that does not leave its king
// attacked.
func (p *Position) HasLegalMove(c Color) bool {
	moves := p.GenerateMoves(c)
	for i := 0; i < moves.Len(); i++ {
		p.MakeMove(moves.Get(i))
		safe := !p.IsCheck(c)
		p.mustUnmake()
		if safe {
			return true
		}
	}
	return false
}

// IsStalemate returns true if c is not in check and has no legal move.
func (p *Position) IsStalemate(c Color) bool {
	return !p.IsCheck(c) && !p.HasLegalMove(c)
}
