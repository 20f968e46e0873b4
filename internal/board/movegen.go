package board

// GenerateMoves returns every pseudo-legal move of color c. Moves that leave
// c's own king attacked are included; castling never passes through check.
func (p *Position) GenerateMoves(c Color) *MoveList {
	ml := NewMoveList()
	for pt := Pawn; pt <= King; pt++ {
		pieces := p.Pieces[NewPiece(pt, c)]
		for pieces != 0 {
			p.addPieceMoves(ml, pt, pieces.PopLSB(), c)
		}
	}
	return ml
}

// LegalMoves returns the moves of c that do not leave its king attacked.
func (p *Position) LegalMoves(c Color) *MoveList {
	pseudo := p.GenerateMoves(c)
	legal := NewMoveList()
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		p.MakeMove(m)
		if !p.IsCheck(c) {
			legal.Add(m)
		}
		p.mustUnmake()
	}
	return legal
}

// PieceMoves returns the pseudo-legal moves of a piece of type pt and color c
// standing on from. The square is not required to actually hold that piece.
func (p *Position) PieceMoves(pt PieceType, from Square, c Color) *MoveList {
	ml := NewMoveList()
	p.addPieceMoves(ml, pt, from, c)
	return ml
}

// Destinations returns the target squares of PieceMoves as a bitboard.
func (p *Position) Destinations(pt PieceType, from Square, c Color) Bitboard {
	var bb Bitboard
	for _, m := range p.PieceMoves(pt, from, c).Slice() {
		bb |= SquareBB(m.To())
	}
	return bb
}

func (p *Position) addPieceMoves(ml *MoveList, pt PieceType, from Square, us Color) {
	own := p.Occupied[us]
	occ := p.Occupied[Both]
	t := p.Magics()

	var targets Bitboard
	switch pt {
	case Pawn:
		p.addPawnMoves(ml, from, us)
		return
	case Knight:
		targets = knightAttacks[from]
	case Bishop:
		targets = t.BishopAttacks(from, occ)
	case Rook:
		targets = t.RookAttacks(from, occ)
	case Queen:
		targets = t.QueenAttacks(from, occ)
	case King:
		targets = kingAttacks[from]
		p.addCastlingMoves(ml, from, us)
	default:
		return
	}

	targets &^= own
	for targets != 0 {
		ml.Add(NewMove(from, targets.PopLSB(), Simple, pt, us))
	}
}

func (p *Position) addPawnMoves(ml *MoveList, from Square, us Color) {
	empty := ^p.Occupied[Both]
	fromBB := SquareBB(from)

	var single, double, startRank, promoRank Bitboard
	if us == White {
		single = fromBB.North() & empty
		double = single.North() & empty
		startRank, promoRank = Rank2, Rank8
	} else {
		single = fromBB.South() & empty
		double = single.South() & empty
		startRank, promoRank = Rank7, Rank1
	}

	if single != 0 {
		addPawnMove(ml, from, single.LSB(), us, promoRank)
		if fromBB&startRank != 0 && double != 0 {
			ml.Add(NewMove(from, double.LSB(), Simple, Pawn, us))
		}
	}

	captures := pawnAttacks[us][from] & p.Occupied[us.Other()]
	for captures != 0 {
		addPawnMove(ml, from, captures.PopLSB(), us, promoRank)
	}

	// The target must sit on the rank the opponent's double push skipped.
	ep := p.EnPassant
	if ep != NoSquare && ep.RelativeRank(us) == 5 && pawnAttacks[us][from].IsSet(ep) && empty.IsSet(ep) {
		ml.Add(NewMove(from, ep, EnPassantCapture, Pawn, us))
	}
}

// addPawnMove adds a push or capture, promoting to a queen on the last rank.
func addPawnMove(ml *MoveList, from, to Square, us Color, promoRank Bitboard) {
	if promoRank.IsSet(to) {
		ml.Add(NewMove(from, to, Promotion, Pawn, us))
		return
	}
	ml.Add(NewMove(from, to, Simple, Pawn, us))
}

type castlePath struct {
	right  CastlingRights
	king   Square
	rook   Square
	target Square
	empty  Bitboard // must be vacant
	unsafe []Square // king start, transit and destination
}

var castlePaths = [2][2]castlePath{
	White: {
		{WhiteKingSide, E1, H1, G1, SquareBB(F1) | SquareBB(G1), []Square{E1, F1, G1}},
		{WhiteQueenSide, E1, A1, C1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), []Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSide, E8, H8, G8, SquareBB(F8) | SquareBB(G8), []Square{E8, F8, G8}},
		{BlackQueenSide, E8, A8, C8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), []Square{E8, D8, C8}},
	},
}

func (p *Position) addCastlingMoves(ml *MoveList, from Square, us Color) {
	them := us.Other()
	rooks := p.Pieces[NewPiece(Rook, us)]

	for _, cp := range castlePaths[us] {
		if p.Castling&cp.right == 0 || from != cp.king || !rooks.IsSet(cp.rook) {
			continue
		}
		if p.Occupied[Both]&cp.empty != 0 {
			continue
		}
		safe := true
		for _, sq := range cp.unsafe {
			if p.IsAttacked(sq, them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewMove(cp.king, cp.target, Castle, King, us))
		}
	}
}
