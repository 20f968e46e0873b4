package board

// rookHomeRights holds the right carried by each rook corner square.
var rookHomeRights = [64]CastlingRights{
	H1: WhiteKingSide,
	A1: WhiteQueenSide,
	H8: BlackKingSide,
	A8: BlackQueenSide,
}

// castleRookSquares returns the rook path for a king castling onto kingTo.
func castleRookSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default:
		return A8, D8
	}
}

func colorRights(c Color) CastlingRights {
	if c == White {
		return WhiteKingSide | WhiteQueenSide
	}
	return BlackKingSide | BlackQueenSide
}

func (p *Position) snapshot() Snapshot {
	return Snapshot{
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		SideToMove:     p.SideToMove,
		Castling:       p.Castling,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
	}
}

func (p *Position) restore(s *Snapshot) {
	p.Pieces = s.Pieces
	p.Occupied = s.Occupied
	p.SideToMove = s.SideToMove
	p.Castling = s.Castling
	p.EnPassant = s.EnPassant
	p.HalfMoveClock = s.HalfMoveClock
	p.FullMoveNumber = s.FullMoveNumber
}

// MakeMove applies m under a single snapshot. Castling, en passant and
// promotion are applied as one compound move, so every MakeMove is undone by
// exactly one UnmakeMove. The move is not checked for legality.
func (p *Position) MakeMove(m Move) {
	p.snapshots = append(p.snapshots, p.snapshot())

	from, to := m.From(), m.To()
	us, pt := m.Color(), m.Piece()
	them := us.Other()
	mover := NewPiece(pt, us)
	captured := NoPieceType
	ep := NoSquare

	switch m.Kind() {
	case Castle:
		rookFrom, rookTo := castleRookSquares(to)
		p.shift(mover, from, to)
		p.shift(NewPiece(Rook, us), rookFrom, rookTo)
		p.Castling &^= colorRights(us)

	case EnPassantCapture:
		victim := to + 8
		if us == Black {
			victim = to - 8
		}
		p.shift(mover, from, to)
		captured = p.captureAt(victim, them)

	case Promotion:
		captured = p.captureAt(to, them)
		p.remove(mover, from)
		p.put(NewPiece(Queen, us), to)

	default:
		captured = p.captureAt(to, them)
		p.shift(mover, from, to)
		if pt == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
			ep = (from + to) / 2
		}
	}

	p.EnPassant = ep
	if pt == Rook {
		p.Castling &^= rookHomeRights[from]
	}
	if captured == Rook && p.Rules.RevokeCastlingOnRookCapture {
		p.Castling &^= rookHomeRights[to]
	}
	if pt == King && p.Rules.RevokeCastlingOnKingMove {
		p.Castling &^= colorRights(us)
	}

	if pt == Pawn || captured != NoPieceType {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.history = append(p.history, MoveRecord{
		Move:     m,
		Piece:    pt,
		From:     from,
		To:       to,
		Color:    us,
		Kind:     m.Kind(),
		Captured: captured,
	})
	p.SideToMove = them
}

// UnmakeMove restores the state saved by the most recent MakeMove and returns
// its record. It fails without touching anything when no move was made.
func (p *Position) UnmakeMove() (MoveRecord, error) {
	n := len(p.history)
	if n == 0 || len(p.snapshots) == 0 {
		return MoveRecord{}, ErrNoMoveToUnmake
	}

	rec := p.history[n-1]
	p.history = p.history[:n-1]

	s := &p.snapshots[len(p.snapshots)-1]
	p.restore(s)
	p.snapshots = p.snapshots[:len(p.snapshots)-1]

	return rec, nil
}

// Capture removes the piece of capturedColor standing on sq, if any, and
// reports whether one was removed. The state it changes is covered by the
// snapshot of the move in progress, so it must only run inside MakeMove's
// window.
func (p *Position) Capture(sq Square, capturedColor Color) bool {
	return p.captureAt(sq, capturedColor) != NoPieceType
}

func (p *Position) captureAt(sq Square, c Color) PieceType {
	if !p.Occupied[c].IsSet(sq) {
		return NoPieceType
	}
	for pt := Pawn; pt <= King; pt++ {
		pc := NewPiece(pt, c)
		if p.Pieces[pc].IsSet(sq) {
			p.remove(pc, sq)
			return pt
		}
	}
	return NoPieceType
}

// MakeLegalMove applies m only if it was generated for c and does not leave
// c's king attacked.
func (p *Position) MakeLegalMove(m Move, c Color) error {
	if m.Color() != c || !p.GenerateMoves(c).Contains(m) {
		return ErrIllegalMove
	}
	p.MakeMove(m)
	if p.IsCheck(c) {
		p.mustUnmake()
		return ErrIllegalMove
	}
	return nil
}

// mustUnmake is for paired make/unmake inside the package where an empty
// history is a programming error.
func (p *Position) mustUnmake() {
	if _, err := p.UnmakeMove(); err != nil {
		panic(err)
	}
}
