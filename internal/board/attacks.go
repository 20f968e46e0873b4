package board

// Pre-computed masks for the stepping pieces and the slider relevance masks.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	bishopMasks [64]Bitboard
	rookMasks   [64]Bitboard
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initSliderMasks()
}

func initKnightAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		attacks := Empty

		// Two ranks, one file
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA
		attacks |= (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH

		// One rank, two files
		attacks |= (bb >> 10) & NotFileGH
		attacks |= (bb >> 6) & NotFileAB
		attacks |= (bb << 10) & NotFileAB
		attacks |= (bb << 6) & NotFileGH

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		// White captures toward rank 8, black toward rank 1.
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initSliderMasks() {
	for sq := A8; sq <= H1; sq++ {
		bishopMasks[sq] = bishopMask(sq)
		rookMasks[sq] = rookMask(sq)
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the diagonal capture squares of a pawn of color c on sq.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopMask returns the relevant occupancy mask for a bishop on sq.
func BishopMask(sq Square) Bitboard {
	return bishopMasks[sq]
}

// RookMask returns the relevant occupancy mask for a rook on sq.
func RookMask(sq Square) Bitboard {
	return rookMasks[sq]
}

// bishopMask excludes edge squares since they never block anything beyond them.
func bishopMask(sq Square) Bitboard {
	return BishopRayAttacks(sq, 0) & ^(Rank1 | Rank8 | FileA | FileH)
}

func rookMask(sq Square) Bitboard {
	file := sq.File()
	rank := sq.Rank()

	var mask Bitboard

	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}

	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}

	return mask
}

// BishopRayAttacks casts the four diagonal rays from sq. Each ray stops at
// the board edge or at the first blocker, which is included.
func BishopRayAttacks(sq Square, blockers Bitboard) Bitboard {
	return castRay(sq, blockers, 1, 1) | castRay(sq, blockers, -1, 1) |
		castRay(sq, blockers, 1, -1) | castRay(sq, blockers, -1, -1)
}

// RookRayAttacks casts the four orthogonal rays from sq.
func RookRayAttacks(sq Square, blockers Bitboard) Bitboard {
	return castRay(sq, blockers, 0, 1) | castRay(sq, blockers, 0, -1) |
		castRay(sq, blockers, 1, 0) | castRay(sq, blockers, -1, 0)
}

func castRay(sq Square, blockers Bitboard, df, dr int) Bitboard {
	var attacks Bitboard
	for f, r := sq.File()+df, sq.Rank()+dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+df, r+dr {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if blockers.IsSet(s) {
			break
		}
	}
	return attacks
}
