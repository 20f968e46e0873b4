package board

// Zobrist keys for position hashing. Fixed seed so hashes are stable across
// runs and can be stored in the move log.
var (
	zobristPiece      [12][64]uint64 // [Piece][Square]
	zobristEnPassant  [8]uint64      // One per file
	zobristCastling   [16]uint64     // All 16 castling combinations
	zobristSideToMove uint64         // XOR when black to move
)

func init() {
	initZobrist()
}

// prng is a small deterministic generator shared by the Zobrist keys and the
// magic number search.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a value with roughly an eighth of its bits set.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for p := WhitePawn; p < NoPiece; p++ {
		for sq := A8; sq <= H1; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// Hash computes the Zobrist key of the position from scratch.
func (p *Position) Hash() uint64 {
	var h uint64
	for pc := WhitePawn; pc < NoPiece; pc++ {
		bb := p.Pieces[pc]
		for bb != 0 {
			h ^= zobristPiece[pc][bb.PopLSB()]
		}
	}
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	h ^= zobristCastling[p.Castling&AllCastling]
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
