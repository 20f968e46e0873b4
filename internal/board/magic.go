package board

import (
	"fmt"
	"log"
	"sync"
)

// Magic holds the perfect-hash parameters for one square.
type Magic struct {
	Mask  Bitboard // Relevant occupancy mask (excludes edges)
	Magic uint64   // Multiplier
	Bits  uint8    // Popcount of Mask
}

// index maps an occupancy to its slot in the square's table.
func (m *Magic) index(occupied Bitboard) uint64 {
	return (uint64(occupied&m.Mask) * m.Magic) >> (64 - m.Bits)
}

// MagicTable answers slider attack queries with one multiply and one shift.
// It is immutable once built.
type MagicTable struct {
	bishop [64]Magic
	rook   [64]Magic

	bishopTable [64][512]Bitboard
	rookTable   [64][4096]Bitboard

	// Repaired counts constants that collided and were replaced at build time.
	Repaired int
}

var (
	defaultMagics     *MagicTable
	defaultMagicsErr  error
	defaultMagicsOnce sync.Once
)

// Magics returns the process-wide table, building it on first use.
func Magics() *MagicTable {
	defaultMagicsOnce.Do(func() {
		defaultMagics, defaultMagicsErr = NewMagicTable()
	})
	if defaultMagicsErr != nil {
		panic(defaultMagicsErr)
	}
	return defaultMagics
}

// Pre-computed magic numbers. They depend only on square index geometry.
var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

// magicSearchAttempts bounds the replacement search for one square.
const magicSearchAttempts = 100_000_000

// NewMagicTable builds and validates the bishop and rook tables. A constant
// that produces a harmful collision is replaced by a searched one.
func NewMagicTable() (*MagicTable, error) {
	t := &MagicTable{}
	rng := newPRNG(0x6D61676963B15EED)

	for sq := A8; sq <= H1; sq++ {
		m, repaired, err := buildSquare(sq, BishopMask(sq), bishopMagicNumbers[sq], t.bishopTable[sq][:], BishopRayAttacks, rng)
		if err != nil {
			return nil, fmt.Errorf("bishop %s: %w", sq, err)
		}
		t.bishop[sq] = m
		if repaired {
			t.Repaired++
		}

		m, repaired, err = buildSquare(sq, RookMask(sq), rookMagicNumbers[sq], t.rookTable[sq][:], RookRayAttacks, rng)
		if err != nil {
			return nil, fmt.Errorf("rook %s: %w", sq, err)
		}
		t.rook[sq] = m
		if repaired {
			t.Repaired++
		}
	}

	return t, nil
}

func buildSquare(sq Square, mask Bitboard, magic uint64, table []Bitboard,
	ray func(Square, Bitboard) Bitboard, rng *prng) (Magic, bool, error) {

	m := Magic{Mask: mask, Magic: magic, Bits: uint8(mask.PopCount())}
	if fillTable(sq, &m, table, ray) {
		return m, false, nil
	}

	for i := 0; i < magicSearchAttempts; i++ {
		m.Magic = rng.sparse()
		// Cheap reject: too few bits reach the index.
		if ((uint64(mask) * m.Magic) & 0xFF00000000000000) == 0 {
			continue
		}
		if fillTable(sq, &m, table, ray) {
			log.Printf("magic: replaced colliding constant for %s after %d candidates", sq, i+1)
			return m, true, nil
		}
	}
	return Magic{}, false, fmt.Errorf("no collision-free magic found in %d attempts", magicSearchAttempts)
}

// fillTable stores the ray-cast attack set of every blocker subset. It fails
// when two subsets with different attack sets share a slot. Attack sets are
// never empty, so a zero slot is free.
func fillTable(sq Square, m *Magic, table []Bitboard, ray func(Square, Bitboard) Bitboard) bool {
	size := 1 << m.Bits
	clear(table[:size])
	for i := 0; i < size; i++ {
		occ := OccupancySubset(i, m.Mask)
		attacks := ray(sq, occ)
		key := m.index(occ)
		if table[key] != 0 && table[key] != attacks {
			return false
		}
		table[key] = attacks
	}
	return true
}

// OccupancySubset maps the bits of index onto the set bits of mask in
// ascending square order, enumerating all 2^popcount(mask) subsets.
func OccupancySubset(index int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; mask != 0; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// BishopAttacks returns bishop attacks for a square with given occupancy.
func (t *MagicTable) BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return t.bishopTable[sq][t.bishop[sq].index(occupied)]
}

// RookAttacks returns rook attacks for a square with given occupancy.
func (t *MagicTable) RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return t.rookTable[sq][t.rook[sq].index(occupied)]
}

// QueenAttacks returns the union of bishop and rook attacks.
func (t *MagicTable) QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return t.BishopAttacks(sq, occupied) | t.RookAttacks(sq, occupied)
}

// BishopMagic returns the parameters in use for sq.
func (t *MagicTable) BishopMagic(sq Square) Magic {
	return t.bishop[sq]
}

// RookMagic returns the parameters in use for sq.
func (t *MagicTable) RookMagic(sq Square) Magic {
	return t.rook[sq]
}

// Validate re-checks every stored entry against the ray cast.
func (t *MagicTable) Validate() error {
	for sq := A8; sq <= H1; sq++ {
		for _, c := range []struct {
			name   string
			mask   Bitboard
			lookup func(Square, Bitboard) Bitboard
			ray    func(Square, Bitboard) Bitboard
		}{
			{"bishop", t.bishop[sq].Mask, t.BishopAttacks, BishopRayAttacks},
			{"rook", t.rook[sq].Mask, t.RookAttacks, RookRayAttacks},
		} {
			n := 1 << c.mask.PopCount()
			for i := 0; i < n; i++ {
				occ := OccupancySubset(i, c.mask)
				if got, want := c.lookup(sq, occ), c.ray(sq, occ); got != want {
					return fmt.Errorf("%s %s: occupancy %#x: got %#x, want %#x", c.name, sq, uint64(occ), uint64(got), uint64(want))
				}
			}
		}
	}
	return nil
}

// BishopAttacks returns bishop attacks using the process-wide table.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return Magics().BishopAttacks(sq, occupied)
}

// RookAttacks returns rook attacks using the process-wide table.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return Magics().RookAttacks(sq, occupied)
}

// QueenAttacks returns queen attacks using the process-wide table.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return Magics().QueenAttacks(sq, occupied)
}
