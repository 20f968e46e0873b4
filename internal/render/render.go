// Package render draws positions and bitboards as console text, SVG and PNG.
package render

import (
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// Options control every renderer. The zero value draws from White's side
// with DefaultSquareSize squares.
type Options struct {
	SquareSize  int            // pixels per square for SVG and PNG
	Flip        bool           // Black at the bottom
	Highlight   board.Bitboard // squares to mark, e.g. move destinations
	LastMove    bool           // mark the from and to squares of the last move
	Coordinates bool           // file and rank labels in images
}

// DefaultSquareSize is used when Options.SquareSize is zero.
const DefaultSquareSize = 48

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return DefaultSquareSize
	}
	return o.SquareSize
}

// marks returns the highlighted squares including the last move.
func (o Options) marks(pos *board.Position) board.Bitboard {
	marks := o.Highlight
	if o.LastMove && pos != nil {
		if rec, ok := pos.LastMove(); ok {
			marks = marks.Set(rec.From).Set(rec.To)
		}
	}
	return marks
}

// cell maps a drawing row and column (0,0 top left) to a square.
func (o Options) cell(row, col int) board.Square {
	if o.Flip {
		return board.NewSquare(7-col, row)
	}
	return board.NewSquare(col, 7-row)
}

const textBorder = "  +-----------------+\n"

// Text renders pos as a framed console diagram. Highlighted empty squares
// show '*'.
func Text(pos *board.Position, opts Options) string {
	marks := opts.marks(pos)

	var sb strings.Builder
	sb.WriteString(textBorder)
	for row := 0; row < 8; row++ {
		sq := opts.cell(row, 0)
		sb.WriteByte(byte('1' + sq.Rank()))
		sb.WriteString(" |")
		for col := 0; col < 8; col++ {
			sq := opts.cell(row, col)
			sb.WriteByte(' ')
			pc, ok := pos.PieceAt(sq)
			switch {
			case ok:
				sb.WriteString(pc.String())
			case marks.IsSet(sq):
				sb.WriteByte('*')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString(textBorder)
	sb.WriteString("    ")
	for col := 0; col < 8; col++ {
		sb.WriteByte(byte('a' + opts.cell(0, col).File()))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// BitboardText renders a bitboard in the same frame as Text.
func BitboardText(bb board.Bitboard, opts Options) string {
	var sb strings.Builder
	sb.WriteString(textBorder)
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('1' + opts.cell(row, 0).Rank()))
		sb.WriteString(" |")
		for col := 0; col < 8; col++ {
			if bb.IsSet(opts.cell(row, col)) {
				sb.WriteString(" 1")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString(textBorder)
	sb.WriteString("    ")
	for col := 0; col < 8; col++ {
		sb.WriteByte(byte('a' + opts.cell(0, col).File()))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}
