package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chesscore/internal/board"
)

// Board colors
const (
	lightSquare    = "#f0d9b5"
	darkSquare     = "#b58863"
	markSquare     = "#cdd26a"
	whitePieceFill = "#ffffff"
	blackPieceFill = "#202020"
	pieceStroke    = "#000000"
	labelColor     = "#404040"
)

// margin is the label band around the board when coordinates are drawn.
func (o Options) margin() int {
	if !o.Coordinates {
		return 0
	}
	return o.squareSize() / 2
}

// imageSize is the full width and height in pixels.
func (o Options) imageSize() int {
	return 8*o.squareSize() + 2*o.margin()
}

// origin returns the top left pixel of a drawing cell.
func (o Options) origin(row, col int) (int, int) {
	s := o.squareSize()
	return o.margin() + col*s, o.margin() + row*s
}

// SVG writes pos as an SVG document. Pieces are discs with their FEN letter.
func SVG(w io.Writer, pos *board.Position, opts Options) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	size := opts.imageSize()
	canvas.Startview(size, size, 0, 0, size, size)
	drawSquares(canvas, pos, opts)
	drawPieces(canvas, pos, opts)
	if opts.Coordinates {
		drawLabels(canvas, opts)
	}
	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

// drawSquares draws the checkered squares and marks.
func drawSquares(canvas *svg.SVG, pos *board.Position, opts Options) {
	s := opts.squareSize()
	marks := opts.marks(pos)
	canvas.Rect(0, 0, opts.imageSize(), opts.imageSize(), "fill:"+lightSquare)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := opts.cell(row, col)
			fill := lightSquare
			if (sq.File()+sq.Rank())%2 == 0 {
				fill = darkSquare
			}
			if marks.IsSet(sq) {
				fill = markSquare
			}
			x, y := opts.origin(row, col)
			canvas.Rect(x, y, s, s, "fill:"+fill)
		}
	}
}

// drawDiscs draws the disc under every piece.
func drawDiscs(canvas *svg.SVG, pos *board.Position, opts Options) {
	s := opts.squareSize()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pc, ok := pos.PieceAt(opts.cell(row, col))
			if !ok {
				continue
			}
			x, y := opts.origin(row, col)
			fill := whitePieceFill
			if pc.Color() == board.Black {
				fill = blackPieceFill
			}
			canvas.Circle(x+s/2, y+s/2, s*2/5,
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", fill, pieceStroke, max(1, s/24)))
		}
	}
}

func drawPieces(canvas *svg.SVG, pos *board.Position, opts Options) {
	drawDiscs(canvas, pos, opts)
	s := opts.squareSize()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pc, ok := pos.PieceAt(opts.cell(row, col))
			if !ok {
				continue
			}
			x, y := opts.origin(row, col)
			fill := blackPieceFill
			if pc.Color() == board.Black {
				fill = whitePieceFill
			}
			canvas.Text(x+s/2, y+s*2/3, pieceLetter(pc),
				fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%dpx;fill:%s", s/2, fill))
		}
	}
}

func drawLabels(canvas *svg.SVG, opts Options) {
	s, m := opts.squareSize(), opts.margin()
	style := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:%s", m*2/3, labelColor)
	for i := 0; i < 8; i++ {
		x, _ := opts.origin(0, i)
		file := string(rune('a' + opts.cell(0, i).File()))
		canvas.Text(x+s/2, m*2/3, file, style)
		canvas.Text(x+s/2, m+8*s+m*2/3, file, style)

		_, y := opts.origin(i, 0)
		rank := string(rune('1' + opts.cell(i, 0).Rank()))
		canvas.Text(m/2, y+s/2+m/4, rank, style)
		canvas.Text(m+8*s+m/2, y+s/2+m/4, rank, style)
	}
}

// pieceLetter is the uppercase FEN letter of the piece's type.
func pieceLetter(pc board.Piece) string {
	return strings.ToUpper(string(pc.Type().Char()))
}
