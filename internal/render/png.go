package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

var (
	whiteInk = color.RGBA{0xff, 0xff, 0xff, 0xff}
	blackInk = color.RGBA{0x20, 0x20, 0x20, 0xff}
	labelInk = color.RGBA{0x40, 0x40, 0x40, 0xff}
)

var (
	fontOnce sync.Once
	boldFont *opentype.Font
	fontErr  error
)

// newFace returns a Go Bold face at the given pixel size.
func newFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		boldFont, fontErr = opentype.Parse(gobold.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// PNG writes pos as a PNG image.
func PNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Image(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image rasterizes pos. Squares and piece discs come from the SVG drawing;
// letters are drawn with an OpenType face since the rasterizer has no text.
func Image(pos *board.Position, opts Options) (*image.RGBA, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	size := opts.imageSize()
	canvas.Startview(size, size, 0, 0, size, size)
	drawSquares(canvas, pos, opts)
	drawDiscs(canvas, pos, opts)
	canvas.End()

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	s := opts.squareSize()
	face, err := newFace(float64(s) / 2)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	defer face.Close()

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pc, ok := pos.PieceAt(opts.cell(row, col))
			if !ok {
				continue
			}
			ink := blackInk
			if pc.Color() == board.Black {
				ink = whiteInk
			}
			x, y := opts.origin(row, col)
			drawCentered(rgba, face, ink, pieceLetter(pc), x+s/2, y+s/2)
		}
	}

	if opts.Coordinates {
		m := opts.margin()
		labels, err := newFace(float64(m) * 2 / 3)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		defer labels.Close()
		for i := 0; i < 8; i++ {
			x, _ := opts.origin(0, i)
			file := string(rune('a' + opts.cell(0, i).File()))
			drawCentered(rgba, labels, labelInk, file, x+s/2, m/2)
			drawCentered(rgba, labels, labelInk, file, x+s/2, m+8*s+m/2)

			_, y := opts.origin(i, 0)
			rank := string(rune('1' + opts.cell(i, 0).Rank()))
			drawCentered(rgba, labels, labelInk, rank, m/2, y+s/2)
			drawCentered(rgba, labels, labelInk, rank, m+8*s+m/2, y+s/2)
		}
	}
	return rgba, nil
}

// drawCentered draws text centred on (cx, cy).
func drawCentered(dst *image.RGBA, face font.Face, ink color.Color, text string, cx, cy int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(ink), Face: face}
	width := d.MeasureString(text)
	metrics := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - width/2,
		Y: fixed.I(cy) + (metrics.Ascent-metrics.Descent)/2,
	}
	d.DrawString(text)
}
