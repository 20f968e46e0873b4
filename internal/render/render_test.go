package render

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestText(t *testing.T) {
	pos := board.StartPosition()
	out := Text(pos, Options{})
	lines := strings.Split(out, "\n")
	if lines[1] != "8 | r n b q k b n r |" {
		t.Errorf("rank 8 = %q", lines[1])
	}
	if lines[8] != "1 | R N B Q K B N R |" {
		t.Errorf("rank 1 = %q", lines[8])
	}
	if lines[10] != "    a b c d e f g h " {
		t.Errorf("files = %q", lines[10])
	}

	flipped := strings.Split(Text(pos, Options{Flip: true}), "\n")
	if flipped[1] != "1 | R N B K Q B N R |" {
		t.Errorf("flipped rank 1 = %q", flipped[1])
	}
	if flipped[10] != "    h g f e d c b a " {
		t.Errorf("flipped files = %q", flipped[10])
	}
}

func TestTextHighlight(t *testing.T) {
	pos := board.StartPosition()
	dests := pos.Destinations(board.Knight, board.G1, board.White)
	lines := strings.Split(Text(pos, Options{Highlight: dests}), "\n")
	if lines[6] != "3 | . . . . . * . * |" {
		t.Errorf("rank 3 = %q", lines[6])
	}

	m, err := pos.ParseMove("e2e4", board.White)
	if err != nil {
		t.Fatal(err)
	}
	pos.MakeMove(m)
	lines = strings.Split(Text(pos, Options{LastMove: true}), "\n")
	if lines[7] != "2 | P P P P * P P P |" {
		t.Errorf("rank 2 after e4 = %q", lines[7])
	}
}

func TestBitboardText(t *testing.T) {
	out := BitboardText(board.Rank8|board.SquareBB(board.A1), Options{})
	lines := strings.Split(out, "\n")
	if lines[1] != "8 | 1 1 1 1 1 1 1 1 |" || lines[8] != "1 | 1 . . . . . . . |" {
		t.Errorf("bitboard text:\n%s", out)
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, board.StartPosition(), Options{Coordinates: true}); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	dec := xml.NewDecoder(&buf)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid SVG: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			counts[se.Name.Local]++
		}
	}
	// Background plus 64 squares, 32 pieces, 32 piece letters and 32 labels.
	if counts["rect"] != 65 || counts["circle"] != 32 || counts["text"] != 64 {
		t.Errorf("element counts = %v", counts)
	}
}

func near(c color.Color, want color.RGBA) bool {
	r, g, b, _ := c.RGBA()
	diff := func(a uint32, b uint8) bool {
		d := int(a>>8) - int(b)
		return d > -8 && d < 8
	}
	return diff(r, want.R) && diff(g, want.G) && diff(b, want.B)
}

func TestPNG(t *testing.T) {
	pos := board.StartPosition()
	opts := Options{SquareSize: 40, Highlight: board.SquareBB(board.E4)}

	var buf bytes.Buffer
	if err := PNG(&buf, pos, opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 320 {
		t.Fatalf("bounds = %v", b)
	}

	// d4 is dark, e4 is marked, d5 is light; all are empty.
	centre := func(file, rank int) color.Color {
		return img.At(file*40+20, (7-rank)*40+20)
	}
	if c := centre(3, 3); !near(c, color.RGBA{0xb5, 0x88, 0x63, 0xff}) {
		t.Errorf("d4 = %v", c)
	}
	if c := centre(4, 3); !near(c, color.RGBA{0xcd, 0xd2, 0x6a, 0xff}) {
		t.Errorf("e4 = %v", c)
	}
	if c := centre(3, 4); !near(c, color.RGBA{0xf0, 0xd9, 0xb5, 0xff}) {
		t.Errorf("d5 = %v", c)
	}
	// The disc edge of the black rook on a8 sits inside its square.
	if c := img.At(20, 20-14); !near(c, blackInk) {
		t.Errorf("a8 disc = %v", c)
	}
}

func TestPNGCoordinates(t *testing.T) {
	img, err := Image(board.StartPosition(), Options{SquareSize: 32, Coordinates: true})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8*32+32 {
		t.Errorf("width with labels = %d", b.Dx())
	}
}
