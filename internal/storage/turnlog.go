package storage

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const turnRule = "========================="

// WriteText writes a game's move log as a plain-text turn log.
func (s *Store) WriteText(w io.Writer, id uint64) error {
	g, err := s.Game(id)
	if err != nil {
		return err
	}
	entries, err := s.Entries(id)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "game %d started %s\n", g.ID, g.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(bw, "start %s\n\n", g.StartFEN)
	for i := range entries {
		writeTurn(bw, &entries[i])
	}
	return bw.Flush()
}

func writeTurn(w io.Writer, e *Entry) {
	fmt.Fprintln(w, turnRule)
	fmt.Fprintf(w, "[ turn %d @ %s ]\n", e.Ply, e.Time.Format("15:04:05"))

	fmt.Fprintln(w, "Movement Change")
	fmt.Fprintf(w, "  piece type  : %s\n", e.Piece)
	fmt.Fprintf(w, "  piece color : %s\n", e.Color)
	fmt.Fprintf(w, "  movement    : %s -> %s", e.From, e.To)
	if e.SAN != "" {
		fmt.Fprintf(w, " (%s)", e.SAN)
	}
	fmt.Fprintln(w)
	captured := "no"
	if e.Captured != "" {
		captured = "yes, " + e.Captured
	}
	fmt.Fprintf(w, "  capture     : %s\n", captured)

	fmt.Fprintln(w, "Current Score")
	fmt.Fprintf(w, "  white : %d\n", e.WhiteScore)
	fmt.Fprintf(w, "  black : %d\n", e.BlackScore)

	fmt.Fprintln(w, "Pieces Under Attack")
	if len(e.Attacked) == 0 {
		fmt.Fprintln(w, "  none")
	} else {
		fmt.Fprintf(w, "  %s\n", strings.Join(e.Attacked, ", "))
	}

	fmt.Fprintln(w, "King Safety")
	fmt.Fprintf(w, "  white : %s\n", safety(e.WhiteSafe))
	fmt.Fprintf(w, "  black : %s\n", safety(e.BlackSafe))

	fmt.Fprintln(w, turnRule)
	fmt.Fprintln(w)
}

func safety(safe bool) string {
	if safe {
		return "safe"
	}
	return "in danger"
}
