package board

import "testing"

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{StartFEN, "g1f3", "Nf3"},
		{StartFEN, "e2e4", "e4"},
		{"4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"5k2/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8", "e8=Q+"},
		{"6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8#"},
		{"4k3/8/8/8/8/8/8/R6R w - - 0 1", "a1d1", "Rad1"},
		{"4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			pos := mustPosition(t, tc.fen)
			m, err := pos.ParseMove(tc.move, pos.SideToMove)
			if err != nil {
				t.Fatal(err)
			}
			if got := pos.SAN(m); got != tc.want {
				t.Errorf("SAN(%s) = %s, want %s", tc.move, got, tc.want)
			}

			back, err := pos.ParseSAN(tc.want, pos.SideToMove)
			if err != nil {
				t.Fatalf("ParseSAN(%s): %v", tc.want, err)
			}
			if back != m {
				t.Errorf("ParseSAN(%s) = %s, want %s", tc.want, back, m)
			}
		})
	}
}

func TestParseMoveRejects(t *testing.T) {
	pos := StartPosition()
	for _, s := range []string{"e2e5", "e7e5", "zz", "e2e4n"} {
		if _, err := pos.ParseMove(s, White); err == nil {
			t.Errorf("ParseMove(%s) succeeded", s)
		}
	}
}
