package board

import "testing"

func fullSetup(letters string) Move {
	m, err := ParseSetup(letters)
	if err != nil {
		panic(err)
	}
	return m
}

// redOpeningSetup and blueOpeningSetup are valid 16-character setup
// strings matching the canonical piece multiset (1 wazir, 1 knight, 2
// ferzes, 4 dabbabas, 8 alfils) in scan order a1..h2 / a7..h8.
const (
	redOpeningSetup  = "AAAADDDDFFNWAAAA"
	blueOpeningSetup = "aaaaddddffnwaaaa"
)

func newPlayPosition(t *testing.T) *Position {
	t.Helper()
	p := NewPosition()
	p.Make(fullSetup(redOpeningSetup))
	p.Make(fullSetup(blueOpeningSetup))
	if p.Stage != Play {
		t.Fatalf("expected Play stage after both setups, got %v", p.Stage)
	}
	return p
}

func TestSetupInventory(t *testing.T) {
	p := newPlayPosition(t)
	for c := Color(0); c < 2; c++ {
		for pt := Piece(0); pt < NumPieces; pt++ {
			onBoard := p.OccupiedByPiece[c][pt].PopCount()
			total := onBoard + p.Captured[c][pt]
			if total != InitialCount[pt] {
				t.Errorf("color %v piece %v: on-board %d + captured %d = %d, want %d",
					c, pt, onBoard, p.Captured[c][pt], total, InitialCount[pt])
			}
		}
	}
}

func TestHashRecomputeMatchesIncremental(t *testing.T) {
	p := newPlayPosition(t)
	if got, want := p.Hash, p.ComputeHash(); got != want {
		t.Fatalf("incremental hash %x != recomputed hash %x", got, want)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	p := newPlayPosition(t)
	before := *p

	for i := 0; i < p.GenerateLegalMoves().Len() && i < 8; i++ {
		m := p.GenerateLegalMoves().Get(i)
		undo := p.Make(m)
		p.Unmake(undo)
		if *p != before {
			t.Fatalf("position changed after make/unmake of %v", m)
		}
		if got, want := p.Hash, p.ComputeHash(); got != want {
			t.Errorf("hash mismatch after round trip of %v: incremental %x recomputed %x", m, got, want)
		}
	}
}

func TestCaptureUpdatesCapturedCount(t *testing.T) {
	p := NewPosition()
	// Minimal hand-built position: red wazir a1, red knight b3, blue
	// wazir h8, blue ferz c5 sitting where the red knight can take it.
	p.setStage(Play)
	p.ToMove = Red
	p.placePiece(A1, NewColoredPiece(Wazir, Red))
	p.placePiece(B3,NewColoredPiece(Knight, Red))
	p.placePiece(H8, NewColoredPiece(Wazir, Blue))
	p.placePiece(C5, NewColoredPiece(Ferz, Blue))

	m := Move{Kind: KindAction, From: B3, To: C5, Piece: NewColoredPiece(Knight, Red), Captured: Ferz}
	undo := p.Make(m)

	if p.Captured[Red][Ferz] != 1 {
		t.Errorf("expected red to have captured 1 ferz, got %d", p.Captured[Red][Ferz])
	}
	if p.Squares[C5].IsEmpty() || p.Squares[C5].Piece() != Knight {
		t.Errorf("expected knight on c5, got %v", p.Squares[C5])
	}
	if got, want := p.Hash, p.ComputeHash(); got != want {
		t.Errorf("hash mismatch after capture: incremental %x recomputed %x", got, want)
	}

	p.Unmake(undo)
	if p.Captured[Red][Ferz] != 0 {
		t.Errorf("expected captured count restored to 0, got %d", p.Captured[Red][Ferz])
	}
	if p.Squares[C5].IsEmpty() || p.Squares[C5].Piece() != Ferz {
		t.Errorf("expected ferz restored on c5, got %v", p.Squares[C5])
	}
}

func TestDropDecrementsCapturedCount(t *testing.T) {
	p := NewPosition()
	p.Stage = Play
	p.ToMove = Red
	p.placePiece(A1, NewColoredPiece(Wazir, Red))
	p.placePiece(H8, NewColoredPiece(Wazir, Blue))
	p.setCaptured(Red, Dabbaba, 2)

	m := Move{Kind: KindAction, From: NoSquare, To: D4, Piece: NewColoredPiece(Dabbaba, Red), Captured: NoPiece}
	undo := p.Make(m)

	if p.Captured[Red][Dabbaba] != 1 {
		t.Errorf("expected 1 dabbaba left in hand, got %d", p.Captured[Red][Dabbaba])
	}
	if p.Squares[D4].IsEmpty() || p.Squares[D4].Piece() != Dabbaba {
		t.Errorf("expected dabbaba dropped on d4, got %v", p.Squares[D4])
	}

	p.Unmake(undo)
	if p.Captured[Red][Dabbaba] != 2 {
		t.Errorf("expected captured count restored to 2, got %d", p.Captured[Red][Dabbaba])
	}
	if !p.Squares[D4].IsEmpty() {
		t.Errorf("expected d4 empty after unmake, got %v", p.Squares[D4])
	}
}

func TestWazirNeverCaptured(t *testing.T) {
	p := newPlayPosition(t)
	for c := Color(0); c < 2; c++ {
		if n := p.OccupiedByPiece[c][Wazir].PopCount(); n != 1 {
			t.Errorf("color %v: expected exactly 1 wazir, got %d", c, n)
		}
	}
}
