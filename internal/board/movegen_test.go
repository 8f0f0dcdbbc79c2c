package board

import "testing"

// bareKings returns an otherwise-empty Play-stage position with both
// wazirs placed far apart, ready for hand-placed scenario pieces.
func bareKings(redWazir, blueWazir Square) *Position {
	p := NewPosition()
	p.Stage = Play
	p.ToMove = Red
	p.placePiece(redWazir, NewColoredPiece(Wazir, Red))
	p.placePiece(blueWazir, NewColoredPiece(Wazir, Blue))
	return p
}

// Scenario 3 (spec.md §8): enemy wazir on e4, own knight on d2 — the
// knight's capture of the wazir must appear in the generator's output.
func TestKnightCapturesWazir(t *testing.T) {
	p := bareKings(A1, E4)
	p.placePiece(D2, NewColoredPiece(Knight, Red))

	moves := p.GenerateOrdered(NoMove, [2]Move{NoMove, NoMove})
	found := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From == D2 && m.To == E4 && m.Captured == Wazir {
			found = true
			if i != 0 {
				t.Errorf("expected the wazir capture to be the first emitted move, got position %d", i)
			}
		}
	}
	if !found {
		t.Fatalf("expected knight d2xe4 (wazir capture) among generated moves")
	}
}

// Scenario 4 (spec.md §8): mover has a ferz on c3, opponent wazir on a1;
// ferz-b2 threatens a1 (reach1[Ferz][b2] contains a1) and must appear as a
// jump-check, not be absent or miscategorized as a quiet move.
func TestFerzJumpCheck(t *testing.T) {
	p := bareKings(H8, A1)
	p.placePiece(C3, NewColoredPiece(Ferz, Red))

	if !reach1[Ferz][B2].IsSet(A1) {
		t.Fatalf("test setup invariant broken: expected b2 to threaten a1 for a ferz")
	}

	raw := NewMoveList()
	p.generateJumpChecks(raw, Red)
	target := Move{Kind: KindAction, From: C3, To: B2, Piece: NewColoredPiece(Ferz, Red), Captured: NoPiece}
	if !raw.Contains(target) {
		t.Fatalf("expected ferz c3-b2 in the jump-checks bucket, got %d moves: %v", raw.Len(), raw.Slice())
	}
}

func TestNoMoveLeavesOwnWazirInCheck(t *testing.T) {
	p := bareKings(A1, H8)
	// Blue dabbaba on a3 attacks the red wazir's square a1 (two squares
	// straight). Any legal red move must not ignore that threat.
	p.placePiece(A3, NewColoredPiece(Dabbaba, Blue))

	legal := p.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		undo := p.Make(m)
		if p.InCheck(Red) {
			t.Errorf("move %v leaves red wazir in check", m)
		}
		p.Unmake(undo)
	}
}

func TestGeneratorBucketsHaveNoDuplicates(t *testing.T) {
	p := newPlayPosition(t)
	ordered := p.GenerateOrdered(NoMove, [2]Move{NoMove, NoMove})
	seen := make(map[Move]bool)
	for i := 0; i < ordered.Len(); i++ {
		m := ordered.Get(i)
		if seen[m] {
			t.Errorf("duplicate move emitted: %v", m)
		}
		seen[m] = true
	}
}

func TestOrderedMatchesLegalSet(t *testing.T) {
	p := newPlayPosition(t)
	legal := p.GenerateLegalMoves()
	ordered := p.GenerateOrdered(NoMove, [2]Move{NoMove, NoMove})
	if legal.Len() != ordered.Len() {
		t.Fatalf("legal set has %d moves, ordered set has %d", legal.Len(), ordered.Len())
	}
	for i := 0; i < legal.Len(); i++ {
		if !ordered.Contains(legal.Get(i)) {
			t.Errorf("legal move %v missing from ordered output", legal.Get(i))
		}
	}
}

func TestTTMoveEmittedFirst(t *testing.T) {
	p := newPlayPosition(t)
	legal := p.GenerateLegalMoves()
	if legal.Len() == 0 {
		t.Fatal("expected at least one legal move from the opening position")
	}
	pick := legal.Get(legal.Len() - 1)
	ordered := p.GenerateOrdered(pick, [2]Move{NoMove, NoMove})
	if ordered.Get(0) != pick {
		t.Errorf("expected TT move %v first, got %v", pick, ordered.Get(0))
	}
}

func TestEvasionsOnlyWhenInCheck(t *testing.T) {
	p := bareKings(A1, H8)
	p.placePiece(A3, NewColoredPiece(Dabbaba, Blue))
	p.ToMove = Red

	if !p.InCheck(Red) {
		t.Fatalf("test setup invariant broken: expected red wazir in check from a3 dabbaba")
	}

	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From != A1 && m.Captured == NoPiece {
			t.Errorf("expected only wazir moves or checker captures while in check, got %v", m)
		}
	}
}
