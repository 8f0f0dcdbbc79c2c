package board

import "testing"

// walk recursively makes every legal move to depth, checking on each node
// that make/unmake round-trips byte-for-byte and that the incremental hash
// never drifts from a from-scratch recomputation. This is the
// perft-style legality self-check spec.md §8 calls for: rather than
// asserting specific node counts (which would require running the engine
// to discover), it exhaustively exercises make/unmake and hash maintenance
// across the whole reachable tree at shallow depth.
func walk(t *testing.T, p *Position, depth int) int {
	t.Helper()
	if depth == 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	nodes := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		before := *p
		undo := p.Make(m)
		if got, want := p.Hash, p.ComputeHash(); got != want {
			t.Fatalf("hash drift after %v: incremental %x recomputed %x", m, got, want)
		}
		nodes += walk(t, p, depth-1)
		p.Unmake(undo)
		if *p != before {
			t.Fatalf("position did not round-trip after %v", m)
		}
	}
	return nodes
}

func TestPerftShallowInvariants(t *testing.T) {
	p := newPlayPosition(t)
	nodes := walk(t, p, 2)
	if nodes == 0 {
		t.Fatal("expected at least one reachable node at depth 2 from the opening position")
	}
	t.Logf("depth-2 node count from opening setup: %d", nodes)
}

func TestInventoryConservedThroughSearchableTree(t *testing.T) {
	p := newPlayPosition(t)
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.Make(m)
		for c := Color(0); c < 2; c++ {
			for pt := Piece(0); pt < NumPieces; pt++ {
				total := p.OccupiedByPiece[c][pt].PopCount() + p.Captured[c][pt]
				if total != InitialCount[pt] {
					t.Errorf("after %v: color %v piece %v total %d, want %d", m, c, pt, total, InitialCount[pt])
				}
			}
		}
		p.Unmake(undo)
	}
}
