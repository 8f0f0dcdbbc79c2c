package eval

import (
	"testing"

	"github.com/kestrel-tc/zeropointone/internal/board"
)

func TestFeatureDimMatchesDerivation(t *testing.T) {
	if slotsPerBucket != 636 {
		t.Fatalf("slotsPerBucket = %d, want 636", slotsPerBucket)
	}
	if capturedSlots != 60 {
		t.Fatalf("capturedSlots = %d, want 60", capturedSlots)
	}
	if FeatureDim != 6360 {
		t.Fatalf("FeatureDim = %d, want 6360", FeatureDim)
	}
}

func TestCanonicalizeProducesTenBuckets(t *testing.T) {
	seen := make(map[int]bool)
	for sq := board.Square(0); sq < 64; sq++ {
		_, bucket := canonicalize(sq)
		if bucket < 0 || bucket >= NumWazirBuckets {
			t.Fatalf("square %v produced out-of-range bucket %d", sq, bucket)
		}
		seen[bucket] = true
	}
	if len(seen) != NumWazirBuckets {
		t.Fatalf("canonicalize only produced %d distinct buckets, want %d", len(seen), NumWazirBuckets)
	}
}

func TestActiveFeaturesInRange(t *testing.T) {
	p := board.NewPosition()
	red := setupRow(t)
	p.Make(red)
	blue := setupRow(t)
	blue.Setup = mirrorToBlue(blue.Setup)
	p.Make(blue)

	for _, self := range [2]board.Color{board.Red, board.Blue} {
		feats := ActiveFeatures(p, self)
		if len(feats) == 0 {
			t.Fatalf("expected active features for %v", self)
		}
		for _, f := range feats {
			if f < 0 || f >= FeatureDim {
				t.Fatalf("feature index %d out of range [0,%d)", f, FeatureDim)
			}
		}
	}
}

// setupRow builds a valid 16-piece setup move: 1 wazir, 2 ferz, 4 dabbaba,
// 1 knight, 8 alfil, arbitrarily ordered, colored Red.
func setupRow(t *testing.T) board.Move {
	t.Helper()
	letters := "WFFDDDDNAAAAAAAA"
	s := string(letters)
	m, err := board.ParseSetup(s)
	if err != nil {
		t.Fatalf("ParseSetup: %v", err)
	}
	return m
}

func mirrorToBlue(setup [16]board.ColoredPiece) [16]board.ColoredPiece {
	var out [16]board.ColoredPiece
	for i, cp := range setup {
		out[i] = board.NewColoredPiece(cp.Piece(), board.Blue)
	}
	return out
}
