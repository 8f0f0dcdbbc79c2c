package eval

import (
	"math/rand"
	"testing"

	"github.com/kestrel-tc/zeropointone/internal/board"
)

func randomWeights(seed int64) *Weights {
	r := rand.New(rand.NewSource(seed))
	w := &Weights{Layer1: make([][128]int8, FeatureDim)}
	for i := range w.Layer1 {
		for j := range w.Layer1[i] {
			w.Layer1[i][j] = int8(r.Intn(255) - 127)
		}
	}
	for i := range w.Layer2W {
		for j := range w.Layer2W[i] {
			w.Layer2W[i][j] = int8(r.Intn(255) - 127)
		}
		w.Layer2B[i] = int16(r.Intn(200) - 100)
	}
	for i := range w.Layer3W {
		for j := range w.Layer3W[i] {
			w.Layer3W[i][j] = int8(r.Intn(255) - 127)
		}
		w.Layer3B[i] = int16(r.Intn(200) - 100)
	}
	for i := range w.OutputW {
		w.OutputW[i] = int8(r.Intn(255) - 127)
	}
	w.OutputB = int16(r.Intn(200) - 100)
	return w
}

func openingPosition(t *testing.T) *board.Position {
	t.Helper()
	p := board.NewPosition()
	red, err := board.ParseSetup("WFFDDDDNAAAAAAAA")
	if err != nil {
		t.Fatalf("ParseSetup red: %v", err)
	}
	p.Make(red)
	blue, err := board.ParseSetup("wffddddnaaaaaaaa")
	if err != nil {
		t.Fatalf("ParseSetup blue: %v", err)
	}
	p.Make(blue)
	return p
}

func TestSIMDAndScalarDotProductsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10000; trial++ {
		var in [layer2In]int16
		var w [layer2In]int8
		for i := range in {
			in[i] = int16(r.Intn(128))
			w[i] = int8(r.Intn(255) - 127)
		}
		if got, want := dotInt16Int8(&in, &w), referenceDot(&in, &w); got != want {
			t.Fatalf("trial %d: dotInt16Int8 = %d, want %d", trial, got, want)
		}
	}
}

func referenceDot(in *[layer2In]int16, w *[layer2In]int8) int32 {
	var sum int32
	for i, v := range in {
		sum += int32(v) * int32(w[i])
	}
	return sum
}

func TestAccumulatorIncrementalMatchesRecompute(t *testing.T) {
	w := randomWeights(1)
	p := openingPosition(t)
	ev := NewEvaluator(w, 16)
	ev.Init(p)

	moves := p.GenerateLegalMoves()
	if moves.Len() == 0 {
		t.Fatal("expected legal moves from the opening position")
	}

	for i := 0; i < moves.Len() && i < 20; i++ {
		m := moves.Get(i)
		undo := ev.Make(p, m, 0)

		for _, c := range [2]board.Color{board.Red, board.Blue} {
			got := *ev.Current(1).of(c)
			want := w.refresh(p, c)
			if got != want {
				t.Fatalf("move %v: incremental accumulator for %v = %+v, want %+v (full recompute)", m, c, got.v, want.v)
			}
		}

		ev.Unmake(p, undo, 0)
	}
}

// TestActiveFeatureCountAtOpeningPosition checks the on-board feature
// count with both full 16-piece armies present and nothing captured: 15
// of self's own pieces (all but the wazir, which selects the bucket
// instead of occupying a plane) plus all 16 of the enemy's, and zero
// captured-count features since no piece has left the board yet. See
// DESIGN.md for why this differs from spec.md §4.4's "16 on-board"
// figure.
func TestActiveFeatureCountAtOpeningPosition(t *testing.T) {
	p := openingPosition(t)
	for _, c := range [2]board.Color{board.Red, board.Blue} {
		feats := ActiveFeatures(p, c)
		if len(feats) != 31 {
			t.Fatalf("color %v: %d active features, want 31 (15 own + 16 enemy, no captures yet)", c, len(feats))
		}
	}
}
