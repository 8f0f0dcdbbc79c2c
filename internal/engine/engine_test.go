package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/kestrel-tc/zeropointone/internal/board"
	"github.com/kestrel-tc/zeropointone/internal/book"
	"github.com/kestrel-tc/zeropointone/internal/eval"
)

// testWeights builds a deterministic, arbitrary weight set: the search
// tests here only need a valid evaluator to run through, not a trained
// one.
func testWeights() *eval.Weights {
	r := rand.New(rand.NewSource(7))
	w := &eval.Weights{Layer1: make([][128]int8, eval.FeatureDim)}
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

func playSetup(t *testing.T, eng *Engine, red, blue string) {
	t.Helper()
	rm, err := board.ParseSetup(red)
	if err != nil {
		t.Fatalf("ParseSetup(red): %v", err)
	}
	eng.ApplySetup(rm)
	bm, err := board.ParseSetup(blue)
	if err != nil {
		t.Fatalf("ParseSetup(blue): %v", err)
	}
	eng.ApplySetup(bm)
}

func TestEngineSearchReturnsLegalMove(t *testing.T) {
	eng := NewEngine(1, testWeights())
	playSetup(t, eng, "DFNWFDDDAAAAAAAA", "dfnwfdddaaaaaaaa")

	move := eng.Play(UCILimits{MoveTime: 200 * time.Millisecond})
	if move == board.NoMove {
		t.Fatal("Play returned NoMove from the opening position")
	}
	t.Logf("engine played %s", move.String())
}

func TestEngineUsesBookOnSetup(t *testing.T) {
	eng := NewEngine(1, testWeights())
	eng.SetBook(book.New())

	move := eng.Play(UCILimits{MoveTime: 50 * time.Millisecond})
	if move.Kind != board.KindSetup {
		t.Fatalf("expected a book setup move, got %v", move)
	}
	if move.String() != "DFNWFDDDAAAAAAAA" {
		t.Errorf("expected the book's canonical setup, got %s", move.String())
	}
}

func TestEngineDepthLimit(t *testing.T) {
	eng := NewEngine(1, testWeights())
	playSetup(t, eng, "DFNWFDDDAAAAAAAA", "dfnwfdddaaaaaaaa")

	eng.Play(UCILimits{Depth: 2, MoveTime: 5 * time.Second})
	if eng.searcher.LastDepth() > 2 {
		t.Errorf("expected search to stop at depth 2, reached %d", eng.searcher.LastDepth())
	}
}

func TestPerftStartingPositionHasLegalReplies(t *testing.T) {
	eng := NewEngine(1, testWeights())
	playSetup(t, eng, "DFNWFDDDAAAAAAAA", "dfnwfdddaaaaaaaa")

	nodes := eng.Perft(eng.Position(), 1)
	if nodes == 0 {
		t.Error("expected at least one legal move from the opening position")
	}
}

func TestScoreToString(t *testing.T) {
	if s := ScoreToString(150); s != "1.50" {
		t.Errorf("ScoreToString(150) = %q, want 1.50", s)
	}
	if s := ScoreToString(-150); s != "-1.50" {
		t.Errorf("ScoreToString(-150) = %q, want -1.50", s)
	}
	if s := ScoreToString(MateScore - 3); s == "" {
		t.Errorf("ScoreToString near mate returned empty string")
	}
}
