package book

import (
	"testing"

	"github.com/kestrel-tc/zeropointone/internal/board"
)

func TestProbeOffersRedSetup(t *testing.T) {
	b := New()
	pos := board.NewPosition()

	move, ok := b.Probe(pos)
	if !ok {
		t.Fatal("expected a book move for Red's setup stage")
	}
	if move.Kind != board.KindSetup {
		t.Fatalf("expected a setup move, got %v", move)
	}
}

func TestProbeRepliesToKnownRedSetup(t *testing.T) {
	b := New()
	pos := board.NewPosition()

	redMove, ok := b.Probe(pos)
	if !ok {
		t.Fatal("expected a Red setup move")
	}
	pos.Make(redMove)

	blueMove, ok := b.Probe(pos)
	if !ok {
		t.Fatal("expected a prepared Blue reply to the book's own Red setup")
	}
	if blueMove.Kind != board.KindSetup {
		t.Fatalf("expected a setup move, got %v", blueMove)
	}
}

func TestProbeMissesOnUnknownRedSetup(t *testing.T) {
	b := New()
	pos := board.NewPosition()

	// A legal but non-book Red placement: same multiset, different order.
	setup := "FDNWFDDDAAAAAAAA"
	m, err := board.ParseSetup(setup)
	if err != nil {
		t.Fatalf("ParseSetup: %v", err)
	}
	pos.Make(m)

	if _, ok := b.Probe(pos); ok {
		t.Error("expected no Blue reply for an unrecognized Red setup")
	}
}

func TestProbeMissesDuringPlay(t *testing.T) {
	b := New()
	pos := board.NewPosition()

	redMove, _ := b.Probe(pos)
	pos.Make(redMove)
	blueMove, _ := b.Probe(pos)
	pos.Make(blueMove)

	if pos.Stage != board.Play {
		t.Fatalf("expected Play stage after both setups, got %v", pos.Stage)
	}
	if _, ok := b.Probe(pos); ok {
		t.Error("expected no book move once play has begun")
	}
}

func TestSize(t *testing.T) {
	b := New()
	if b.Size() != 1 {
		t.Errorf("expected 1 known reply, got %d", b.Size())
	}
	var nilBook *Book
	if nilBook.Size() != 0 {
		t.Error("expected nil book to report size 0")
	}
	if _, ok := nilBook.Probe(board.NewPosition()); ok {
		t.Error("expected nil book to never find a move")
	}
}
