// Package book provides a tiny opening-setup oracle: a single hardcoded
// placement for Red's setup move, and a fixed reply for Blue keyed to
// whatever setup Red actually chose. Anything else is off book.
package book

import (
	"github.com/kestrel-tc/zeropointone/internal/board"
)

// defaultRedSetup is the canonical opening placement this oracle always
// offers Red: the wazir shielded on the back rank by its knight and
// ferzes, dabbabas filling out the rank, alfils filling the second
// rank (piece multiset {W,N,F,F,D,D,D,D,A×8}, spec.md §6).
const defaultRedSetup = "DFNWFDDDAAAAAAAA"

// repliesForRedSetup maps a Red setup string to Blue's prepared reply.
// The reply below is Red's letters lowercased in the same a7..h8 scan
// order, so Blue's wazir stands on the seventh rank and its alfils on the
// eighth; it is not a mirror image of Red's placement.
var repliesForRedSetup = map[string]string{
	defaultRedSetup: "dfnwfdddaaaaaaaa",
}

// Book is a keyed lookup from one side's setup choice to the other's
// prepared reply, the setup-stage analogue of a Polyglot opening book.
type Book struct {
	redSetup string
	replies  map[string]string
}

// New returns the default setup oracle.
func New() *Book {
	return &Book{
		redSetup: defaultRedSetup,
		replies:  repliesForRedSetup,
	}
}

// Probe returns the book's move for pos's current setup stage, if any.
// During RedSetup it always offers the hardcoded placement; during
// BlueSetup it looks up a reply keyed to whatever Red actually placed
// (so a Red setup this book doesn't recognize leaves Blue off book too).
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}
	switch pos.Stage {
	case board.RedSetup:
		m, err := board.ParseSetup(b.redSetup)
		if err != nil {
			return board.NoMove, false
		}
		return m, true
	case board.BlueSetup:
		key := redSetupString(pos)
		reply, ok := b.replies[key]
		if !ok {
			return board.NoMove, false
		}
		m, err := board.ParseSetup(reply)
		if err != nil {
			return board.NoMove, false
		}
		return m, true
	default:
		return board.NoMove, false
	}
}

// redSetupString reads back the 16 squares Red's setup occupied, in
// board order, as the same letter encoding ParseSetup accepts.
func redSetupString(pos *board.Position) string {
	s := make([]byte, 16)
	for i := 0; i < 16; i++ {
		s[i] = pos.Squares[board.A1+board.Square(i)].Letter()
	}
	return string(s)
}

// Size returns the number of Blue replies this book knows.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.replies)
}
