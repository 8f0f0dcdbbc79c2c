package board

// offset is a (file, rank) leap delta.
type offset struct {
	df, dr int
}

// leapOffsets gives the fixed jump pattern for each piece type.
var leapOffsets = [NumPieces][]offset{
	Wazir: {
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	},
	Ferz: {
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	},
	Dabbaba: {
		{2, 0}, {-2, 0}, {0, 2}, {0, -2},
	},
	Knight: {
		{1, 2}, {2, 1}, {-1, 2}, {-2, 1},
		{1, -2}, {2, -1}, {-1, -2}, {-2, -1},
	},
	Alfil: {
		{2, 2}, {2, -2}, {-2, 2}, {-2, -2},
	},
}

// reach1, reach2, reach3 hold, for each piece and origin square, the set of
// squares at exactly 1, 2, and 3 leaps away (shortest-path distance over the
// piece's own leap graph). wazirAdjTable holds the 4-neighborhood of every
// square, used to build the escape-attack tables below.
var (
	reach1       [NumPieces][64]Bitboard
	reach2       [NumPieces][64]Bitboard
	reach3       [NumPieces][64]Bitboard
	wazirAdjTable [64]Bitboard

	// escDest[p][w]: squares a piece p could move TO such that it now
	// attacks one of w's flight squares.
	// escSrc[p][w]: squares a piece p could be sitting ON such that one
	// more leap lands it in escDest[p][w].
	escDest [NumPieces][64]Bitboard
	escSrc  [NumPieces][64]Bitboard
)

func init() {
	initWazirAdj()
	initReachTables()
	initEscapeTables()
}

// leapDest applies an offset to a square, returning (dest, ok); ok is false
// if the leap would cross a board edge.
func leapDest(sq Square, o offset) (Square, bool) {
	file := sq.File() + o.df
	rank := sq.Rank() + o.dr
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, false
	}
	return NewSquare(file, rank), true
}

// reach1ViaShifts computes a piece's distance-1 leap set from s as a single
// whole-board shift composition instead of an offset loop: wazir moves are
// exactly the four cardinal shifts, ferz the four diagonal shifts, and
// dabbaba the four two-square cardinal shifts. Knight and alfil leaps don't
// reduce to any combination of the shifts bitboard.go defines, so those two
// keep the general offset-based construction below.
func reach1ViaShifts(p Piece, s Square) (Bitboard, bool) {
	bb := SquareBB(s)
	switch p {
	case Wazir:
		return bb.North() | bb.South() | bb.East() | bb.West(), true
	case Ferz:
		return bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest(), true
	case Dabbaba:
		return bb.NorthTwo() | bb.SouthTwo() | bb.EastTwo() | bb.WestTwo(), true
	default:
		return Empty, false
	}
}

func initWazirAdj() {
	for s := Square(0); s < 64; s++ {
		var adj Bitboard
		for _, o := range leapOffsets[Wazir] {
			if d, ok := leapDest(s, o); ok {
				adj = adj.Set(d)
			}
		}
		wazirAdjTable[s] = adj
	}
}

// initReachTables runs a BFS per piece/origin over the piece's own leap
// graph and buckets squares by shortest distance (1, 2, or 3 leaps).
func initReachTables() {
	for p := Piece(0); p < NumPieces; p++ {
		offsets := leapOffsets[p]
		for s := Square(0); s < 64; s++ {
			var dist [64]int8
			for i := range dist {
				dist[i] = -1
			}
			dist[s] = 0

			var frontier []Square
			if r1, ok := reach1ViaShifts(p, s); ok {
				r1.ForEach(func(to Square) {
					dist[to] = 1
					frontier = append(frontier, to)
				})
			} else {
				for _, o := range offsets {
					to, ok := leapDest(s, o)
					if !ok || dist[to] >= 0 {
						continue
					}
					dist[to] = 1
					frontier = append(frontier, to)
				}
			}

			for d := 2; d <= 3 && len(frontier) > 0; d++ {
				var next []Square
				for _, from := range frontier {
					for _, o := range offsets {
						to, ok := leapDest(from, o)
						if !ok || dist[to] >= 0 {
							continue
						}
						dist[to] = int8(d)
						next = append(next, to)
					}
				}
				frontier = next
			}

			var r1, r2, r3 Bitboard
			for sq := Square(0); sq < 64; sq++ {
				switch dist[sq] {
				case 1:
					r1 = r1.Set(sq)
				case 2:
					r2 = r2.Set(sq)
				case 3:
					r3 = r3.Set(sq)
				}
			}
			reach1[p][s] = r1
			reach2[p][s] = r2
			reach3[p][s] = r3
		}
	}
}

// initEscapeTables builds escDest/escSrc per spec.md §4.1:
//
//	escDest[p][w] = ⋃_{d ∈ wazirAdj(w)} reach1[p][d]
//	escSrc[p][w]  = ⋃_{d ∈ wazirAdj(w)} reach2[p][d]
func initEscapeTables() {
	for p := Piece(0); p < NumPieces; p++ {
		for w := Square(0); w < 64; w++ {
			var dest, src Bitboard
			wazirAdjTable[w].ForEach(func(d Square) {
				dest |= reach1[p][d]
				src |= reach2[p][d]
			})
			escDest[p][w] = dest
			escSrc[p][w] = src
		}
	}
}

// Reach1 returns the squares reachable by exactly one leap of piece p from s.
func Reach1(p Piece, s Square) Bitboard { return reach1[p][s] }

// Reach2 returns the squares reachable by exactly two leaps of piece p from s.
func Reach2(p Piece, s Square) Bitboard { return reach2[p][s] }

// Reach3 returns the squares reachable by exactly three leaps of piece p from s.
func Reach3(p Piece, s Square) Bitboard { return reach3[p][s] }

// WazirAdj returns the 4-neighborhood of s (the wazir's candidate flight squares).
func WazirAdj(s Square) Bitboard { return wazirAdjTable[s] }

// EscapeDest returns escDest[p][w]: destinations that, once occupied by p,
// threaten one of w's flight squares.
func EscapeDest(p Piece, w Square) Bitboard { return escDest[p][w] }

// EscapeSrc returns escSrc[p][w]: origins one leap away from EscapeDest(p, w).
func EscapeSrc(p Piece, w Square) Bitboard { return escSrc[p][w] }
