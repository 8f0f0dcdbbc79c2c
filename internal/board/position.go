package board

import "fmt"

// Stage is the game-state machine spec.md §3/§4.2 describes: both setup
// phases, ordinary play, and the one-ply forced-wazir-move tail that
// follows a checkmate (since the judge protocol only terminates on
// physical wazir capture, never on checkmate).
type Stage uint8

const (
	RedSetup Stage = iota
	BlueSetup
	Play
	RedPseudo
	BluePseudo
)

func (s Stage) String() string {
	switch s {
	case RedSetup:
		return "RedSetup"
	case BlueSetup:
		return "BlueSetup"
	case Play:
		return "Play"
	case RedPseudo:
		return "RedPseudo"
	case BluePseudo:
		return "BluePseudo"
	default:
		return "Unknown"
	}
}

// redSetupBase and blueSetupBase are the first square of each side's
// 16-square setup zone (a1..h2 for Red, a7..h8 for Blue).
const (
	redSetupBase  = int(A1)
	blueSetupBase = int(A7)
)

// Position holds the full mutable game state: the board, redundant
// bitboard views for fast attack lookups, each side's captured-piece
// hand, the incremental Zobrist hash, ply count, game stage, and side to
// move.
type Position struct {
	Squares         [64]ColoredPiece
	OccupiedByColor [2]Bitboard
	OccupiedByPiece [2][NumPieces]Bitboard
	Captured        [2][NumPieces]int
	Hash            uint64
	Ply             uint16
	Stage           Stage
	ToMove          Color
	NullMoveCounter int
}

// NewPosition returns an empty board at the start of Red's setup phase.
func NewPosition() *Position {
	p := &Position{Stage: RedSetup, ToMove: Red}
	for i := range p.Squares {
		p.Squares[i] = NoColoredPiece
	}
	p.Hash = p.ComputeHash()
	return p
}

// WazirSquare returns the square holding color c's wazir.
func (p *Position) WazirSquare(c Color) Square {
	return p.OccupiedByPiece[c][Wazir].LSB()
}

// AttackersOf returns the set of color by's pieces that attack sq in one
// leap, unioned across all piece types.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	var att Bitboard
	for pt := Piece(0); pt < NumPieces; pt++ {
		att |= reach1[pt][sq] & p.OccupiedByPiece[by][pt]
	}
	return att
}

// InCheck reports whether color c's wazir is currently attacked.
func (p *Position) InCheck(c Color) bool {
	return p.AttackersOf(p.WazirSquare(c), c.Opponent()) != 0
}

// LegalDropMask returns the squares color c may legally drop piece pt onto.
// This variant places no restriction on drops beyond the square being
// empty (unlike shogi's pawn-file/last-rank rules, which have no
// equivalent among leapers).
func (p *Position) LegalDropMask(pt Piece, c Color) Bitboard {
	_ = pt
	_ = c
	return ^(p.OccupiedByColor[Red] | p.OccupiedByColor[Blue])
}

// ComputeHash recomputes the Zobrist hash from scratch; used as a debug
// and test invariant against the incrementally maintained Hash field.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for sq := Square(0); sq < 64; sq++ {
		if cp := p.Squares[sq]; !cp.IsEmpty() {
			h ^= PieceKey(sq, cp)
		}
	}
	for c := Color(0); c < 2; c++ {
		for pt := Piece(0); pt < NumPieces; pt++ {
			h ^= CapturedKey(c, pt, p.Captured[c][pt])
		}
	}
	h ^= StageKey(p.Stage)
	h ^= SideKey(p.ToMove)
	return h
}

// UndoInfo is a full snapshot of a Position taken before Make, restored
// verbatim by Unmake. Position holds no pointers, so a plain value copy
// is a complete, independent snapshot.
type UndoInfo struct {
	prev Position
}

func (p *Position) snapshot() UndoInfo {
	return UndoInfo{prev: *p}
}

func (p *Position) restore(u UndoInfo) {
	*p = u.prev
}

func (p *Position) placePiece(sq Square, cp ColoredPiece) {
	p.Squares[sq] = cp
	c, pt := cp.Color(), cp.Piece()
	p.OccupiedByColor[c] = p.OccupiedByColor[c].Set(sq)
	p.OccupiedByPiece[c][pt] = p.OccupiedByPiece[c][pt].Set(sq)
	p.Hash ^= PieceKey(sq, cp)
}

func (p *Position) removePiece(sq Square) ColoredPiece {
	cp := p.Squares[sq]
	p.Hash ^= PieceKey(sq, cp)
	p.Squares[sq] = NoColoredPiece
	c, pt := cp.Color(), cp.Piece()
	p.OccupiedByColor[c] = p.OccupiedByColor[c].Clear(sq)
	p.OccupiedByPiece[c][pt] = p.OccupiedByPiece[c][pt].Clear(sq)
	return cp
}

func (p *Position) setCaptured(c Color, pt Piece, n int) {
	p.Hash ^= CapturedKey(c, pt, p.Captured[c][pt])
	p.Captured[c][pt] = n
	p.Hash ^= CapturedKey(c, pt, n)
}

func (p *Position) setStage(s Stage) {
	p.Hash ^= StageKey(p.Stage)
	p.Stage = s
	p.Hash ^= StageKey(p.Stage)
}

func (p *Position) setToMove(c Color) {
	p.Hash ^= SideKey(p.ToMove)
	p.ToMove = c
	p.Hash ^= SideKey(p.ToMove)
}

// Make applies m and returns the token needed to undo it.
func (p *Position) Make(m Move) UndoInfo {
	undo := p.snapshot()
	p.NullMoveCounter = 0
	switch m.Kind {
	case KindSetup:
		p.applySetup(m)
	case KindAction:
		p.applyAction(m)
	}
	p.Ply++
	return undo
}

// Unmake restores the position to exactly how it was before the
// corresponding Make.
func (p *Position) Unmake(undo UndoInfo) {
	p.restore(undo)
}

// MakeNull flips the side to move without playing a move, for the
// search's null-move pruning (spec.md §4.6).
func (p *Position) MakeNull() UndoInfo {
	undo := p.snapshot()
	p.setToMove(p.ToMove.Opponent())
	p.NullMoveCounter++
	return undo
}

// UnmakeNull undoes MakeNull.
func (p *Position) UnmakeNull(undo UndoInfo) {
	p.restore(undo)
}

func (p *Position) applySetup(m Move) {
	color := Red
	base := redSetupBase
	if p.Stage == BlueSetup {
		color = Blue
		base = blueSetupBase
	}
	for i, cp := range m.Setup {
		p.placePiece(Square(base+i), cp)
	}
	if color == Red {
		p.setStage(BlueSetup)
		p.setToMove(Blue)
	} else {
		p.setStage(Play)
		p.setToMove(Red)
	}
}

func (p *Position) applyAction(m Move) {
	mover := m.Piece.Color()

	if m.IsDrop() {
		p.setCaptured(mover, m.Piece.Piece(), p.Captured[mover][m.Piece.Piece()]-1)
	} else {
		p.removePiece(m.From)
		if m.Captured != NoPiece {
			p.removePiece(m.To)
			p.setCaptured(mover, m.Captured, p.Captured[mover][m.Captured]+1)
		}
	}
	p.placePiece(m.To, m.Piece)

	if p.Stage == RedPseudo || p.Stage == BluePseudo {
		// The forced pseudo-stage move is always exactly one ply; control
		// returns to ordinary play for whoever replies next.
		p.setStage(Play)
		p.setToMove(mover.Opponent())
		return
	}
	p.advanceStage(mover)
}

// advanceStage hands the move to the responder and, if that leaves them
// checkmated (in check with no legal reply), enters their Pseudo stage
// instead of ending the game: the judge protocol only recognizes a
// physical wazir capture as a terminus, so a checkmated side still gets
// one forced, possibly into-check, wazir move.
func (p *Position) advanceStage(mover Color) {
	responder := mover.Opponent()
	p.setToMove(responder)
	if p.OccupiedByPiece[responder][Wazir].Empty() {
		return // the mover just captured the responder's wazir: the game is over
	}
	if p.InCheck(responder) && !p.hasLegalMoves(responder) {
		if responder == Red {
			p.setStage(RedPseudo)
		} else {
			p.setStage(BluePseudo)
		}
	}
}

// ParseSetup decodes a 16-character setup string (spec.md §6) into a
// KindSetup move, validating it against the canonical piece multiset.
func ParseSetup(s string) (Move, error) {
	if len(s) != 16 {
		return Move{}, fmt.Errorf("board: setup string must be 16 characters, got %d", len(s))
	}
	var setup [16]ColoredPiece
	var counts [NumPieces]int
	color := NoColor
	for i := 0; i < 16; i++ {
		pt, c, ok := PieceFromLetter(s[i])
		if !ok {
			return Move{}, fmt.Errorf("board: invalid piece letter %q in setup string", s[i])
		}
		if color == NoColor {
			color = c
		} else if c != color {
			return Move{}, fmt.Errorf("board: setup string mixes colors")
		}
		setup[i] = NewColoredPiece(pt, c)
		counts[pt]++
	}
	for pt := Piece(0); pt < NumPieces; pt++ {
		if counts[pt] != InitialCount[pt] {
			return Move{}, fmt.Errorf("board: setup string has %d of piece %v, want %d", counts[pt], pt, InitialCount[pt])
		}
	}
	return Move{Kind: KindSetup, Setup: setup}, nil
}

// ParseAction decodes a judge-protocol action token: a 4-character
// "fromto" square pair, or a 3-character piece-letter-plus-destination
// drop (spec.md §6).
func ParseAction(s string, pos *Position) (Move, error) {
	mover := pos.ToMove
	switch len(s) {
	case 4:
		from, err := ParseSquare(s[0:2])
		if err != nil {
			return Move{}, err
		}
		to, err := ParseSquare(s[2:4])
		if err != nil {
			return Move{}, err
		}
		cp := pos.Squares[from]
		if cp.IsEmpty() || cp.Color() != mover {
			return Move{}, fmt.Errorf("board: no mover piece on %s", from)
		}
		captured := NoPiece
		if tgt := pos.Squares[to]; !tgt.IsEmpty() {
			captured = tgt.Piece()
		}
		return Move{Kind: KindAction, From: from, To: to, Piece: cp, Captured: captured}, nil
	case 3:
		pt, c, ok := PieceFromLetter(s[0])
		if !ok || c != mover {
			return Move{}, fmt.Errorf("board: invalid drop piece %q", s[0:1])
		}
		to, err := ParseSquare(s[1:3])
		if err != nil {
			return Move{}, err
		}
		if pos.Captured[mover][pt] == 0 {
			return Move{}, fmt.Errorf("board: no %v in hand to drop", pt)
		}
		return Move{Kind: KindAction, From: NoSquare, To: to, Piece: NewColoredPiece(pt, mover), Captured: NoPiece}, nil
	default:
		return Move{}, fmt.Errorf("board: invalid action token %q", s)
	}
}
