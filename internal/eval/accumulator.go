package eval

import "github.com/kestrel-tc/zeropointone/internal/board"

// Accumulator is one side's cached sum of first-layer embedding rows over
// its currently active features.
type Accumulator struct {
	v [128]int16
}

func (a *Accumulator) add(row *[128]int8) {
	accumulatorAdd(&a.v, row)
}

func (a *Accumulator) sub(row *[128]int8) {
	accumulatorSub(&a.v, row)
}

// Dual holds both sides' accumulators for one ply.
type Dual struct {
	Red, Blue Accumulator
}

func (d *Dual) of(c board.Color) *Accumulator {
	if c == board.Blue {
		return &d.Blue
	}
	return &d.Red
}

// Evaluator owns the weight tables and a depth-indexed accumulator stack
// mirroring the search recursion, per spec.md §4.4's accumulator-stack
// design.
type Evaluator struct {
	w     *Weights
	stack []Dual
}

// NewEvaluator allocates an accumulator stack deep enough for maxPly
// half-moves of recursion (search depth plus quiescence tail).
func NewEvaluator(w *Weights, maxPly int) *Evaluator {
	return &Evaluator{w: w, stack: make([]Dual, maxPly+2)}
}

// Weights returns the evaluator's underlying weight tables, for callers
// that need a one-shot non-incremental evaluation (StaticEval).
func (e *Evaluator) Weights() *Weights {
	return e.w
}

// Init seeds ply 0 by fully recomputing both accumulators from pos. Must
// be called once play begins (both setup moves applied) and before any
// search or evaluation, since ActiveFeatures assumes both wazirs are on
// the board.
func (e *Evaluator) Init(pos *board.Position) {
	e.stack[0] = Dual{
		Red:  e.w.refresh(pos, board.Red),
		Blue: e.w.refresh(pos, board.Blue),
	}
}

// Current returns the accumulator pair live at ply.
func (e *Evaluator) Current(ply int) *Dual {
	return &e.stack[ply]
}

// Make applies m to pos, threading the accumulator stack forward from ply
// to ply+1, and returns the undo token for the caller's matching Unmake.
// Setup moves and moves of the perspective's own wazir force a full
// rebuild of that side's accumulator (the wazir bucket changed); Red's
// setup alone leaves both accumulators zeroed, since Blue's wazir is not
// on the board yet. Every other move is a handful of incremental
// embedding add/subs.
func (e *Evaluator) Make(pos *board.Position, m board.Move, ply int) board.UndoInfo {
	next := e.stack[ply]

	type pending struct {
		refresh         bool
		removed, added  []int
	}
	var work [2]pending
	colors := [2]board.Color{board.Red, board.Blue}

	setupStage := pos.Stage == board.RedSetup || pos.Stage == board.BlueSetup
	for i, self := range colors {
		switch {
		case setupStage:
			work[i].refresh = true
		case m.Kind == board.KindAction && m.Piece.Piece() == board.Wazir && m.Piece.Color() == self:
			work[i].refresh = true
		default:
			work[i].removed, work[i].added = e.w.deltaFeatures(pos, m, self)
		}
	}

	undo := pos.Make(m)

	for i, self := range colors {
		acc := next.of(self)
		if work[i].refresh {
			if setupStage && pos.Stage != board.Play {
				*acc = Accumulator{}
				continue
			}
			*acc = e.w.refresh(pos, self)
			continue
		}
		for _, idx := range work[i].removed {
			acc.sub(&e.w.Layer1[idx])
		}
		for _, idx := range work[i].added {
			acc.add(&e.w.Layer1[idx])
		}
	}

	e.stack[ply+1] = next
	return undo
}

// Unmake undoes the position change Make applied; the accumulator stack
// needs no work of its own, since the frame at ply is untouched and the
// frame at ply+1 is simply abandoned.
func (e *Evaluator) Unmake(pos *board.Position, undo board.UndoInfo, ply int) {
	_ = ply
	pos.Unmake(undo)
}

// MakeNull and UnmakeNull thread the stack through a null move (side flip,
// no piece movement): the accumulators are untouched, so the frame is
// simply copied forward and back.
func (e *Evaluator) MakeNull(pos *board.Position, ply int) board.UndoInfo {
	e.stack[ply+1] = e.stack[ply]
	return pos.MakeNull()
}

func (e *Evaluator) UnmakeNull(pos *board.Position, undo board.UndoInfo) {
	pos.UnmakeNull(undo)
}

// deltaFeatures computes the embedding rows to remove and add from self's
// perspective for move m, with pos in its state immediately before m is
// applied. Callers must not invoke this when m moves self's own wazir
// (the bucket itself changes; use a full refresh instead).
func (w *Weights) deltaFeatures(pos *board.Position, m board.Move, self board.Color) (removed, added []int) {
	if m.Kind != board.KindAction {
		return nil, nil
	}
	wazirSq := perspectiveSquare(pos.WazirSquare(self), self)
	transform, bucket := canonicalize(wazirSq)
	base := bucket * slotsPerBucket

	mover := m.Piece.Color()
	isEnemyPiece := mover != self
	combo := occCombo(m.Piece.Piece(), isEnemyPiece)

	holderBit := 0
	if mover != self {
		holderBit = 1
	}
	ownerBit := 1 - holderBit

	fold := func(sq board.Square) int {
		return base + combo*64 + int(transform.apply(perspectiveSquare(sq, self)))
	}

	if m.IsDrop() {
		added = append(added, fold(m.To))
		pt := m.Piece.Piece()
		preCount := pos.Captured[mover][pt]
		removed = append(removed, capturedFeatureIndex(base, pt, ownerBit, holderBit, preCount))
	} else {
		removed = append(removed, fold(m.From))
		added = append(added, fold(m.To))
	}

	if m.Captured != board.NoPiece {
		capturedOwnerIsEnemy := !isEnemyPiece
		capturedCombo := occCombo(m.Captured, capturedOwnerIsEnemy)
		removed = append(removed, base+capturedCombo*64+int(transform.apply(perspectiveSquare(m.To, self))))

		if m.Captured != board.Wazir {
			preCount := pos.Captured[mover][m.Captured]
			added = append(added, capturedFeatureIndex(base, m.Captured, ownerBit, holderBit, preCount+1))
		}
	}

	return removed, added
}

func capturedFeatureIndex(base int, pt board.Piece, ownerBit, holderBit, level int) int {
	maxCount := board.InitialCount[pt]
	segBase := base + onBoardSlots + capturedSegmentOffset[pt]
	slot := (ownerBit*2 + holderBit) * maxCount
	return segBase + slot + (level - 1)
}

// refresh recomputes self's accumulator from scratch over pos's currently
// active features.
func (w *Weights) refresh(pos *board.Position, self board.Color) Accumulator {
	var acc Accumulator
	for _, idx := range ActiveFeatures(pos, self) {
		acc.add(&w.Layer1[idx])
	}
	return acc
}
