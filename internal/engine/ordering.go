package engine

import "github.com/kestrel-tc/zeropointone/internal/board"

// KillerTable tracks, per ply, up to two quiet moves that recently
// caused a beta cutoff (spec.md §4.7). board.GenerateOrdered already
// places the transposition-table move first and all captures (in
// generation order) ahead of quiet moves, so the only ordering signal this
// package owns is the killer slots fed back into it.
type KillerTable struct {
	killers [MaxPly][2]board.Move
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	kt := &KillerTable{}
	kt.Clear()
	return kt
}

// Clear empties every ply's killer slots, for use between searches.
func (kt *KillerTable) Clear() {
	for i := range kt.killers {
		kt.killers[i] = [2]board.Move{board.NoMove, board.NoMove}
	}
}

// Get returns ply's two killer moves.
func (kt *KillerTable) Get(ply int) [2]board.Move {
	return kt.killers[ply]
}

// Update records m as ply's newest killer, shifting the previous
// newest into the second slot. Captures are never recorded:
// a capture already sorts ahead of quiet moves, so it gains nothing
// from killer status.
func (kt *KillerTable) Update(ply int, m board.Move) {
	if m.IsCapture() {
		return
	}
	if kt.killers[ply][0] == m {
		return
	}
	kt.killers[ply][1] = kt.killers[ply][0]
	kt.killers[ply][0] = m
}
