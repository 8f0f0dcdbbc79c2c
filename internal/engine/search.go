package engine

import (
	"sync/atomic"

	"github.com/kestrel-tc/zeropointone/internal/board"
	"github.com/kestrel-tc/zeropointone/internal/eval"
)

// Search constants (spec.md §4.6).
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	// MaxTotalPlies is the judge's game horizon (spec.md §6): beyond it
	// the game is a forced draw regardless of material.
	MaxTotalPlies = 102
)

// PVTable stores the principal variation produced by the last completed
// iteration.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs a single-threaded PVS search with quiescence
// (spec.md §4.6). One Searcher is bound to one TranspositionTable and
// one NNUE Evaluator for the engine's lifetime; a new game resets its
// killer table and repetition history.
type Searcher struct {
	tt       *TranspositionTable
	killers  *KillerTable
	repeats  *RepetitionHistory
	evalr    *eval.Evaluator
	engineOf board.Color

	nodes     uint64
	stopFlag  atomic.Bool
	lastDepth int

	pv PVTable
}

// LastDepth returns the depth of the last fully completed iteration.
func (s *Searcher) LastDepth() int {
	return s.lastDepth
}

// NewSearcher builds a searcher over the given transposition table and
// NNUE evaluator.
func NewSearcher(tt *TranspositionTable, evalr *eval.Evaluator) *Searcher {
	return &Searcher{
		tt:      tt,
		killers: NewKillerTable(),
		repeats: NewRepetitionHistory(),
		evalr:   evalr,
	}
}

// Stop signals the running search to abort at the next poll.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Repetitions exposes the searcher's game-history tracker so the
// engine façade can push/pop hashes as real moves are played.
func (s *Searcher) Repetitions() *RepetitionHistory {
	return s.repeats
}

func (s *Searcher) reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
}

// Search runs iterative deepening from depth 1 to maxDepth (inclusive)
// under tc's budget, returning the root move and score of the best
// completed iteration. pos is played on and unwound in place; on
// return it is restored to its state at call time.
func (s *Searcher) Search(pos *board.Position, tc *TimeManager, maxDepth int) (board.Move, int) {
	s.reset()
	s.killers.Clear()
	s.engineOf = pos.ToMove
	s.tt.NewSearch()

	bestMove := board.NoMove
	var bestScore int
	prevScore := 0
	s.lastDepth = 0

	for depth := 1; depth <= maxDepth; depth++ {
		score := s.negamax(pos, depth, 0, -Infinity, Infinity)
		if s.stopFlag.Load() {
			break
		}

		if s.pv.length[0] > 0 {
			bestMove = s.pv.moves[0][0]
		}
		bestScore = score
		s.lastDepth = depth

		if depth > 1 {
			tc.MaybePanic(score, prevScore)
		}
		prevScore = score

		if tc.ShouldStop() || tc.PastOptimum() {
			break
		}
	}

	return bestMove, bestScore
}

// negamax implements the PVS recursion contract of spec.md §4.6. Scores
// are from pos.ToMove's perspective at every node.
func (s *Searcher) negamax(pos *board.Position, depth, ply int, alpha, beta int) int {
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	if over, winner := terminalResult(pos); over {
		if winner == board.NoColor {
			return int(applyOptimism(0, pos.ToMove, s.engineOf))
		}
		if winner == pos.ToMove {
			return MateScore - ply
		}
		return -MateScore + ply
	}
	if int(pos.Ply) >= MaxTotalPlies {
		return int(applyOptimism(0, pos.ToMove, s.engineOf))
	}
	if ply > 0 && s.repeats.Contains(pos.Hash) {
		return int(applyOptimism(0, pos.ToMove, s.engineOf))
	}

	ttMove := board.NoMove
	ttEntry, found := s.tt.Probe(pos.Hash)
	if found {
		ttMove = ttEntry.move
		if int(ttEntry.depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.score), ply)
			switch ttEntry.bound {
			case BoundExact:
				return score
			case BoundLower:
				if score > alpha {
					alpha = score
				}
			case BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(pos, ply, alpha, beta)
	}

	inCheck := pos.InCheck(pos.ToMove)

	if !inCheck && depth >= 2 && pos.NullMoveCounter < 2 {
		staticEval := s.staticEval(pos, ply)
		if staticEval >= beta+1000 && !nearMate(beta) && hasNonWazirMaterial(pos, pos.ToMove) {
			undo := s.evalr.MakeNull(pos, ply)
			s.repeats.Push(pos.Hash)
			score := -s.negamax(pos, depth-1, ply+1, -beta, -beta+1)
			s.repeats.Pop()
			s.evalr.UnmakeNull(pos, undo)
			if s.stopFlag.Load() {
				return 0
			}
			if score >= beta {
				return beta
			}
		}
	}

	killers := s.killers.Get(ply)
	moves := pos.GenerateOrdered(ttMove, killers)

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	bestScore := -Infinity
	bestMove := board.NoMove
	bound := BoundUpper
	staticEval := 0
	if depth == 1 && !inCheck {
		staticEval = s.staticEval(pos, ply)
	}

	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		isQuiet := !move.IsCapture()
		isKiller := isQuiet && (move == killers[0] || move == killers[1])

		if depth == 1 && !inCheck && isQuiet && i > 0 {
			if staticEval+6000 <= alpha {
				continue
			}
		}

		undo := s.evalr.Make(pos, move, ply)
		s.repeats.Push(pos.Hash)
		childInCheck := pos.InCheck(pos.ToMove)

		childDepth := depth - 1
		if inCheck {
			childDepth = depth // check extension: no decrement this ply
		}

		reduced := false
		searchDepth := childDepth
		if childDepth > 0 && depth > 1 && i >= 5 && isQuiet && !isKiller && move != ttMove && !childInCheck {
			searchDepth = childDepth - 1
			reduced = true
		}

		var score int
		if i == 0 {
			score = -s.negamax(pos, searchDepth, ply+1, -beta, -alpha)
		} else {
			score = -s.negamax(pos, searchDepth, ply+1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -s.negamax(pos, childDepth, ply+1, -beta, -alpha)
			} else if reduced && score > alpha {
				score = -s.negamax(pos, childDepth, ply+1, -beta, -alpha)
			}
		}

		s.repeats.Pop()
		s.evalr.Unmake(pos, undo, ply)

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
			if score > alpha {
				alpha = score
				bound = BoundExact
				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(pos.Hash, depth, AdjustScoreToTT(score, ply), BoundLower, bestMove)
			if isQuiet {
				s.killers.Update(ply, move)
			}
			return score
		}
	}

	s.tt.Store(pos.Hash, depth, AdjustScoreToTT(bestScore, ply), bound, bestMove)
	return bestScore
}

// quiescence searches captures (and, if in check, evasions) to a stable
// position per spec.md §4.6.
func (s *Searcher) quiescence(pos *board.Position, ply int, alpha, beta int) int {
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	if over, winner := terminalResult(pos); over {
		if winner == board.NoColor {
			return int(applyOptimism(0, pos.ToMove, s.engineOf))
		}
		if winner == pos.ToMove {
			return MateScore - ply
		}
		return -MateScore + ply
	}

	inCheck := pos.InCheck(pos.ToMove)
	standPat := s.staticEval(pos, ply)

	if !inCheck {
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if ply >= MaxPly-1 {
		return alpha
	}

	moves := pos.GenerateQuiescenceMoves()
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := s.evalr.Make(pos, move, ply)
		s.repeats.Push(pos.Hash)
		score := -s.quiescence(pos, ply+1, -beta, -alpha)
		s.repeats.Pop()
		s.evalr.Unmake(pos, undo, ply)

		if s.stopFlag.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// staticEval reads ply's incrementally maintained accumulator pair
// through the NNUE evaluator and applies the optimism bias.
func (s *Searcher) staticEval(pos *board.Position, ply int) int {
	raw := s.evalr.Evaluate(pos.ToMove, ply)
	return int(applyOptimism(raw, pos.ToMove, s.engineOf))
}

// terminalResult reports whether the game is over (a wazir has been
// physically captured) and, if so, who won.
func terminalResult(pos *board.Position) (over bool, winner board.Color) {
	redAlive := !pos.OccupiedByPiece[board.Red][board.Wazir].Empty()
	blueAlive := !pos.OccupiedByPiece[board.Blue][board.Wazir].Empty()
	switch {
	case !redAlive && !blueAlive:
		return true, board.NoColor
	case !redAlive:
		return true, board.Blue
	case !blueAlive:
		return true, board.Red
	default:
		return false, board.NoColor
	}
}

func nearMate(score int) bool {
	return score >= MateScore-MaxPly || score <= -MateScore+MaxPly
}

// hasNonWazirMaterial guards null-move pruning against the
// zugzwang-prone endgames spec.md §4.6 calls out: a side with nothing
// on the board or in hand but its own wazir gains nothing from a free
// pass, so null-move is disabled there.
func hasNonWazirMaterial(pos *board.Position, c board.Color) bool {
	for pt := board.Piece(0); pt < board.NumPieces; pt++ {
		if pt == board.Wazir {
			continue
		}
		if !pos.OccupiedByPiece[c][pt].Empty() || pos.Captured[c][pt] > 0 {
			return true
		}
	}
	return false
}

// GetPV returns the principal variation from the last completed
// iteration.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
