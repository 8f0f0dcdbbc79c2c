package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/kestrel-tc/zeropointone/internal/book"
	"github.com/kestrel-tc/zeropointone/internal/board"
	"github.com/kestrel-tc/zeropointone/internal/eval"
)

// SearchInfo reports progress of the last completed iteration, for a
// protocol driver to relay to the judge or an operator.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int
}

// Engine is the single-threaded façade spec.md §5 describes: one
// position, one searcher, one transposition table, one NNUE evaluator,
// driven entirely by the protocol layer's calls. There is no worker
// pool and no shared-memory concurrency during search.
type Engine struct {
	pos      *board.Position
	tt       *TranspositionTable
	evalr    *eval.Evaluator
	searcher *Searcher
	book     *book.Book

	// OnInfo, if set, is called once per completed iteration with the
	// latest search progress.
	OnInfo func(SearchInfo)
}

// NewEngine builds an engine with a ttSizeMB transposition table and the
// given NNUE weights. The position starts at Red's setup stage.
func NewEngine(ttSizeMB int, weights *eval.Weights) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	evalr := eval.NewEvaluator(weights, MaxPly)
	return &Engine{
		pos:      board.NewPosition(),
		tt:       tt,
		evalr:    evalr,
		searcher: NewSearcher(tt, evalr),
	}
}

// SetBook installs an opening-setup oracle; nil disables it.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// Position returns the engine's live position.
func (e *Engine) Position() *board.Position {
	return e.pos
}

// NewGame resets the board, transposition table, killer table, and
// repetition history for a fresh game.
func (e *Engine) NewGame() {
	e.pos = board.NewPosition()
	e.tt.Clear()
	e.searcher = NewSearcher(e.tt, e.evalr)
}

// ApplySetup plays one side's 16-piece placement move. Once both sides
// have placed (Stage advances to Play), the NNUE accumulator stack is
// seeded from the completed position, per spec.md §4.4's requirement
// that both wazirs be on the board before features are indexed.
func (e *Engine) ApplySetup(m board.Move) {
	e.pos.Make(m)
	e.searcher.Repetitions().Push(e.pos.Hash)
	if e.pos.Stage == board.Play {
		e.evalr.Init(e.pos)
	}
}

// ApplyMove plays an ordinary action move — the opponent's move, or the
// move Play's search chose — threading the incremental NNUE evaluator
// and the repetition history forward. Search recursion always uses this
// same accumulator stack at depths past ply 0, so the frame it writes
// here becomes the new ply-0 baseline.
func (e *Engine) ApplyMove(m board.Move) {
	e.evalr.Make(e.pos, m, 0)
	*e.evalr.Current(0) = *e.evalr.Current(1)
	e.searcher.Repetitions().Push(e.pos.Hash)
}

// fallbackSetup is the placement offered when no book is installed, or
// the installed book has no reply for the Red setup actually played:
// the move generator only produces ordinary action moves, never setup
// placements, so a setup-stage search is not possible and this
// canonical placement is the only fallback available.
const fallbackSetup = "DFNWFDDDAAAAAAAA"

// Play chooses and plays this engine's move under limits. During either
// setup stage the opening book is the sole decision-maker (spec.md §6:
// setup has no move-generator representation to search over), falling
// back to the canonical placement above on a miss; in ordinary play the
// searcher always runs iterative deepening under the time controller.
// The returned move has already been applied to the engine's position.
func (e *Engine) Play(limits UCILimits) board.Move {
	if e.pos.Stage == board.RedSetup || e.pos.Stage == board.BlueSetup {
		return e.playSetup()
	}

	tc := NewTimeManager()
	tc.Init(limits)

	maxDepth := MaxPly
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}

	start := time.Now()
	move, score := e.searcher.Search(e.pos, tc, maxDepth)

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth:    e.searcher.LastDepth(),
			Score:    score,
			Nodes:    e.searcher.Nodes(),
			Time:     time.Since(start),
			PV:       e.searcher.GetPV(),
			HashFull: e.tt.HashFull(),
		})
	}

	if move != board.NoMove {
		e.ApplyMove(move)
	}
	return move
}

// playSetup resolves one setup-stage move via the book, falling back to
// the canonical placement on a miss. Blue's fallback uses the same
// letters lowercased, since the book's own Blue replies are always
// keyed to a specific Red setup rather than offered unconditionally.
func (e *Engine) playSetup() board.Move {
	if e.book != nil {
		if m, ok := e.book.Probe(e.pos); ok {
			e.ApplySetup(m)
			return m
		}
	}

	setup := fallbackSetup
	if e.pos.Stage == board.BlueSetup {
		setup = strings.ToLower(fallbackSetup)
	}
	m, err := board.ParseSetup(setup)
	if err != nil {
		return board.NoMove
	}
	e.ApplySetup(m)
	return m
}

// Stop aborts an in-progress search at the next poll.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft counts leaf nodes reachable in depth plies, for move-generator
// self-checks.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.Make(move)
		nodes += e.Perft(pos, depth-1)
		pos.Unmake(undo)
	}
	return nodes
}

// Evaluate returns the NNUE score of pos from self's perspective,
// without threading the incremental accumulator stack (a one-shot
// recompute, suitable for diagnostics).
func (e *Engine) Evaluate(pos *board.Position, self board.Color) int32 {
	return eval.StaticEval(e.evalr.Weights(), pos, self)
}

// ScoreToString renders a search score as a human-readable string:
// mate distance when near ±MateScore, otherwise pawns.pawn-hundredths.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return "mate in " + strconv.Itoa(mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := (MateScore + score + 1) / 2
		return "mated in " + strconv.Itoa(mateIn)
	}
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	hundredths := score % 100
	return sign + strconv.Itoa(score/100) + "." + strconv.Itoa(hundredths/10) + strconv.Itoa(hundredths%10)
}
