package eval

import (
	"fmt"
	"os"

	"github.com/kestrel-tc/zeropointone/internal/board"
)

// LoadWeightsFile opens path and decodes it as a weight blob, closing the
// file regardless of outcome.
func LoadWeightsFile(path string) (*Weights, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eval: open weight file: %w", err)
	}
	defer f.Close()
	w, err := LoadWeights(f)
	if err != nil {
		return nil, fmt.Errorf("eval: load %s: %w", path, err)
	}
	return w, nil
}

// StaticEval is a one-shot evaluation helper for callers that have not
// threaded an Evaluator through make/unmake (Engine.Evaluate). It refreshes both accumulators from scratch, so it is
// unsuitable for the search hot path.
func StaticEval(w *Weights, pos *board.Position, self board.Color) int32 {
	mover := w.refresh(pos, self)
	opponent := w.refresh(pos, self.Opponent())
	return w.forward(&mover, &opponent)
}
