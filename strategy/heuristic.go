package strategy

import (
	"bot-2048/engine"
	"bot-2048/grid"
)

// Heuristic simulates each direction and plays the one whose resulting
// board scores highest under the weighted evaluation. Ties break by
// the fixed priority order.
type Heuristic struct {
	NoTraining
	weights  engine.Weights
	tiebreak [4]grid.Move
}

// NewHeuristic builds a heuristic strategy with the given weight set.
func NewHeuristic(w engine.Weights) *Heuristic {
	return &Heuristic{weights: w, tiebreak: DefaultPriorityOrder}
}

func (h *Heuristic) Metadata() Metadata {
	return Metadata{
		Name:        "enhanced-heuristic",
		Version:     "2.1",
		Author:      "2048 Bot Team",
		Description: "Weighted-feature evaluation over simulated moves: empty space, merges, corner anchoring, monotonicity.",
		Category:    CategoryHeuristic,
		Parameters: map[string]any{
			"empty_tiles":     h.weights.EmptyTiles,
			"merge_potential": h.weights.MergePotential,
			"corner_bonus":    h.weights.CornerBonus,
			"monotonicity":    h.weights.Monotonicity,
			"max_tile_value":  h.weights.MaxTileValue,
		},
		Baseline: 2.36,
	}
}

// MoveScores evaluates the board each direction would produce.
func (h *Heuristic) MoveScores(b grid.Board) ([4]float64, error) {
	var scores [4]float64
	if err := b.Validate(); err != nil {
		return scores, err
	}
	if err := h.weights.Validate(); err != nil {
		return scores, err
	}
	for i, m := range grid.AllMoves {
		out := b.Apply(m)
		if !out.Moved {
			scores[i] = InvalidMoveScore
			continue
		}
		s, err := engine.Evaluate(out.Board, h.weights)
		if err != nil {
			return scores, err
		}
		scores[i] = s
	}
	return scores, nil
}

func (h *Heuristic) NextMove(b grid.Board) (grid.Move, error) {
	scores, err := h.MoveScores(b)
	if err != nil {
		return grid.MoveUp, err
	}
	indexOf := func(m grid.Move) int {
		for i, am := range grid.AllMoves {
			if am == m {
				return i
			}
		}
		return 0
	}
	best := h.tiebreak[0]
	bestScore := scores[indexOf(best)]
	for _, m := range h.tiebreak[1:] {
		if s := scores[indexOf(m)]; s > bestScore {
			best, bestScore = m, s
		}
	}
	return best, nil
}
