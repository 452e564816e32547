package strategy

import (
	"math/rand"

	"bot-2048/grid"
)

// DefaultPriorityOrder is the classic corner-building order.
var DefaultPriorityOrder = [4]grid.Move{grid.MoveUp, grid.MoveLeft, grid.MoveDown, grid.MoveRight}

// Priority tries directions in a fixed order and plays the first one
// that changes the board. No search, fully deterministic; the baseline
// everything else is measured against.
type Priority struct {
	NoTraining
	order [4]grid.Move
}

// NewPriority builds a fixed-priority strategy. A zero-valued order
// falls back to DefaultPriorityOrder.
func NewPriority(order [4]grid.Move) *Priority {
	if order == [4]grid.Move{} {
		order = DefaultPriorityOrder
	}
	return &Priority{order: order}
}

func (p *Priority) Metadata() Metadata {
	params := make([]string, 4)
	for i, m := range p.order {
		params[i] = m.String()
	}
	return Metadata{
		Name:        "basic-priority",
		Version:     "1.0",
		Author:      "2048 Bot Team",
		Description: "Rule-based strategy playing the first board-changing direction from a fixed priority order.",
		Category:    CategoryRuleBased,
		Parameters:  map[string]any{"move_priority": params},
		Baseline:    1.8,
	}
}

func (p *Priority) NextMove(b grid.Board) (grid.Move, error) {
	if err := b.Validate(); err != nil {
		return grid.MoveUp, err
	}
	for _, m := range p.order {
		if b.Apply(m).Moved {
			return m, nil
		}
	}
	// Nothing moves; the caller handles game over.
	return p.order[0], nil
}

// MoveScores ranks directions by their priority slot: 100 for the
// first, dropping 10 per slot, InvalidMoveScore for blocked ones.
func (p *Priority) MoveScores(b grid.Board) ([4]float64, error) {
	var scores [4]float64
	if err := b.Validate(); err != nil {
		return scores, err
	}
	for i, m := range grid.AllMoves {
		if !b.Apply(m).Moved {
			scores[i] = InvalidMoveScore
			continue
		}
		for slot, pm := range p.order {
			if pm == m {
				scores[i] = 100 - float64(slot)*10
				break
			}
		}
	}
	return scores, nil
}

// Random plays a uniformly random valid move. Only useful as a floor
// for comparisons.
type Random struct {
	NoTraining
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Metadata() Metadata {
	return Metadata{
		Name:        "random",
		Version:     "1.0",
		Author:      "2048 Bot Team",
		Description: "Uniformly random valid move. Baseline floor for comparisons, not for play.",
		Category:    CategoryRuleBased,
		Baseline:    0.5,
	}
}

func (r *Random) NextMove(b grid.Board) (grid.Move, error) {
	if err := b.Validate(); err != nil {
		return grid.MoveUp, err
	}
	var valid []grid.Move
	for _, m := range grid.AllMoves {
		if b.Apply(m).Moved {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return grid.AllMoves[r.rng.Intn(4)], nil
	}
	return valid[r.rng.Intn(len(valid))], nil
}

func (r *Random) MoveScores(b grid.Board) ([4]float64, error) {
	return DefaultMoveScores(b)
}
