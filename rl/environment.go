// Package rl holds the episodic training environment and the tabular
// Q-learning strategy trained against it.
package rl

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"bot-2048/engine"
	"bot-2048/grid"
)

// ObservationSize is the flattened board plus the scaled score.
const ObservationSize = 17

// Running score divisor in observations.
const scoreScale = 10000.0

// Observation is the log2-normalized board (zeros stay zero) with the
// scaled running score appended.
type Observation []float64

// Info carries per-step diagnostics alongside the reward.
type Info struct {
	Moved       bool
	ScoreDelta  int
	HighestTile int
	EmptyTiles  int
	TotalMoves  int
}

// RewardFunc shapes the learning signal from a move outcome. The
// outcome's board is the post-move, pre-spawn position.
type RewardFunc func(out grid.Outcome) float64

// Penalty for a move that changes nothing.
const noMovePenalty = -10.0

// ShapedReward is the default shaping: the merge score plus bonuses
// for free cells, tile height and organized lines. Tuned empirically,
// swap it out via Env.Reward when experimenting.
func ShapedReward(out grid.Outcome) float64 {
	if !out.Moved {
		return noMovePenalty
	}
	r := float64(out.ScoreDelta)
	r += float64(engine.EmptyTiles(out.Board)) * 2
	if max := out.Board.MaxTile(); max > 0 {
		r += math.Log2(float64(max))
	}
	r += float64(engine.Monotonicity(out.Board)) * 5
	return r
}

// ErrEpisodeDone is returned by Step once the episode has ended.
var ErrEpisodeDone = errors.New("episode is finished, call Reset")

// Env is a single-writer episodic 2048 simulation: Reset places two
// tiles, Step applies a move, spawns a tile when the board changed,
// and reports the shaped reward. Each Env owns its board and RNG, so
// independent instances may run on separate goroutines.
type Env struct {
	Reward RewardFunc

	board   grid.Board
	score   int
	moves   int
	highest int
	done    bool
	rng     *rand.Rand
}

// NewEnv builds an environment with its own deterministic RNG.
func NewEnv(seed int64) *Env {
	return &Env{
		Reward: ShapedReward,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Reset clears the board, zeroes the score and places two random
// tiles, returning the initial observation.
func (e *Env) Reset() Observation {
	e.board = grid.Board{}
	e.score = 0
	e.moves = 0
	e.highest = 0
	e.done = false
	e.board, _ = e.board.AddRandomTile(e.rng)
	e.board, _ = e.board.AddRandomTile(e.rng)
	return e.observation()
}

// Step applies a move. A new tile spawns only when the board changed;
// the episode ends when no legal move remains.
func (e *Env) Step(m grid.Move) (Observation, float64, bool, Info, error) {
	if e.done {
		return nil, 0, true, Info{}, ErrEpisodeDone
	}
	out := e.board.Apply(m)
	e.moves++
	reward := e.Reward(out)

	if out.Moved {
		e.score += out.ScoreDelta
		e.board = out.Board
		if nb, ok := e.board.AddRandomTile(e.rng); ok {
			e.board = nb
		}
	}
	if max := e.board.MaxTile(); max > e.highest {
		e.highest = max
	}
	e.done = !e.board.HasMoves()

	info := Info{
		Moved:       out.Moved,
		ScoreDelta:  out.ScoreDelta,
		HighestTile: e.highest,
		EmptyTiles:  e.board.EmptyCount(),
		TotalMoves:  e.moves,
	}
	return e.observation(), reward, e.done, info, nil
}

// Board returns the current position.
func (e *Env) Board() grid.Board { return e.board }

// Score returns the accumulated merge score.
func (e *Env) Score() int { return e.score }

// Done reports whether the episode has ended.
func (e *Env) Done() bool { return e.done }

// ValidMoves lists the directions that would change the board.
func (e *Env) ValidMoves() []grid.Move {
	var valid []grid.Move
	for _, m := range grid.AllMoves {
		if e.board.Apply(m).Moved {
			valid = append(valid, m)
		}
	}
	return valid
}

func (e *Env) observation() Observation {
	obs := make(Observation, 0, ObservationSize)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if v := e.board[r][c]; v > 0 {
				obs = append(obs, math.Log2(float64(v)))
			} else {
				obs = append(obs, 0)
			}
		}
	}
	return append(obs, float64(e.score)/scoreScale)
}
