// Package strategy defines the capability contract every 2048 decision
// procedure implements, plus the registry that tracks and ranks them.
package strategy

import (
	"github.com/pkg/errors"

	"bot-2048/engine"
	"bot-2048/grid"
)

// Category labels a family of strategies for filtering and reports.
type Category string

const (
	CategoryRuleBased     Category = "rule_based"
	CategoryHeuristic     Category = "heuristic"
	CategoryReinforcement Category = "reinforcement_learning"
	CategoryStudent       Category = "student_submission"
)

// Metadata identifies and describes one strategy. Immutable once built.
type Metadata struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Author      string         `json:"author"`
	Description string         `json:"description"`
	Category    Category       `json:"category"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	// Baseline is an expected efficiency (points per move) for the
	// untouched configuration, 0 when unknown.
	Baseline         float64 `json:"baseline,omitempty"`
	TrainingRequired bool    `json:"training_required"`
}

// ID is the stable registry identifier, name and version joined.
func (m Metadata) ID() string {
	return m.Name + "_" + m.Version
}

// GameResult is the outcome of one completed game.
type GameResult struct {
	Score       int `json:"score"`
	Moves       int `json:"moves"`
	HighestTile int `json:"highest_tile"`
}

// Efficiency is the score earned per move, the primary ranking metric.
func (g GameResult) Efficiency() float64 {
	if g.Moves == 0 {
		return 0
	}
	return float64(g.Score) / float64(g.Moves)
}

// PerformanceRecord accumulates one strategy's lifetime statistics.
// Single-writer: the owner updates it after each completed game.
type PerformanceRecord struct {
	GamesPlayed int `json:"games_played"`
	TotalScore  int `json:"total_score"`
	TotalMoves  int `json:"total_moves"`
	HighestTile int `json:"highest_tile"`
}

// Update folds a finished game into the record.
func (p *PerformanceRecord) Update(g GameResult) {
	p.GamesPlayed++
	p.TotalScore += g.Score
	p.TotalMoves += g.Moves
	if g.HighestTile > p.HighestTile {
		p.HighestTile = g.HighestTile
	}
}

// AverageEfficiency is the lifetime score per move.
func (p PerformanceRecord) AverageEfficiency() float64 {
	if p.TotalMoves == 0 {
		return 0
	}
	return float64(p.TotalScore) / float64(p.TotalMoves)
}

// TrainOptions configures a training run for strategies that learn.
type TrainOptions struct {
	Episodes int
	MaxSteps int // per-episode step cap, 0 means the trainer default
	Seed     int64
	LogEvery int // progress log interval in episodes, 0 disables
}

// TrainResult summarizes a completed training run.
type TrainResult struct {
	Episodes        int     `json:"episodes"`
	TotalEpisodes   int     `json:"total_episodes"`
	MeanReward      float64 `json:"mean_reward"`
	MeanHighestTile float64 `json:"mean_highest_tile"`
	MaxHighestTile  int     `json:"max_highest_tile"`
	FinalEpsilon    float64 `json:"final_epsilon"`
	States          int     `json:"states"`
	Converged       bool    `json:"converged"`
}

// ErrTrainingUnsupported is returned by strategies with no learnable
// state when Train, Save or Load is invoked.
var ErrTrainingUnsupported = errors.New("strategy does not support training")

// InvalidMoveScore is assigned to directions that would not change the
// board when scoring candidate moves.
const InvalidMoveScore = -999.0

// Strategy maps a board to a move. NextMove always returns a direction
// for a valid board, even when nothing can move: detecting game over is
// the caller's job, not the strategy's.
type Strategy interface {
	Metadata() Metadata
	NextMove(b grid.Board) (grid.Move, error)
	// MoveScores rates all four directions, keyed to grid.AllMoves.
	MoveScores(b grid.Board) ([4]float64, error)

	// Training hooks. Strategies without learnable state return
	// ErrTrainingUnsupported from all three.
	Train(opts TrainOptions) (*TrainResult, error)
	Save(path string) error
	Load(path string) error
	Reset()
}

// NoTraining provides the no-op training hooks for strategies that
// need none. Embed it and implement the rest.
type NoTraining struct{}

func (NoTraining) Train(TrainOptions) (*TrainResult, error) {
	return nil, ErrTrainingUnsupported
}

func (NoTraining) Save(string) error { return ErrTrainingUnsupported }
func (NoTraining) Load(string) error { return ErrTrainingUnsupported }
func (NoTraining) Reset()            {}

// DefaultMoveScores rates each direction by simulating it and scoring
// the result with a cheap evaluation: empty cells plus a sliver of the
// max tile. Strategies with a richer view override MoveScores instead.
func DefaultMoveScores(b grid.Board) ([4]float64, error) {
	var scores [4]float64
	if err := b.Validate(); err != nil {
		return scores, err
	}
	for i, m := range grid.AllMoves {
		out := b.Apply(m)
		if !out.Moved {
			scores[i] = InvalidMoveScore
			continue
		}
		scores[i] = float64(engine.EmptyTiles(out.Board))*10 + float64(engine.MaxTile(out.Board))*0.1
	}
	return scores, nil
}
