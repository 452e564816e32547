package rl

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"bot-2048/grid"
	"bot-2048/strategy"
)

// QConfig are the Q-learning hyperparameters.
type QConfig struct {
	LearningRate   float64 `json:"learning_rate"`
	DiscountFactor float64 `json:"discount_factor"`
	Epsilon        float64 `json:"epsilon"`
	EpsilonDecay   float64 `json:"epsilon_decay"`
	MinEpsilon     float64 `json:"min_epsilon"`
}

// DefaultQConfig returns the baseline hyperparameters.
func DefaultQConfig() QConfig {
	return QConfig{
		LearningRate:   0.1,
		DiscountFactor: 0.95,
		Epsilon:        0.1,
		EpsilonDecay:   0.995,
		MinEpsilon:     0.01,
	}
}

// QLearner is the tabular Q-learning strategy. The state key is the
// exact board serialization with no bucketing, so the table grows
// fast and generalizes poorly; it is kept that way deliberately.
// Unseen states read as all-zero action values.
type QLearner struct {
	cfg      QConfig
	epsilon  float64
	table    map[string][4]float64
	episodes int
	trained  bool
	rng      *rand.Rand
	tiebreak [4]grid.Move
}

// NewQLearner builds an untrained learner.
func NewQLearner(cfg QConfig, seed int64) *QLearner {
	return &QLearner{
		cfg:      cfg,
		epsilon:  cfg.Epsilon,
		table:    make(map[string][4]float64),
		rng:      rand.New(rand.NewSource(seed)),
		tiebreak: strategy.DefaultPriorityOrder,
	}
}

func stateKey(b grid.Board) string {
	var sb strings.Builder
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if r+c > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(b[r][c]))
		}
	}
	return sb.String()
}

func (q *QLearner) Metadata() strategy.Metadata {
	return strategy.Metadata{
		Name:        "q-learning",
		Version:     "1.0",
		Author:      "2048 Bot Team",
		Description: "Tabular Q-learning over exact board states with epsilon-greedy exploration.",
		Category:    strategy.CategoryReinforcement,
		Parameters: map[string]any{
			"learning_rate":   q.cfg.LearningRate,
			"discount_factor": q.cfg.DiscountFactor,
			"epsilon":         q.cfg.Epsilon,
			"epsilon_decay":   q.cfg.EpsilonDecay,
			"min_epsilon":     q.cfg.MinEpsilon,
		},
		TrainingRequired: true,
	}
}

// argmax picks the highest-valued action for a state, breaking ties by
// the fixed priority order.
func (q *QLearner) argmax(key string) grid.Move {
	values := q.table[key]
	best := q.tiebreak[0]
	bestV := values[best]
	for _, m := range q.tiebreak[1:] {
		if values[m] > bestV {
			best, bestV = m, values[m]
		}
	}
	return best
}

// NextMove plays greedily from the learned action values.
func (q *QLearner) NextMove(b grid.Board) (grid.Move, error) {
	if err := b.Validate(); err != nil {
		return grid.MoveUp, err
	}
	return q.argmax(stateKey(b)), nil
}

// MoveScores exposes the raw action values, keyed to grid.AllMoves.
func (q *QLearner) MoveScores(b grid.Board) ([4]float64, error) {
	if err := b.Validate(); err != nil {
		return [4]float64{}, err
	}
	return q.table[stateKey(b)], nil
}

// Trained reports whether at least one training run has completed.
func (q *QLearner) Trained() bool { return q.trained }

// States returns the number of distinct states in the table.
func (q *QLearner) States() int { return len(q.table) }

// Epsilon returns the current exploration rate.
func (q *QLearner) Epsilon() float64 { return q.epsilon }

// Reset restores the exploration rate to its configured start. The
// learned table is kept.
func (q *QLearner) Reset() {
	q.epsilon = q.cfg.Epsilon
}

const defaultMaxSteps = 1000

// Train runs epsilon-greedy Q-learning episodes against a fresh
// environment. Epsilon decays multiplicatively toward its floor after
// every episode.
func (q *QLearner) Train(opts strategy.TrainOptions) (*strategy.TrainResult, error) {
	if opts.Episodes <= 0 {
		opts.Episodes = 1000
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	env := NewEnv(opts.Seed)
	var rewards, tiles []float64
	maxTile := 0

	for ep := 0; ep < opts.Episodes; ep++ {
		env.Reset()
		var total float64
		highest := 0

		for steps := 0; !env.Done() && steps < maxSteps; steps++ {
			key := stateKey(env.Board())

			var mv grid.Move
			if q.rng.Float64() < q.epsilon {
				valid := env.ValidMoves()
				if len(valid) == 0 {
					break
				}
				mv = valid[q.rng.Intn(len(valid))]
			} else {
				mv = q.argmax(key)
			}

			_, reward, _, info, err := env.Step(mv)
			if err != nil {
				return nil, err
			}
			nextKey := stateKey(env.Board())

			// Q(s,a) += lr * (r + gamma*max(Q(s')) - Q(s,a))
			values := q.table[key]
			next := q.table[nextKey]
			bestNext := next[0]
			for _, v := range next[1:] {
				if v > bestNext {
					bestNext = v
				}
			}
			values[mv] += q.cfg.LearningRate * (reward + q.cfg.DiscountFactor*bestNext - values[mv])
			q.table[key] = values

			total += reward
			highest = info.HighestTile
		}

		q.epsilon = math.Max(q.cfg.MinEpsilon, q.epsilon*q.cfg.EpsilonDecay)
		rewards = append(rewards, total)
		tiles = append(tiles, float64(highest))
		if highest > maxTile {
			maxTile = highest
		}

		if opts.LogEvery > 0 && (ep+1)%opts.LogEvery == 0 {
			recent := rewards
			if len(recent) > opts.LogEvery {
				recent = recent[len(recent)-opts.LogEvery:]
			}
			log.Info().
				Int("episode", ep+1).
				Float64("mean_reward", meanOf(recent)).
				Float64("epsilon", q.epsilon).
				Int("states", len(q.table)).
				Msg("training progress")
		}
	}

	q.episodes += opts.Episodes
	q.trained = true

	return &strategy.TrainResult{
		Episodes:        opts.Episodes,
		TotalEpisodes:   q.episodes,
		MeanReward:      meanOf(rewards),
		MeanHighestTile: meanOf(tiles),
		MaxHighestTile:  maxTile,
		FinalEpsilon:    q.epsilon,
		States:          len(q.table),
		Converged:       q.epsilon <= q.cfg.MinEpsilon,
	}, nil
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}
