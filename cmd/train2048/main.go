// train2048 runs Q-learning episodes against the simulated game and
// writes the trained model to disk.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bot-2048/rl"
	"bot-2048/strategy"
)

func main() {
	_ = godotenv.Load()

	episodes := flag.Int("episodes", 5000, "training episodes")
	maxSteps := flag.Int("max-steps", 1000, "step cap per episode")
	seed := flag.Int64("seed", time.Now().UnixNano(), "environment seed")
	alpha := flag.Float64("learning-rate", 0.1, "Q-learning step size")
	gamma := flag.Float64("discount", 0.95, "discount factor")
	epsilon := flag.Float64("epsilon", 0.5, "starting exploration rate")
	decay := flag.Float64("epsilon-decay", 0.995, "per-episode epsilon multiplier")
	minEps := flag.Float64("min-epsilon", 0.01, "exploration floor")
	out := flag.String("out", "qmodel.json", "model output path")
	resume := flag.String("resume", "", "existing model to continue training")
	logEvery := flag.Int("log-every", 100, "progress log interval, 0 disables")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	cfg := rl.QConfig{
		LearningRate:   *alpha,
		DiscountFactor: *gamma,
		Epsilon:        *epsilon,
		EpsilonDecay:   *decay,
		MinEpsilon:     *minEps,
	}
	q := rl.NewQLearner(cfg, *seed)
	if *resume != "" {
		if err := q.Load(*resume); err != nil {
			if errors.Is(err, rl.ErrModelMissing) {
				log.Warn().Str("path", *resume).Msg("no model to resume, starting fresh")
			} else {
				log.Fatal().Err(err).Msg("loading model")
			}
		} else {
			log.Info().Int("states", q.States()).Msg("resuming from saved model")
		}
	}

	start := time.Now()
	res, err := q.Train(strategy.TrainOptions{
		Episodes: *episodes,
		MaxSteps: *maxSteps,
		Seed:     *seed,
		LogEvery: *logEvery,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("training")
	}

	log.Info().
		Int("episodes", res.Episodes).
		Int("total_episodes", res.TotalEpisodes).
		Float64("mean_reward", res.MeanReward).
		Float64("mean_highest_tile", res.MeanHighestTile).
		Int("max_highest_tile", res.MaxHighestTile).
		Float64("final_epsilon", res.FinalEpsilon).
		Int("states", res.States).
		Bool("converged", res.Converged).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")

	if err := q.Save(*out); err != nil {
		log.Fatal().Err(err).Msg("saving model")
	}
	log.Info().Str("path", *out).Msg("model saved")
}
