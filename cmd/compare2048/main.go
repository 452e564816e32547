// compare2048 plays evaluation games for every registered strategy,
// prints the leaderboard and exports the performance report.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bot-2048/engine"
	"bot-2048/rl"
	"bot-2048/selfplay"
	"bot-2048/strategy"
)

func main() {
	_ = godotenv.Load()

	games := flag.Int("games", 20, "games per strategy")
	seed := flag.Int64("seed", time.Now().UnixNano(), "base RNG seed")
	maxMoves := flag.Int("max-moves", 0, "move cap per game, 0 for none")
	model := flag.String("model", os.Getenv("BOT2048_MODEL"), "trained Q-learning model to include")
	report := flag.String("report", "", "performance report output path, empty skips export")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	reg := strategy.NewRegistry()
	if err := registerAll(reg, *model, *seed); err != nil {
		log.Fatal().Err(err).Msg("registering strategies")
	}

	ids := reg.IDs()
	log.Info().Int("strategies", len(ids)).Int("games", *games).Msg("starting evaluation")
	if err := selfplay.Evaluate(reg, ids, selfplay.EvalConfig{
		Games:    *games,
		Seed:     *seed,
		MaxMoves: *maxMoves,
	}); err != nil {
		log.Fatal().Err(err).Msg("evaluation")
	}

	ranked := reg.Rank(strategy.DefaultRankingWeights())
	fmt.Printf("%-4s %-26s %-24s %10s %12s %9s %10s\n",
		"rank", "strategy", "category", "games", "efficiency", "max tile", "consistency")
	for _, e := range ranked {
		fmt.Printf("%-4d %-26s %-24s %10d %12.3f %9d %10.3f\n",
			e.Rank, e.AlgorithmID, e.Category, e.GamesPlayed,
			e.AverageEfficiency, e.HighestTile, e.ConsistencyScore)
	}

	if *report != "" {
		if err := reg.WriteReport(*report, strategy.DefaultRankingWeights()); err != nil {
			log.Fatal().Err(err).Msg("writing report")
		}
		log.Info().Str("path", *report).Msg("report written")
	}
}

func registerAll(reg *strategy.Registry, modelPath string, seed int64) error {
	priority := strategy.NewPriority(strategy.DefaultPriorityOrder)
	if err := reg.Register(priority.Metadata(), func(map[string]any) (strategy.Strategy, error) {
		return strategy.NewPriority(strategy.DefaultPriorityOrder), nil
	}, false); err != nil {
		return err
	}

	heuristic := strategy.NewHeuristic(engine.DefaultWeights())
	if err := reg.Register(heuristic.Metadata(), func(map[string]any) (strategy.Strategy, error) {
		return strategy.NewHeuristic(engine.DefaultWeights()), nil
	}, false); err != nil {
		return err
	}

	random := strategy.NewRandom(seed)
	if err := reg.Register(random.Metadata(), func(map[string]any) (strategy.Strategy, error) {
		return strategy.NewRandom(seed), nil
	}, false); err != nil {
		return err
	}

	learner := rl.NewQLearner(rl.DefaultQConfig(), seed)
	return reg.Register(learner.Metadata(), func(map[string]any) (strategy.Strategy, error) {
		q := rl.NewQLearner(rl.DefaultQConfig(), seed)
		if modelPath != "" {
			if err := q.Load(modelPath); err != nil {
				return nil, err
			}
		}
		return q, nil
	}, false)
}
