package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bot-2048/engine"
	"bot-2048/rl"
	"bot-2048/strategy"
)

func main() {
	_ = godotenv.Load()
	level := zerolog.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(s); err == nil {
			level = l
		}
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	reg := strategy.NewRegistry()
	if err := registerDefaults(reg, os.Getenv("BOT2048_MODEL")); err != nil {
		log.Fatal().Err(err).Msg("registering strategies")
	}
	if err := runCLI(reg, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("cli loop")
	}
}

// registerDefaults wires the built-in strategies. When modelPath
// points at a trained Q-learning model the learner factory loads it;
// a missing file just leaves the learner untrained.
func registerDefaults(reg *strategy.Registry, modelPath string) error {
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

	random := strategy.NewRandom(time.Now().UnixNano())
	if err := reg.Register(random.Metadata(), func(map[string]any) (strategy.Strategy, error) {
		return strategy.NewRandom(time.Now().UnixNano()), nil
	}, false); err != nil {
		return err
	}

	learner := rl.NewQLearner(rl.DefaultQConfig(), time.Now().UnixNano())
	return reg.Register(learner.Metadata(), func(map[string]any) (strategy.Strategy, error) {
		q := rl.NewQLearner(rl.DefaultQConfig(), time.Now().UnixNano())
		if modelPath == "" {
			return q, nil
		}
		if err := q.Load(modelPath); err != nil {
			log.Warn().Err(err).Str("path", modelPath).Msg("playing untrained, model not loaded")
		}
		return q, nil
	}, false)
}
