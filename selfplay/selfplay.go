// Package selfplay runs strategies through full simulated games and
// feeds the results into the registry for ranking.
package selfplay

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bot-2048/grid"
	"bot-2048/strategy"
)

// Play runs one game from two spawned tiles to a dead board (or the
// move cap, 0 for none). Strategies may return a blocked direction;
// the runner substitutes any legal move, mirroring how a live
// orchestrator keeps the game going.
func Play(s strategy.Strategy, rng *rand.Rand, maxMoves int) (strategy.GameResult, error) {
	var res strategy.GameResult
	var b grid.Board
	b, _ = b.AddRandomTile(rng)
	b, _ = b.AddRandomTile(rng)

	for b.HasMoves() && (maxMoves <= 0 || res.Moves < maxMoves) {
		mv, err := s.NextMove(b)
		if err != nil {
			return res, errors.Wrap(err, "selecting move")
		}
		out := b.Apply(mv)
		if !out.Moved {
			for _, m := range grid.AllMoves {
				if o := b.Apply(m); o.Moved {
					out = o
					break
				}
			}
			if !out.Moved {
				break
			}
		}
		res.Score += out.ScoreDelta
		res.Moves++
		b = out.Board
		if nb, ok := b.AddRandomTile(rng); ok {
			b = nb
		}
	}
	res.HighestTile = b.MaxTile()
	return res, nil
}

// EvalConfig controls an evaluation run.
type EvalConfig struct {
	Games    int
	Seed     int64
	MaxMoves int
}

// Evaluate plays cfg.Games games for each identifier, one goroutine
// per strategy. Every goroutine owns its strategy instance and RNG;
// registry history is written only after all games finish, keeping the
// registry single-writer.
func Evaluate(reg *strategy.Registry, ids []string, cfg EvalConfig) error {
	if cfg.Games <= 0 {
		cfg.Games = 1
	}
	instances := make([]strategy.Strategy, len(ids))
	for i, id := range ids {
		s, err := reg.NewStrategy(id, nil)
		if err != nil {
			return err
		}
		instances[i] = s
	}

	results := make([][]strategy.GameResult, len(ids))
	g := &errgroup.Group{}
	for i := range ids {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			for n := 0; n < cfg.Games; n++ {
				res, err := Play(instances[i], rng, cfg.MaxMoves)
				if err != nil {
					return errors.Wrapf(err, "%s game %d", ids[i], n)
				}
				results[i] = append(results[i], res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, id := range ids {
		for _, res := range results[i] {
			if err := reg.RecordResult(id, res); err != nil {
				return err
			}
		}
		log.Info().
			Str("strategy", id).
			Int("games", len(results[i])).
			Msg("evaluation finished")
	}
	return nil
}
