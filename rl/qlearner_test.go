package rl

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"bot-2048/grid"
	"bot-2048/strategy"
)

func TestUnseenStateReadsZero(t *testing.T) {
	q := NewQLearner(DefaultQConfig(), 1)
	b := grid.Board{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 2}}
	scores, err := q.MoveScores(b)
	if err != nil {
		t.Fatalf("MoveScores: %v", err)
	}
	if scores != [4]float64{} {
		t.Fatalf("unseen state: got %v, want zeros", scores)
	}
	mv, err := q.NextMove(b)
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if mv != q.tiebreak[0] {
		t.Fatalf("all-zero values must fall back to the tiebreak head, got %v", mv)
	}
}

func TestTrainDecaysEpsilonWithoutNaN(t *testing.T) {
	cfg := DefaultQConfig()
	cfg.Epsilon = 0.5
	cfg.EpsilonDecay = 0.9
	cfg.MinEpsilon = 0.05
	q := NewQLearner(cfg, 42)

	prev := q.Epsilon()
	res, err := q.Train(strategy.TrainOptions{Episodes: 40, MaxSteps: 200, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if q.Epsilon() > prev {
		t.Fatalf("epsilon grew: %v -> %v", prev, q.Epsilon())
	}
	if q.Epsilon() < cfg.MinEpsilon {
		t.Fatalf("epsilon fell through the floor: %v", q.Epsilon())
	}
	// 0.5 * 0.9^40 is far below the floor, so the floor must hold.
	if q.Epsilon() != cfg.MinEpsilon {
		t.Fatalf("epsilon: got %v, want floor %v", q.Epsilon(), cfg.MinEpsilon)
	}
	if !res.Converged {
		t.Fatal("result must report convergence at the floor")
	}
	if res.States == 0 || q.States() == 0 {
		t.Fatal("training filled no states")
	}
	for key, values := range q.table {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite action value for %q: %v", key, values)
			}
		}
	}
	if !q.Trained() {
		t.Fatal("learner not marked trained")
	}
}

func TestTrainAccumulatesEpisodes(t *testing.T) {
	q := NewQLearner(DefaultQConfig(), 7)
	if _, err := q.Train(strategy.TrainOptions{Episodes: 5, MaxSteps: 50, Seed: 7}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	res, err := q.Train(strategy.TrainOptions{Episodes: 5, MaxSteps: 50, Seed: 8})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if res.TotalEpisodes != 10 {
		t.Fatalf("total episodes: got %d, want 10", res.TotalEpisodes)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	q := NewQLearner(DefaultQConfig(), 13)
	if _, err := q.Train(strategy.TrainOptions{Episodes: 10, MaxSteps: 100, Seed: 13}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := q.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewQLearner(QConfig{}, 99)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.States() != q.States() {
		t.Fatalf("table size: got %d, want %d", loaded.States(), q.States())
	}
	if loaded.Epsilon() != q.Epsilon() {
		t.Fatalf("epsilon: got %v, want %v", loaded.Epsilon(), q.Epsilon())
	}
	if loaded.cfg != q.cfg {
		t.Fatalf("config: got %+v, want %+v", loaded.cfg, q.cfg)
	}
	if !loaded.Trained() {
		t.Fatal("loaded model not marked trained")
	}
	// Unseen states still default to zero after a load.
	empty := grid.Board{}
	scores, err := loaded.MoveScores(empty)
	if err != nil {
		t.Fatalf("MoveScores: %v", err)
	}
	if _, tracked := loaded.table[stateKey(empty)]; !tracked && scores != [4]float64{} {
		t.Fatalf("missing state must read zero: %v", scores)
	}
}

func TestLoadErrors(t *testing.T) {
	q := NewQLearner(DefaultQConfig(), 1)
	if err := q.Load(filepath.Join(t.TempDir(), "absent.json")); !errors.Is(err, ErrModelMissing) {
		t.Fatalf("got %v, want ErrModelMissing", err)
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := q.Load(bad); !errors.Is(err, ErrModelCorrupt) {
		t.Fatalf("got %v, want ErrModelCorrupt", err)
	}
}

func TestResetRestoresExploration(t *testing.T) {
	cfg := DefaultQConfig()
	cfg.Epsilon = 0.4
	q := NewQLearner(cfg, 2)
	if _, err := q.Train(strategy.TrainOptions{Episodes: 20, MaxSteps: 50, Seed: 2}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	states := q.States()
	q.Reset()
	if q.Epsilon() != cfg.Epsilon {
		t.Fatalf("epsilon after reset: got %v, want %v", q.Epsilon(), cfg.Epsilon)
	}
	if q.States() != states {
		t.Fatal("reset must keep the learned table")
	}
}
