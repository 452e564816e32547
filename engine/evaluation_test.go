package engine

import (
	"math"
	"testing"

	"bot-2048/grid"
)

func TestFeatureValues(t *testing.T) {
	b := grid.Board{
		{2, 4, 8, 16},
		{4, 8, 16, 32},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	if got := EmptyTiles(b); got != 8 {
		t.Errorf("EmptyTiles: got %d, want 8", got)
	}
	// The equal values only touch diagonally, which is not a pair.
	if got := MergePotential(b); got != 0 {
		t.Errorf("MergePotential: got %d, want 0", got)
	}
	pairs := grid.Board{
		{2, 2, 0, 0},
		{4, 0, 0, 0},
		{4, 0, 8, 0},
		{0, 0, 8, 0},
	}
	if got := MergePotential(pairs); got != 3 {
		t.Errorf("MergePotential: got %d, want 3", got)
	}
	if got := CornerBonus(b); got != 0 {
		t.Errorf("CornerBonus: got %v, want 0 (32 is mid-edge)", got)
	}
	if got := MaxTile(b); got != 32 {
		t.Errorf("MaxTile: got %d, want 32", got)
	}
	// Rows 0 and 1 ascend; columns 0-3 ascend (zeros ignored, and the
	// two-tile columns count as monotonic runs).
	if got := Monotonicity(b); got != 6 {
		t.Errorf("Monotonicity: got %d, want 6", got)
	}
}

func TestCornerBonusInCorner(t *testing.T) {
	b := grid.Board{{128, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 4}}
	if got := CornerBonus(b); got != 1 {
		t.Fatalf("CornerBonus: got %v, want 1", got)
	}
	if got := CornerBonus(grid.Board{}); got != 0 {
		t.Fatalf("CornerBonus on empty board: got %v, want 0", got)
	}
}

func TestMonotonicitySingleTileLines(t *testing.T) {
	b := grid.Board{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}
	if got := Monotonicity(b); got != 0 {
		t.Fatalf("lines with one tile must not count: got %d", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	b := grid.Board{{2, 4, 0, 0}, {4, 8, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}
	w := DefaultWeights()
	a, err := Evaluate(b, w)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	bb, err := Evaluate(b, w)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if a != bb {
		t.Fatalf("same inputs gave %v and %v", a, bb)
	}
}

func TestEvaluateScalingPreservesRanking(t *testing.T) {
	base := grid.Board{{2, 2, 4, 0}, {0, 4, 0, 0}, {0, 0, 8, 0}, {2, 0, 0, 0}}
	w := DefaultWeights()
	scaled := Weights{
		EmptyTiles:     w.EmptyTiles * 3,
		MergePotential: w.MergePotential * 3,
		CornerBonus:    w.CornerBonus * 3,
		Monotonicity:   w.Monotonicity * 3,
		MaxTileValue:   w.MaxTileValue * 3,
	}
	type ranked struct {
		move  grid.Move
		plain float64
		big   float64
	}
	var rs []ranked
	for _, m := range grid.AllMoves {
		out := base.Apply(m)
		if !out.Moved {
			continue
		}
		p, err := Evaluate(out.Board, w)
		if err != nil {
			t.Fatal(err)
		}
		s, err := Evaluate(out.Board, scaled)
		if err != nil {
			t.Fatal(err)
		}
		rs = append(rs, ranked{m, p, s})
	}
	for i := range rs {
		for j := range rs {
			if (rs[i].plain < rs[j].plain) != (rs[i].big < rs[j].big) {
				t.Fatalf("scaling changed the order of %v vs %v", rs[i].move, rs[j].move)
			}
		}
	}
}

func TestEvaluateRejectsInvalidBoard(t *testing.T) {
	bad := grid.Board{{3, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}
	if _, err := Evaluate(bad, DefaultWeights()); err == nil {
		t.Fatal("invalid board evaluated without error")
	}
}

func TestWeightsValidate(t *testing.T) {
	w := DefaultWeights()
	if err := w.Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	w.CornerBonus = math.NaN()
	if err := w.Validate(); err == nil {
		t.Fatal("NaN weight accepted")
	}
	w = DefaultWeights()
	w.EmptyTiles = -1
	if err := w.Validate(); err == nil {
		t.Fatal("negative weight accepted")
	}
}
