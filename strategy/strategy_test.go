package strategy

import (
	"errors"
	"testing"

	"bot-2048/engine"
	"bot-2048/grid"
)

// The two-tile opening used across the strategy tests.
var openingBoard = grid.Board{
	{2, 0, 0, 0},
	{0, 0, 0, 0},
	{0, 0, 0, 0},
	{0, 0, 0, 2},
}

func TestPriorityPlaysFirstChangingMove(t *testing.T) {
	p := NewPriority([4]grid.Move{grid.MoveUp, grid.MoveLeft, grid.MoveDown, grid.MoveRight})
	mv, err := p.NextMove(openingBoard)
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if mv != grid.MoveUp {
		t.Fatalf("got %v, want UP", mv)
	}
}

func TestPrioritySkipsBlockedDirections(t *testing.T) {
	// Up and Left are both no-ops here; Down moves.
	b := grid.Board{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	p := NewPriority([4]grid.Move{grid.MoveUp, grid.MoveLeft, grid.MoveDown, grid.MoveRight})
	mv, err := p.NextMove(b)
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if mv != grid.MoveDown {
		t.Fatalf("got %v, want DOWN", mv)
	}
}

func TestPriorityReturnsMoveOnDeadBoard(t *testing.T) {
	dead := grid.Board{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 4}, {4, 2, 4, 2}}
	p := NewPriority(DefaultPriorityOrder)
	mv, err := p.NextMove(dead)
	if err != nil {
		t.Fatalf("a dead board is still a valid board: %v", err)
	}
	if mv != p.order[0] {
		t.Fatalf("got %v, want the top priority %v", mv, p.order[0])
	}
}

func TestPriorityMoveScores(t *testing.T) {
	p := NewPriority([4]grid.Move{grid.MoveUp, grid.MoveLeft, grid.MoveDown, grid.MoveRight})
	scores, err := p.MoveScores(openingBoard)
	if err != nil {
		t.Fatalf("MoveScores: %v", err)
	}
	// Keyed to AllMoves: UP, DOWN, LEFT, RIGHT. All four change this
	// board.
	want := [4]float64{100, 80, 90, 70}
	if scores != want {
		t.Fatalf("got %v, want %v", scores, want)
	}
}

func TestPriorityRejectsInvalidBoard(t *testing.T) {
	bad := grid.Board{{7, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}
	p := NewPriority(DefaultPriorityOrder)
	if _, err := p.NextMove(bad); !errors.Is(err, grid.ErrInvalidBoard) {
		t.Fatalf("got %v, want ErrInvalidBoard", err)
	}
}

func TestHeuristicPrefersRoomyMoves(t *testing.T) {
	h := NewHeuristic(engine.DefaultWeights())
	mv, err := h.NextMove(openingBoard)
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	chosen := openingBoard.Apply(mv)
	if !chosen.Moved {
		t.Fatalf("heuristic chose a blocked move %v", mv)
	}
	for _, m := range grid.AllMoves {
		out := openingBoard.Apply(m)
		if !out.Moved {
			continue
		}
		if engine.EmptyTiles(out.Board) > engine.EmptyTiles(chosen.Board) {
			t.Fatalf("move %v leaves more room than the chosen %v", m, mv)
		}
	}
}

func TestHeuristicTieBreakIsPriorityOrder(t *testing.T) {
	// A fully symmetric board scores all four moves identically, so
	// the first tiebreak direction must win.
	b := grid.Board{
		{2, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{2, 0, 0, 2},
	}
	h := NewHeuristic(engine.DefaultWeights())
	mv, err := h.NextMove(b)
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if mv != h.tiebreak[0] {
		t.Fatalf("got %v, want the tiebreak head %v", mv, h.tiebreak[0])
	}
}

func TestRandomReturnsValidMove(t *testing.T) {
	r := NewRandom(11)
	for i := 0; i < 50; i++ {
		mv, err := r.NextMove(openingBoard)
		if err != nil {
			t.Fatalf("NextMove: %v", err)
		}
		if !openingBoard.Apply(mv).Moved {
			t.Fatalf("random strategy chose blocked move %v", mv)
		}
	}
}

func TestNoTrainingHooks(t *testing.T) {
	p := NewPriority(DefaultPriorityOrder)
	if _, err := p.Train(TrainOptions{Episodes: 1}); !errors.Is(err, ErrTrainingUnsupported) {
		t.Fatalf("Train: got %v, want ErrTrainingUnsupported", err)
	}
	if err := p.Save("x"); !errors.Is(err, ErrTrainingUnsupported) {
		t.Fatalf("Save: got %v, want ErrTrainingUnsupported", err)
	}
	if err := p.Load("x"); !errors.Is(err, ErrTrainingUnsupported) {
		t.Fatalf("Load: got %v, want ErrTrainingUnsupported", err)
	}
}

func TestDefaultMoveScoresMarksBlockedMoves(t *testing.T) {
	b := grid.Board{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	scores, err := DefaultMoveScores(b)
	if err != nil {
		t.Fatalf("DefaultMoveScores: %v", err)
	}
	// UP and LEFT are blocked.
	if scores[0] != InvalidMoveScore || scores[2] != InvalidMoveScore {
		t.Fatalf("blocked moves not marked: %v", scores)
	}
	if scores[1] == InvalidMoveScore || scores[3] == InvalidMoveScore {
		t.Fatalf("legal moves marked invalid: %v", scores)
	}
}

func TestPerformanceRecordUpdate(t *testing.T) {
	var rec PerformanceRecord
	rec.Update(GameResult{Score: 120, Moves: 60, HighestTile: 64})
	rec.Update(GameResult{Score: 300, Moves: 90, HighestTile: 32})
	if rec.GamesPlayed != 2 || rec.TotalScore != 420 || rec.TotalMoves != 150 {
		t.Fatalf("bad totals: %+v", rec)
	}
	if rec.HighestTile != 64 {
		t.Fatalf("highest tile: got %d, want 64", rec.HighestTile)
	}
	if got := rec.AverageEfficiency(); got != 2.8 {
		t.Fatalf("efficiency: got %v, want 2.8", got)
	}
}
