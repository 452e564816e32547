package engine

import (
	"math"

	"github.com/pkg/errors"

	"bot-2048/grid"
)

// ErrInvalidWeights marks weight sets that cannot be used for scoring.
var ErrInvalidWeights = errors.New("invalid weights")

// Weights is the configuration of the heuristic evaluation. Every term
// is a plain multiplier over the matching feature; see DefaultWeights
// for the tuned baseline.
type Weights struct {
	EmptyTiles     float64 `json:"empty_tiles"`
	MergePotential float64 `json:"merge_potential"`
	CornerBonus    float64 `json:"corner_bonus"`
	Monotonicity   float64 `json:"monotonicity"`
	MaxTileValue   float64 `json:"max_tile_value"`
}

// Validate rejects weight sets containing NaN, infinities or negative
// terms. A zero weight just disables its feature.
func (w Weights) Validate() error {
	terms := map[string]float64{
		"empty_tiles":     w.EmptyTiles,
		"merge_potential": w.MergePotential,
		"corner_bonus":    w.CornerBonus,
		"monotonicity":    w.Monotonicity,
		"max_tile_value":  w.MaxTileValue,
	}
	for name, v := range terms {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidWeights, "%s is not finite", name)
		}
		if v < 0 {
			return errors.Wrapf(ErrInvalidWeights, "%s is negative", name)
		}
	}
	return nil
}

// EmptyTiles counts the zero cells. More room means more ways to keep
// the game alive.
func EmptyTiles(b grid.Board) int {
	return b.EmptyCount()
}

// MergePotential counts orthogonally adjacent equal pairs, each pair
// once. Every pair is a merge available within one move.
func MergePotential(b grid.Board) int {
	n := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b[r][c] == 0 {
				continue
			}
			if c < 3 && b[r][c] == b[r][c+1] {
				n++
			}
			if r < 3 && b[r][c] == b[r+1][c] {
				n++
			}
		}
	}
	return n
}

// CornerBonus is 1 when the largest tile sits in a corner, else 0.
func CornerBonus(b grid.Board) float64 {
	max := b.MaxTile()
	if max == 0 {
		return 0
	}
	if b[0][0] == max || b[0][3] == max || b[3][0] == max || b[3][3] == max {
		return 1
	}
	return 0
}

// lineMonotonic reports whether the non-zero values of a line run in
// one direction, ascending or descending. Lines with fewer than two
// tiles don't count.
func lineMonotonic(line [4]int) bool {
	var vals [4]int
	n := 0
	for _, v := range line {
		if v != 0 {
			vals[n] = v
			n++
		}
	}
	if n < 2 {
		return false
	}
	asc, desc := true, true
	for i := 1; i < n; i++ {
		if vals[i] < vals[i-1] {
			asc = false
		}
		if vals[i] > vals[i-1] {
			desc = false
		}
	}
	return asc || desc
}

// Monotonicity counts the rows and columns whose tiles are sorted in
// either direction, zeros ignored. 8 is a fully organized board.
func Monotonicity(b grid.Board) int {
	n := 0
	for r := 0; r < 4; r++ {
		if lineMonotonic(b[r]) {
			n++
		}
	}
	for c := 0; c < 4; c++ {
		col := [4]int{b[0][c], b[1][c], b[2][c], b[3][c]}
		if lineMonotonic(col) {
			n++
		}
	}
	return n
}

// MaxTile returns the numeric value of the largest tile.
func MaxTile(b grid.Board) int {
	return b.MaxTile()
}

// Evaluate scores a board as the weighted sum of the five features.
// Deterministic for identical inputs; fails only on malformed boards
// or weights.
func Evaluate(b grid.Board, w Weights) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if err := w.Validate(); err != nil {
		return 0, err
	}
	score := float64(EmptyTiles(b)) * w.EmptyTiles
	score += float64(MergePotential(b)) * w.MergePotential
	score += CornerBonus(b) * w.CornerBonus
	score += float64(Monotonicity(b)) * w.Monotonicity
	score += float64(MaxTile(b)) * w.MaxTileValue
	return score, nil
}
